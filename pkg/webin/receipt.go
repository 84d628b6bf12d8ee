package webin

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Receipt is the registration outcome the Webin service returns after
// processing a submission document.
type Receipt struct {
	XMLName  xml.Name        `xml:"RECEIPT"`
	Success  bool            `xml:"success,attr"`
	Samples  []ReceiptObject `xml:"SAMPLE"`
	Projects []ReceiptObject `xml:"PROJECT"`
	Errors   []string        `xml:"MESSAGES>ERROR"`
}

// ReceiptObject is one registered entity in a receipt.
type ReceiptObject struct {
	Alias     string `xml:"alias,attr"`
	Accession string `xml:"accession,attr"`
}

// ParseReceipt decodes a receipt document.
func ParseReceipt(r io.Reader) (*Receipt, error) {
	receipt := &Receipt{}
	if err := xml.NewDecoder(r).Decode(receipt); err != nil {
		return nil, fmt.Errorf("broken receipt document: %w", err)
	}
	return receipt, nil
}

// Accessions resolves the receipt into an alias → accession map.
//
// Samples carrying an accession are taken as created. ERROR messages
// are run through the existing-sample parser: a match means the sample
// already exists and its accession counts as a success; anything else
// is returned in failures for the caller to log. Registration is never
// retried for failed samples.
func (r *Receipt) Accessions() (accessions map[string]string, failures []string) {
	accessions = map[string]string{}
	for _, sample := range r.Samples {
		if sample.Accession != "" {
			accessions[sample.Alias] = sample.Accession
		}
	}
	for _, message := range r.Errors {
		if alias, accession, ok := ParseExistingSample(message); ok {
			accessions[alias] = accession
			continue
		}
		failures = append(failures, message)
	}
	return accessions, failures
}

// ProjectAccession returns the accession of the project the receipt
// created, or "" when it created none.
func (r *Receipt) ProjectAccession() string {
	for _, project := range r.Projects {
		if project.Accession != "" {
			return project.Accession
		}
	}
	return ""
}
