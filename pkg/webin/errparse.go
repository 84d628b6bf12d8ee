package webin

import "regexp"

// existingSample recognizes the free-text error the service emits for
// a sample that was registered before, e.g.
//
//	In sample, alias: "mag_001". The object being added already
//	exists in the submission account with accession: "ERS0000001".
//
// The grammar is exactly this: an alias in double quotes after
// `alias: `, then anywhere later an accession in double quotes after
// `accession: `. Both captures are non-greedy up to the closing quote.
var existingSample = regexp.MustCompile(`alias: "(.+?)".*accession: "(.+?)"`)

// ParseExistingSample extracts the (alias, accession) pair from an
// already-exists error message. ok is false when the message does not
// have that shape; such messages are real submission errors.
func ParseExistingSample(message string) (alias string, accession string, ok bool) {
	match := existingSample.FindStringSubmatch(message)
	if match == nil {
		return "", "", false
	}
	return match[1], match[2], true
}
