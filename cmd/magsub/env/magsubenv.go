package env

import (
	"os"

	"gopkg.in/yaml.v3"
)

// MagsubEnv carries project-local defaults for validation and submission.
//
// It lives in a "magsubenv" file found near the metadata tables, so a whole
// project shares the same schema files and submission parameters.
type MagsubEnv struct {
	// Checklist is the path of the ENA checklist XML to validate against.
	Checklist string `yaml:"checklist"`

	// FieldSpec is the path of the field specification CSV to validate
	// against. Used when Checklist is empty.
	FieldSpec string `yaml:"fieldspec"`

	// BatchSize caps how many samples go into one registration document.
	BatchSize int `yaml:"batchSize"`

	// CenterName is stamped into each registered sample.
	CenterName string `yaml:"centerName"`

	// WebinCliJar is the path of the webin-cli jar used for assembly upload.
	WebinCliJar string `yaml:"webinCliJar"`
}

func New() *MagsubEnv {
	return new(MagsubEnv)
}

// LoadMagsubEnv reads a MagsubEnv from file.
//
// A missing file is not an error; it yields the zero value, and callers fall
// back to built-in defaults.
func LoadMagsubEnv(filepath string) (*MagsubEnv, error) {

	env := MagsubEnv{}

	content, err := os.ReadFile(filepath)
	if err != nil {
		return &env, nil
	}

	err = yaml.Unmarshal(content, &env)
	if err != nil {
		return nil, err
	}

	return &env, nil
}
