package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nfdi-tools/magsub/pkg/schema"
)

// CheckPattern tests a non-empty value against the field's pattern.
//
// Empty values are tolerated here (the required pass owns them). A
// field whose pattern did not compile fails every non-empty value with
// a configuration-error message rather than passing silently.
func CheckPattern(def schema.FieldDefinition, value string) (message string, ok bool) {
	if value == "" || !def.HasPattern() {
		return "", true
	}
	if def.BadPattern {
		return fmt.Sprintf("cannot check %q: schema pattern %q does not compile", def.Name, def.PatternSrc), false
	}
	if !def.Pattern.MatchString(value) {
		return fmt.Sprintf("pattern mismatch: %s", def.PatternSrc), false
	}
	return "", true
}

// CheckEnum tests a non-empty value for membership in the field's
// closed vocabulary.
func CheckEnum(def schema.FieldDefinition, value string) (message string, ok bool) {
	if value == "" || len(def.Enum) == 0 {
		return "", true
	}
	for _, allowed := range def.Enum {
		if value == allowed {
			return "", true
		}
	}
	return fmt.Sprintf("value not in the allowed vocabulary of %q", def.Name), false
}

var (
	envoShape  = regexp.MustCompile(`\A(?:ENVO:)?[0-9]{7}\z`)
	chebiShape = regexp.MustCompile(`\A(?:CHEBI:)?[0-9]{1,6}\z`)
	taxidShape = regexp.MustCompile(`\A[0-9]{1,9}\z`)
)

// EnvoLike reports whether the value has the shape of an EnvO term id:
// an optional "ENVO:" prefix and exactly 7 digits.
func EnvoLike(value string) bool {
	return envoShape.MatchString(strings.TrimSpace(value))
}

// ChebiLike reports whether the value has the shape of a ChEBI term
// id, optionally followed by ";timestamp" which is ignored.
func ChebiLike(value string) bool {
	head, _, _ := strings.Cut(strings.TrimSpace(value), ";")
	return chebiShape.MatchString(head)
}

// TaxIDLike reports whether the value has the shape of an NCBI
// Taxonomy id (1 to 9 digits).
func TaxIDLike(value string) bool {
	return taxidShape.MatchString(strings.TrimSpace(value))
}
