package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfdi-tools/magsub/cmd/magsubd/handlers"
	httptestutil "github.com/nfdi-tools/magsub/internal/testutils/http"
	apimeta "github.com/nfdi-tools/magsub/pkg/api/types/metadata"
	"github.com/nfdi-tools/magsub/pkg/schema"
	"github.com/nfdi-tools/magsub/pkg/utils/try"
)

const handlerFieldSpec = `Metadata,regex_pattern,Definition,Expected value OR expected unit of measurement,Example filed field,Structured_pattern
sample_name,/,Name of the sample,free text,mag_bin_001,
tax_id,"^[0-9]{1,9}$",NCBI Taxonomy ID,integer,410658,
collection date,^[0-9]{4}(-[0-9]{2}(-[0-9]{2})?)?$,Date of sampling,ISO 8601,2013-03-25,
`

func handlerFields(t *testing.T) *schema.Fields {
	t.Helper()
	return try.To(schema.LoadFieldSpec(strings.NewReader(handlerFieldSpec))).OrFatal(t)
}

func TestChecklistHandler(t *testing.T) {

	t.Run("it serves field definitions in schema order", func(t *testing.T) {
		fields := handlerFields(t)

		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/checklist/")

		testee := handlers.ChecklistHandler(fields)
		if err := testee(c); err != nil {
			t.Fatalf("handler failed: %v", err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("unexpected status: %d", resp.Code)
		}

		actual := []apimeta.FieldDescription{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not json: %v", err)
		}

		if len(actual) != fields.Len() {
			t.Fatalf("unexpected number of fields: %d (expected: %d)", len(actual), fields.Len())
		}
		for nth, name := range fields.Names()[:3] {
			if actual[nth].Name != name {
				t.Errorf("field #%d: unexpected name: %s (expected: %s)", nth, actual[nth].Name, name)
			}
		}

		taxid := actual[1]
		expected := apimeta.FieldDescription{
			Name:        "tax_id",
			Description: "NCBI Taxonomy ID",
			Expected:    "integer",
			Example:     "410658",
			Required:    true,
			Pattern:     `^[0-9]{1,9}$`,
		}
		if !taxid.Equal(expected) {
			t.Errorf(
				"unexpected field:\n===actual===\n%+v\n===expected===\n%+v",
				taxid, expected,
			)
		}
	})
}
