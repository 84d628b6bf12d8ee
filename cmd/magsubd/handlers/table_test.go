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
)

func TestTableCheckHandler(t *testing.T) {

	t.Run("a table with findings is reported cell by cell", func(t *testing.T) {
		fields := handlerFields(t)

		body := strings.Join([]string{
			"sample_name,tax_id,collection date",
			"mag_001,410658,2013-03-25",
			"mag_002,not-a-taxid,2013-03-25",
			"",
		}, "\n")

		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/api/table/validate/", strings.NewReader(body),
			httptestutil.ContentType("text/csv"),
		)

		testee := handlers.TableCheckHandler(fields)
		if err := testee(c); err != nil {
			t.Fatalf("handler failed: %v", err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("unexpected status: %d", resp.Code)
		}

		actual := apimeta.TableCheckResponse{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not json: %v", err)
		}

		if actual.Valid {
			t.Error("a table with findings should not be valid")
		}

		taxidIssues := []apimeta.Issue{}
		for _, issue := range actual.Issues {
			if issue.Field == "tax_id" {
				taxidIssues = append(taxidIssues, issue)
			}
		}
		if len(taxidIssues) == 0 {
			t.Fatal("the broken tax_id cell should be a finding")
		}
		for _, issue := range taxidIssues {
			if issue.Row == nil || *issue.Row != 1 {
				t.Errorf("the finding should point at row 1: %+v", issue)
			}
		}

		if actual.CountByField["tax_id"] != len(taxidIssues) {
			t.Errorf(
				"count_by_field unmatch: %d (expected: %d)",
				actual.CountByField["tax_id"], len(taxidIssues),
			)
		}

		// mask follows the column order of the posted table
		if len(actual.Mask) != 2 {
			t.Fatalf("mask should cover 2 rows: %d", len(actual.Mask))
		}
		if actual.Mask[0][1] {
			t.Error("a clean cell should not be masked")
		}
		if !actual.Mask[1][1] {
			t.Error("the broken tax_id cell should be masked")
		}
	})

	t.Run("conformant rows leave only table-level findings", func(t *testing.T) {
		fields := handlerFields(t)

		// the schema appends required columns the table does not carry,
		// so only table-level findings remain.
		body := strings.Join([]string{
			"sample_name,tax_id,collection date",
			"mag_001,410658,2013-03-25",
			"",
		}, "\n")

		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/api/table/validate/", strings.NewReader(body),
			httptestutil.ContentType("text/csv"),
		)

		if err := handlers.TableCheckHandler(fields)(c); err != nil {
			t.Fatalf("handler failed: %v", err)
		}

		actual := apimeta.TableCheckResponse{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not json: %v", err)
		}

		for _, issue := range actual.Issues {
			if issue.Row != nil {
				t.Errorf("conformant rows should only leave table-level findings: %+v", issue)
			}
		}
	})

	t.Run("a non-csv request is rejected", func(t *testing.T) {
		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/table/validate/", strings.NewReader("{}"),
			httptestutil.ContentType("application/json"),
		)

		err := handlers.TableCheckHandler(handlerFields(t))(c)
		httperr, ok := err.(*echo.HTTPError)
		if !ok {
			t.Fatalf("expected an http error, but got: %v", err)
		}
		if httperr.Code != http.StatusBadRequest {
			t.Errorf("unexpected status: %d", httperr.Code)
		}
	})

	t.Run("an unreadable table is rejected", func(t *testing.T) {
		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/table/validate/", strings.NewReader("no,known\ncolumns,here\n"),
			httptestutil.ContentType("text/csv"),
		)

		err := handlers.TableCheckHandler(handlerFields(t))(c)
		httperr, ok := err.(*echo.HTTPError)
		if !ok {
			t.Fatalf("expected an http error, but got: %v", err)
		}
		if httperr.Code != http.StatusBadRequest {
			t.Errorf("unexpected status: %d", httperr.Code)
		}
	})
}
