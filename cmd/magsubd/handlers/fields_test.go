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

func TestFieldCheckHandler(t *testing.T) {

	type when struct {
		contentType string
		body        string
	}
	type then struct {
		statusCode int
		response   *apimeta.FieldCheckResponse
	}

	for name, testcase := range map[string]struct {
		when
		then
	}{
		"a conformant value is valid": {
			when{
				contentType: "application/json",
				body:        `{"field_key": "site_pH", "value": "7.5"}`,
			},
			then{
				statusCode: http.StatusOK,
				response: &apimeta.FieldCheckResponse{
					FieldKey: "site_pH", Value: "7.5", Valid: true,
				},
			},
		},
		"a non-conformant value is invalid and explained": {
			when{
				contentType: "application/json",
				body:        `{"field_key": "site_pH", "value": "15"}`,
			},
			then{
				statusCode: http.StatusOK,
				response: &apimeta.FieldCheckResponse{
					FieldKey: "site_pH", Value: "15", Valid: false,
					Error: "value does not conform to the rule of site_pH",
				},
			},
		},
		"an unknown field key is rejected": {
			when{
				contentType: "application/json",
				body:        `{"field_key": "site_flavor", "value": "x"}`,
			},
			then{statusCode: http.StatusBadRequest},
		},
		"a non-json request is rejected": {
			when{
				contentType: "text/plain",
				body:        `site_pH 7.5`,
			},
			then{statusCode: http.StatusBadRequest},
		},
		"a broken json body is rejected": {
			when{
				contentType: "application/json",
				body:        `{"field_key": `,
			},
			then{statusCode: http.StatusBadRequest},
		},
	} {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			c, resp := httptestutil.Post(
				e, "/api/fields/validate/", strings.NewReader(testcase.when.body),
				httptestutil.ContentType(testcase.when.contentType),
			)

			testee := handlers.FieldCheckHandler()
			err := testee(c)

			if testcase.then.response == nil {
				httperr, ok := err.(*echo.HTTPError)
				if !ok {
					t.Fatalf("expected an http error, but got: %v", err)
				}
				if httperr.Code != testcase.then.statusCode {
					t.Errorf("unexpected status: %d (expected: %d)", httperr.Code, testcase.then.statusCode)
				}
				return
			}

			if err != nil {
				t.Fatalf("handler failed: %v", err)
			}
			if resp.Code != testcase.then.statusCode {
				t.Errorf("unexpected status: %d (expected: %d)", resp.Code, testcase.then.statusCode)
			}

			actual := apimeta.FieldCheckResponse{}
			if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
				t.Fatalf("response is not json: %v", err)
			}
			if actual != *testcase.then.response {
				t.Errorf(
					"unexpected response:\n===actual===\n%+v\n===expected===\n%+v",
					actual, *testcase.then.response,
				)
			}
		})
	}
}
