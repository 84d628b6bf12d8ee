package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/nfdi-tools/magsub/pkg/api/types/errors"
	apimeta "github.com/nfdi-tools/magsub/pkg/api/types/metadata"
	"github.com/nfdi-tools/magsub/pkg/dataset"
	"github.com/nfdi-tools/magsub/pkg/schema"
	"github.com/nfdi-tools/magsub/pkg/validation"
)

// TableCheckHandler validates a whole metadata table posted as CSV and
// answers the issue report together with a per-cell invalid mask.
func TableCheckHandler(fields *schema.Fields) echo.HandlerFunc {
	engine := validation.New(fields)

	return func(c echo.Context) error {
		req := c.Request()
		switch mediatype(req.Header.Get("content-type")) {
		case "text/csv", "application/csv":
			// ok
		default:
			return apierr.BadRequest("unexpected content type. it should be text/csv")
		}

		d, err := dataset.ReadCSV(req.Body, fields)
		if err != nil {
			return apierr.BadRequest("can not read the table", apierr.WithError(err))
		}

		report := engine.Validate(d)
		issues := make([]apimeta.Issue, 0, len(report.Issues()))
		for _, issue := range report.Issues() {
			issues = append(issues, apimeta.ComposeIssue(issue))
		}

		return c.JSON(http.StatusOK, apimeta.TableCheckResponse{
			Valid:        report.IsEmpty(),
			Issues:       issues,
			CountByField: report.CountByField(),
			Mask:         validation.Mask(d, report),
		})
	}
}
