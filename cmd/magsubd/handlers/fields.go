package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	apierr "github.com/nfdi-tools/magsub/pkg/api/types/errors"
	apimeta "github.com/nfdi-tools/magsub/pkg/api/types/metadata"
	"github.com/nfdi-tools/magsub/pkg/validation"
)

// FieldCheckHandler answers whether a single value conforms to one of the
// well-known field rules.
func FieldCheckHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if mediatype(req.Header.Get("content-type")) != "application/json" {
			return apierr.BadRequest("unexpected content type. it should be application/json")
		}

		payload := new(apimeta.FieldCheckRequest)
		if err := json.NewDecoder(req.Body).Decode(payload); err != nil {
			return apierr.BadRequest("can not understand the requested json", apierr.WithError(err))
		}

		valid, known := validation.CheckFieldValue(payload.FieldKey, payload.Value)
		if !known {
			return apierr.BadRequest(
				fmt.Sprintf("unknown field key: %s", payload.FieldKey),
				apierr.WithAdvice("field keys look like <category>_<field>, e.g. site_pH"),
			)
		}

		resp := apimeta.FieldCheckResponse{
			FieldKey: payload.FieldKey,
			Value:    payload.Value,
			Valid:    valid,
		}
		if !valid {
			resp.Error = fmt.Sprintf("value does not conform to the rule of %s", payload.FieldKey)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func mediatype(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
