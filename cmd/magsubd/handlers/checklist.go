package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apimeta "github.com/nfdi-tools/magsub/pkg/api/types/metadata"
	"github.com/nfdi-tools/magsub/pkg/schema"
)

// ChecklistHandler serves the field definitions the server validates
// against, in schema order, for UI column configuration.
func ChecklistHandler(fields *schema.Fields) echo.HandlerFunc {
	descriptions := make([]apimeta.FieldDescription, 0, fields.Len())
	for _, name := range fields.Names() {
		def, _ := fields.Get(name)
		descriptions = append(descriptions, apimeta.ComposeFieldDescription(def))
	}

	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, descriptions)
	}
}
