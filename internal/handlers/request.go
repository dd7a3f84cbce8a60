package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"burningbros/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// PageQuery holds the pagination parameters of listing endpoints.
type PageQuery struct {
	Page    int `query:"page" validate:"required,min=1"`
	PerPage int `query:"per_page" validate:"required,min=1,max=100"`
}

// SearchQuery holds the parameters of the search endpoint.
type SearchQuery struct {
	Page    int    `query:"page" validate:"required,min=1"`
	PerPage int    `query:"per_page" validate:"required,min=1,max=100"`
	Q       string `query:"q" validate:"required"`
}

// parseQuery binds and validates query parameters into dst.
func parseQuery(c *fiber.Ctx, dst interface{}) error {
	if err := c.QueryParser(dst); err != nil {
		return validation.Field("query", "type", "Query parameters are malformed")
	}
	return validation.Struct(dst)
}

// decodeJSON decodes a request body into dst, rejecting unknown fields and
// trailing data, then validates it.
func decodeJSON(c *fiber.Ctx, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return bodyError(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return validation.Field("body", "json", "Request body must contain a single JSON object")
	}
	return validation.Struct(dst)
}

func bodyError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return validation.Field("body", "required", "Request body is required")
	case errors.As(err, &typeErr):
		return validation.Field(typeErr.Field, "type", fmt.Sprintf("Field '%s' must be a %s", typeErr.Field, typeErr.Type))
	case errors.As(err, &syntaxErr):
		return validation.Field("body", "json", "Request body is not valid JSON")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return validation.Field(field, "unknown", fmt.Sprintf("Field '%s' is not allowed", field))
	default:
		return validation.Field("body", "json", "Invalid request body")
	}
}
