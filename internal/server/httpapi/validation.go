package httpapi

import (
	"bytes"
	"encoding/json"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("jsonobject", validateJSONObject)
	}
}

// validateJSONObject accepts raw payloads that are valid JSON objects.
// Arrays, scalars, and malformed JSON are rejected; empty payloads pass
// only when combined with omitempty.
func validateJSONObject(fl validator.FieldLevel) bool {
	raw, ok := fl.Field().Interface().(json.RawMessage)
	if !ok {
		return false
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return true
	}
	return trimmed[0] == '{' && json.Valid(trimmed)
}
