package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Shared validator instance, safe for concurrent use.
var validate = validator.New()

// DecodeJSON decodes the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest validates v. Types with their own Validate method use
// it; everything else goes through struct tag validation.
func ValidateRequest(v any) error {
	if dv, ok := v.(interface{ Validate() error }); ok {
		return dv.Validate()
	}
	return validate.Struct(v)
}
