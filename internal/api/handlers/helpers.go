package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report errors under the json field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// DecodeJSON decodes a request body strictly, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	// Trailing garbage after the JSON document is also a bad request.
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("unexpected data after JSON body")
	}
	return nil
}

// ValidateStruct runs tag validation and translates failures into the
// field -> messages map the API returns for 400s.
func ValidateStruct(value interface{}) map[string][]string {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string][]string{"non_field_errors": {"Invalid input."}}
	}

	fields := make(map[string][]string, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		if field == "" {
			field = "non_field_errors"
		}
		fields[field] = append(fields[field], validationMessage(fe))
	}
	return fields
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Value must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "hexcolor":
		return "Enter a valid hex color code."
	case "datetime":
		return "Date has wrong format. Use YYYY-MM-DD."
	}
	return "Invalid value."
}
