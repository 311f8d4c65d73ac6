package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// validationError is a request the handlers refuse before touching the store.
type validationError struct {
	message string
	fields  map[string]string
}

func (e *validationError) Error() string {
	if len(e.fields) == 0 {
		return e.message
	}
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + " " + e.fields[name]
	}
	return e.message + ": " + strings.Join(parts, ", ")
}

func invalid(format string, args ...any) error {
	return &validationError{message: fmt.Sprintf(format, args...)}
}

// decodeJSONBody decodes and validates dest. An empty body is accepted only
// when allowEmpty is set, leaving dest at its zero value.
func decodeJSONBody(r *http.Request, dest any, allowEmpty bool) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			return invalid("invalid request body: %v", err)
		}
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		fields := map[string]string{}
		for _, fieldErr := range errs {
			fields[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return &validationError{message: "validation failed", fields: fields}
	}
	return invalid("validation failed: %v", err)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	}
	return "is invalid"
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=customer restaurant delivery"`
}

// addItemRequest adds one unit when quantity is omitted.
type addItemRequest struct {
	MenuItemID string   `json:"menu_item_id" validate:"required"`
	Quantity   *int     `json:"quantity" validate:"omitempty,min=1,max=99"`
	AddonIDs   []string `json:"addon_ids" validate:"omitempty,dive,required"`
}

// quantityRequest sets an absolute quantity; zero or less removes the item.
type quantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=99"`
}

type addressRequest struct {
	AddressID string `json:"address_id" validate:"required"`
}

type placeOrderRequest struct {
	AddressID     string `json:"address_id"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=upi card cod"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}
