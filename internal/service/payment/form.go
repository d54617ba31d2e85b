package payment

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Form is the checkout form. Card fields are only required for card payments and the wallet number only for mobile money.
type Form struct {
	Method        domain.PaymentMethod `json:"method" validate:"required,oneof=mobile card"`
	FullName      string               `json:"full_name" validate:"required"`
	Email         string               `json:"email" validate:"required,email"`
	Phone         string               `json:"phone" validate:"required"`
	PaymentNumber string               `json:"payment_number" validate:"required_if=Method mobile"`
	CardNumber    string               `json:"card_number" validate:"required_if=Method card"`
	Expiry        string               `json:"expiry" validate:"required_if=Method card"`
	CVV           string               `json:"cvv" validate:"required_if=Method card"`
	CardName      string               `json:"card_name" validate:"required_if=Method card"`
	TermsAgreed   bool                 `json:"terms_agreed" validate:"required"`
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate reports the first missing or malformed field as a domain.ValidationError.
func (f Form) Validate() error {
	err := formValidator.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ValidationError{Msg: err.Error()}
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "email":
		return domain.ValidationError{Field: fe.Field(), Msg: "must be a valid email address"}
	case "oneof":
		return domain.ValidationError{Field: fe.Field(), Msg: fmt.Sprintf("must be one of %s", fe.Param())}
	}
	if fe.Field() == "terms_agreed" {
		return domain.ValidationError{Field: fe.Field(), Msg: "terms must be accepted"}
	}
	return domain.ValidationError{Field: fe.Field(), Msg: "is required"}
}
