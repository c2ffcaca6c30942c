package sessionclient

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// LoginPayload are the credentials posted to the gateway's login endpoint.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(
			&p.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&p.Password,
			validation.Required,
		),
	)
}

// RegisterPayload is the profile posted to the gateway's register endpoint.
// Phone is optional; when present it must parse as a real number.
type RegisterPayload struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Validate will run validation rules
func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(&p.Phone, validation.By(validatePhone)),
	)
}

func validatePhone(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}

	number, err := phonenumbers.Parse(raw, "US")
	if err != nil {
		return fmt.Errorf("must be a valid phone number")
	}

	if !phonenumbers.IsValidNumber(number) {
		return fmt.Errorf("must be a valid phone number")
	}

	return nil
}
