package handlers

import (
	"net/mail"
	"strings"
	"time"
)

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

const minPasswordLength = 4

func validateProduct(p ProductRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Description: "Name is required"})
	}
	if p.Price < 0 {
		errs = append(errs, ValidationError{Field: "price", Description: "Price cannot be negative"})
	}
	if p.Quantity < 0 {
		errs = append(errs, ValidationError{Field: "quantity", Description: "Quantity cannot be negative"})
	}
	if p.Minimum != nil && *p.Minimum < 0 {
		errs = append(errs, ValidationError{Field: "minimum", Description: "Minimum cannot be negative"})
	}
	if p.ExpiresAt != "" {
		if _, err := time.Parse(time.DateOnly, p.ExpiresAt); err != nil {
			errs = append(errs, ValidationError{Field: "expires_at", Description: "Expiry date must be YYYY-MM-DD"})
		}
	}
	return errs
}

func validateClient(c ClientRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Description: "Name is required"})
	}
	if addr, err := mail.ParseAddress(c.Email); err != nil || addr.Address != strings.TrimSpace(c.Email) {
		errs = append(errs, ValidationError{Field: "email", Description: "A valid e-mail is required"})
	}
	return errs
}

func validateRegistration(c CredentialsRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(c.Username) == "" || c.Password == "" || c.ConfirmPassword == "" {
		errs = append(errs, ValidationError{Field: "username", Description: "All fields are required"})
		return errs
	}
	if len(c.Password) < minPasswordLength {
		errs = append(errs, ValidationError{Field: "password", Description: "Password must have at least 4 characters"})
	}
	if c.Password != c.ConfirmPassword {
		errs = append(errs, ValidationError{Field: "confirm_password", Description: "Passwords do not match"})
	}
	return errs
}
