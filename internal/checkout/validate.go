package checkout

import (
	"regexp"
	"strings"
)

const (
	msgRequired     = "Required"
	msgInvalidEmail = "Invalid email"
	msgBadCard      = "Card number looks invalid"
	msgBadExpiry    = "Use MM/YY"
	msgBadCVC       = "Use 3 or 4 digits"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	expiryPattern = regexp.MustCompile(`^(0?[1-9]|1[0-2])/\d{2}$`)
	nonDigits     = regexp.MustCompile(`\D`)
)

// Validate applies the checkout field rules and returns a mapping of field
// name to error message. An empty map means the form is valid; submission is
// gated on that.
func Validate(form OrderForm) map[string]string {
	errs := map[string]string{}

	required := []struct {
		field string
		value string
	}{
		{"first_name", form.FirstName},
		{"last_name", form.LastName},
		{"email", form.Email},
		{"address1", form.Address1},
		{"city", form.City},
		{"state", form.State},
		{"postal_code", form.PostalCode},
		{"country", form.Country},
		{"card_name", form.CardName},
		{"card_number", form.CardNumber},
		{"expiry", form.Expiry},
		{"security_code", form.SecurityCode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs[f.field] = msgRequired
		}
	}

	if _, present := errs["email"]; !present {
		if !emailPattern.MatchString(strings.TrimSpace(form.Email)) {
			errs["email"] = msgInvalidEmail
		}
	}

	if _, present := errs["card_number"]; !present {
		digits := nonDigits.ReplaceAllString(form.CardNumber, "")
		if len(digits) < 12 || len(digits) > 19 {
			errs["card_number"] = msgBadCard
		}
	}

	if _, present := errs["expiry"]; !present {
		if !expiryPattern.MatchString(strings.TrimSpace(form.Expiry)) {
			errs["expiry"] = msgBadExpiry
		}
	}

	if _, present := errs["security_code"]; !present {
		digits := nonDigits.ReplaceAllString(form.SecurityCode, "")
		if len(digits) < 3 || len(digits) > 4 {
			errs["security_code"] = msgBadCVC
		}
	}

	return errs
}
