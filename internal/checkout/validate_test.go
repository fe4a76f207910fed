package checkout

import "testing"

func validForm() OrderForm {
	return OrderForm{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		Address1:     "1 Analytical Way",
		City:         "London",
		State:        "LDN",
		PostalCode:   "E1 6AN",
		Country:      "GB",
		CardName:     "Ada Lovelace",
		CardNumber:   "4111 1111 1111 1111",
		Expiry:       "09/27",
		SecurityCode: "123",
	}
}

func TestValidateFullyValidForm(t *testing.T) {
	errs := Validate(validForm())
	if len(errs) != 0 {
		t.Fatalf("expected empty error mapping, got %v", errs)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	form := validForm()
	form.FirstName = ""
	form.City = "   "

	errs := Validate(form)
	if errs["first_name"] != "Required" {
		t.Fatalf("expected first_name Required, got %q", errs["first_name"])
	}
	if errs["city"] != "Required" {
		t.Fatalf("whitespace-only city should be Required, got %q", errs["city"])
	}
}

func TestValidateEmail(t *testing.T) {
	form := validForm()
	form.Email = "not-an-email"
	if errs := Validate(form); errs["email"] != "Invalid email" {
		t.Fatalf("expected Invalid email, got %q", errs["email"])
	}

	form.Email = "user@domain.tld"
	if errs := Validate(form); errs["email"] != "" {
		t.Fatalf("valid email should pass, got %q", errs["email"])
	}
}

func TestValidateCardNumber(t *testing.T) {
	tests := []struct {
		number string
		wantOK bool
	}{
		{"123", false},
		{"4111111111111111", true},
		{"4111-1111-1111-1111", true},
		// 12 and 19 digits are the inclusive bounds.
		{"411111111111", true},
		{"41111111111", false},
		{"4111111111111111111", true},
		{"41111111111111111111", false},
		{"abcd efgh", false},
	}
	for _, tt := range tests {
		form := validForm()
		form.CardNumber = tt.number
		_, hasErr := Validate(form)["card_number"]
		if tt.wantOK && hasErr {
			t.Fatalf("card %q should be accepted", tt.number)
		}
		if !tt.wantOK && !hasErr {
			t.Fatalf("card %q should be rejected", tt.number)
		}
	}
}

func TestValidateExpiry(t *testing.T) {
	tests := []struct {
		expiry string
		wantOK bool
	}{
		{"09/27", true},
		{"9/27", true}, // leading zero optional
		{"12/30", true},
		{"13/25", false},
		{"00/25", false},
		{"09/271", false},
		{"0927", false},
	}
	for _, tt := range tests {
		form := validForm()
		form.Expiry = tt.expiry
		errMsg, hasErr := Validate(form)["expiry"]
		if tt.wantOK && hasErr {
			t.Fatalf("expiry %q should be accepted, got %q", tt.expiry, errMsg)
		}
		if !tt.wantOK {
			if !hasErr {
				t.Fatalf("expiry %q should be rejected", tt.expiry)
			}
			if errMsg != "Use MM/YY" {
				t.Fatalf("expected Use MM/YY for %q, got %q", tt.expiry, errMsg)
			}
		}
	}
}

func TestValidateSecurityCode(t *testing.T) {
	tests := []struct {
		code   string
		wantOK bool
	}{
		{"123", true},
		{"1234", true},
		{"12", false},
		{"12345", false},
		{"12a3", true}, // non-digits stripped before length check
	}
	for _, tt := range tests {
		form := validForm()
		form.SecurityCode = tt.code
		_, hasErr := Validate(form)["security_code"]
		if tt.wantOK && hasErr {
			t.Fatalf("code %q should be accepted", tt.code)
		}
		if !tt.wantOK && !hasErr {
			t.Fatalf("code %q should be rejected", tt.code)
		}
	}
}
