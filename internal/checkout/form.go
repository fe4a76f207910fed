package checkout

// OrderForm captures the checkout form: contact, shipping, and mock payment
// fields. Payment fields are never charged; they only pass validation.
type OrderForm struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`

	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`

	CardName     string `json:"card_name"`
	CardNumber   string `json:"card_number"`
	Expiry       string `json:"expiry"`
	SecurityCode string `json:"security_code"`
}
