package checkout

import "strings"

// Payment method wire values expected by the upstream API.
const (
	MethodCashOnDelivery = "cod"
	MethodCard           = "stripe"
)

// Draft is the checkout form: shipping details plus the chosen payment
// method.
type Draft struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Address   string `json:"address" validate:"required,max=255"`
	Apartment string `json:"apartment" validate:"max=50"`
	City      string `json:"city" validate:"required,max=100"`
	ZipCode   string `json:"zip_code" validate:"required,max=20"`
	Country   string `json:"country" validate:"required,max=100"`
	Method    string `json:"payment_method" validate:"required,oneof=cod stripe"`
}

// ShippingAddress flattens the address fields into the single string the
// upstream order endpoint expects. The apartment slot is kept even when
// empty so the segment count is stable.
func (d Draft) ShippingAddress() string {
	return strings.Join([]string{
		d.Address,
		d.Apartment,
		d.City,
		d.ZipCode,
		d.Country,
	}, ", ")
}
