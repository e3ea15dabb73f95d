package order

import (
	"errors"
	"strings"
	"unicode/utf8"

	"orderreview/internal/pkg/errs"
	"orderreview/internal/pkg/guard"
)

// Longest accepted value per address field, in characters.
const (
	maxNameLength  = 255
	maxLineLength  = 255
	maxPlaceLength = 128
	maxCodeLength  = 32
)

var ErrShippingAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"shipping address must be created via NewShippingAddress")

// AddressFields is the raw input of NewShippingAddress.
type AddressFields struct {
	FullName     string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	Phone        string
}

// ShippingAddress is where the order goes. AddressLine2 is optional; Country
// falls back to the store's home country.
type ShippingAddress struct {
	fields AddressFields
	guard  guard.ConstructorGuard
}

// NewShippingAddress trims every field, applies defaultCountry when Country is
// blank and reports all missing or over-long fields at once.
func NewShippingAddress(f AddressFields, defaultCountry string) (ShippingAddress, error) {
	f = AddressFields{
		FullName:     strings.TrimSpace(f.FullName),
		AddressLine1: strings.TrimSpace(f.AddressLine1),
		AddressLine2: strings.TrimSpace(f.AddressLine2),
		City:         strings.TrimSpace(f.City),
		State:        strings.TrimSpace(f.State),
		PostalCode:   strings.TrimSpace(f.PostalCode),
		Country:      strings.TrimSpace(f.Country),
		Phone:        strings.TrimSpace(f.Phone),
	}
	if f.Country == "" {
		f.Country = strings.TrimSpace(defaultCountry)
	}

	fields := []struct {
		name      string
		value     string
		required  bool
		maxLength int
	}{
		{"fullName", f.FullName, true, maxNameLength},
		{"addressLine1", f.AddressLine1, true, maxLineLength},
		{"addressLine2", f.AddressLine2, false, maxLineLength},
		{"city", f.City, true, maxPlaceLength},
		{"state", f.State, true, maxPlaceLength},
		{"postalCode", f.PostalCode, true, maxCodeLength},
		{"country", f.Country, true, maxPlaceLength},
		{"phone", f.Phone, true, maxCodeLength},
	}
	var problems []error
	for _, field := range fields {
		n := utf8.RuneCountInString(field.value)
		switch {
		case n == 0 && field.required:
			problems = append(problems, errs.NewValueIsRequiredError("shippingAddress."+field.name))
		case n > field.maxLength:
			problems = append(problems, errs.NewValueIsOutOfRangeError("shippingAddress."+field.name, n, 0, field.maxLength))
		}
	}
	if err := errors.Join(problems...); err != nil {
		return ShippingAddress{}, err
	}

	return ShippingAddress{fields: f, guard: guard.NewConstructorGuard()}, nil
}

func (a ShippingAddress) Validate() error {
	return a.guard.Validate(ErrShippingAddressIsNotConstructed)
}

// Fields returns a copy of the address parts.
func (a ShippingAddress) Fields() AddressFields {
	return a.fields
}

func (a ShippingAddress) FullName() string { return a.fields.FullName }

func (a ShippingAddress) Phone() string { return a.fields.Phone }

// Lines renders the address the way it is printed on emails.
func (a ShippingAddress) Lines() []string {
	lines := []string{a.fields.FullName, a.fields.AddressLine1}
	if a.fields.AddressLine2 != "" {
		lines = append(lines, a.fields.AddressLine2)
	}
	return append(lines,
		a.fields.City+", "+a.fields.State+" "+a.fields.PostalCode,
		a.fields.Country,
		"Phone: "+a.fields.Phone,
	)
}
