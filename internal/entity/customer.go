package entity

import (
	"regexp"
	"strings"
)

// CustomerInfo is the guest-checkout delivery form, validated in full before
// a payment session may be created. It is snapshotted onto the order.
type CustomerInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern  = regexp.MustCompile(`^[6-9]\d{9}$`)
	postalPattern = regexp.MustCompile(`^\d{6}$`)
)

// States is the enumerated list accepted by the delivery form.
var States = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
	"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya",
	"Mizoram", "Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim",
	"Tamil Nadu", "Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand",
	"West Bengal", "Andaman and Nicobar Islands", "Chandigarh",
	"Dadra and Nagar Haveli and Daman and Diu", "Delhi",
	"Jammu and Kashmir", "Ladakh", "Lakshadweep", "Puducherry",
}

// Validate checks every field and returns a ValidationError naming the first
// failing one, or nil when the form is complete and well formed.
func (c CustomerInfo) Validate() *ValidationError {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(c.Email) == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailPattern.MatchString(c.Email) {
		return &ValidationError{Field: "email", Message: "email is not valid"}
	}
	if strings.TrimSpace(c.Phone) == "" {
		return &ValidationError{Field: "phone", Message: "phone is required"}
	}
	if !phonePattern.MatchString(c.Phone) {
		return &ValidationError{Field: "phone", Message: "phone must be a 10 digit number starting with 6-9"}
	}
	if strings.TrimSpace(c.Address) == "" {
		return &ValidationError{Field: "address", Message: "address is required"}
	}
	if strings.TrimSpace(c.City) == "" {
		return &ValidationError{Field: "city", Message: "city is required"}
	}
	if !validState(c.State) {
		return &ValidationError{Field: "state", Message: "state is not in the list of serviceable states"}
	}
	if !postalPattern.MatchString(c.PostalCode) {
		return &ValidationError{Field: "postal_code", Message: "postal code must be a 6 digit number"}
	}
	return nil
}

func validState(state string) bool {
	for _, s := range States {
		if s == state {
			return true
		}
	}
	return false
}
