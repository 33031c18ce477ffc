package profile

import (
	"github.com/lunamarket/storefront-client/pkg/types"
)

// Profile is the authenticated user's account record.
type Profile struct {
	ID        types.ID  `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     *string   `json:"phone,omitempty"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	Addresses []Address `json:"addresses,omitempty"`
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	FirstName string  `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string  `json:"lastName" validate:"required,min=1,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	AvatarURL *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

// Address is one saved shipping address.
type Address struct {
	ID         types.ID `json:"id"`
	Label      string   `json:"label,omitempty"`
	Line1      string   `json:"line1"`
	Line2      string   `json:"line2,omitempty"`
	City       string   `json:"city"`
	State      string   `json:"state,omitempty"`
	PostalCode string   `json:"postalCode"`
	Country    string   `json:"country"`
	IsDefault  bool     `json:"isDefault,omitempty"`
}

// AddressRequest carries a new or updated address.
type AddressRequest struct {
	Label      string `json:"label,omitempty" validate:"omitempty,max=60"`
	Line1      string `json:"line1" validate:"required,min=1,max=200"`
	Line2      string `json:"line2,omitempty" validate:"omitempty,max=200"`
	City       string `json:"city" validate:"required,min=1,max=100"`
	State      string `json:"state,omitempty" validate:"omitempty,max=100"`
	PostalCode string `json:"postalCode" validate:"required,min=3,max=20"`
	Country    string `json:"country" validate:"required,len=2"`
	IsDefault  bool   `json:"isDefault,omitempty"`
}
