package auth

import (
	"github.com/lunamarket/storefront-client/pkg/types"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest captures the signup form.
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
}

// User is the minimal profile cached locally after authentication.
type User struct {
	ID        types.ID `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Phone     *string  `json:"phone,omitempty"`
	AvatarURL *string  `json:"avatarUrl,omitempty"`
}

// Session is the result of a successful login or registration.
type Session struct {
	User           *User  `json:"user,omitempty"`
	AccessToken    string `json:"accessToken"`
	RefreshToken   string `json:"refreshToken"`
	MerchantLinked bool   `json:"merchantLinked"`
}
