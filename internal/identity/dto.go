// AngelaMos | 2026
// dto.go

package identity

import (
	"time"
)

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"fullName" validate:"required,min=1,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

type ResendRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type VerifyRequest struct {
	Email            string `json:"email"            validate:"required,email,max=255"`
	VerificationCode string `json:"verificationCode" validate:"required,min=4,max=10"`
}

// RegisterResponse returns the code to the caller in place of email dispatch.
// Demo-only shortcut; a production deployment sends the code out of band.
type RegisterResponse struct {
	VerificationCode string `json:"verificationCode"`
	UserID           string `json:"userId"`
}

type ResendResponse struct {
	VerificationCode string `json:"verificationCode"`
}

type PublicUser struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

type LoginResponse struct {
	User PublicUser `json:"user"`
}

func toPublicUser(u *User) PublicUser {
	return PublicUser{
		ID:            u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
