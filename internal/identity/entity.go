// AngelaMos | 2026
// entity.go

package identity

import (
	"time"
)

// User rows hold the verification state inline: code and expiry are both set
// while the account is pending and both cleared once verified.
type User struct {
	ID                      string     `db:"id"`
	Email                   string     `db:"email"`
	PasswordHash            string     `db:"password_hash"`
	FullName                string     `db:"full_name"`
	EmailVerified           bool       `db:"email_verified"`
	VerificationCode        *string    `db:"verification_code"`
	VerificationCodeExpires *time.Time `db:"verification_code_expires"`
	CreatedAt               time.Time  `db:"created_at"`
	UpdatedAt               time.Time  `db:"updated_at"`
}

func (u *User) HasPendingCode() bool {
	return u.VerificationCode != nil && u.VerificationCodeExpires != nil
}

func (u *User) CodeExpired(now time.Time) bool {
	return u.VerificationCodeExpires != nil &&
		now.After(*u.VerificationCodeExpires)
}
