package models

import "time"

// User is the sole persisted entity: a registered account identified by e-mail.
// PasswordHash and PasswordSalt are always written together; the salt is the
// HMAC key used to produce the hash.
type User struct {
	BaseModel

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash []byte `gorm:"not null" json:"-"`
	PasswordSalt []byte `gorm:"not null" json:"-"`

	// VerificationToken is issued at registration and cleared once the account
	// is verified. VerifiedAt gates login and is set at most once.
	VerificationToken *string    `gorm:"index" json:"-"`
	VerifiedAt        *time.Time `json:"verified_at"`

	// PasswordResetToken is valid strictly before ResetTokenExpires; both are
	// cleared after a successful reset.
	PasswordResetToken *string    `gorm:"index" json:"-"`
	ResetTokenExpires  *time.Time `json:"-"`
}

// IsVerified reports whether the account has completed e-mail verification.
func (u *User) IsVerified() bool {
	return u.VerifiedAt != nil
}
