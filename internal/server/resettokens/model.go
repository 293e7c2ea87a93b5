package resettokens

import "time"

// ResetToken is the stored half of a password reset token. The raw secret
// is never persisted; the row keeps only a salted hash of it. UsedAt is nil
// until the token is redeemed.
type ResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	TokenSalt string
	ExpiresAt time.Time
	UsedAt    *time.Time
}
