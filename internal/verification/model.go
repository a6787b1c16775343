package verification

import "time"

// PhoneVerification is one issued code and its validity window. A row is written per
// send and only ever mutated to record the first successful check.
type PhoneVerification struct {
	ID         string
	Phone      string
	Code       string
	ContactRef string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	VerifiedAt *time.Time
}

// Verified reports whether the code was confirmed.
func (v PhoneVerification) Verified() bool {
	return v.VerifiedAt != nil
}
