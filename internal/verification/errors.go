package verification

import "errors"

var (
	// ErrInvalidPhone rejects input with fewer than ten digits before any side effect.
	ErrInvalidPhone = errors.New("phone number must contain at least 10 digits")
	// ErrDeliveryUnavailable means the messaging provider could not be reached or is not
	// configured. No verification row exists.
	ErrDeliveryUnavailable = errors.New("sms delivery is currently unavailable")
	// ErrDeliveryFailed means the row was stored but the text could not be sent.
	ErrDeliveryFailed = errors.New("failed to send verification code")
	// ErrInvalidOrExpiredCode covers both wrong and expired codes.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	// ErrPhoneNotVerified is returned by the Guard.
	ErrPhoneNotVerified = errors.New("phone not verified")

	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("verification not found")
)

// Machine readable codes returned to API clients.
const (
	CodeInvalidPhone         = "INVALID_PHONE"
	CodeDeliveryUnavailable  = "DELIVERY_UNAVAILABLE"
	CodeDeliveryFailed       = "DELIVERY_FAILED"
	CodeInvalidOrExpiredCode = "INVALID_OR_EXPIRED_CODE"
	CodePhoneNotVerified     = "PHONE_NOT_VERIFIED"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrInvalidPhone, CodeInvalidPhone},
	{ErrDeliveryUnavailable, CodeDeliveryUnavailable},
	{ErrDeliveryFailed, CodeDeliveryFailed},
	{ErrInvalidOrExpiredCode, CodeInvalidOrExpiredCode},
	{ErrPhoneNotVerified, CodePhoneNotVerified},
}

// Code returns the client-facing code for a gate error, or "" for anything else.
func Code(err error) string {
	_, code := Classify(err)
	return code
}

// Classify returns the sentinel and code wrapped by err. Callers respond with the
// sentinel's message so provider details stay in the logs.
func Classify(err error) (error, string) {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.err, c.code
		}
	}
	return nil, ""
}
