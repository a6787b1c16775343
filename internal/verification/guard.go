package verification

import (
	"context"
	"fmt"

	"github.com/dealerhub/dealerhub/internal/phone"
)

// Checker answers whether a phone has passed verification.
type Checker interface {
	IsVerified(ctx context.Context, rawPhone string) (bool, error)
}

// Guard gates lead submissions on a verified phone.
type Guard struct {
	checker Checker
}

// NewGuard wraps a Checker, usually the verification Service.
func NewGuard(checker Checker) *Guard {
	return &Guard{checker: checker}
}

// Require returns the normalized phone when it is verified and ErrPhoneNotVerified
// otherwise. Callers must persist the returned value, not the raw input.
func (g *Guard) Require(ctx context.Context, rawPhone string) (string, error) {
	normalized := phone.Normalize(rawPhone)
	ok, err := g.checker.IsVerified(ctx, normalized)
	if err != nil {
		return "", fmt.Errorf("check phone verification: %w", err)
	}
	if !ok {
		return "", ErrPhoneNotVerified
	}
	return normalized, nil
}
