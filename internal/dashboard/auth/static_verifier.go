package auth

import (
	"context"
	"crypto/subtle"
)

// DefaultUser is the account served by the reference verifier.
var DefaultUser = User{ID: "1", Name: "Test User", Email: "user@nextmail.com"}

// StaticVerifier grants exactly one configured email and password pair.
// Both are compared byte for byte.
type StaticVerifier struct {
	user     User
	password string
}

// NewStaticVerifier constructs a verifier for user identified by user.Email and password.
func NewStaticVerifier(user User, password string) *StaticVerifier {
	return &StaticVerifier{user: user, password: password}
}

// Verify implements Verifier.
func (v *StaticVerifier) Verify(ctx context.Context, email, password string) (User, bool, error) {
	if err := ctx.Err(); err != nil {
		return User{}, false, err
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(v.user.Email)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.password)) == 1
	if !emailOK || !passwordOK {
		return User{}, false, nil
	}
	return v.user, true, nil
}
