package common

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	inErrors "github.com/Alturino/florist/internal/common/errors"
)

// Identity is what the storefront knows about the signed in user. The
// token is only read here; the backend verifies it on every call.
type Identity struct {
	UserID string
	Token  string
}

func (i Identity) IsAnonymous() bool {
	return i.Token == ""
}

func IdentityFromToken(token string) (Identity, error) {
	if token == "" {
		return Identity{}, nil
	}

	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil {
		return Identity{}, fmt.Errorf("failed parsing token with error=%w", errors.Join(err, inErrors.ErrTokenInvalid))
	}
	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("failed reading subject with error=%w", inErrors.ErrTokenInvalid)
	}
	return Identity{UserID: claims.Subject, Token: token}, nil
}
