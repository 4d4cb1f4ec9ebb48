package helpers

import (
	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa-web/core/session"
)

// DecodeTokenUser extracts display fields from a JWT's payload without verifying
// the signature. The OAuth callback uses it to populate the session immediately;
// the authoritative check is the validation call on the next bootstrap.
func DecodeTokenUser(token string) (session.User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return session.User{}, errors.Wrap(err, "decoding token payload")
	}

	usr := session.User{
		Name:   stringClaim(claims, "name"),
		Email:  stringClaim(claims, "email"),
		Role:   stringClaim(claims, "role"),
		Avatar: stringClaim(claims, "avatar"),
	}
	if id, ok := claims["id"].(float64); ok {
		usr.ID = int(id)
	}
	if usr.ID == 0 || usr.Email == "" {
		return session.User{}, errors.New("token payload missing user fields")
	}
	return usr, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
