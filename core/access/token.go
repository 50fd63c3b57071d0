/*Package access provides token-based authentication and the
authorization middleware chain for the jobster API.

A token is a signed JWT carrying a username claim. There is no
server-side session state: "logged in" means "holds a validly-signed
token". Tokens carry no expiry; rotating the shared secret is the only
way to invalidate them.
*/
package access

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// Tokens issues and verifies the signed username tokens. The secret is
// process-wide configuration, injected at start.
type Tokens struct {
	Secret []byte
}

// Claims is the token payload. Only the username claim is set.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issue signs a token asserting the given username.
func (t Tokens) Issue(username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: username})
	return token.SignedString(t.Secret)
}

// Verify validates the token signature and returns the username claim.
// Malformed or badly signed tokens fail with an error; the caller maps
// any failure to the uniform unauthorized outcome.
func (t Tokens) Verify(tokenString string) (string, error) {
	if len(tokenString) == 0 {
		return "", errors.New("no token")
	}
	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.Secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || len(claims.Username) == 0 {
		return "", errors.New("invalid token")
	}
	return claims.Username, nil
}
