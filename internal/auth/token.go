/* Client token issuing and validation for browsers using the web front end */

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	issuer       = "pawplanner-webclient"
	subject      = "browser_client"
	defaultTTL   = 30 * 24 * time.Hour
	minKeyLength = 1
)

var ErrEmptyKey = errors.New("client token key must not be empty")

// ClientClaims identifies one browser. The client id namespaces that
// browser's local storage and selects its controller.
type ClientClaims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenIssuer(key []byte, ttl time.Duration) (*TokenIssuer, error) {
	if len(key) < minKeyLength {
		return nil, ErrEmptyKey
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &TokenIssuer{key: key, ttl: ttl, now: time.Now}, nil
}

func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// NewClient mints a fresh client id and its signed token.
func (i *TokenIssuer) NewClient() (clientID, token string, err error) {
	clientID = uuid.New().String()
	token, err = i.GenerateToken(clientID)
	return clientID, token, err
}

func (i *TokenIssuer) GenerateToken(clientID string) (string, error) {
	now := i.now()
	claims := &ClientClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.key)
}

func (i *TokenIssuer) ValidateToken(tokenString string) (*ClientClaims, error) {
	claims := &ClientClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if _, err := uuid.Parse(claims.ClientID); err != nil {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
