package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	User        UserInfo  `json:"user"`
	AccessToken string    `json:"accessToken"`
	LastUpdated time.Time `json:"lastUpdated"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with HS256.
type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodec returns a codec for key. Tokens expire ttl after signing.
func NewCodec(key []byte, ttl time.Duration) *Codec {
	return &Codec{key: key, ttl: ttl, now: time.Now}
}

// Encode signs s and returns the compact token and its expiry.
func (c *Codec) Encode(s Session) (string, time.Time, error) {
	now := c.now()
	exp := now.Add(c.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		User:        s.User,
		AccessToken: s.AccessToken,
		LastUpdated: s.LastUpdated,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, exp.Truncate(time.Second), nil
}

// Decode verifies token and returns the session it carries.
func (c *Codec) Decode(token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	var cl claims
	parsed, err := jwt.ParseWithClaims(token, &cl,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalid
	}
	return &Session{User: cl.User, AccessToken: cl.AccessToken, LastUpdated: cl.LastUpdated}, nil
}
