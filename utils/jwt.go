package utils

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// SessionTTL is the lifetime of both session markers and bearer tokens.
const SessionTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// TokenSigner issues and checks the HS256 tokens behind session markers.
type TokenSigner struct {
	key []byte
	now func() time.Time
}

func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{key: []byte(secret), now: time.Now}
}

// MarkerClaim wraps one session marker value. Name binds the value to its
// cookie so a user_id token cannot be replayed as user_type.
type MarkerClaim struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	jwt.StandardClaims
}

// JWTClaim is the bearer form carrying both markers at once.
type JWTClaim struct {
	ID   string `json:"id"`
	Kind string `json:"user_type"`
	jwt.StandardClaims
}

func (s *TokenSigner) SignMarker(name, value string) (string, error) {
	now := s.now()
	claims := &MarkerClaim{
		Name:  name,
		Value: value,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(SessionTTL).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

func (s *TokenSigner) ParseMarker(name, signed string) (string, error) {
	claims := &MarkerClaim{}
	if err := s.parse(signed, claims); err != nil {
		return "", err
	}
	if claims.Name != name {
		return "", ErrInvalidToken
	}
	return claims.Value, nil
}

func (s *TokenSigner) GenerateToken(id, kind string) (string, error) {
	now := s.now()
	claims := &JWTClaim{
		ID:   id,
		Kind: kind,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(SessionTTL).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

func (s *TokenSigner) ValidateToken(signed string) (*JWTClaim, error) {
	claims := &JWTClaim{}
	if err := s.parse(signed, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenSigner) parse(signed string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.key, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
