package utils

import (
	"testing"
	"time"
)

func TestMarkerRoundTrip(t *testing.T) {
	s := NewTokenSigner("test-secret")

	signed, err := s.SignMarker("user_id", "abc123")
	if err != nil {
		t.Fatalf("SignMarker() error = %v", err)
	}
	got, err := s.ParseMarker("user_id", signed)
	if err != nil || got != "abc123" {
		t.Fatalf("ParseMarker() = (%q, %v)", got, err)
	}
}

func TestMarkerRejections(t *testing.T) {
	s := NewTokenSigner("test-secret")
	signed, _ := s.SignMarker("user_id", "abc123")

	if _, err := s.ParseMarker("user_type", signed); err != ErrInvalidToken {
		t.Errorf("marker accepted under another name: %v", err)
	}
	if _, err := NewTokenSigner("other-secret").ParseMarker("user_id", signed); err != ErrInvalidToken {
		t.Errorf("marker accepted with wrong key: %v", err)
	}
	if _, err := s.ParseMarker("user_id", "abc123"); err != ErrInvalidToken {
		t.Errorf("raw value accepted as marker: %v", err)
	}

	expired := NewTokenSigner("test-secret")
	expired.now = func() time.Time { return time.Now().Add(-SessionTTL - time.Hour) }
	old, _ := expired.SignMarker("user_id", "abc123")
	if _, err := s.ParseMarker("user_id", old); err != ErrInvalidToken {
		t.Errorf("expired marker accepted: %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	s := NewTokenSigner("test-secret")
	token, err := s.GenerateToken("abc123", "staff")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.ID != "abc123" || claims.Kind != "staff" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.ExpiresAt-claims.IssuedAt != int64(SessionTTL.Seconds()) {
		t.Errorf("token lifetime = %ds", claims.ExpiresAt-claims.IssuedAt)
	}
}
