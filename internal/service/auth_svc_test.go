package service

import (
	"errors"
	"testing"
	"time"

	"github.com/LaGGgggg/SkyLibrary/internal/model"
)

func TestAuthService_SignParseRoundTrip(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", time.Hour)
	user := &model.User{ID: 42, Username: "reader", Role: model.RoleModerator}

	token, err := svc.Sign(user)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, userID, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
	if claims.Username != "reader" {
		t.Errorf("username = %q, want %q", claims.Username, "reader")
	}
	if claims.Role != model.RoleModerator {
		t.Errorf("role = %d, want %d", claims.Role, model.RoleModerator)
	}
}

func TestAuthService_ParseRejectsWrongSecret(t *testing.T) {
	signer := NewAuthService(nil, "secret-a", time.Hour)
	verifier := NewAuthService(nil, "secret-b", time.Hour)

	token, err := signer.Sign(&model.User{ID: 1, Username: "u"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, _, err := verifier.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestAuthService_ParseRejectsExpired(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", -time.Minute)

	token, err := svc.Sign(&model.User{ID: 1, Username: "u"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, _, err := svc.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestAuthService_ParseRejectsGarbage(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", time.Hour)
	if _, _, err := svc.Parse("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
