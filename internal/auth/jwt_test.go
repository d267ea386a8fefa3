package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkamau/chamapool/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "u-1", Email: "alice@example.com"}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Subject != user.ID {
		t.Errorf("Subject = %q, want %q", claims.Subject, user.ID)
	}
	if claims.Issuer != tokenIssuer {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, tokenIssuer)
	}
}

func TestJWTValidateRejects(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "u-1", Email: "alice@example.com"}

	sign := func(t *testing.T, secret string, claims jwt.Claims) string {
		t.Helper()
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("signing failed: %v", err)
		}
		return signed
	}

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTManager("other-secret", time.Hour).Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := NewJWTManager("test-secret", -time.Minute).Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("foreign issuer", func(t *testing.T) {
		token := sign(t, "test-secret", &Claims{
			UserID: user.ID,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("unsigned token", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
			UserID: user.ID,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("signing failed: %v", err)
		}
		if _, err := m.Validate(unsigned); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})
}
