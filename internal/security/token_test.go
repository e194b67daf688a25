package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"renthub-backend/internal/domain"
)

const testSecret = "test-secret-test-secret-test-secret!"

func signToken(t *testing.T, secret string, claims *UserClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestValidateToken(t *testing.T) {
	m := NewTokenManager(testSecret)

	t.Run("Valid", func(t *testing.T) {
		signed := signToken(t, testSecret, &UserClaims{
			UserID: 1,
			Email:  "renter@example.com",
			Roles:  []string{"USER", "OPERATOR"},
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		claims, err := m.ValidateToken(signed)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), claims.UserID)
		assert.Equal(t, []domain.Role{domain.RoleUser, domain.RoleOperator}, claims.DomainRoles())
	})

	t.Run("Expired", func(t *testing.T) {
		signed := signToken(t, testSecret, &UserClaims{
			UserID: 1,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})

		_, err := m.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		signed := signToken(t, "another-secret-another-secret-aaaaa", &UserClaims{
			UserID: 1,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		_, err := m.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("MissingUserID", func(t *testing.T) {
		signed := signToken(t, testSecret, &UserClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		_, err := m.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := m.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
