package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "test-secret-key-for-predictable-results"

func TestTokenManager_GenerateToken(t *testing.T) {
	m := NewTokenManager(testSecretKey)

	tests := []struct {
		name     string
		userID   string
		duration time.Duration
	}{
		{
			name:     "success: short lived token",
			userID:   "u1",
			duration: time.Hour,
		},
		{
			name:     "success: long lived token",
			userID:   "leader-42",
			duration: 24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenString, err := m.GenerateToken(tt.userID, tt.duration)
			require.NoError(t, err)
			require.NotEmpty(t, tokenString)

			claims, err := m.VerifyToken(tokenString)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.Subject)
			assert.WithinDuration(t, time.Now().Add(tt.duration), claims.ExpiresAt.Time, time.Second*5)
		})
	}
}

func TestTokenManager_VerifyToken(t *testing.T) {
	m := NewTokenManager(testSecretKey)

	validToken, _ := m.GenerateToken("u1", time.Hour)
	expiredToken, _ := m.GenerateToken("u1", -time.Hour)
	noSubjectToken, _ := m.GenerateToken("", time.Hour)

	tokenWithWrongMethod := jwt.NewWithClaims(jwt.SigningMethodNone, TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	wrongMethodTokenString, _ := tokenWithWrongMethod.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name              string
		manager           *TokenManager
		tokenString       string
		expectError       bool
		expectedErrorType error
	}{
		{
			name:        "success: verify valid token",
			manager:     m,
			tokenString: validToken,
		},
		{
			name:              "failure: expired token",
			manager:           m,
			tokenString:       expiredToken,
			expectError:       true,
			expectedErrorType: ErrExpiredToken,
		},
		{
			name:              "failure: token signed with another secret",
			manager:           NewTokenManager("different-secret-key"),
			tokenString:       validToken,
			expectError:       true,
			expectedErrorType: jwt.ErrTokenSignatureInvalid,
		},
		{
			name:              "failure: malformed token",
			manager:           m,
			tokenString:       "not-a-valid-jwt-token",
			expectError:       true,
			expectedErrorType: jwt.ErrTokenMalformed,
		},
		{
			name:              "failure: wrong signing method",
			manager:           m,
			tokenString:       wrongMethodTokenString,
			expectError:       true,
			expectedErrorType: ErrInvalidSigningMethod,
		},
		{
			name:              "failure: token without subject",
			manager:           m,
			tokenString:       noSubjectToken,
			expectError:       true,
			expectedErrorType: ErrMissingSubject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tt.manager.VerifyToken(tt.tokenString)

			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErrorType)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "u1", claims.Subject)
			}
		})
	}
}

func TestTokenManager_Subject(t *testing.T) {
	m := NewTokenManager(testSecretKey)

	validToken, _ := m.GenerateToken("u7", time.Hour)
	expiredToken, _ := m.GenerateToken("u7", -time.Hour)

	tests := []struct {
		name            string
		tokenString     string
		expectedOK      bool
		expectedSubject string
	}{
		{
			name:            "success: valid token",
			tokenString:     validToken,
			expectedOK:      true,
			expectedSubject: "u7",
		},
		{
			name:        "failure: expired token",
			tokenString: expiredToken,
		},
		{
			name:        "failure: invalid token string",
			tokenString: "invalid-token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, ok := m.Subject(tt.tokenString)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedSubject, subject)
		})
	}
}
