package authsdk

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestParseToken(t *testing.T) {
	userID := uuid.New()
	validToken, err := GenerateToken(userID, "aluno@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	expiredToken, err := GenerateToken(userID, "aluno@example.com", testSecret, -time.Minute)
	require.NoError(t, err)

	wrongSecretToken, err := GenerateToken(userID, "aluno@example.com", "another-secret", time.Hour)
	require.NoError(t, err)

	badSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	badSubjectToken, err := badSubject.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name      string
		token     string
		expectErr error
	}{
		{"解析有效的令牌", validToken, nil},
		{"解析空令牌", "", ErrNoToken},
		{"解析过期令牌", expiredToken, ErrExpiredToken},
		{"签名密钥不匹配", wrongSecretToken, ErrInvalidToken},
		{"sub 不是 UUID", badSubjectToken, ErrInvalidToken},
		{"格式错误的令牌", "not-a-jwt-token", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := ParseToken(tt.token, testSecret)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, user.UserID)
			assert.Equal(t, "aluno@example.com", user.Email)
		})
	}
}

func TestExtractTokenFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(r *http.Request)
		want      string
		expectErr error
	}{
		{
			name:  "cookie 优先",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "from-cookie"})
				r.Header.Set("Authorization", "Bearer from-header")
			},
			want: "from-cookie",
		},
		{
			name:  "Bearer header",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer from-header") },
			want:  "from-header",
		},
		{
			name:      "缺少令牌",
			setup:     func(r *http.Request) {},
			expectErr: ErrNoToken,
		},
		{
			name:      "格式错误",
			setup:     func(r *http.Request) { r.Header.Set("Authorization", "Token abc") },
			expectErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(r)

			token, err := ExtractTokenFromRequest(r)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}
