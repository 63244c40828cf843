package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func authRouter() (*gin.Engine, *uuid.UUID) {
	gin.SetMode(gin.TestMode)
	var seen uuid.UUID
	r := gin.New()
	r.GET("/protected", JWTAuth(testSecret, nil), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		seen = id
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestJWTAuthValidToken(t *testing.T) {
	r, seen := authRouter()
	userID := uuid.New()

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Minute).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, *seen)
}

func TestJWTAuthRejects(t *testing.T) {
	r, _ := authRouter()

	cases := []struct {
		name  string
		setup func(req *http.Request)
	}{
		{
			name:  "missing header",
			setup: func(req *http.Request) {},
		},
		{
			name: "not a bearer token",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Basic abc")
			},
		},
		{
			name: "wrong secret",
			setup: func(req *http.Request) {
				token := signToken(t, []byte("other-secret"), jwt.MapClaims{
					"sub": uuid.NewString(),
					"exp": time.Now().Add(time.Minute).Unix(),
				})
				req.Header.Set("Authorization", "Bearer "+token)
			},
		},
		{
			name: "expired token",
			setup: func(req *http.Request) {
				token := signToken(t, testSecret, jwt.MapClaims{
					"sub": uuid.NewString(),
					"exp": time.Now().Add(-time.Minute).Unix(),
				})
				req.Header.Set("Authorization", "Bearer "+token)
			},
		},
		{
			name: "subject is not a uuid",
			setup: func(req *http.Request) {
				token := signToken(t, testSecret, jwt.MapClaims{
					"sub": "42",
					"exp": time.Now().Add(time.Minute).Unix(),
				})
				req.Header.Set("Authorization", "Bearer "+token)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
