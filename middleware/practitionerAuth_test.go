package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"herbimmortal/config"
	"herbimmortal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(revoked *redis.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(PractitionerAuthMiddleware(revoked))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("practitionerID"))
	})
	return r
}

func call(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPractitionerAuthMiddleware(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	r := authRouter(nil)

	token, err := utils.GenerateToken("doctor-1", time.Hour)
	require.NoError(t, err)

	w := call(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "doctor-1", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, call(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, "Token "+token).Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, "Bearer garbage").Code)

	expired, err := utils.GenerateToken("doctor-1", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(r, "Bearer "+expired).Code)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "doctor-1"})
	signed, err := foreign.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(r, "Bearer "+signed).Code)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	signed, err = noSubject.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(r, "Bearer "+signed).Code)
}

func TestPractitionerAuthMiddlewareRevokedTokens(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	r := authRouter(client)

	token, err := utils.GenerateToken("doctor-1", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, call(r, "Bearer "+token).Code)

	require.NoError(t, mr.Set(utils.RevokedTokenPrefix+utils.HashToken(token), "1"))
	assert.Equal(t, http.StatusUnauthorized, call(r, "Bearer "+token).Code)

	// A cache outage does not lock out valid tokens.
	mr.Close()
	other, err := utils.GenerateToken("doctor-2", time.Hour)
	require.NoError(t, err)
	w := call(r, "Bearer "+other)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "doctor-2", w.Body.String())
}
