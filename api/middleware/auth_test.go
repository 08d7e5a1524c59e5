package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"socialcal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIdentityFromWithoutHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens, err := services.NewTokenService(services.TokenConfig{Secret: []byte("s"), TTL: time.Hour})
	require.NoError(t, err)
	authz := services.NewAuthorizer(tokens, nil, nil, zap.NewNop())

	var gotKind services.Kind
	router := gin.New()
	router.Use(Authenticate(authz))
	router.GET("/", func(c *gin.Context) {
		_, err := IdentityFrom(c)
		gotKind = services.KindOf(err)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, services.Unauthenticated, gotKind)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, services.InvalidToken, gotKind)
}
