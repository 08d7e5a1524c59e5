package middleware

import (
	"socialcal/services"

	"github.com/gin-gonic/gin"
)

const (
	identityKey  = "identity"
	authErrorKey = "auth_error"
)

// Authenticate resolves the bearer token when one is sent. The outcome is
// left on the context; operations that need a caller read it back with
// IdentityFrom, public operations ignore it.
func Authenticate(authz *services.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		id, err := authz.Authenticate(c.Request.Context(), header)
		if err != nil {
			c.Set(authErrorKey, err)
		} else {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

// IdentityFrom returns the caller set by Authenticate, or why there is none.
func IdentityFrom(c *gin.Context) (*services.Identity, error) {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(*services.Identity); ok {
			return id, nil
		}
	}
	if v, ok := c.Get(authErrorKey); ok {
		if err, ok := v.(error); ok {
			return nil, err
		}
	}
	return nil, &services.Error{Kind: services.Unauthenticated, Message: "authorization header required"}
}
