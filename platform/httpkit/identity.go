// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity represents the authenticated team member's identity as carried
// by the access token. Handlers resolve the current roster record from it.
type Identity interface {
	// MemberID returns the authenticated member's roster ID.
	MemberID() int64
	// Role returns the role claimed by the token.
	Role() string
	// IsAuthenticated returns true if the request carried a valid token.
	IsAuthenticated() bool
}

type identity struct {
	memberID      int64
	role          string
	authenticated bool
}

func (i *identity) MemberID() int64 {
	return i.memberID
}

func (i *identity) Role() string {
	return i.role
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if member info is not present.
func GetIdentity(c *gin.Context) Identity {
	memberID, ok := c.Get(ContextMemberIDKey)
	if !ok {
		return &identity{}
	}

	id, ok := memberID.(int64)
	if !ok {
		return &identity{}
	}

	role, _ := c.Get(ContextRoleKey)
	roleText, _ := role.(string)

	return &identity{
		memberID:      id,
		role:          roleText,
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the member is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}
