package team

import (
	"net/http"

	"roofing_crm_backend/internal/team/domain"
	"roofing_crm_backend/internal/team/repository"
	"roofing_crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const contextMemberKey = "teamMember"

// ResolveMember loads the roster record behind the access token. A token
// whose member was deleted, or whose role no longer matches, is rejected.
func ResolveMember(roster *repository.Roster) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := httpkit.MustGetIdentity(c)
		if id == nil {
			return
		}

		member, err := roster.FindByID(id.MemberID())
		if err != nil || string(member.Role) != id.Role() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session no longer valid"})
			return
		}

		c.Set(contextMemberKey, member.User)
		c.Next()
	}
}

// CurrentUser returns the caller resolved by ResolveMember. When absent it
// writes a 401 and reports false.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	value, ok := c.Get(contextMemberKey)
	if ok {
		if user, ok := value.(domain.User); ok {
			return user, true
		}
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	return domain.User{}, false
}
