// Package auth resolves who is making a mutating request. The middleware
// subpackage stores an Identity on the gin context; handlers read it back.
package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

// Identity is the caller attached to a request. Email is empty when the
// token or header did not carry one.
type Identity struct {
	UserID string
	Email  string
}

// SetIdentity stores id on c. A blank email is not stored.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(CtxUserID, strings.TrimSpace(id.UserID))
	if email := strings.TrimSpace(id.Email); email != "" {
		c.Set(CtxEmail, email)
	}
}

// IdentityFrom returns the caller set by the auth middleware. ok is false
// on routes that run without it.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	uid := UserID(c)
	if uid == "" {
		return Identity{}, false
	}
	return Identity{UserID: uid, Email: c.GetString(CtxEmail)}, true
}

func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}
