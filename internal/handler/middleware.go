package handler

import (
	"net/http"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserKey = "user_id"
	contextUserKey = "__current_user"
)

// LoadUser resolves the session user (if any) and stashes it on the gin
// context. Downstream handlers read it via currentUser; the request
// proceeds unauthenticated when the session is empty or invalid.
func (a *API) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		rawID := session.Get(sessionUserKey)
		if rawID == nil {
			c.Next()
			return
		}

		userID, ok := rawID.(uint)
		if !ok || userID == 0 {
			c.Next()
			return
		}

		var user db.User
		if err := a.db.First(&user, userID).Error; err != nil || !user.IsActive {
			c.Next()
			return
		}

		c.Set(contextUserKey, &user)
		c.Next()
	}
}

// AuthRequired rejects unauthenticated requests with 401.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// EditorRequired rejects callers without the editor role.
func EditorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		if !user.IsEditor && !user.IsAdmin {
			respondError(c, http.StatusForbidden, "editor role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentUser 返回 LoadUser 解析出的会话用户，未登录时为 nil。
func currentUser(c *gin.Context) *db.User {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*db.User)
	if !ok {
		return nil
	}
	return user
}
