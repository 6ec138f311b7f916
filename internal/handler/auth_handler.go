package handler

import (
	"net/http"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"github.com/GTM-04/newsblogbackend/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// Login 校验邮箱密码并建立会话
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "email and password are required") {
		return
	}

	var user db.User
	if err := a.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if !user.IsActive {
		respondError(c, http.StatusUnauthorized, "account is disabled")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, userProfileJSON(&user))
}

// Logout 清除会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (a *API) Me(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, userProfileJSON(user))
}

// UpdateProfile applies partial updates to the caller's profile.
func (a *API) UpdateProfile(c *gin.Context) {
	user := currentUser(c)

	var req profileRequest
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}

	updated, err := a.profiles.UpdateProfile(user.ID, service.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, userProfileJSON(updated))
}

func userProfileJSON(user *db.User) gin.H {
	return gin.H{
		"id":              user.ID,
		"email":           user.Email,
		"first_name":      user.FirstName,
		"last_name":       user.LastName,
		"full_name":       user.FullName(),
		"is_staff":        user.IsStaff,
		"is_editor":       user.IsEditor,
		"is_admin":        user.IsAdmin,
		"date_joined":     user.DateJoined,
		"last_activity":   user.LastActivity,
		"reading_profile": user.ReadingProfile,
	}
}
