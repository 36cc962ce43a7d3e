package handlers

import (
	"errors"
	"net/http"
	"strings"
	"updoot/internal/db"
	"updoot/internal/models"
	"updoot/internal/services"
	"updoot/internal/utils"
	"updoot/internal/validate"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	mailService *services.MailService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		mailService: services.NewMailService(),
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fieldErrors(c, http.StatusBadRequest, validate.FieldError{Field: "request", Message: "Invalid JSON body"})
		return
	}

	if errs := validate.Register(req.Username, req.Email, req.Password); len(errs) > 0 {
		fieldErrors(c, http.StatusBadRequest, errs...)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		serverError(c)
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			fieldErrors(c, http.StatusConflict, h.takenField(req.Username))
			return
		}
		serverError(c)
		return
	}

	h.mailService.SendWelcomeEmail(user.Email, user.Username)

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// takenField decides which unique column the duplicate-key error was about.
func (h *AuthHandler) takenField(username string) validate.FieldError {
	var count int64
	db.DB.Model(&models.User{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		return validate.ReasonUsernameTaken.FieldError()
	}
	return validate.ReasonEmailTaken.FieldError()
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fieldErrors(c, http.StatusBadRequest, validate.FieldError{Field: "request", Message: "Invalid JSON body"})
		return
	}

	column := "username"
	if strings.Contains(req.UsernameOrEmail, "@") {
		column = "email"
	}

	var user models.User
	if err := db.DB.Where(column+" = ?", req.UsernameOrEmail).First(&user).Error; err != nil {
		fieldErrors(c, http.StatusUnauthorized, validate.ReasonUnknownUser.FieldError())
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		fieldErrors(c, http.StatusUnauthorized, validate.ReasonWrongPassword.FieldError())
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me returns the session user, or null when not logged in.
func (h *AuthHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword mails a one-time reset code. The response is the same
// whether or not the address exists, so it can't be used to probe accounts.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fieldErrors(c, http.StatusBadRequest, validate.FieldError{Field: "request", Message: "Invalid JSON body"})
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", req.Email).First(&user).Error; err == nil {
		code := utils.GenerateRandomCode(6)
		user.VerifyCode = code
		db.DB.Save(&user)
		h.mailService.SendPasswordResetEmail(user.Email, code)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type resetPasswordRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fieldErrors(c, http.StatusBadRequest, validate.FieldError{Field: "request", Message: "Invalid JSON body"})
		return
	}

	if errs := validate.Password(req.Password); len(errs) > 0 {
		fieldErrors(c, http.StatusBadRequest, errs...)
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		fieldErrors(c, http.StatusBadRequest, validate.ReasonBadResetCode.FieldError())
		return
	}

	if user.VerifyCode == "" || user.VerifyCode != req.Code {
		fieldErrors(c, http.StatusBadRequest, validate.ReasonBadResetCode.FieldError())
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		serverError(c)
		return
	}
	user.Password = hash
	user.VerifyCode = "" // Clear code
	db.DB.Save(&user)

	// Log the user in right after a successful reset
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": user})
}
