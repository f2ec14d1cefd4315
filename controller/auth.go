package controller

import (
	"errors"
	"net/http"

	"ecommerce-api/apperror"
	"ecommerce-api/service"
	"ecommerce-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const resetRequestedMessage = "If an account with that email exists, a password reset link has been sent."

type AuthController struct {
	auth   *service.AuthService
	mailer *utils.Mailer
	log    logrus.FieldLogger
}

func NewAuthController(auth *service.AuthService, mailer *utils.Mailer, log logrus.FieldLogger) *AuthController {
	return &AuthController{auth: auth, mailer: mailer, log: log}
}

type tokenForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Token implements the OAuth2 password grant: username is the email.
func (ctl *AuthController) Token(c *gin.Context) {
	var form tokenForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, apperror.Validation("%s", err.Error()))
		return
	}
	ctl.issue(c, form.Username, form.Password)
}

func (ctl *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}
	ctl.issue(c, input.Email, input.Password)
}

func (ctl *AuthController) issue(c *gin.Context, email, password string) {
	token, err := ctl.auth.Login(c.Request.Context(), email, password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

func (ctl *AuthController) ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}

	user, token, err := ctl.auth.IssueResetToken(c.Request.Context(), input.Email)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": resetRequestedMessage})
		return
	}
	if err := ctl.mailer.SendPasswordResetEmail(user.Email, token); err != nil {
		ctl.log.WithError(err).WithField("user_id", user.ID).Error("failed to send password reset email")
	}
	c.JSON(http.StatusOK, gin.H{"message": resetRequestedMessage})
}

func (ctl *AuthController) ResetPassword(c *gin.Context) {
	var input struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}
	if err := ctl.auth.ResetPassword(c.Request.Context(), input.Token, input.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully."})
}
