// internal/handlers/auth.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aplv/catalogo-api/internal/services"
	"github.com/aplv/catalogo-api/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req services.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	resp, err := h.authService.LoginWithGoogle(c.Request.Context(), &req)
	if err != nil {
		switch {
		case utils.IsValidationError(err):
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		case errors.Is(err, services.ErrNotAdmin):
			utils.ForbiddenResponse(c, "This account is not allowed to administer the catalog")
		case errors.Is(err, services.ErrInvalidCredential):
			logrus.WithError(err).WithField("ip", c.ClientIP()).Warn("Rejected Google credential")
			utils.UnauthorizedResponse(c, "Invalid Google credential")
		case errors.Is(err, services.ErrAuthNotConfigured):
			utils.ServiceUnavailableResponse(c, "Admin sign-in is not configured")
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	logrus.WithField("email", resp.Email).Info("Admin signed in")
	utils.SuccessResponse(c, resp)
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	email, _ := utils.GetEmailFromContext(c)
	role, _ := utils.GetRoleFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"email": email,
		"name":  c.GetString("name"),
		"role":  role,
	})
}
