package handlers

import (
	"net/http"
	"strings"

	"github.com/vijaynvb/fullstackapp/internal/adapter/http/dto"
	"github.com/vijaynvb/fullstackapp/internal/adapter/http/mapper"
	"github.com/vijaynvb/fullstackapp/internal/adapter/http/middleware"
	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// loginTypeInternal is the only login type this service handles; the web client always
// sends it.
const loginTypeInternal = "INTERNAL"

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if _, ok := decodeBody(c, &req); !ok {
		return
	}

	session, err := h.authService.Signup(c.Request.Context(), domain.SignupInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, err, "failed to sign up")
		return
	}

	c.JSON(http.StatusCreated, mapper.ToAuthResponse(session))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if _, ok := decodeBody(c, &req); !ok {
		return
	}
	if req.Type != "" && !strings.EqualFold(req.Type, loginTypeInternal) {
		respondError(c, domain.NewValidationError("type", domain.ReasonInvalid), "")
		return
	}

	session, err := h.authService.Authenticate(c.Request.Context(), domain.LoginInput{
		Login:    req.Username,
		Password: req.Password,
		Remember: req.RememberMe,
	})
	if err != nil {
		respondError(c, err, "failed to log in")
		return
	}

	c.JSON(http.StatusOK, mapper.ToAuthResponse(session))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.CurrentToken(c)); err != nil {
		respondError(c, err, "failed to log out")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	session, err := h.authService.Refresh(c.Request.Context(), middleware.CurrentToken(c))
	if err != nil {
		respondError(c, err, "failed to refresh session")
		return
	}
	c.JSON(http.StatusOK, mapper.ToAuthResponse(session))
}

func (h *AuthHandler) Me(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, mapper.ToUserItem(caller))
}

// RequestPasswordReset answers 202 whether or not the email is known.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if _, ok := decodeBody(c, &req); !ok {
		return
	}
	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err, "failed to request password reset")
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req dto.PasswordResetConfirmRequest
	if _, ok := decodeBody(c, &req); !ok {
		return
	}
	if err := h.authService.ConfirmPasswordReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondError(c, err, "failed to confirm password reset")
		return
	}
	c.Status(http.StatusNoContent)
}
