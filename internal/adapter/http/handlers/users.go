package handlers

import (
	"net/http"
	"strings"

	"github.com/vijaynvb/fullstackapp/internal/adapter/http/dto"
	"github.com/vijaynvb/fullstackapp/internal/adapter/http/mapper"
	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "failed to list users")
		return
	}

	c.JSON(http.StatusOK, mapper.ToUserItems(users))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	userID := c.Param("id")
	user, err := h.userService.GetUser(c.Request.Context(), caller, userID)
	if err != nil {
		respondError(c, err, "failed to get user", zap.String("user_id", userID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToUserItem(user))
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if _, ok := decodeBody(c, &req); !ok {
		return
	}
	if req.Role == nil && req.Active == nil {
		respondError(c, domain.NewValidationError("body", domain.ReasonRequired), "")
		return
	}

	var input domain.UserUpdateInput
	if req.Role != nil {
		role := domain.Role(strings.ToUpper(strings.TrimSpace(*req.Role)))
		input.Role = &role
	}
	input.Active = req.Active

	userID := c.Param("id")
	user, err := h.userService.UpdateUser(c.Request.Context(), caller, userID, input)
	if err != nil {
		respondError(c, err, "failed to update user", zap.String("user_id", userID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToUserItem(user))
}
