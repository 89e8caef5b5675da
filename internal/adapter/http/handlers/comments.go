package handlers

import (
	"net/http"

	"github.com/vijaynvb/fullstackapp/internal/adapter/http/dto"
	"github.com/vijaynvb/fullstackapp/internal/adapter/http/mapper"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	commentService ports.CommentService
}

func NewCommentHandler(commentService ports.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) AddComment(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if _, ok := decodeBody(c, &req); !ok {
		return
	}

	taskID := c.Param("id")
	comment, err := h.commentService.AddComment(c.Request.Context(), caller, taskID, req.Text)
	if err != nil {
		respondError(c, err, "failed to add comment", zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusCreated, mapper.ToCommentItem(comment))
}

func (h *CommentHandler) EditComment(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if _, ok := decodeBody(c, &req); !ok {
		return
	}

	taskID, commentID := c.Param("id"), c.Param("commentId")
	comment, err := h.commentService.EditComment(c.Request.Context(), caller, taskID, commentID, req.Text)
	if err != nil {
		respondError(c, err, "failed to edit comment", zap.String("task_id", taskID), zap.String("comment_id", commentID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToCommentItem(comment))
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	taskID, commentID := c.Param("id"), c.Param("commentId")
	if err := h.commentService.DeleteComment(c.Request.Context(), caller, taskID, commentID); err != nil {
		respondError(c, err, "failed to delete comment", zap.String("task_id", taskID), zap.String("comment_id", commentID))
		return
	}

	c.Status(http.StatusNoContent)
}
