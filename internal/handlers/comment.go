package handlers

import (
	"net/http"

	"hunstagram/internal/middleware"
	"hunstagram/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Create - POST /v1/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req services.CommentRequest
	if err := bindJSON(c, &req); err != nil {
		Fail(c, err)
		return
	}
	if err := h.comments.Create(middleware.UserID(c), &req); err != nil {
		Fail(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// Delete - DELETE /v1/comments/:commentId
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, err := uintParam(c, "commentId")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.comments.Delete(commentID, middleware.UserID(c)); err != nil {
		Fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Like - POST /v1/comments/:commentId/like
func (h *CommentHandler) Like(c *gin.Context) {
	commentID, err := uintParam(c, "commentId")
	if err != nil {
		Fail(c, err)
		return
	}
	resp, err := h.comments.ToggleLike(commentID, middleware.UserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
