package handlers

import (
	"net/http"

	"hunstagram/internal/middleware"
	"hunstagram/internal/services"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	follows *services.FollowService
}

func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// Toggle - POST /v1/follow/:userId
func (h *FollowHandler) Toggle(c *gin.Context) {
	toUserID, err := uintParam(c, "userId")
	if err != nil {
		Fail(c, err)
		return
	}
	resp, err := h.follows.Toggle(middleware.UserID(c), toUserID)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Followers - GET /v1/follow/:userId/follower
func (h *FollowHandler) Followers(c *gin.Context) {
	userID, err := uintParam(c, "userId")
	if err != nil {
		Fail(c, err)
		return
	}
	list, err := h.follows.Followers(userID, intQuery(c, "page", 0), intQuery(c, "size", 20))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Following - GET /v1/follow/:userId/following
func (h *FollowHandler) Following(c *gin.Context) {
	userID, err := uintParam(c, "userId")
	if err != nil {
		Fail(c, err)
		return
	}
	list, err := h.follows.Following(userID, intQuery(c, "page", 0), intQuery(c, "size", 20))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
