package handlers

import (
	"net/http"

	"hunstagram/internal/apperr"
	"hunstagram/internal/middleware"
	"hunstagram/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Signup - POST /v1/users
// First signup phase: duplicate-email pre-check only.
func (h *UserHandler) Signup(c *gin.Context) {
	var req services.SignupRequest
	if err := bindJSON(c, &req); err != nil {
		Fail(c, err)
		return
	}
	resp, err := h.users.Signup(&req)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SignupInfo - POST /v1/users/info
// Second signup phase: full profile plus optional profile image, multipart.
func (h *UserHandler) SignupInfo(c *gin.Context) {
	var req services.SignupInfoRequest
	if err := bindForm(c, &req); err != nil {
		Fail(c, err)
		return
	}

	var image *services.ImageUpload
	if header, err := c.FormFile("image"); err == nil {
		image, err = readUpload(header)
		if err != nil {
			Fail(c, err)
			return
		}
	}

	if err := h.users.CompleteSignup(&req, image); err != nil {
		Fail(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login - POST /v1/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		Fail(c, err)
		return
	}
	tokens, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// Refresh - POST /v1/users/refresh
// The refresh token travels in the Authorization header; this endpoint is not
// behind the access-token middleware.
func (h *UserHandler) Refresh(c *gin.Context) {
	token, err := middleware.BearerToken(c)
	if err != nil {
		Fail(c, err)
		return
	}
	tokens, err := h.users.Refresh(token)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// Logout - POST /v1/users/logout
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.users.Logout(middleware.UserID(c)); err != nil {
		Fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// MyProfile - GET /v1/users/profile
func (h *UserHandler) MyProfile(c *gin.Context) {
	profile, err := h.users.MyProfile(middleware.UserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Profile - GET /v1/users/:userId/profile
func (h *UserHandler) Profile(c *gin.Context) {
	targetID, err := uintParam(c, "userId")
	if err != nil {
		Fail(c, err)
		return
	}
	profile, err := h.users.Profile(targetID, middleware.UserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ProfileImage - PATCH /v1/users/profile/image
func (h *UserHandler) ProfileImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		Fail(c, apperr.WithMessage(apperr.InvalidInput, "image file is required"))
		return
	}
	image, err := readUpload(header)
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.users.UpdateProfileImage(middleware.UserID(c), image); err != nil {
		Fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}
