package handlers

import (
	"net/http"

	"hunstagram/internal/middleware"
	"hunstagram/internal/services"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// Create - POST /v1/posts
// Multipart: optional "content" and repeated "hashtags" fields plus one or
// more "images" files. At least one image is required.
func (h *PostHandler) Create(c *gin.Context) {
	req := &services.PostRequest{}
	if content := c.PostForm("content"); content != "" {
		req.Content = &content
	}
	req.Hashtags = c.PostFormArray("hashtags")

	var images []services.ImageUpload
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, header := range form.File["images"] {
			image, err := readUpload(header)
			if err != nil {
				Fail(c, err)
				return
			}
			images = append(images, *image)
		}
	}

	if err := h.posts.Create(middleware.UserID(c), req, images); err != nil {
		Fail(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// Update - PATCH /v1/posts/:postId
func (h *PostHandler) Update(c *gin.Context) {
	postID, err := uintParam(c, "postId")
	if err != nil {
		Fail(c, err)
		return
	}
	var req services.PostRequest
	if err := bindJSON(c, &req); err != nil {
		Fail(c, err)
		return
	}
	if err := h.posts.Update(postID, middleware.UserID(c), &req); err != nil {
		Fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Delete - DELETE /v1/posts/:postId
func (h *PostHandler) Delete(c *gin.Context) {
	postID, err := uintParam(c, "postId")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.posts.Delete(postID, middleware.UserID(c)); err != nil {
		Fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Like - POST /v1/posts/:postId/like
func (h *PostHandler) Like(c *gin.Context) {
	postID, err := uintParam(c, "postId")
	if err != nil {
		Fail(c, err)
		return
	}
	resp, err := h.posts.ToggleLike(postID, middleware.UserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
