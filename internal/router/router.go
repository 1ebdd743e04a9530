package router

import (
	"hunstagram/internal/apperr"
	"hunstagram/internal/handlers"
	"hunstagram/internal/middleware"
	"hunstagram/internal/services"
	"hunstagram/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRoutes wires services and handlers and mounts the /v1 API.
func RegisterRoutes(r *gin.Engine, gdb *gorm.DB, tokens *services.TokenService, blobs services.BlobStore) {
	cache := utils.NewCache(512)

	userService := services.NewUserService(gdb, tokens, blobs, cache)
	postService := services.NewPostService(gdb, blobs, cache)
	commentService := services.NewCommentService(gdb)
	followService := services.NewFollowService(gdb, cache)

	userHandler := handlers.NewUserHandler(userService)
	postHandler := handlers.NewPostHandler(postService)
	commentHandler := handlers.NewCommentHandler(commentService)
	followHandler := handlers.NewFollowHandler(followService)

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, apperr.MethodNotAllowed)
	})

	auth := middleware.Auth(tokens)

	v1 := r.Group("/v1")
	{
		// Public routes
		v1.POST("/users", userHandler.Signup)            // signup phase 1
		v1.POST("/users/info", userHandler.SignupInfo)   // signup phase 2
		v1.POST("/users/login", userHandler.Login)       // issue tokens
		v1.POST("/users/refresh", userHandler.Refresh)   // refresh token in Authorization header
		v1.GET("/follow/:userId/follower", followHandler.Followers)
		v1.GET("/follow/:userId/following", followHandler.Following)

		// Protected routes
		authorized := v1.Group("/")
		authorized.Use(auth)
		{
			authorized.POST("/users/logout", userHandler.Logout)
			authorized.GET("/users/profile", userHandler.MyProfile)
			authorized.GET("/users/:userId/profile", userHandler.Profile)
			authorized.PATCH("/users/profile/image", userHandler.ProfileImage)

			authorized.POST("/posts", postHandler.Create)
			authorized.PATCH("/posts/:postId", postHandler.Update)
			authorized.DELETE("/posts/:postId", postHandler.Delete)
			authorized.POST("/posts/:postId/like", postHandler.Like)

			authorized.POST("/comments", commentHandler.Create)
			authorized.DELETE("/comments/:commentId", commentHandler.Delete)
			authorized.POST("/comments/:commentId/like", commentHandler.Like)

			authorized.POST("/follow/:userId", followHandler.Toggle)
		}
	}
}
