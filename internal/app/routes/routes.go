package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/gradlink/alumni/internal/app/controllers"
	"github.com/gradlink/alumni/internal/middleware"
	"github.com/gradlink/alumni/internal/pkg/websocket"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth      *controllers.AuthController
	User      *controllers.UserController
	Directory *controllers.DirectoryController
	Network   *controllers.NetworkController
	Event     *controllers.EventController
	Job       *controllers.JobController
	Post      *controllers.PostController
	Message   *controllers.MessageController
	Home      *controllers.HomeController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.RefreshToken)
	}
	v1.GET("/universities", c.Directory.Universities)
	v1.GET("/home", c.Home.Home)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/dashboard", c.Home.Dashboard)

		users := authenticated.Group("/users")
		{
			users.GET("/me", c.User.GetMe)
			users.PUT("/me/profile", c.User.UpdateProfile)
			users.POST("/me/profile-picture", c.User.UploadProfilePicture)
			users.DELETE("/me", c.User.DeleteAccount)
			users.GET("/:id", c.User.GetUser)
		}

		directory := authenticated.Group("/directory")
		{
			directory.GET("", c.Directory.Search)
			directory.GET("/filters", c.Directory.Filters)
			directory.GET("/mentors", c.Directory.Mentors)
		}

		connections := authenticated.Group("/connections")
		{
			connections.POST("", c.Network.RequestConnection)
			connections.GET("", c.Network.ListConnections)
			connections.POST("/:id/respond", c.Network.RespondConnection)
		}

		mentorships := authenticated.Group("/mentorships")
		{
			mentorships.POST("", c.Network.RequestMentorship)
			mentorships.GET("", c.Network.ListMentorships)
			mentorships.POST("/:id/respond", c.Network.RespondMentorship)
		}

		// Static segments are registered before /:id so gin matches them first
		events := authenticated.Group("/events")
		{
			events.GET("", c.Event.ListEvents)
			events.POST("", c.Event.CreateEvent)
			events.GET("/mine", c.Event.ListMyEvents)
			events.GET("/categories", c.Event.ListCategories)
			events.GET("/:id", c.Event.GetEvent)
			events.PUT("/:id", c.Event.UpdateEvent)
			events.DELETE("/:id", c.Event.DeleteEvent)
			events.POST("/:id/register", c.Event.Register)
			events.DELETE("/:id/register", c.Event.Unregister)
		}

		jobs := authenticated.Group("/jobs")
		{
			jobs.GET("", c.Job.ListJobs)
			jobs.POST("", c.Job.PostJob)
			jobs.GET("/categories", c.Job.ListCategories)
			jobs.GET("/applications", c.Job.ListMyApplications)
			jobs.GET("/posted", c.Job.ListMyPostedJobs)
			jobs.GET("/:id", c.Job.GetJob)
			jobs.POST("/:id/apply", c.Job.Apply)
		}

		posts := authenticated.Group("/posts")
		{
			posts.GET("", c.Post.ListFeed)
			posts.POST("", c.Post.CreatePost)
			posts.GET("/mine", c.Post.ListMyPosts)
			posts.GET("/:id", c.Post.GetPost)
			posts.DELETE("/:id", c.Post.DeletePost)
			posts.POST("/:id/like", c.Post.ToggleLike)
			posts.POST("/:id/comments", c.Post.CreateComment)
		}

		messages := authenticated.Group("/messages")
		{
			messages.GET("", c.Message.Inbox)
			messages.POST("", c.Message.SendMessage)
			messages.GET("/ws", wsHandler.HandleConnection)
			messages.GET("/:id", c.Message.GetMessage)
		}
	}
}
