package router

import (
	"time"

	"souqy/config"
	"souqy/internal/domain"
	"souqy/internal/handler"
	"souqy/internal/middleware"
	"souqy/internal/repository"
	"souqy/internal/service"
	"souqy/pkg/cloudinary"
	"souqy/pkg/otp"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, otpStore otp.Store) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	pointsRepo := repository.NewPointsRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	pointRequestRepo := repository.NewPointRequestRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo, otpStore)
	pointsSvc := service.NewPointsService(db, pointsRepo, withdrawalRepo, pointRequestRepo, userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, authSvc)
	meHandler := handler.NewMeHandler(userRepo)
	categoryHandler := handler.NewCategoryHandler(categoryRepo)
	postHandler := handler.NewPostHandler(postRepo, userRepo, cloud)
	commentHandler := handler.NewCommentHandler(commentRepo, postRepo)
	reservationHandler := handler.NewReservationHandler(reservationRepo)
	pointsHandler := handler.NewPointsHandler(pointsSvc)
	adminPointsHandler := handler.NewAdminPointsHandler(pointsSvc)
	adminHandler := handler.NewAdminHandler(adminRepo, userRepo, postRepo, reservationRepo, commentRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/otp/send", authHandler.SendOTP)
			authGroup.POST("/register/user", authHandler.RegisterUser)
			authGroup.POST("/register/advertiser", authHandler.RegisterAdvertiser)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/password/forgot", authHandler.ForgotPassword)
			authGroup.POST("/password/reset", authHandler.ResetPassword)
		}

		// Public browsing
		api.GET("/categories", categoryHandler.List)
		api.GET("/posts", postHandler.List)
		api.GET("/posts/:id", postHandler.Get)
		api.GET("/posts/:id/engagement", postHandler.GetEngagement)
		api.GET("/posts/:id/comments", commentHandler.ListByPost)
		api.GET("/users/:id", meHandler.GetUser)

		authed := api.Group("")
		authed.Use(authMw)
		{
			authed.GET("/me/profile", meHandler.GetProfile)
			authed.PUT("/me/store", middleware.RequireRole(domain.RoleAdvertiser), meHandler.UpdateStore)
			authed.GET("/me/liked-posts", postHandler.ListLiked)
			authed.GET("/me/saved-posts", postHandler.ListSaved)
			authed.GET("/me/reservations", reservationHandler.ListMine)
			authed.GET("/me/post-reservations", middleware.RequireRole(domain.RoleAdvertiser), reservationHandler.ListForMyPosts)

			authed.POST("/posts", middleware.RequireRole(domain.RoleAdvertiser, domain.RoleAdmin), postHandler.Create)
			authed.DELETE("/posts/:id", postHandler.Delete)
			authed.POST("/posts/:id/like", postHandler.ToggleLike)
			authed.GET("/posts/:id/like", postHandler.LikeStatus)
			authed.POST("/posts/:id/save", postHandler.Save)
			authed.DELETE("/posts/:id/save", postHandler.Unsave)
			authed.POST("/posts/:id/comments", commentHandler.Create)
			authed.DELETE("/comments/:id", commentHandler.Delete)

			authed.POST("/reservations", reservationHandler.Create)
			authed.POST("/reservations/:id/cancel", reservationHandler.Cancel)

			authed.GET("/points/me", pointsHandler.GetBalance)
			authed.POST("/points/withdrawals", pointsHandler.RequestWithdrawal)
			authed.POST("/points/requests", pointsHandler.SubmitPointRequest)
			authed.GET("/points/requests", pointsHandler.ListMyPointRequests)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/advertisers", adminHandler.ListAdvertisers)
			admin.GET("/posts", adminHandler.ListPosts)
			admin.GET("/reservations", adminHandler.ListReservations)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.DELETE("/posts/:id", adminHandler.DeletePost)
			admin.DELETE("/reservations/:id", adminHandler.DeleteReservation)
			admin.DELETE("/comments/:id", adminHandler.DeleteComment)

			admin.POST("/categories", categoryHandler.Create)
			admin.PUT("/categories/:id", categoryHandler.Update)
			admin.DELETE("/categories/:id", categoryHandler.Delete)

			admin.GET("/points", adminPointsHandler.ListAccounts)
			admin.GET("/points/stats", adminPointsHandler.GetStats)
			admin.GET("/points/subject/:type/:id", adminPointsHandler.GetSubjectBalance)
			admin.PUT("/points/adjust", adminPointsHandler.Adjust)
			admin.GET("/points/withdrawals", adminPointsHandler.ListWithdrawals)
			admin.POST("/points/withdrawals/:id/approve", adminPointsHandler.ApproveWithdrawal)
			admin.POST("/points/withdrawals/:id/reject", adminPointsHandler.RejectWithdrawal)
			admin.GET("/points/requests", adminPointsHandler.ListPointRequests)
			admin.PUT("/points/requests/:id", adminPointsHandler.ProcessPointRequest)
		}
	}
	return r
}
