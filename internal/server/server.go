package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"anoa.com/complainthub/internal/config"
	"anoa.com/complainthub/internal/middleware"
	"anoa.com/complainthub/internal/scheduler"
	"anoa.com/complainthub/pkg/apperror"
	"anoa.com/complainthub/pkg/database"
	"anoa.com/complainthub/pkg/locker"
	"anoa.com/complainthub/pkg/metrics"
	"anoa.com/complainthub/pkg/ratelimiter"
	"anoa.com/complainthub/pkg/response"
	"anoa.com/complainthub/pkg/storage"
	"anoa.com/complainthub/pkg/token"

	attachmentHttp "anoa.com/complainthub/internal/modules/attachment/delivery/http"
	attachmentRepo "anoa.com/complainthub/internal/modules/attachment/repository"
	attachmentService "anoa.com/complainthub/internal/modules/attachment/service"

	categoryHttp "anoa.com/complainthub/internal/modules/category/delivery/http"
	categoryRepo "anoa.com/complainthub/internal/modules/category/repository"
	categoryService "anoa.com/complainthub/internal/modules/category/service"

	complaintHttp "anoa.com/complainthub/internal/modules/complaint/delivery/http"
	complaintRepo "anoa.com/complainthub/internal/modules/complaint/repository"
	complaintService "anoa.com/complainthub/internal/modules/complaint/service"

	feedbackHttp "anoa.com/complainthub/internal/modules/feedback/delivery/http"
	feedbackRepo "anoa.com/complainthub/internal/modules/feedback/repository"
	feedbackService "anoa.com/complainthub/internal/modules/feedback/service"

	notifHttp "anoa.com/complainthub/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/complainthub/internal/modules/notification/repository"
	notifService "anoa.com/complainthub/internal/modules/notification/service"

	searchService "anoa.com/complainthub/internal/modules/search/service"

	statHttp "anoa.com/complainthub/internal/modules/stat/delivery/http"
	statRepo "anoa.com/complainthub/internal/modules/stat/repository"
	statService "anoa.com/complainthub/internal/modules/stat/service"

	userHttp "anoa.com/complainthub/internal/modules/user/delivery/http"
	userRepo "anoa.com/complainthub/internal/modules/user/repository"
	userService "anoa.com/complainthub/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the process-wide resources the server is built from. Redis and
// Search may be nil; the features that need them degrade to no-ops.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Redis   *redis.Client
	Search  meilisearch.ServiceManager
	Storage storage.FileStorage
	Log     *zap.Logger
}

type Server struct {
	engine    *gin.Engine
	http      *http.Server
	scheduler *scheduler.Scheduler
	db        *gorm.DB
	log       *zap.Logger
}

func NewServer(deps Deps) (*Server, error) {
	cfg, db, rdb, log := deps.Config, deps.DB, deps.Redis, deps.Log

	tx := database.NewTransactor(db)
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	denylist := token.NewDenylist(rdb)
	index := searchService.NewComplaintIndex(deps.Search, log)

	attachmentRepository := attachmentRepo.NewAttachmentRepository(db)
	attachmentSvc := attachmentService.NewAttachmentService(attachmentRepository, deps.Storage, log, attachmentService.Config{
		MaxSize: cfg.MaxUploadSize,
		Grace:   cfg.OrphanGrace,
	})

	jobs := scheduler.New(log, time.Hour)
	sweepJob := scheduler.NewOrphanSweepJob(attachmentSvc, cfg.OrphanSweepCron, log)
	if err := jobs.Register(sweepJob); err != nil {
		return nil, err
	}
	attachmentHandler := attachmentHttp.NewAttachmentHandler(jobs, sweepJob)

	categoryRepository := categoryRepo.NewCategoryRepository(db)
	categorySvc := categoryService.NewCategoryService(categoryRepository)
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	complaintRepository := complaintRepo.NewComplaintRepository(db)
	trackingRepository := complaintRepo.NewTrackingRepository(db)
	complaintSvc := complaintService.NewComplaintService(
		complaintRepository,
		trackingRepository,
		categoryRepository,
		attachmentSvc,
		index,
		ratelimiter.New(rdb),
		tx,
		log,
		complaintService.Config{SubmitCooldown: cfg.RateLimitComplaint},
	)
	complaintHandler := complaintHttp.NewComplaintHandler(complaintSvc)

	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notificationRepository, rdb, log)
	notificationHandler := notifHttp.NewNotificationHandler(notificationSvc, splitOrigins(cfg.AllowedOrigins), log)

	feedbackRepository := feedbackRepo.NewFeedbackRepository(db)
	feedbackSvc := feedbackService.NewFeedbackService(
		feedbackRepository,
		complaintRepository,
		trackingRepository,
		attachmentSvc,
		notificationSvc,
		index,
		locker.New(rdb, "complaint_lock"),
		tx,
		log,
	)
	feedbackHandler := feedbackHttp.NewFeedbackHandler(feedbackSvc)

	userRepository := userRepo.NewUserRepository(db)
	userSvc := userService.NewUserService(userRepository, complaintRepository, attachmentSvc, tokens, denylist, tx, log, userService.Config{})
	userHandler := userHttp.NewUserHandler(userSvc)

	statSvc := statService.NewStatService(statRepo.NewStatRepository(db))
	statHandler := statHttp.NewStatHandler(statSvc)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadSize

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics())

	s := &Server{engine: router, scheduler: jobs, db: db, log: log}

	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	if cfg.StorageDriver == config.StorageLocal {
		router.Static("/uploads", cfg.UploadDir)
	}

	authMiddleware := middleware.NewAuthMiddleware(tokens, denylist, log)

	api := router.Group("/api")

	// Public routes
	api.POST("/users/register", userHandler.Register)
	api.POST("/users/login", userHandler.Login)
	api.GET("/categories", categoryHandler.GetAllCategories)
	api.GET("/categories/:id", categoryHandler.GetCategory)
	api.GET("/complaints", complaintHandler.GetAllComplaints)
	api.GET("/complaints/search", complaintHandler.SearchComplaints)
	api.GET("/complaints/:id", complaintHandler.GetComplaint)
	api.GET("/admin-feedback/:id", feedbackHandler.GetFeedback)

	statistics := api.Group("/statistics")
	{
		statistics.GET("/summary", statHandler.GetSummary)
		statistics.GET("/users", statHandler.GetTotalUsers)
		statistics.GET("/feedbacks", statHandler.GetTotalFeedbacks)
		statistics.GET("/complaints", statHandler.GetTotalComplaints)
		statistics.GET("/complaints/:status", statHandler.GetTotalByStatus)
		statistics.GET("/category-percentages", statHandler.GetCategoryPercentages)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.DELETE("/users/logout", userHandler.Logout)
		protected.GET("/users/profile", userHandler.GetProfile)
		protected.PUT("/users/profile", userHandler.UpdateProfile)
		protected.GET("/users/complaints", userHandler.GetComplaints)

		// Role checks for these live in the services.
		protected.GET("/users", userHandler.GetAllUsers)
		protected.PATCH("/users/verify/:id", userHandler.VerifyUser)
		protected.DELETE("/users/:id", userHandler.DeleteUser)

		protected.POST("/complaints", complaintHandler.CreateComplaint)
		protected.PATCH("/complaints/:id", complaintHandler.UpdateComplaint)
		protected.DELETE("/complaints/:id", complaintHandler.DeleteComplaint)
		protected.DELETE("/complaints/:id/histories", complaintHandler.DeleteHistory)
		protected.DELETE("/complaints/histories/all", complaintHandler.DeleteAllHistories)

		protected.GET("/admin-feedback", feedbackHandler.GetAllFeedbacks)
		protected.POST("/admin-feedback/:complaintId", feedbackHandler.ApproveComplaint)
		protected.POST("/admin-feedback/:complaintId/process", feedbackHandler.ProcessComplaint)
		protected.POST("/admin-feedback/:complaintId/reject", feedbackHandler.RejectComplaint)

		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		adminGroup := protected.Group("")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/categories", categoryHandler.CreateCategory)
			adminGroup.PUT("/categories/:id", categoryHandler.UpdateCategory)
			adminGroup.DELETE("/categories/:id", categoryHandler.DeleteCategory)
			adminGroup.POST("/attachments/sweep", attachmentHandler.Sweep)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		response.ResponseError(c, apperror.NotFound("Route not found"))
	})

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start launches the scheduler and serves HTTP until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.scheduler.Start()

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("http server listening", zap.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.scheduler.Stop(ctx)
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		s.log.Warn("health check failed", zap.Error(err))
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{"status": status})
}

func splitOrigins(allowed string) []string {
	var origins []string
	for _, o := range strings.Split(allowed, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := splitOrigins(allowedOrigins)
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	corsConfig := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))
}
