// Package server contains the HTTP routes and handlers for the blog.
package server

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"time"

	"folio/internal/bootstrap"
	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/featureflags"
	"folio/internal/mailer"
	"folio/internal/middleware"
	"folio/internal/mirror"
	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the already-initialised collaborators a Server is built from.
// Redis, Mirror and Sender may be nil.
type Deps struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Mirror service.CommentMirror
	Sender service.MessageSender
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	featureFlags   *featureflags.Manager
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	contentService *service.ContentService
	commentService *service.CommentService
	contactService *service.ContactService
	postAdmin      *service.PostAdminService
	now            func() time.Time
}

// NewServer connects the database and Redis, builds the mail and mirror
// clients from cfg and returns a ready Server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, rdb, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		return nil, err
	}

	deps := Deps{
		DB:     db,
		Redis:  rdb,
		Sender: NewMailSender(cfg),
	}
	if mc := NewMirrorClient(cfg); mc != nil {
		deps.Mirror = mc
	}

	return NewServerWithDeps(cfg, deps)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
func NewServerWithDeps(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.DB == nil {
		return nil, errors.New("server requires a database")
	}

	postRepo := repository.NewPostRepository(deps.DB)
	commentRepo := repository.NewCommentRepository(deps.DB)
	flags := featureflags.NewManager(cfg.FeatureFlags)

	s := &Server{
		config:         cfg,
		db:             deps.DB,
		redis:          deps.Redis,
		promMiddleware: middleware.InitMetrics("folio"),
		featureFlags:   flags,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		now:            time.Now,
	}
	s.contentService = service.NewContentService(postRepo, commentRepo, cfg.RecentPostsLimit)
	s.commentService = service.NewCommentService(commentRepo, postRepo, deps.Mirror, flags)
	s.postAdmin = service.NewPostAdminService(postRepo, flags)
	s.contactService = service.NewContactService(deps.Sender)

	return s, nil
}

// NewMailSender builds the contact-form relay client from cfg.
func NewMailSender(cfg *config.Config) *mailer.Sender {
	return mailer.NewSender(mailer.Config{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		Recipient: cfg.Recipient(),
	})
}

// NewMirrorClient returns the remote mirror client, or nil when MIRROR_URL is unset.
func NewMirrorClient(cfg *config.Config) *mirror.Client {
	mc := mirror.NewClient(cfg.MirrorURL, cfg.MirrorAPIKey, cfg.MirrorTable, cfg.MirrorTimeout())
	if !mc.Enabled() {
		return nil
	}
	return mc
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Tracing runs before the context middleware so the trace ID reaches the logger.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application. The category
// catch-all is registered last so every fixed path wins over it.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	if s.config.StaticDir != "" {
		app.Static("/static", s.config.StaticDir)
	}

	app.Get("/", s.Home)
	app.Get("/about", s.About)
	app.Get("/cvresume", s.CVResume)
	app.Get("/blog", s.Blog)
	app.Get("/blog/:category", s.Blog)
	for _, page := range categoryPages {
		app.Get(page.Path, s.CategoryPage(page))
	}

	app.Get("/contact", s.ContactForm)
	app.Post("/contact", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "contact"), s.SubmitContact)

	app.Get("/post/:id", s.ShowPost)
	app.Get("/search", s.Search)
	app.Post("/submit_comment/:postId", middleware.RateLimit(
		s.redis, 10, 10*time.Minute, "comment"), s.SubmitComment)

	admin := app.Group("/admin", s.AdminPanelEnabled())
	admin.Get("/feature-flags", s.GetFeatureFlags)
	posts := admin.Group("/posts")
	posts.Get("/", s.AdminListPosts)
	posts.Post("/", s.AdminCreatePost)
	posts.Get("/:id", s.AdminGetPost)
	posts.Put("/:id", s.AdminUpdatePost)
	posts.Delete("/:id", s.AdminDeletePost)

	// Generic /:category route must be last
	app.Get("/:category", s.ShowCategory)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   s.now(),
	})
}

// ReadinessCheck pings the database and, when configured, Redis.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "not_configured"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": s.now(),
	})
}

// AdminPanelEnabled hides the admin surface when the admin_panel flag is off.
// The 404 matches the one fiber returns for an unregistered route.
func (s *Server) AdminPanelEnabled() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.featureFlags.Enabled(featureflags.AdminPanel) {
			return fiber.NewError(fiber.StatusNotFound, "Cannot "+c.Method()+" "+html.EscapeString(c.Path()))
		}
		return c.Next()
	}
}

// newApp builds the Fiber application with middleware and routes attached.
func (s *Server) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "folio",
		UnescapePath: true,
		ErrorHandler: s.handleError,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// handleError is the app-wide error handler for errors returned by handlers.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return models.RespondWithError(c, fe.Code, err)
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	status := models.StatusFor(err)
	if status == fiber.StatusInternalServerError {
		err = models.NewInternalError(err)
	}
	return models.RespondWithError(c, status, err)
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.newApp()

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
