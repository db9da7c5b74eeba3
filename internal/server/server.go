// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"quill/internal/auth"
	"quill/internal/cache"
	"quill/internal/config"
	"quill/internal/domain"
	"quill/internal/middleware"
	"quill/internal/realtime"
	"quill/internal/repository"
	"quill/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	authProvider auth.Provider
	broadcaster  *realtime.Broadcaster

	postService     *service.PostService
	commentService  *service.CommentService
	favoriteService *service.FavoriteService
	userService     *service.UserService
}

// Repositories bundles the storage ports a Server is wired over.
type Repositories struct {
	Posts     domain.PostRepository
	Comments  domain.CommentRepository
	Favorites domain.FavoriteRepository
	Users     domain.UserRepository
}

// NewRepositories builds the storage layer selected by the config:
// process-local maps or Redis.
func NewRepositories(cfg *config.Config) (Repositories, *redis.Client, error) {
	if cfg.StorageBackend == config.BackendRedis {
		rdb, err := cache.Connect(cfg.RedisURL)
		if err != nil {
			return Repositories{}, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		return Repositories{
			Posts:     repository.NewRedisPostRepository(rdb, time.Now),
			Comments:  repository.NewRedisCommentRepository(rdb),
			Favorites: repository.NewRedisFavoriteRepository(rdb),
			Users:     repository.NewRedisUserRepository(rdb),
		}, rdb, nil
	}

	return Repositories{
		Posts:     repository.NewMemoryPostRepository(time.Now),
		Comments:  repository.NewMemoryCommentRepository(),
		Favorites: repository.NewMemoryFavoriteRepository(),
		Users:     repository.NewMemoryUserRepository(),
	}, nil, nil
}

// NewServer creates a server instance, building the storage backend the
// config selects.
func NewServer(cfg *config.Config) (*Server, error) {
	repos, rdb, err := NewRepositories(cfg)
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, repos, rdb), nil
}

// NewServerWithDeps creates a Server over already-built repositories.
// Tests use this to inject in-memory or miniredis-backed storage.
func NewServerWithDeps(cfg *config.Config, repos Repositories, rdb *redis.Client) *Server {
	prom := fiberprometheus.New("quill-api")

	broadcaster := realtime.NewBroadcaster(
		time.Duration(cfg.BroadcastTimeout)*time.Millisecond, nil)

	postDomain := domain.NewPostService(repos.Posts, nil)
	commentDomain := domain.NewCommentService(repos.Comments, repos.Posts, nil)

	return &Server{
		config:          cfg,
		redis:           rdb,
		promMiddleware:  prom,
		authProvider:    auth.NewJWTProvider(cfg.JWTSecret),
		broadcaster:     broadcaster,
		postService:     service.NewPostService(postDomain),
		commentService:  service.NewCommentService(commentDomain, broadcaster),
		favoriteService: service.NewFavoriteService(repos.Favorites, repos.Posts),
		userService:     service.NewUserService(repos.Users, nil),
	}
}

// Broadcaster exposes the fan-out hub, mainly for tests and probes.
func (s *Server) Broadcaster() *realtime.Broadcaster {
	return s.broadcaster
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for correlation
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
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

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	authRequired := middleware.AuthRequired(s.authProvider)

	// Public post routes (published content)
	publicPosts := api.Group("/posts")
	publicPosts.Get("/", s.GetPosts)
	publicPosts.Get("/:id/comments", s.GetComments)
	publicPosts.Get("/:id", s.GetPost)

	// Protected routes
	protected := api.Group("", authRequired)

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Post("/me/promote", s.PromoteMe)
	users.Get("/me/posts", s.GetMyPosts)
	users.Get("/me/favorites", s.GetMyFavorites)

	// Protected post routes
	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	// Define specific /:id/:resource routes BEFORE generic /:id routes
	posts.Post("/:id/publish", s.PublishPost)
	posts.Post("/:id/unpublish", s.UnpublishPost)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
	posts.Get("/:id/favorite", s.GetFavoriteStatus)
	posts.Post("/:id/favorite", s.AddFavorite)
	posts.Delete("/:id/favorite", s.RemoveFavorite)
	// Generic /:id routes (update, delete)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	// Comment routes addressed by comment id
	comments := protected.Group("/comments")
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	// Websocket endpoints
	ws := app.Group("/ws")
	ws.Get("/connections", s.GetWSConnections)
	ws.Get("/comments", s.WebSocketUpgrade(), s.WebSocketCommentsHandler())
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. With the in-memory
// backend there is no external dependency to probe.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	storageStatus := "healthy"
	if s.config.StorageBackend == config.BackendRedis {
		if s.redis == nil {
			storageStatus = "unavailable"
		} else if err := s.redis.Ping(ctx).Err(); err != nil {
			storageStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if storageStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  overallStatus,
		"version": "1.0.0",
		"checks": fiber.Map{
			"storage": storageStatus,
		},
		"websocket_connections": s.broadcaster.ConnectionCount(),
		"time":                  time.Now(),
	})
}

// App builds the fiber application with middleware and routes wired.
// Tests drive this through app.Test without listening on a socket.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName: "Quill Blog API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return RespondWithError(c, err)
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server.
func (s *Server) Start() error {
	app := s.App()
	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server: HTTP first so no new
// broadcasts begin, then the fan-out hub drains, then Redis closes.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if err := s.broadcaster.Shutdown(ctx); err != nil {
		log.Printf("error shutting down broadcaster: %v", err)
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
