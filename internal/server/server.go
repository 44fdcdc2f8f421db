// Package server contains the HTTP surface of the application: route
// registration, access guards and the page handlers.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"hearth/internal/config"
	"hearth/internal/database"
	"hearth/internal/mail"
	"hearth/internal/middleware"
	"hearth/internal/models"
	"hearth/internal/repository"
	"hearth/internal/service"
	"hearth/internal/session"
	"hearth/web"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/redis/go-redis/v9"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	sessions       *fibersession.Store
	sessionStorage *session.RedisStorage
	rdb            *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository

	postService    *service.PostService
	commentService *service.CommentService

	mailer mail.Sender
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	var storage *session.RedisStorage
	if !cfg.IsTest() {
		storage = session.NewRedisStorage(cfg.RedisURL)
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	s := &Server{
		config:         cfg,
		sessionStorage: storage,
		rdb:            storage.Client(),
		users:          userRepo,
		posts:          postRepo,
		comments:       commentRepo,
		postService:    service.NewPostService(postRepo),
		commentService: service.NewCommentService(commentRepo, postRepo),
		mailer:         mail.NewSMTPSender(cfg),
	}

	// fiber falls back to its in-memory storage when no Redis is around
	// (tests, redis-less dev).
	if storage == nil {
		s.sessions = session.NewStore(nil)
	} else {
		s.sessions = session.NewStore(storage)
	}

	if !cfg.IsTest() {
		s.promMiddleware = fiberprometheus.New("hearth")
	}

	return s, nil
}

// App builds the fiber application: template engine, middleware and routes.
func (s *Server) App() *fiber.App {
	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(templates), ".html")
	// Post bodies are stored as rich-text HTML written by admins.
	engine.AddFunc("raw", func(s string) template.HTML {
		return template.HTML(s)
	})

	app := fiber.New(fiber.Config{
		AppName:      "The Hearth",
		Views:        engine,
		ErrorHandler: s.errorHandler,
	})

	s.setupMiddleware(app)
	s.setupRoutes(app)
	return app
}

func (s *Server) setupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for log correlation
	app.Use(requestid.New())

	// Context middleware to propagate request ID into slog
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Cookies leave the process encrypted with the session secret.
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: cookieKey(s.config.SessionSecret),
	}))

	// Resolve the session's user once per request.
	app.Use(s.LoadUser)
}

func (s *Server) setupRoutes(app *fiber.App) {
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/healthz", s.HealthCheck)

	app.Get("/", s.Home)
	app.Get("/posts", s.PostsPage)
	app.Get("/post/:id", s.ShowPost)
	app.Post("/post/:id", s.AuthRequired, s.CreateComment)

	app.Get("/contact", s.ContactPage)
	app.Post("/contact", s.SubmitContact)

	app.Get("/new-post", s.AdminOnly, s.NewPostPage)
	app.Post("/new-post", s.AdminOnly, s.CreatePost)
	app.Get("/edit-post/:id", s.AdminOnly, s.EditPostPage)
	app.Post("/edit-post/:id", s.AdminOnly, s.UpdatePost)
	app.Get("/delete-post/:id", s.AdminOnly, s.DeletePost)

	app.Get("/register", s.LoggedOutOnly, s.RegisterPage)
	app.Post("/register", s.LoggedOutOnly, middleware.RateLimit(
		s.rdb, 3, 10*time.Minute, "register"), s.Register)
	app.Get("/login", s.LoggedOutOnly, s.LoginPage)
	app.Post("/login", s.LoggedOutOnly, middleware.RateLimit(
		s.rdb, 10, 5*time.Minute, "login"), s.Login)
	app.Get("/logout", s.AuthRequired, s.Logout)

	app.Get("/forgot-password", s.LoggedOutOnly, s.ForgotPasswordPage)
	app.Post("/forgot-password", s.LoggedOutOnly, middleware.RateLimit(
		s.rdb, 3, 10*time.Minute, "forgot-password"), s.ForgotPassword)
	app.Get("/reset-password", s.LoggedOutOnly, s.ResetPasswordPage)
	app.Post("/reset-password", s.LoggedOutOnly, s.ResetPassword)
}

// HealthCheck reports process liveness.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// errorHandler renders the error page with the status mapped from the error
// kind. Server-side failures are logged; expected rejections (403, 404) are
// not.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := models.StatusForError(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "handler error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}

	message := "Something went wrong."
	switch status {
	case fiber.StatusForbidden:
		message = "You do not have permission to access this page."
	case fiber.StatusNotFound:
		message = "The page you were looking for does not exist."
	case fiber.StatusTooManyRequests:
		message = "Too many attempts, please try again later."
	}

	return c.Status(status).Render("error", fiber.Map{
		"Status":  status,
		"Message": message,
	}, "layouts/main")
}

// Shutdown releases server-held resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.sessionStorage != nil {
		return s.sessionStorage.Close()
	}
	_ = ctx
	return nil
}

// cookieKey derives the 32-byte base64 key encryptcookie expects from the
// configured session secret.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}
