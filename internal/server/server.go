package server

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nadimalaa/devflow/backend/internal/database"
	"github.com/nadimalaa/devflow/backend/internal/handlers"
	"github.com/nadimalaa/devflow/backend/internal/middleware"
)

type Server struct {
	db        *database.Database
	handler   *handlers.Handler
	jwtSecret []byte
}

// NewServer wires the handler graph onto the injected database and returns a
// configured HTTP server.
func NewServer(db *database.Database, log *slog.Logger) *http.Server {
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))

	handler := handlers.NewHandler(db.DB(), log, jwtSecret)

	newServer := &Server{
		db:        db,
		handler:   handler,
		jwtSecret: jwtSecret,
	}

	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("server configured", "port", port)

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)
		api.POST("/auth/google", s.handler.Auth.GoogleLogin)

		// Question routes (public reads)
		api.GET("/questions", s.handler.Question.GetQuestions)
		api.GET("/questions/:id", s.handler.Question.GetQuestion)
		api.GET("/questions/:id/answers", s.handler.Answer.GetAnswers)

		// View counting is public but credits signed-in viewers
		api.POST("/questions/:id/views", middleware.OptionalAuth(s.jwtSecret), s.handler.Question.IncrementViews)

		// Tag routes (public reads)
		api.GET("/tags", s.handler.Tag.GetTags)
		api.GET("/tags/:id/questions", s.handler.Tag.GetTagQuestions)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(s.jwtSecret))
		{
			// Auth protected routes
			protected.GET("/me", s.handler.Auth.GetMe)

			// Question protected routes
			protected.POST("/questions", s.handler.Question.CreateQuestion)
			protected.PUT("/questions/:id", s.handler.Question.UpdateQuestion)
			protected.DELETE("/questions/:id", s.handler.Question.DeleteQuestion)

			// Answer protected routes
			protected.POST("/questions/:id/answers", s.handler.Answer.CreateAnswer)
			protected.DELETE("/answers/:id", s.handler.Answer.DeleteAnswer)

			// Vote protected routes
			protected.POST("/votes", s.handler.Vote.CastVote)
			protected.GET("/votes/status", s.handler.Vote.GetVoteStatus)

			// Collection protected routes
			protected.POST("/questions/:id/save", s.handler.Collection.ToggleSave)
			protected.GET("/questions/:id/saved", s.handler.Collection.HasSaved)
			protected.GET("/collections", s.handler.Collection.GetCollections)
		}
	}

	return r
}
