package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lantern/auth"
	"lantern/config"
	"lantern/database"
	"lantern/handlers"
	"lantern/middleware"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Create context with timeout for initial connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiry())

	r := gin.Default()

	r.GET("/health", handlers.HealthCheck)

	api := r.Group("/api/v1")

	logs := api.Group("/logs")
	logs.POST("", middleware.APIKeyAuth(db), handlers.IngestLogs(db))

	dashboard := logs.Group("", middleware.DashboardAuth(db, tokens))
	dashboard.GET("/dashboard", handlers.DashboardLogs(db))
	dashboard.GET("/search", handlers.SearchLogs(db))
	dashboard.GET("/categories", handlers.ListCategories(db))
	dashboard.DELETE("/bulk/by-timezone", handlers.DeleteLogsByTimezone(db))
	dashboard.GET("/:id", handlers.GetLog(db))
	dashboard.DELETE("/:id", handlers.DeleteLog(db))

	projects := api.Group("/projects")
	projects.POST("", handlers.CreateProject(db))
	projects.POST("/login", handlers.LoginProject(db, tokens))
	projects.GET("/me", middleware.DashboardAuth(db, tokens), handlers.GetOwnProject())
	projects.PUT("/me", middleware.DashboardAuth(db, tokens), handlers.UpdateOwnProject(db))

	admin := api.Group("/admin")
	admin.POST("/create", handlers.CreateAdmin(db))
	admin.POST("/login", handlers.LoginAdmin(db, tokens))

	adminProjects := admin.Group("/projects", middleware.AdminAuth(db, tokens))
	adminProjects.GET("", handlers.ListProjects(db))
	adminProjects.GET("/:id", handlers.GetProject(db))
	adminProjects.PUT("/:id", handlers.UpdateProject(db))
	adminProjects.POST("/:id/allow", handlers.SetProjectAllowed(db, true))
	adminProjects.POST("/:id/disallow", handlers.SetProjectAllowed(db, false))
	adminProjects.DELETE("/:id", handlers.DeleteProject(db))

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
