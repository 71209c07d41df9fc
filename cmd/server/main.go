// cmd/server/main.go - Cause Connect Backend Server
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cause-connect/internal/config"
	"cause-connect/internal/database"
	"cause-connect/internal/handlers"
	"cause-connect/internal/middleware"
	"cause-connect/internal/models"
	"cause-connect/internal/services"
	"cause-connect/pkg/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	serverStartTime = time.Now()

	appVersion = "1.0.0"
	buildTime  = "unknown"
	gitCommit  = "unknown"
)

type appHandlers struct {
	auth          *handlers.AuthHandler
	user          *handlers.UserHandler
	activity      *handlers.ActivityHandler
	participation *handlers.ParticipationHandler
	bookmark      *handlers.BookmarkHandler
	dashboard     *handlers.DashboardHandler
	notification  *handlers.NotificationHandler
}

func main() {
	cfg := config.Load()

	setupLogging(cfg)
	printStartupInfo(cfg)

	logrus.Info("Connecting to MongoDB...")
	db, err := database.NewMongoDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Error disconnecting from MongoDB")
		}
	}()

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer indexCancel()
	if err := db.CreateIndexes(indexCtx); err != nil {
		logrus.WithError(err).Fatal("Failed to create indexes")
	}

	jwtManager := auth.NewJWTManager(
		cfg.JWTSecret,
		time.Duration(cfg.JWTExpiration)*time.Hour,
	)

	collections := getCollections(db.Database)
	h := initializeHandlers(collections, jwtManager)
	router := setupRouter(cfg, h, jwtManager)

	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"host":    cfg.Host,
			"port":    cfg.Port,
			"version": appVersion,
		}).Info("Cause Connect backend starting")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Warn("Server forced to shutdown")
	} else {
		logrus.Info("Server gracefully stopped")
	}
}

// setupLogging configures logrus and gin for the environment.
func setupLogging(cfg *config.Config) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		gin.SetMode(gin.DebugMode)
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logrus.SetLevel(logrus.DebugLevel)
	}
}

func printStartupInfo(cfg *config.Config) {
	logrus.WithFields(logrus.Fields{
		"version":     appVersion,
		"build_time":  buildTime,
		"git_commit":  gitCommit,
		"environment": cfg.Env,
		"database":    cfg.DatabaseName,
		"origins":     cfg.AllowedOrigins,
	}).Info("Cause Connect backend")

	if cfg.RateLimitEnabled {
		logrus.WithFields(logrus.Fields{
			"requests": cfg.RateLimitRequests,
			"window":   cfg.RateLimitWindow,
		}).Info("Rate limiting enabled")
	}
}

func getCollections(db *mongo.Database) map[string]*mongo.Collection {
	return map[string]*mongo.Collection{
		"users":          db.Collection("users"),
		"activities":     db.Collection("activities"),
		"participations": db.Collection("participations"),
		"notifications":  db.Collection("notifications"),
	}
}

func initializeHandlers(collections map[string]*mongo.Collection, jwtManager *auth.JWTManager) *appHandlers {
	notificationService := services.NewNotificationService(collections["notifications"])

	return &appHandlers{
		auth: handlers.NewAuthHandler(
			collections["users"],
			jwtManager,
		),
		user: handlers.NewUserHandler(
			collections["users"],
		),
		activity: handlers.NewActivityHandler(
			collections["activities"],
			collections["participations"],
			collections["users"],
		),
		participation: handlers.NewParticipationHandler(
			collections["participations"],
			collections["activities"],
			collections["users"],
			notificationService,
		),
		bookmark: handlers.NewBookmarkHandler(
			collections["users"],
		),
		dashboard: handlers.NewDashboardHandler(
			collections["activities"],
			collections["participations"],
			collections["users"],
		),
		notification: handlers.NewNotificationHandler(
			notificationService,
		),
	}
}

// setupRouter wires middleware and all routes.
func setupRouter(cfg *config.Config, h *appHandlers, jwtManager *auth.JWTManager) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())

	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	if cfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, time.Duration(cfg.RateLimitWindow)*time.Second)
		router.Use(limiter.RateLimit())
	}

	setupHealthRoutes(router)

	v1 := router.Group("/api/v1")
	{
		setupPublicRoutes(v1, h)
		setupProtectedRoutes(v1, h, jwtManager)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Endpoint not found",
			"path":  c.Request.URL.Path,
		})
	})

	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":  "Method not allowed",
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
	})

	return router
}

func setupHealthRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"uptime":    time.Since(serverStartTime).String(),
			"version":   appVersion,
			"build": gin.H{
				"time":   buildTime,
				"commit": gitCommit,
			},
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ready": true})
	})

	router.GET("/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"alive": true})
	})
}

func setupPublicRoutes(v1 *gin.RouterGroup, h *appHandlers) {
	v1.POST("/auth/register", h.auth.Register)
	v1.POST("/auth/login", h.auth.Login)

	// Activity listings are public; private details are stripped
	v1.GET("/activities", h.activity.GetActivities)
}

func setupProtectedRoutes(v1 *gin.RouterGroup, h *appHandlers, jwtManager *auth.JWTManager) {
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(jwtManager))

	// Profile
	protected.GET("/users/me", h.user.GetMe)
	protected.PUT("/users/me", h.user.UpdateMe)

	// Bookmarks
	protected.GET("/users/me/bookmarks", h.bookmark.GetBookmarks)
	protected.POST("/users/me/bookmarks", h.bookmark.AddBookmark)
	protected.DELETE("/users/me/bookmarks/:projectId", h.bookmark.RemoveBookmark)

	organizerOnly := middleware.RequireRole(models.RoleOrganization)
	volunteerOnly := middleware.RequireRole(models.RoleVolunteer)

	// Activities
	protected.GET("/activities/my", volunteerOnly, h.activity.GetMyActivities)
	protected.GET("/activities/created", organizerOnly, h.activity.GetCreatedActivities)
	protected.POST("/activities", organizerOnly, h.activity.CreateActivity)
	protected.PUT("/activities/:id", organizerOnly, h.activity.UpdateActivity)

	// Participations
	protected.POST("/activities/:id/join", volunteerOnly, h.participation.JoinActivity)
	protected.GET("/activities/:id/participants", h.participation.GetParticipants)
	protected.PUT("/participations/:id", h.participation.UpdateParticipationStatus)

	// Dashboard
	protected.GET("/dashboard/stats", h.dashboard.GetStats)

	// Notifications
	protected.GET("/notifications", h.notification.GetNotifications)
	protected.GET("/notifications/unread-count", h.notification.GetUnreadCount)
	protected.PUT("/notifications/:id/read", h.notification.MarkNotificationRead)
}
