package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/regelwerk/backend/internal/application/services"
	"github.com/regelwerk/backend/internal/bootstrap"
	"github.com/regelwerk/backend/internal/infrastructure/database"
	"github.com/regelwerk/backend/internal/infrastructure/persistence"
	"github.com/regelwerk/backend/internal/interfaces/middleware"
	"github.com/regelwerk/backend/internal/interfaces/rest"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("📄 Loaded .env file")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	db, err := database.GetInstance()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("✅ Database connection established")

	if err := bootstrap.InitializeSchema(db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := bootstrap.InitializeSystemData(startupCtx, persistence.NewUserRepository(db.DB())); err != nil {
		cancelStartup()
		log.Fatalf("Failed to initialize system data: %v", err)
	}
	cancelStartup()

	svcMgr := services.NewServiceManager(db)
	log.Println("🔧 Service manager initialized")

	if err := svcMgr.Scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	router := gin.Default()
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := rest.NewAuthHandler(svcMgr)
	templateHandler := rest.NewTemplateHandler(svcMgr)
	fieldHandler := rest.NewFieldHandler(svcMgr)
	changeLogHandler := rest.NewChangeLogHandler(svcMgr)

	requireAuth := middleware.RequireAuth()
	requireAdmin := middleware.RequireAdmin()

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.Me)
		}

		templates := api.Group("/templates", requireAuth)
		{
			templates.GET("", templateHandler.List)
			templates.POST("", templateHandler.Create)
			templates.GET("/export", templateHandler.ExportAll)
			templates.POST("/render", templateHandler.Render)
			templates.GET("/:id", templateHandler.Get)
			templates.PUT("/:id", templateHandler.Update)
			templates.DELETE("/:id", requireAdmin, templateHandler.Delete)
			templates.GET("/:id/export", templateHandler.Export)
			templates.POST("/:id/simulate", templateHandler.Simulate)
		}

		fields := api.Group("/fields", requireAuth)
		{
			fields.GET("", fieldHandler.List)
			fields.POST("", fieldHandler.Create)
			fields.GET("/validation-schema/:type", fieldHandler.ValidationSchema)
			fields.GET("/:id", fieldHandler.Get)
			fields.PUT("/:id", fieldHandler.Update)
			fields.DELETE("/:id", requireAdmin, fieldHandler.Delete)
			fields.POST("/:id/validate", fieldHandler.ValidateValue)
		}

		changelog := api.Group("/changelog", requireAuth)
		{
			changelog.GET("", changeLogHandler.List)
			changelog.GET("/:entityId", changeLogHandler.ListForEntity)
		}
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")

	svcMgr.Scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	if err := db.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
	log.Println("👋 Server stopped")
}
