package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"collab-service/internal/config"
	"collab-service/internal/db"
	"collab-service/internal/feed"
	"collab-service/internal/handlers"
	"collab-service/internal/identity"
	"collab-service/internal/middleware"
	"collab-service/internal/observability"
	"collab-service/internal/rabbitmq"
	"collab-service/internal/repositories"
	"collab-service/internal/storage"
	"collab-service/internal/telemetry"
)

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	if cfg.TracingEnabled {
		shutdown, err := observability.SetupTracing(context.Background(), "collab-service", cfg.OTLPEndpoint)
		if err != nil {
			log.Fatalf("failed to set up tracing: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Printf("tracer shutdown: %v", err)
			}
		}()
	}

	if eventPublisher, err := observability.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange); err != nil {
		log.Printf("domain events disabled: %v", err)
	} else {
		observability.SetPublisher(eventPublisher)
		defer eventPublisher.Close()
	}

	auditPublisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer auditPublisher.Close()
	auditEmitter := telemetry.NewAuditEmitter(auditPublisher, "audit.collab", "collab-service", cfg.Environment)

	blobs, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to init upload storage: %v", err)
	}

	workspaceRepo := repositories.NewWorkspaceRepo(database)
	memberRepo := repositories.NewMemberRepo(database)
	channelRepo := repositories.NewChannelRepo(database)
	conversationRepo := repositories.NewConversationRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	reactionRepo := repositories.NewReactionRepo(database)
	fileRepo := repositories.NewFileRepo(database)

	feedService := feed.NewService(memberRepo, channelRepo, conversationRepo, messageRepo, reactionRepo)

	workspaceHandler := handlers.NewWorkspaceHandler(workspaceRepo, memberRepo, auditEmitter)
	memberHandler := handlers.NewMemberHandler(memberRepo, auditEmitter)
	channelHandler := handlers.NewChannelHandler(channelRepo, memberRepo)
	conversationHandler := handlers.NewConversationHandler(conversationRepo, memberRepo)
	messageHandler := handlers.NewMessageHandler(feedService, messageRepo, memberRepo)
	reactionHandler := handlers.NewReactionHandler(reactionRepo, messageRepo, memberRepo)
	uploadHandler := handlers.NewUploadHandler(fileRepo, blobs, cfg.UploadBaseURL)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observability.RequestLogMiddleware())
	router.Use(observability.HTTPMetricsMiddleware())
	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware("collab-service"))
	}

	router.GET("/healthz", func(c *gin.Context) {
		if err := database.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static("/uploads", cfg.UploadDir)

	resolver := identity.NewSessionResolver(database)
	authMiddleware := middleware.AuthMiddleware(resolver)

	router.POST("/workspaces", authMiddleware, workspaceHandler.Create)
	router.GET("/workspaces", authMiddleware, workspaceHandler.List)
	router.GET("/workspaces/:workspace_id", authMiddleware, workspaceHandler.Get)
	router.GET("/workspaces/:workspace_id/info", authMiddleware, workspaceHandler.Info)
	router.PATCH("/workspaces/:workspace_id", authMiddleware, workspaceHandler.Update)
	router.POST("/workspaces/:workspace_id/join-code", authMiddleware, workspaceHandler.NewJoinCode)
	router.POST("/workspaces/:workspace_id/join", authMiddleware, workspaceHandler.Join)
	router.DELETE("/workspaces/:workspace_id", authMiddleware, workspaceHandler.Delete)

	router.GET("/workspaces/:workspace_id/members", authMiddleware, memberHandler.List)
	router.GET("/workspaces/:workspace_id/members/me", authMiddleware, memberHandler.Current)
	router.GET("/workspaces/:workspace_id/members/:member_id", authMiddleware, memberHandler.Get)
	router.PATCH("/workspaces/:workspace_id/members/:member_id", authMiddleware, memberHandler.UpdateRole)
	router.DELETE("/workspaces/:workspace_id/members/:member_id", authMiddleware, memberHandler.Remove)

	router.POST("/workspaces/:workspace_id/channels", authMiddleware, channelHandler.Create)
	router.GET("/workspaces/:workspace_id/channels", authMiddleware, channelHandler.List)
	router.GET("/workspaces/:workspace_id/channels/:channel_id", authMiddleware, channelHandler.Get)
	router.PATCH("/workspaces/:workspace_id/channels/:channel_id", authMiddleware, channelHandler.Update)
	router.DELETE("/workspaces/:workspace_id/channels/:channel_id", authMiddleware, channelHandler.Delete)

	router.POST("/workspaces/:workspace_id/conversations", authMiddleware, conversationHandler.CreateOrGet)

	router.POST("/workspaces/:workspace_id/messages", authMiddleware, messageHandler.Create)
	router.GET("/workspaces/:workspace_id/messages", authMiddleware, messageHandler.List)
	router.GET("/workspaces/:workspace_id/messages/:message_id", authMiddleware, messageHandler.Get)
	router.PATCH("/workspaces/:workspace_id/messages/:message_id", authMiddleware, messageHandler.Update)
	router.DELETE("/workspaces/:workspace_id/messages/:message_id", authMiddleware, messageHandler.Delete)
	router.POST("/workspaces/:workspace_id/messages/:message_id/reactions", authMiddleware, reactionHandler.Toggle)

	router.POST("/uploads", authMiddleware, uploadHandler.Create)
	router.DELETE("/uploads/:file_id", authMiddleware, uploadHandler.Delete)

	handlers.RegisterDebugRoutes(router, auditEmitter, cfg.DebugRoutes)

	log.Printf("collab-service listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
