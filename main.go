package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/api"
	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/chat"
	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/config"
	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/models"
	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/observability"
	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/session"
	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/uploads"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTLPEndpoint, "school-app-client")
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	store := session.NewFileStore(cfg.CredentialsFile)
	identity := session.NewIdentityClient(cfg.IdentityURL, cfg.IdentityClient, nil)
	sessions := session.NewManager(store, identity)

	if _, err := store.GetSession(); err != nil {
		username := os.Getenv("APP_USERNAME")
		password := os.Getenv("APP_PASSWORD")
		if username == "" || password == "" {
			log.Fatalf("no stored session and APP_USERNAME/APP_PASSWORD not set")
		}
		sess, err := identity.Login(ctx, username, password)
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}
		if err := sessions.Begin(sess); err != nil {
			log.Fatalf("failed to store session: %v", err)
		}
		log.Printf("logged in, session stored")
	}

	client := api.NewClient(cfg.APIBaseURL, sessions,
		api.WithAuthFailureCallback(func() {
			log.Printf("authentication lost, clearing session")
			if err := store.ClearSession(); err != nil {
				log.Printf("failed to clear session: %v", err)
			}
			stop()
		}),
	)

	pending := chat.NewPendingStore()
	service := chat.NewService(client, uploads.NewBlobUploader(nil), pending)

	poller := chat.NewPoller(client, pending, cfg.PollInterval, func(convs []models.Conversation) {
		for _, conv := range convs {
			if conv.Unread > 0 {
				log.Printf("conversation staff=%s student=%s: %d unread, %d messages",
					conv.StaffID, conv.StudentID, conv.Unread, len(conv.Messages))
			}
		}
	})
	go poller.Run(ctx)

	router := gin.Default()
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Local send endpoint so the daemon can be driven from scripts.
	router.POST("/send", func(c *gin.Context) {
		var req struct {
			StaffID   string `json:"staff_id" binding:"required"`
			StudentID string `json:"student_id" binding:"required"`
			Content   string `json:"content" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		key := models.ConversationKey{StaffID: req.StaffID, StudentID: req.StudentID}
		tempID, err := service.SendText(c.Request.Context(), key, req.Content)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"temp_id": tempID})
	})

	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: router}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	log.Printf("metrics listening on %s, polling every %s", cfg.MetricsAddr, cfg.PollInterval)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
