package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"novelhub/internal/auth"
	"novelhub/internal/books"
	"novelhub/internal/chat"
	"novelhub/internal/notify"
	"novelhub/internal/progress"
	"novelhub/internal/queue"
	"novelhub/internal/reviews"
	synchub "novelhub/internal/sync"
	"novelhub/pkg/database"
	"novelhub/pkg/utils"
)

func main() {
	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Start TCP sync first (so you notice binding errors early)
	hub := synchub.NewHub()
	router.GET("/ws", synchub.WSHandler(hub))
	tcpSrv := synchub.NewServer(":7070", hub)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// UDP notifications for reviewers waiting on new books
	notifyRegistry := notify.NewRegistry()
	notifySrv := notify.NewServer(":9091", notifyRegistry, nil)
	go func() {
		if err := notifySrv.Run(); err != nil {
			log.Printf("notify server stopped: %v", err)
		}
	}()

	// Books: read routes are public, mutation requires a token
	bookRepo := books.NewRepo(db)
	bookHandler := books.NewHandler(bookRepo, nil, hub)
	bookHandler.Notify = notifySrv
	bookHandler.RegisterPublicRoutes(router.Group("/books"))

	protectedBooks := router.Group("/books")
	protectedBooks.Use(auth.AuthMiddleware(tokenSvc, authRepo))
	bookHandler.RegisterProtectedRoutes(protectedBooks)

	// Reviews
	reviewRepo := reviews.NewRepo(db)
	reviewHandler := reviews.NewHandler(reviewRepo)
	reviewHandler.RegisterPublicRoutes(router.Group(""))
	protectedReviews := router.Group("")
	protectedReviews.Use(auth.AuthMiddleware(tokenSvc, authRepo))
	reviewHandler.RegisterProtectedRoutes(protectedReviews)

	// Per-reviewer routes
	protected := router.Group("/users")
	protected.Use(auth.AuthMiddleware(tokenSvc, authRepo))

	protected.GET("/me", func(c *gin.Context) {
		claims := auth.MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"id":       claims.UserID,
			"username": claims.Username,
			"email":    claims.Email,
		})
	})

	queueRepo := queue.NewRepo(db)
	queueHandler := queue.NewHandler(queueRepo, hub)
	queueHandler.RegisterRoutes(protected)

	progressRepo := progress.NewRepo(db)
	progressHandler := progress.NewHandler(progressRepo)
	progressHandler.RegisterRoutes(protected)

	// Per-book discussion rooms
	chatHub := chat.NewHub(0)
	router.GET("/chat/ws", chat.WSHandler(chatHub))
	router.GET("/chat/history", chat.HistoryHandler(chatHub))

	httpSrv := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Println("HTTP API server listening on :8080")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
