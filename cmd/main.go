package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"coffee-order-system/internal/apperr"
	"coffee-order-system/internal/config"
	"coffee-order-system/internal/database"
	"coffee-order-system/internal/logger"
	"coffee-order-system/internal/messaging"
	"coffee-order-system/internal/services/catalog"
	"coffee-order-system/internal/services/orders"
	"coffee-order-system/internal/web"
	"coffee-order-system/migrations"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to the config file")
		port       = flag.Int("port", 0, "HTTP port (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log := logger.New("coffee-order-service")

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "startup", "Received shutdown signal", nil)
		cancel()
	}()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("service_failed", "startup", "Coffee order service failed", err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "startup", "Service stopped gracefully", nil)
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	// Initialize database
	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "startup", "Connected to PostgreSQL database", nil)

	if err := db.RunMigrations(ctx, migrations.FS); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize messaging
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", "startup", "Connected to RabbitMQ", nil)

	publisher := messaging.NewPublisher(conn, log)

	router := setupRouter(db, log,
		catalog.NewService(db),
		orders.NewService(db, publisher, log))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("service_started", "startup",
			fmt.Sprintf("Coffee order service started on port %d", cfg.Server.Port),
			map[string]interface{}{"port": cfg.Server.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "startup", "HTTP server failed", err, nil)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

func setupRouter(db *database.DB, log *logger.Logger, catalogStore catalog.Store, orderStore orders.Store) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), web.RequestLogger(log), cors.Default())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   "Coffee order service is running.",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.GET("/health", func(c *gin.Context) {
		healthCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		response := gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "coffee-order-service",
		}
		if err := db.Ping(healthCtx); err != nil {
			response["status"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
		c.JSON(http.StatusOK, response)
	})

	catalog.NewHandler(catalogStore, log).RegisterRoutes(router.Group("/api/menus"))
	orders.NewHandler(orderStore, log).RegisterRoutes(router.Group("/api/orders"))

	router.NoRoute(func(c *gin.Context) {
		web.Fail(c, apperr.NotFound(apperr.CodeNotFound, "requested resource not found",
			map[string]interface{}{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}))
	})

	return router
}
