package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-cart/internal/cart/adapters"
	"go-cart/internal/cart/application"
	"go-cart/internal/cart/domain"
	"go-cart/internal/cart/infrastructure"
	"go-cart/internal/cart/ports"
	"go-cart/pkg/config"
	"go-cart/pkg/db"
	"go-cart/pkg/events"
	"go-cart/pkg/logger"
	"go-cart/pkg/middleware"
	"go-cart/pkg/rabbitmq"
	pkgtls "go-cart/pkg/tls"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log := logger.NewWithFormat(cfg.ServiceName, cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	log.Info("starting cart service")

	// Initialize repository
	repo, cleanup, err := newRepository(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize storage: " + err.Error())
	}
	defer cleanup()

	// Initialize catalog client
	catalog := newCatalog(cfg, log)

	// Connect to RabbitMQ
	var publisher ports.EventPublisher
	if cfg.RabbitMQEnabled {
		rabbitConn, err := rabbitmq.NewConnection(cfg.RabbitMQURL, log)
		if err != nil {
			log.Warn("failed to connect to RabbitMQ, events will be disabled: " + err.Error())
		} else {
			defer rabbitConn.Close()

			pub, err := rabbitmq.NewPublisher(rabbitConn, events.ExchangeCarts, log)
			if err != nil {
				log.Warn("failed to create publisher: " + err.Error())
			} else {
				publisher = adapters.NewRabbitMQPublisher(pub, log)
			}

			startAuditConsumer(rabbitConn, log)
		}
	}

	// Initialize use case
	useCase := application.NewCartUseCase(repo, catalog, publisher, log)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start HTTP server
	httpHandler := infrastructure.NewHTTPHandler(useCase)
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.TraceID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS())

	api := router.Group("/api/v1")
	if cfg.JWTSecret != "" {
		api.Use(middleware.Auth(cfg.JWTSecret, cfg.JWTIssuer))
	} else {
		log.Warn("JWT_SECRET not set, falling back to X-User-ID header")
		api.Use(devAuth())
	}
	httpHandler.RegisterRoutes(api)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
	}

	go func() {
		if cfg.TLSEnabled {
			tlsConfig, err := pkgtls.ServerConfig(cfg.TLSCertFile, cfg.TLSKeyFile, cfg.TLSCAFile, false)
			if err != nil {
				log.Fatal("failed to load TLS config: " + err.Error())
			}
			httpServer.Addr = ":" + cfg.HTTPSPort
			httpServer.TLSConfig = tlsConfig

			log.Info("HTTPS server listening on :" + cfg.HTTPSPort)
			if err := httpServer.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
				log.Fatal("HTTPS server error: " + err.Error())
			}
			return
		}

		log.Info("HTTP server listening on :" + cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error: " + err.Error())
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown error: " + err.Error())
	}

	log.Info("server stopped")
}

// newRepository selects the storage backend from configuration
func newRepository(cfg *config.Config, log *logger.Logger) (ports.CartRepository, func(), error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		dbConn, err := db.NewConnection(db.Config{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
			Timeout:  cfg.DBTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		repo := adapters.NewPostgresCartRepository(dbConn)
		if err := repo.Migrate(); err != nil {
			return nil, nil, err
		}
		log.Info("using postgres storage backend")
		return repo, func() {}, nil

	default:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, err
		}
		log.Info("using redis storage backend")
		return adapters.NewRedisCartRepository(rdb), func() { rdb.Close() }, nil
	}
}

// newCatalog returns the HTTP catalog client when configured, or a
// seeded in-memory catalog for local development
func newCatalog(cfg *config.Config, log *logger.Logger) ports.CatalogClient {
	if cfg.CatalogBaseURL != "" {
		return adapters.NewHTTPCatalogClient(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	}

	log.Warn("CATALOG_BASE_URL not set, using in-memory demo catalog")
	catalog := adapters.NewInMemoryCatalog()
	for _, p := range []struct {
		id    string
		name  string
		price float64
	}{
		{"PROD-001", "Wireless Mouse", 29.99},
		{"PROD-002", "USB-C Cable", 15.50},
		{"PROD-003", "Mechanical Keyboard", 89.00},
	} {
		productID, _ := domain.ParseProductID(p.id)
		price, _ := domain.NewMoneyFromFloat(p.price, domain.EUR)
		catalog.Put(ports.ProductInfo{ID: productID, Name: p.name, Price: price, IsActive: true})
	}
	return catalog
}

// startAuditConsumer logs every cart lifecycle event published to the
// carts exchange
func startAuditConsumer(conn *rabbitmq.Connection, log *logger.Logger) {
	consumer, err := rabbitmq.NewConsumer(
		conn,
		"cart-audit",
		events.ExchangeCarts,
		[]string{events.RoutingKeyCartCreated, events.RoutingKeyCartCheckedOut, events.RoutingKeyCartAbandoned},
		log,
	)
	if err != nil {
		log.Warn("failed to create audit consumer: " + err.Error())
		return
	}

	if err := consumer.Consume(context.Background(), func(ctx context.Context, body []byte) error {
		log.WithContext(ctx).Info("cart event: " + string(body))
		return nil
	}); err != nil {
		log.Warn("failed to start audit consumer: " + err.Error())
	}
}

// devAuth trusts the X-User-ID header. Local development only.
func devAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "UNAUTHORIZED", "message": "missing X-User-ID header"},
			})
			return
		}
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}
