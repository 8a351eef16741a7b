package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_tracker/internal/auth"
	"sales_tracker/internal/config"
	"sales_tracker/internal/sales"
	"sales_tracker/internal/store/postgres"
	"sales_tracker/internal/store/supabase"
)

// InitRoutes builds the storage backend, services, and handlers from
// the configuration and registers every endpoint on the given engine.
func InitRoutes(e *gin.Engine, cfg *config.Config) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	storage, err := newStorage(cfg)
	if err != nil {
		return err
	}

	salesService := sales.NewService(storage, logger)
	userStore := auth.NewMemoryUserStore(cfg.Auth.Users)
	authService := auth.NewService(userStore, logger, cfg.Auth.Secret, cfg.Auth.TokenTTL())

	RegisterRoutes(e, salesService, authService, logger)
	return nil
}

// RegisterRoutes binds handlers over already-built dependencies.
// Integration tests use it directly with in-memory backends.
func RegisterRoutes(e *gin.Engine, salesService *sales.Service, authService *auth.Service, logger *zap.Logger) {
	salesHandler := NewSalesHandler(salesService, logger)
	authHandler := NewAuthHandler(authService, logger)

	e.POST("/login", authHandler.handleLogin)
	e.POST("/sales", RequireAuth(authService), salesHandler.handleCreateSale)
	e.PATCH("/sales/:id/status", salesHandler.handleUpdateStatus)
	e.GET("/sales", salesHandler.handleListSales)
	e.GET("/earnings", salesHandler.handleEarnings)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}

func newStorage(cfg *config.Config) (sales.Storage, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return sales.NewLocalStorage(), nil
	case "postgres":
		pg := cfg.Storage.Postgres
		return postgres.New(postgres.Config{
			Host:            pg.Host,
			Port:            pg.Port,
			User:            pg.User,
			Password:        pg.Password,
			DBName:          pg.DBName,
			SSLMode:         pg.SSLMode,
			MaxOpenConns:    pg.MaxOpenConns,
			MaxIdleConns:    pg.MaxIdleConns,
			ConnMaxLifetime: pg.ConnMaxLifetime(),
		})
	case "supabase":
		return supabase.New(supabase.Config{
			URL:    cfg.Storage.Supabase.URL,
			APIKey: cfg.Storage.Supabase.APIKey,
		}), nil
	}
	return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
}
