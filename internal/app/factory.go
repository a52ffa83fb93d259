// Package app содержит фабрику компонентов приложения.
package app

import (
	"fmt"
	"lyrafy/internal/api"
	"lyrafy/internal/config"
	"lyrafy/internal/health"
	"lyrafy/internal/service"
	"lyrafy/internal/storage"
	"lyrafy/internal/worker"
	"os"

	"go.uber.org/zap"
)

// ComponentFactory создает компоненты приложения
type ComponentFactory struct {
	config *config.Config
	logger *zap.Logger
}

// NewComponentFactory создает новую фабрику компонентов
func NewComponentFactory(config *config.Config, logger *zap.Logger) *ComponentFactory {
	if config == nil {
		logger.Fatal("Config cannot be nil")
	}
	if logger == nil {
		panic("Logger cannot be nil")
	}

	return &ComponentFactory{
		config: config,
		logger: logger,
	}
}

// CreateDatabase создает подключение к базе данных
func (f *ComponentFactory) CreateDatabase() (*storage.Postgres, error) {
	if f.config.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := storage.NewPostgres(f.config.DatabaseURL, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	f.logger.Info("Database connection created successfully")
	return db, nil
}

// CreateServices создает все сервисы
func (f *ComponentFactory) CreateServices(db *storage.Postgres) (*service.Services, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	services, err := service.NewServices(db, f.config, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create services: %w", err)
	}

	f.logger.Info("Services created successfully")
	return services, nil
}

// CreateAPIServer создает HTTP API сервер
func (f *ComponentFactory) CreateAPIServer(services *service.Services) (*api.Server, error) {
	if services == nil {
		return nil, fmt.Errorf("services are required")
	}
	if f.config.APIPort == "" {
		return nil, fmt.Errorf("API port is required")
	}

	server := api.NewServer(f.config, services, f.logger)
	f.logger.Info("API server created", zap.String("port", f.config.APIPort))
	return server, nil
}

// CreateHealthServer создает сервер health check
func (f *ComponentFactory) CreateHealthServer(db *storage.Postgres, pool worker.PoolInterface) (*health.Server, error) {
	if !f.config.HealthCheckEnabled {
		f.logger.Info("Health check server is disabled")
		return nil, nil
	}

	if f.config.HealthPort == "" {
		return nil, fmt.Errorf("health port is required when health check is enabled")
	}

	server := health.NewServer(f.config.HealthPort, f.logger, db, pool)
	f.logger.Info("Health check server created", zap.String("port", f.config.HealthPort))
	return server, nil
}

// CreateAppDataDirectory создает директорию данных приложения
func (f *ComponentFactory) CreateAppDataDirectory() error {
	dataDir := f.config.GetAppDataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		f.logger.Error("Failed to create app data directory", zap.String("dir", dataDir), zap.Error(err))
		return fmt.Errorf("failed to create app data directory: %w", err)
	}
	f.logger.Info("App data directory ready", zap.String("dir", dataDir))
	return nil
}

// CreateApp создает полный экземпляр приложения со всеми зависимостями
func (f *ComponentFactory) CreateApp() (*App, error) {
	// Создаем директорию данных приложения
	if err := f.CreateAppDataDirectory(); err != nil {
		return nil, fmt.Errorf("failed to create app data directory: %w", err)
	}

	// Создаем базу данных
	db, err := f.CreateDatabase()
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	// Создаем сервисы
	services, err := f.CreateServices(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create services: %w", err)
	}

	// Создаем API сервер
	apiServer, err := f.CreateAPIServer(services)
	if err != nil {
		return nil, fmt.Errorf("failed to create API server: %w", err)
	}

	// Создаем health check сервер
	healthServer, err := f.CreateHealthServer(db, services.Pool)
	if err != nil {
		return nil, fmt.Errorf("failed to create health server: %w", err)
	}

	// Создаем приложение
	app, err := NewApp(f.config, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create app: %w", err)
	}

	// Устанавливаем компоненты
	app.db = db
	app.api = apiServer
	app.health = healthServer
	app.services = services

	f.logger.Info("App created successfully with all dependencies")
	return app, nil
}
