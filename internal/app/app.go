// Package app содержит основную логику приложения.
package app

import (
	"context"
	"fmt"
	"lyrafy/internal/api"
	"lyrafy/internal/config"
	"lyrafy/internal/health"
	"lyrafy/internal/service"
	"lyrafy/internal/storage"
	"sync"
	"time"

	"go.uber.org/zap"
)

// App представляет основное приложение рекомендаций
type App struct {
	config   *config.Config
	logger   *zap.Logger
	db       *storage.Postgres
	api      *api.Server
	health   *health.Server
	services *service.Services
	stopChan chan struct{}
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewApp создает новый экземпляр приложения
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	// Создаем контекст для управления жизненным циклом
	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		config:   cfg,
		logger:   logger,
		stopChan: make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}

	logger.Info("App structure created successfully")
	return app, nil
}

// NewAppWithFactory создает новый экземпляр приложения через фабрику
func NewAppWithFactory(cfg *config.Config, logger *zap.Logger) (*App, error) {
	factory := NewComponentFactory(cfg, logger)
	return factory.CreateApp()
}

// Start запускает приложение и блокируется до остановки
func (a *App) Start(ctx context.Context) error {
	a.logger.Info("Starting app")

	// Запускаем health check сервер
	if a.health != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.health.Start(); err != nil {
				if err.Error() == "http: Server closed" {
					a.logger.Info("Health check server stopped normally")
				} else {
					a.logger.Error("Health check server failed", zap.Error(err))
				}
			}
		}()
	}

	// Запускаем API сервер
	apiErrChan := make(chan error, 1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.api.Start(); err != nil {
			if err.Error() == "http: Server closed" {
				a.logger.Info("API server stopped normally")
				return
			}
			apiErrChan <- err
		}
	}()

	a.logger.Info("App started successfully")

	select {
	case <-ctx.Done():
		a.logger.Info("App cancelled by context")
		return a.Stop()
	case <-a.stopChan:
		a.logger.Info("App stopped by stop signal")
		return nil
	case err := <-apiErrChan:
		a.logger.Error("API server failed", zap.Error(err))
		stopErr := a.Stop()
		if stopErr != nil {
			a.logger.Error("Failed to stop app after API failure", zap.Error(stopErr))
		}
		return err
	}
}

// Stop gracefully останавливает приложение
func (a *App) Stop() error {
	a.logger.Info("Stopping app gracefully")

	// Отменяем контекст для остановки всех горутин
	if a.cancel != nil {
		a.cancel()
	}

	// Отправляем сигнал остановки
	select {
	case <-a.stopChan:
	default:
		close(a.stopChan)
	}

	// Останавливаем API сервер
	if a.api != nil {
		if err := a.api.Stop(); err != nil {
			a.logger.Error("Failed to stop API server", zap.Error(err))
		}
	}

	// Останавливаем health check сервер
	if a.health != nil {
		if err := a.health.Stop(); err != nil {
			a.logger.Error("Failed to stop health check server", zap.Error(err))
		}
	}

	// Останавливаем фоновые компоненты сервисов
	if a.services != nil {
		a.services.Stop()
	}

	// Ждем завершения всех горутин с таймаутом
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All goroutines stopped")
	case <-time.After(30 * time.Second):
		a.logger.Warn("Timeout waiting for goroutines to stop")
	}

	// Закрываем подключение к базе данных
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	a.logger.Info("App stopped")
	return nil
}
