// Package main запускает сервер рекомендаций Lyrafy.
package main

import (
	"context"
	"lyrafy/internal/app"
	"lyrafy/internal/config"
	"lyrafy/pkg/logger"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	// Инициализация логгера
	log := logger.New()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Создание контекста
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обработка сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutdown signal received")
		cancel()
	}()

	// Создание и запуск приложения через фабрику
	application, err := app.NewAppWithFactory(cfg, log)
	if err != nil {
		log.Fatal("Failed to create app", zap.Error(err))
	}

	// Запуск приложения
	if err := application.Start(ctx); err != nil {
		log.Error("App stopped with error", zap.Error(err))
		os.Exit(1)
	}

	log.Info("App stopped successfully")
}
