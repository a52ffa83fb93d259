// Package logger содержит настройку логгера.
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New создает новый логгер
func New() *zap.Logger {
	// Настраиваем уровень логирования
	level := getLogLevel()

	// Настраиваем кодировщик
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	// Консольный вывод
	consoleCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	// Файловый вывод с ротацией
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   getLogPath(),
			MaxSize:    100, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}),
		level,
	)

	// Объединяем выводы
	core := zapcore.NewTee(consoleCore, fileCore)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// getLogLevel получает уровень логирования из переменной окружения
func getLogLevel() zapcore.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// getLogPath получает путь к файлу логов из переменной окружения или использует значение по умолчанию
func getLogPath() string {
	if logPath := os.Getenv("LOG_PATH"); logPath != "" {
		return logPath
	}

	if dataDir := os.Getenv("APP_DATA_DIR"); dataDir != "" {
		if err := os.MkdirAll(dataDir, 0755); err == nil {
			return filepath.Join(dataDir, "lyrafy.log")
		}
	}

	if err := os.MkdirAll("logs", 0755); err == nil {
		return "logs/lyrafy.log"
	}

	return "lyrafy.log"
}
