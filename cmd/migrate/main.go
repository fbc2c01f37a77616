package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/farhadk/rms/internal/migration/db"
	"github.com/farhadk/rms/internal/migration/engine"
	"github.com/farhadk/rms/internal/migration/events"
	"github.com/farhadk/rms/internal/migration/loader"
	"github.com/farhadk/rms/internal/migration/report"
	"github.com/farhadk/rms/internal/migration/writer"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config struct for YAML configuration
type Config struct {
	DBHost       string   `yaml:"DB_HOST"`
	DBPort       int      `yaml:"DB_PORT"`
	DBUser       string   `yaml:"DB_USER"`
	DBPassword   string   `yaml:"DB_PASSWORD"`
	DBName       string   `yaml:"DB_NAME"`
	DBSSLMode    string   `yaml:"DB_SSLMODE"`
	ExportPath   string   `yaml:"EXPORT_PATH"`
	Jurisdiction string   `yaml:"JURISDICTION_PROVINCE"`
	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC"`
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := db.NewRepository(initDatabase(cfg))
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	// The legacy export is the whole input; a load fault is fatal before
	// any record is touched.
	records, err := loader.Load(cfg.ExportPath)
	if err != nil {
		logger.Fatal("failed to load legacy export", zap.Error(err))
	}

	var producer engine.EventProducer
	if len(cfg.KafkaBrokers) > 0 {
		p, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
		if err != nil {
			logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
		}
		defer p.Close()
		producer = p
	}

	w := writer.New(repo, cfg.Jurisdiction, logger)
	eng := engine.New(w, producer, logger)

	stats := eng.Run(context.Background(), records)

	if err := report.NewEmitter(os.Stdout).Emit(stats); err != nil {
		logger.Error("failed to emit report", zap.Error(err))
	}
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// loadConfig loads configuration. Use real config tooling (e.g. Viper) in production.
func loadConfig() (*Config, error) {
	configPath := filepath.Join("configs", "migrate.yaml")
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Jurisdiction == "" {
		cfg.Jurisdiction = "Kabul"
	}
	return &cfg, nil
}

// initDatabase initializes the database connection.
func initDatabase(cfg *Config) *db.Config {
	return &db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
}
