package main

import (
	"fmt"
	"os"
)

// Config holds all environment variables for the sales-import-service.
type Config struct {
	Port          string // Service port (default: 8086)
	MongoURL      string // MongoDB connection string
	MongoDB       string // Database name
	RedisURL      string // Redis connection string
	JWTSecret     string // Optional; auth middleware is disabled when empty
	StorageDir    string // Local spool directory for async import files
	ArchiveBucket string // Optional S3 bucket for raw import file archive
	ArchivePrefix string // Key prefix inside the archive bucket
}

// LoadConfig loads environment variables into a Config struct and validates
// them.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:          os.Getenv("PORT"),
		MongoURL:      os.Getenv("MONGO_URL"),
		MongoDB:       os.Getenv("MONGO_DB"),
		RedisURL:      os.Getenv("REDIS_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		StorageDir:    os.Getenv("IMPORT_STORAGE_DIR"),
		ArchiveBucket: os.Getenv("AWS_S3_BUCKET"),
		ArchivePrefix: os.Getenv("AWS_S3_PREFIX"),
	}

	if cfg.Port == "" {
		cfg.Port = "8086"
	}
	if cfg.MongoDB == "" {
		cfg.MongoDB = "ptt_backoffice"
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = "redis://redis:6379"
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = "./data/sales_imports"
	}

	if cfg.MongoURL == "" {
		return nil, fmt.Errorf("MONGO_URL is required")
	}

	return cfg, nil
}
