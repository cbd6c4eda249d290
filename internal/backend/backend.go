// Package backend builds the durable record store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"ledger/internal/config"
	"ledger/internal/log"
	"ledger/internal/records"
	"ledger/internal/records/file"
	"ledger/internal/records/memory"
	"ledger/internal/records/mongostore"
	"ledger/internal/storage"
)

// BackendType names a record backend.
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
	MongoBackend  BackendType = "mongo"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, FileBackend, SQLiteBackend, MongoBackend:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs for each backend.
type Config struct {
	Type BackendType

	DataDirectory string

	SQLiteDBPath string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// MemoryQuota caps the memory backend in bytes; zero means unlimited.
	MemoryQuota int
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:            backendType,
		DataDirectory:   appConfig.DataDir,
		SQLiteDBPath:    appConfig.SQLiteDBPath,
		MongoURI:        appConfig.MongoURI,
		MongoDatabase:   appConfig.MongoDatabase,
		MongoCollection: appConfig.MongoCollection,
	}, nil
}

func (c Config) Validate() error {
	switch c.Type {
	case MemoryBackend:
	case FileBackend:
		if c.DataDirectory == "" {
			return fmt.Errorf("data directory is required for file backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case MongoBackend:
		if c.MongoURI == "" || c.MongoDatabase == "" || c.MongoCollection == "" {
			return fmt.Errorf("MongoDB URI, database and collection are required for mongo backend")
		}
	default:
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	return nil
}

// Open creates the record store. The caller owns it and must Close it.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (records.Store, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentBackend)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case MemoryBackend:
		var opts []memory.Option
		if cfg.MemoryQuota > 0 {
			opts = append(opts, memory.WithQuota(cfg.MemoryQuota))
		}
		logger.Info("Initialized memory backend", "quota_bytes", cfg.MemoryQuota)
		return memory.New(opts...), nil

	case FileBackend:
		store, err := file.New(cfg.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file backend: %w", err)
		}
		logger.Info("Initialized file backend", "data_directory", cfg.DataDirectory)
		return store, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(ctx, cfg.SQLiteDBPath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return repo, nil

	case MongoBackend:
		store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB backend: %w", err)
		}
		logger.Info("Initialized MongoDB backend",
			"database", cfg.MongoDatabase, "collection", cfg.MongoCollection)
		return store, nil
	}
	return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
}

// Types lists the valid backend names.
func Types() []string {
	return []string{MemoryBackend.String(), FileBackend.String(), SQLiteBackend.String(), MongoBackend.String()}
}
