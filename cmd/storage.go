package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-EventScheduling/internal/config"
	bookingRepo "github.com/m04kA/SMC-EventScheduling/internal/infra/storage/booking"
	configRepo "github.com/m04kA/SMC-EventScheduling/internal/infra/storage/config"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage/docstore"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage/memory"
	configService "github.com/m04kA/SMC-EventScheduling/internal/service/config"
	"github.com/m04kA/SMC-EventScheduling/internal/service/lifecycle"
	createBookingUC "github.com/m04kA/SMC-EventScheduling/internal/usecase/create_booking"
	"github.com/m04kA/SMC-EventScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-EventScheduling/pkg/logger"
	"github.com/m04kA/SMC-EventScheduling/pkg/metrics"
	"github.com/m04kA/SMC-EventScheduling/pkg/txmanager"
)

type bookingRepository interface {
	createBookingUC.BookingRepository
	lifecycle.BookingRepository
}

type transactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// storageBackend is the persistence gateway selected by storage.driver
type storageBackend struct {
	bookings  bookingRepository
	configs   configService.ConfigRepository
	txManager transactionManager
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*storageBackend, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		return openPostgres(cfg, m, log)
	case config.StorageMongo:
		return openMongo(ctx, cfg, log)
	default:
		store := memory.NewStore()
		log.Warn("Using in-memory storage: data is lost on restart")
		return &storageBackend{
			bookings:  store.Bookings(),
			configs:   store.Configs(),
			txManager: memory.NewTxManager(),
			close:     func() {},
		}, nil
	}
}

func openPostgres(cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*storageBackend, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// pool stats are published only when metrics are enabled
	stopStats := make(chan struct{})
	wrapped := dbmetrics.WrapWithDefault(db, m, stopStats)
	txMgr := txmanager.NewTransactionManager(wrapped)

	return &storageBackend{
		bookings:  bookingRepo.NewRepository(wrapped, txMgr),
		configs:   configRepo.NewRepository(wrapped),
		txManager: txMgr,
		close: func() {
			close(stopStats)
			_ = db.Close()
		},
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storageBackend, error) {
	store, err := docstore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, time.Duration(cfg.Mongo.Timeout)*time.Second)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(ctx, log); err != nil {
		_ = store.Close(context.Background())
		return nil, fmt.Errorf("ensure mongo indexes: %w", err)
	}
	log.Info("Successfully connected to MongoDB (db=%s)", cfg.Mongo.Database)

	return &storageBackend{
		bookings:  store.Bookings(),
		configs:   store.Configs(),
		txManager: store.TxManager(),
		close: func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = store.Close(closeCtx)
		},
	}, nil
}
