// Package backend is the single composition point for the dual-mode ledger:
// it builds both backing stores once and hands out the right one per
// identity. No other package branches on the mode.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"moneydrain/internal/events"
	"moneydrain/internal/identity"
	"moneydrain/internal/ledger"
	"moneydrain/internal/ledger/local"
	"moneydrain/internal/ledger/remote"
	"moneydrain/internal/log"
)

// Config holds what the factory needs to build both modes.
type Config struct {
	// Local (anonymous) mode
	DataDir string

	// Remote (authenticated) mode
	SQLiteDBPath string

	// Optional ledger event publishing
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Selector multiplexes the two store modes. The decision is made once per
// call site from the identity value, nowhere else.
type Selector struct {
	local  *local.Store
	remote *remote.Repository
}

// StoreFor returns the backing store for an identity: the device-local store
// for anonymous callers, the identity-scoped remote store otherwise. The two
// never share state; migrating between them is ledger.Import's job.
func (s *Selector) StoreFor(id identity.Identity) ledger.Store {
	if !id.IsAuthenticated() {
		return s.local
	}
	return s.remote.For(id.Subject)
}

// Local exposes the anonymous store directly for the explicit import path.
func (s *Selector) Local() ledger.Store {
	return s.local
}

// New builds both backing stores and the optional event publisher.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Selector, CleanupFunc, error) {
	if logger == nil {
		logger = slog.Default()
	}

	localStore, err := local.Open(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open local store: %w", err)
	}
	logger.Info("Initialized local ledger store", "data_dir", cfg.DataDir)

	var eventsClient *events.Client
	if cfg.AMQPURL != "" {
		eventsClient, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			logger.Info("Initialized ledger event publisher",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	repo, err := remote.NewRepository(cfg.SQLiteDBPath, eventsClient)
	if err != nil {
		if eventsClient != nil {
			eventsClient.Close()
		}
		return nil, nil, fmt.Errorf("open remote repository: %w", err)
	}
	logger.Info("Initialized remote ledger store", "db_path", cfg.SQLiteDBPath)

	cleanup := func() error {
		if eventsClient != nil {
			if err := eventsClient.Close(); err != nil {
				logger.Warn("Failed to close AMQP client", log.FieldError, err)
			}
		}
		return repo.Close()
	}
	return &Selector{local: localStore, remote: repo}, cleanup, nil
}
