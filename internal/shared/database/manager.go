// Package database owns the MongoDB connection and the generic collection store
// the site modules persist through.
package database

import (
	"context"
	"fmt"
	"sync"

	"agency-cms/internal/shared/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Manager holds the client and the site database
type Manager struct {
	client *mongo.Client
	db     *mongo.Database
	config *Config
	logger logger.Logger

	mu     sync.Mutex
	closed bool
}

// Connect dials MongoDB and verifies the connection with a ping
func Connect(ctx context.Context, cfg *Config, log logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.NewNop()
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Infof("Connected to MongoDB database %s", cfg.Name)
	return NewManager(client, cfg, log), nil
}

// NewManager wraps an already connected client
func NewManager(client *mongo.Client, cfg *Config, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNop()
	}
	return &Manager{
		client: client,
		db:     client.Database(cfg.Name),
		config: cfg,
		logger: log,
	}
}

// Database returns the site database
func (m *Manager) Database() *mongo.Database {
	return m.db
}

// Ping checks the primary is reachable
func (m *Manager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client; calling it twice is a no-op
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.logger.Info("Disconnecting from MongoDB")
	return m.client.Disconnect(ctx)
}
