// Package mongo provides the MongoDB connection and the audit log
// repository backed by it.
package mongo

import (
	"context"
	"log/slog"
	"time"

	"voltcart/config"
	"voltcart/internal/domain/lifecycle"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

// Params holds dependencies for the MongoDB connection, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewDatabase connects to MongoDB and returns the configured database handle
func NewDatabase(params Params) (*mongo.Database, error) {
	cfg := params.Config.Mongo
	if cfg == nil || cfg.URI == "" {
		return nil, errors.New("mongo URI is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	clientOpts := options.Client().ApplyURI(cfg.URI).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mongo")
	}

	params.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx, nil); err != nil {
				return errors.Wrap(err, "failed to ping mongo")
			}
			params.Logger.Info("MongoDB connection established",
				slog.String("database", cfg.Database),
			)

			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
			defer cancel()
			params.Logger.Info("Closing MongoDB connection")

			return errors.WithStack(client.Disconnect(ctx))
		},
	})

	return client.Database(cfg.Database), nil
}
