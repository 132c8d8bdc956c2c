package server

import (
	"context"

	"github.com/devops-workshop/demo-apps/apis/guestbook"
	"github.com/devops-workshop/demo-apps/apis/visits"
	"github.com/devops-workshop/demo-apps/internal/config"
	"github.com/devops-workshop/demo-apps/pkg/lifecycle"
	"github.com/devops-workshop/demo-apps/pkg/storage/mongostore"
	"github.com/devops-workshop/demo-apps/pkg/storage/redisstore"
	"github.com/devops-workshop/demo-apps/pkg/storage/sqlstore"
)

// Openers open the database handles of the database-backed apps. Tests
// replace them with in-memory fakes.
type Openers struct {
	Counter lifecycle.OpenFunc[visits.Counter]
	Book    lifecycle.OpenFunc[guestbook.Book]
}

// DefaultOpeners connects to the databases described by cfg.
func DefaultOpeners(cfg *config.Config) Openers {
	var openers Openers

	switch cfg.App {
	case config.AppMongoVisits, config.AppMongoHello:
		mongoConfig := mongostore.Config{
			URI:                    cfg.Mongo.URL,
			Database:               cfg.Mongo.Database,
			Collection:             cfg.Mongo.Collection,
			ServerSelectionTimeout: cfg.Timeouts.Connect,
		}
		openers.Counter = func(ctx context.Context) (visits.Counter, error) {
			client, err := mongostore.Connect(ctx, mongoConfig)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
	case config.AppRedisVisits:
		redisConfig := redisstore.Config{
			Address:   cfg.Redis.Address,
			Password:  cfg.Redis.Password,
			Database:  cfg.Redis.Database,
			KeyPrefix: cfg.Redis.KeyPrefix,
		}
		openers.Counter = func(ctx context.Context) (visits.Counter, error) {
			client, err := redisstore.Connect(ctx, redisConfig)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
	case config.AppGuestbook:
		sqlConfig := sqlstore.Config{
			Driver:   cfg.SQL.Driver,
			Host:     cfg.SQL.Host,
			Port:     cfg.SQL.Port,
			User:     cfg.SQL.User,
			Password: cfg.SQL.Password,
			Database: cfg.SQL.Database,
		}
		openers.Book = func(ctx context.Context) (guestbook.Book, error) {
			store, err := sqlstore.Open(ctx, sqlConfig)
			if err != nil {
				return nil, err
			}
			return store, nil
		}
	}

	return openers
}
