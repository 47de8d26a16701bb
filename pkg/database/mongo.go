package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/d60-Lab/zenith/config"
)

// InitMongo 连接文档库并 ping 主节点；连接池由驱动管理
func InitMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	if d, err := DetectDriver(cfg.Database.URI); err != nil {
		return nil, err
	} else if d != DriverMongo {
		return nil, fmt.Errorf("%s is not a document backend", d)
	}

	opts := options.Client().
		ApplyURI(cfg.Database.URI).
		SetAppName(cfg.Tracing.ServiceName).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}
