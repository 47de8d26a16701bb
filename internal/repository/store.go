package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/gorm"

	"github.com/d60-Lab/zenith/config"
	"github.com/d60-Lab/zenith/internal/model"
	"github.com/d60-Lab/zenith/pkg/database"
)

// Store 按连接串选出的一组仓储
type Store struct {
	Driver   database.Driver
	Posts    PostRepository
	Products ProductRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping 健康检查
func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

// Close 释放连接池
func (s *Store) Close(ctx context.Context) error { return s.close(ctx) }

// Open 根据 database.uri 打开对应后端
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	driver, err := database.DetectDriver(cfg.Database.URI)
	if err != nil {
		return nil, err
	}
	if driver == database.DriverMongo {
		client, err := database.InitMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		st, err := NewMongoStore(ctx, client.Database(cfg.Database.Name))
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return st, nil
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	st, err := NewGormStore(db, driver)
	if err != nil {
		if sqlDB, e := db.DB(); e == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return st, nil
}

// InitSchema 初始化关系型表结构
func InitSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Post{}, &model.Product{}); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	return nil
}

// NewGormStore 建表后返回 gorm 仓储
func NewGormStore(db *gorm.DB, driver database.Driver) (*Store, error) {
	if err := InitSchema(db); err != nil {
		return nil, err
	}
	return &Store{
		Driver:   driver,
		Posts:    NewPostRepository(db),
		Products: NewProductRepository(db),
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}, nil
}

// NewMongoStore 建索引后返回文档库仓储
func NewMongoStore(ctx context.Context, db *mongo.Database) (*Store, error) {
	posts := db.Collection(PostCollection)
	products := db.Collection(ProductCollection)
	if err := EnsureCreatedIndex(ctx, posts); err != nil {
		return nil, fmt.Errorf("ensure %s indexes: %w", PostCollection, err)
	}
	if err := EnsureCreatedIndex(ctx, products); err != nil {
		return nil, fmt.Errorf("ensure %s indexes: %w", ProductCollection, err)
	}
	client := db.Client()
	return &Store{
		Driver:   database.DriverMongo,
		Posts:    NewMongoPostRepository(posts),
		Products: NewMongoProductRepository(products),
		ping:     func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
		close:    client.Disconnect,
	}, nil
}
