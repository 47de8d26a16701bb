package database

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/zenith/config"
)

// Driver 由连接串 scheme 推断的存储后端
type Driver string

const (
	DriverMongo    Driver = "mongo"
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// DetectDriver 根据连接串识别后端，无法识别时返回错误
func DetectDriver(uri string) (Driver, error) {
	u := strings.TrimSpace(uri)
	switch {
	case strings.HasPrefix(u, "mongodb://"), strings.HasPrefix(u, "mongodb+srv://"):
		return DriverMongo, nil
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(u, "sqlite://"), strings.HasPrefix(u, "file:"), u == ":memory:":
		return DriverSQLite, nil
	}
	return "", fmt.Errorf("unsupported database uri scheme: %q", redact(u))
}

// sqlitePath 去掉 sqlite:// 前缀，file: 连接串原样交给驱动
func sqlitePath(uri string) string {
	return strings.TrimPrefix(strings.TrimSpace(uri), "sqlite://")
}

// InitDB 打开关系型存储（postgres / sqlite）
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	driver, err := DetectDriver(cfg.Database.URI)
	if err != nil {
		return nil, err
	}

	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}
	if cfg.Server.Mode == "release" {
		gcfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	var db *gorm.DB
	switch driver {
	case DriverPostgres:
		db, err = gorm.Open(postgres.Open(cfg.Database.URI), gcfg)
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(sqlitePath(cfg.Database.URI)), gcfg)
	default:
		return nil, fmt.Errorf("%s is not a relational backend", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// sqlite 单写者
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

func redact(uri string) string {
	at := strings.LastIndex(uri, "@")
	scheme := strings.Index(uri, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return uri
	}
	return uri[:scheme+3] + "***" + uri[at:]
}
