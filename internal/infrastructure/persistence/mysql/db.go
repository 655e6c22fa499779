// Package mysql 作者/课程仓储的GORM实现
//
// 包名沿用mysql，但驱动由database.driver决定(mysql | postgres | sqlite)，
// 测试与本地开发使用sqlite。
package mysql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/courselibrary/internal/infrastructure/config"
	"github.com/xiebiao/courselibrary/pkg/logger"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 按配置选择GORM方言
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. SQL日志写入zap，开发环境打印全部SQL，其他环境只打印慢查询和错误
// 4. 启动时的连接检查按重试策略处理瞬时故障
// 5. 按配置自动迁移表结构
func NewDB(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   newGormLogger(log, cfg.Server.Mode),
		DisableForeignKeyConstraintWhenMigrating: cfg.Database.Driver == config.DriverSQLite,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	if isMemorySQLite(cfg.Database) {
		// 内存库的每个连接都是独立的数据库，连接关闭即数据丢失
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}

	policy := RetryPolicy{MaxRetries: cfg.Database.MaxRetryCount, MaxDelay: cfg.Database.MaxRetryDelay}
	if err := policy.Do(context.Background(), sqlDB.Ping); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功", "driver", cfg.Database.Driver)

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

func dialectorFor(d config.DatabaseConfig) (gorm.Dialector, error) {
	switch d.Driver {
	case config.DriverMySQL:
		return mysql.Open(d.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(d.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(d.DSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", d.Driver)
	}
}

func isMemorySQLite(d config.DatabaseConfig) bool {
	return d.Driver == config.DriverSQLite && strings.Contains(d.Path, ":memory:")
}

// AutoMigrate 自动迁移表结构
// 注意：生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&AuthorModel{},
		&CourseModel{},
	)
}

// Close 关闭连接池
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newGormLogger(log *logger.Logger, mode string) gormlogger.Interface {
	level := gormlogger.Warn
	if mode == "debug" {
		level = gormlogger.Info
	}
	return gormlogger.New(log, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
