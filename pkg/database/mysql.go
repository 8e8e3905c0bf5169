// Package database 负责初始化快照后端所需的数据库连接。
package database

import (
	"fmt"
	"time"

	"chatshell-go/pkg/log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func gormConfig() *gorm.Config {
	// GORM 自带的日志过于啰嗦，只保留慢查询和错误
	return &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
}

// InitMySQL 初始化 MySQL 数据库连接
func InitMySQL(dsn string) {
	var err error
	DB, err = gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		log.Fatal("failed to connect database", err)
	}

	// 配置连接池
	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", err)
	}

	sqlDB.SetMaxIdleConns(10)           // 设置空闲连接池中连接的最大数量
	sqlDB.SetMaxOpenConns(100)          // 设置打开数据库连接的最大数量
	sqlDB.SetConnMaxLifetime(time.Hour) // 设置了连接可复用的最大时间

	log.Info("MySQL database connected successfully")
}

// OpenSQLite 打开（必要时创建）一个 SQLite 数据库文件。
// path 也可以是 "file::memory:" 之类的内存 DSN，测试中使用。
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// SQLite 只允许单写者
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// InitSQLite 初始化本地 SQLite 连接，失败时直接退出。
func InitSQLite(path string) {
	var err error
	DB, err = OpenSQLite(path)
	if err != nil {
		log.Fatal("failed to connect sqlite", err)
	}
	log.Infof("SQLite database opened at %s", path)
}
