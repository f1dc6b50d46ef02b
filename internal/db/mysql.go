package db

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const (
	mysqlMaxOpenConns    = 10
	mysqlMaxIdleConns    = 5
	mysqlConnMaxLifetime = 30 * time.Minute
)

// NewMySQL connects the backend double to MySQL. dsn uses the
// go-sql-driver format, e.g. "user:pass@tcp(localhost:3306)/floradmin?parseTime=true".
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("mysql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(mysqlMaxOpenConns)
	sqlDB.SetMaxIdleConns(mysqlMaxIdleConns)
	sqlDB.SetConnMaxLifetime(mysqlConnMaxLifetime)
	return db, nil
}
