package db

import (
	"log"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Instance *gorm.DB

// Init connects to MySQL when mysqlDSN is set, otherwise to the SQLite file
func Init(mysqlDSN, sqliteFile string) {
	db, err := Open(mysqlDSN, sqliteFile)
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
}

func Open(mysqlDSN, sqliteFile string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger:                 logger.Default.LogMode(logger.Warn),
	}
	if mysqlDSN != "" {
		cfg, err := mysqldriver.ParseDSN(mysqlDSN)
		if err != nil {
			return nil, err
		}
		// created_at values are compared as times, not strings
		cfg.ParseTime = true
		log.Printf("Using MySQL database %q at %s", cfg.DBName, cfg.Addr)
		return gorm.Open(mysql.Open(cfg.FormatDSN()), gormConfig)
	}
	log.Printf("Using SQLite database %s", sqliteFile)
	return gorm.Open(sqlite.Open(sqliteFile), gormConfig)
}
