package db

import (
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/loc/inventory-service/internal/config"
)

// Open connects to the backend selected by conf.Database.Driver.
func Open(conf *config.AppConfig) (*gorm.DB, error) {
	switch conf.Database.Driver {
	case config.DriverPostgres:
		return OpenPostgres(conf.Postgres)
	case config.DriverMySQL:
		return OpenMySQL(conf.MySQL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.Database.Driver)
	}
}

func OpenPostgres(conf *config.PostgresConfig) (*gorm.DB, error) {
	return OpenPostgresWithURL(PostgresDSN(conf))
}

func OpenPostgresWithURL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	return db, nil
}

func OpenMySQL(conf *config.MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(gormmysql.Open(MySQLDSN(conf)), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	return db, nil
}

func PostgresDSN(conf *config.PostgresConfig) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		conf.Host, conf.User, conf.Password, conf.DB, conf.Port, conf.SSLMode,
	)
}

// MySQLDSN enables ClientFoundRows so an UPDATE that leaves a row unchanged
// still reports it as affected.
func MySQLDSN(conf *config.MySQLConfig) string {
	c := mysql.NewConfig()
	c.User = conf.User
	c.Passwd = conf.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(conf.Host, conf.Port)
	c.DBName = conf.DB
	c.ParseTime = true
	c.ClientFoundRows = true

	return c.FormatDSN()
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}
}
