package database

import (
	"database/sql"
	"fmt"

	"github.com/lshigami/Quizdesk/config"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // registers the pure-Go "sqlite" driver
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewDatabase opens the database selected by DATABASE_DRIVER.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	lg := NewGormLogger()
	switch cfg.Database.Driver {
	case DriverSQLite:
		log.Info().Str("dsn", cfg.Database.DSN).Msg("Opening SQLite database")
		return OpenSQLite(cfg.Database.DSN, lg)
	case DriverPostgres, "":
		return openPostgres(cfg, lg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func openPostgres(cfg *config.Config, lg gormlogger.Interface) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: lg})
	if err != nil {
		log.Error().Err(err).Str("host", cfg.Database.Host).Msg("Failed to connect to PostgreSQL")
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.Name).Msg("Connected to PostgreSQL")
	return db, nil
}

// OpenSQLite opens dsn through the modernc driver and hands the connection
// to gorm. SQLite serializes writers, so the pool holds a single connection;
// this also keeps a shared in-memory database alive for its whole lifetime.
func OpenSQLite(dsn string, lg gormlogger.Interface) (*gorm.DB, error) {
	conn, err := sql.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db, err := gorm.Open(sqlite.Dialector{DriverName: DriverSQLite, DSN: dsn, Conn: conn}, &gorm.Config{Logger: lg})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to sqlite: %w", err)
	}
	return db, nil
}
