package db

import (
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/yourusername/casetracker/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Connect opens the database described by c. Supported drivers are
// "postgres" and "sqlite3".
func Connect(c config.DBConfig) (*sqlx.DB, error) {
	switch c.Driver {
	case "postgres":
		return sqlx.Connect("postgres", DSN(c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode))
	case "sqlite3":
		return ConnectSQLite(c.Path)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", c.Driver)
	}
}

// ConnectSQLite opens a SQLite database at path (":memory:" for a scratch
// database) with foreign keys enforced.
func ConnectSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// single writer; also keeps ":memory:" on one connection
	db.SetMaxOpenConns(1)
	return db, nil
}

func DSN(host string, port int, user, pass, name, ssl string) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, name, ssl,
	)
}

// Migrate creates any missing tables. Safe to run on every start.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
