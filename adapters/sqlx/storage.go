package sqlx

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"wordquest/core"
)

// Driver names a supported SQL dialect.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

// Config holds SQL connection configuration.
type Config struct {
	Driver          Driver        `json:"driver"`
	DSN             string        `json:"dsn"`
	SaveKey         string        `json:"save_key"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
}

// DefaultConfig returns sensible defaults for the given driver.
func DefaultConfig(driver Driver) Config {
	return Config{
		Driver:          driver,
		SaveKey:         "default",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
	}
}

// Store persists the GameState snapshot in a game_saves table, one row
// per save key. The state column holds the JSON blob so the schema does
// not chase the state shape.
//
// Schema:
//
//	CREATE TABLE game_saves (
//	    save_key   VARCHAR(128) PRIMARY KEY,
//	    state      TEXT NOT NULL,
//	    updated_at TIMESTAMP NOT NULL
//	);
type Store struct {
	db      *sqlx.DB
	driver  Driver
	saveKey string
}

// New opens a database connection and verifies it.
func New(config Config) (*Store, error) {
	if config.Driver != DriverPostgres && config.Driver != DriverMySQL {
		return nil, fmt.Errorf("unsupported driver: %s", config.Driver)
	}
	db, err := sqlx.Open(string(config.Driver), config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewWithDB(db, config.Driver, config.SaveKey), nil
}

// NewWithDB wraps an existing connection (useful for testing).
func NewWithDB(db *sqlx.DB, driver Driver, saveKey string) *Store {
	if saveKey == "" {
		saveKey = "default"
	}
	return &Store{db: db, driver: driver, saveKey: saveKey}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context) (core.GameState, bool, error) {
	var raw string
	query := s.db.Rebind(`SELECT state FROM game_saves WHERE save_key = ?`)
	err := s.db.GetContext(ctx, &raw, query, s.saveKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.GameState{}, false, nil
		}
		return core.GameState{}, false, fmt.Errorf("failed to load state: %w", err)
	}
	var state core.GameState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return core.GameState{}, false, fmt.Errorf("failed to decode state: %w", err)
	}
	return state, true, nil
}

func (s *Store) Save(ctx context.Context, state core.GameState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	query := s.db.Rebind(s.upsertQuery())
	if _, err := s.db.ExecContext(ctx, query, s.saveKey, string(b), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	query := s.db.Rebind(`DELETE FROM game_saves WHERE save_key = ?`)
	if _, err := s.db.ExecContext(ctx, query, s.saveKey); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}

func (s *Store) upsertQuery() string {
	if s.driver == DriverMySQL {
		return `INSERT INTO game_saves (save_key, state, updated_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE state = VALUES(state), updated_at = VALUES(updated_at)`
	}
	return `INSERT INTO game_saves (save_key, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (save_key) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`
}
