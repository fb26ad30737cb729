package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"

	"moves/config"
)

var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrWriteFailed      = errors.New("write failed")
	ErrReadFailed       = errors.New("read failed")
)

// Store hands out connections scoped to a single request.
type Store interface {
	Conn(ctx context.Context) (*Conn, error)
	Close() error
}

// Move is one guestbook entry. Fields hold the raw trimmed submission.
type Move struct {
	ID        int64
	Name      string
	Email     string
	Move      string
	IPAddress string
}

type SQLStore struct {
	db *sql.DB
}

// Open connects to the configured backend and applies the schema.
func Open(cfg config.DBConfig) (*SQLStore, error) {
	driverName, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if _, err := db.Exec(schemaFor(cfg.Driver)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// New wraps an already opened pool. The schema is assumed to exist.
func New(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Conn acquires a dedicated connection from the pool. Callers must Close it.
func (s *SQLStore) Conn(ctx context.Context) (*Conn, error) {
	c, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := c.PingContext(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &Conn{conn: c}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

type Conn struct {
	conn *sql.Conn
}

// Insert appends a move and returns the id assigned by the database.
func (c *Conn) Insert(ctx context.Context, name, email, move, ipaddress string) (int64, error) {
	result, err := c.conn.ExecContext(ctx,
		"INSERT INTO moves (name, email, move, ipaddress) VALUES (?, ?, ?, ?)",
		name, email, move, ipaddress,
	)
	if err != nil {
		return 0, classify(ErrWriteFailed, "failed to insert move", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read insert id: %v", ErrWriteFailed, err)
	}
	return id, nil
}

// ListRecent returns up to limit moves, newest first.
func (c *Conn) ListRecent(ctx context.Context, limit int) ([]Move, error) {
	moves := []Move{}
	if limit <= 0 {
		return moves, nil
	}

	rows, err := c.conn.QueryContext(ctx,
		"SELECT id, name, email, move, ipaddress FROM moves ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list moves: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m Move
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Move, &m.IPAddress); err != nil {
			return nil, fmt.Errorf("%w: failed to scan move: %v", ErrReadFailed, err)
		}
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(ErrReadFailed, "failed to list moves", err)
	}
	return moves, nil
}

// Close returns the connection to the pool.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// classify reports a lost connection as ErrStoreUnavailable and anything
// else as kind.
func classify(kind error, msg string, err error) error {
	if isConnError(err) {
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, msg, err)
	}
	return fmt.Errorf("%w: %s: %v", kind, msg, err)
}

func isConnError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
