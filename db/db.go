package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"vacationrental/models"
)

var (
	ErrNotFound  = errors.New("db: record not found")
	ErrDuplicate = errors.New("db: duplicate record")
)

const schema = `
CREATE TABLE IF NOT EXISTS properties (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	location TEXT NOT NULL,
	price REAL NOT NULL,
	property_type TEXT NOT NULL,
	accommodates INTEGER NOT NULL,
	bedrooms INTEGER NOT NULL,
	bathrooms REAL NOT NULL,
	amenities TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS clients (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL
);
`

// Store is the relational store holding properties and clients. Every method
// runs a single statement on the shared connection.
type Store struct {
	db *sqlx.DB
}

// Open opens the SQLite database at dataSourceName and makes sure the schema
// exists.
func Open(dataSourceName string) (*Store, error) {
	conn, err := sqlx.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer at a time.
	conn.SetMaxOpenConns(1)

	s := &Store{db: conn}
	if err := s.EnsureSchema(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the tables if they are absent. It has no effect on an
// existing database and may be called any number of times.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Store) InsertProperty(ctx context.Context, p models.Property) (int64, error) {
	result, err := s.db.NamedExecContext(ctx, `
		INSERT INTO properties (title, description, location, price, property_type, accommodates, bedrooms, bathrooms, amenities)
		VALUES (:title, :description, :location, :price, :property_type, :accommodates, :bedrooms, :bathrooms, :amenities)`, p)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) GetAllProperties(ctx context.Context) ([]models.Property, error) {
	properties := []models.Property{}
	err := s.db.SelectContext(ctx, &properties, "SELECT * FROM properties ORDER BY id")
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// GetPropertyByID returns ErrNotFound when no row has the given id.
func (s *Store) GetPropertyByID(ctx context.Context, id int64) (models.Property, error) {
	var p models.Property
	err := s.db.GetContext(ctx, &p, "SELECT * FROM properties WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Property{}, ErrNotFound
	}
	return p, err
}

// CreateClient inserts a credential record. A username that is already taken
// yields ErrDuplicate.
func (s *Store) CreateClient(ctx context.Context, username, password string) (int64, error) {
	result, err := s.db.ExecContext(ctx, "INSERT INTO clients (username, password) VALUES (?, ?)", username, password)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) ClientExists(ctx context.Context, username string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM clients WHERE username = ?", username)
	return count > 0, err
}

// VerifyClient reports whether a client with exactly this username and
// password exists. Comparison is case-sensitive.
func (s *Store) VerifyClient(ctx context.Context, username, password string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM clients WHERE username = ? AND password = ?", username, password)
	return count > 0, err
}
