// ABOUTME: SQLite-based page store for persistent page content
// ABOUTME: Provides a file-based store that survives application restarts

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	coreerrors "pagesmith-api/core/errors"

	_ "github.com/mattn/go-sqlite3"
)

// maxContentLength bounds a single page document
const maxContentLength = 8 * 1024 * 1024

// Store implements the PageStore interface using SQLite
type Store struct {
	db       *sql.DB
	filePath string
}

// NewStore opens (creating if needed) the page database at filePath
func NewStore(filePath string) (*Store, error) {
	if filePath == "" {
		filePath = "pages.db"
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	// a single writer avoids SQLITE_BUSY under concurrent stores
	db.SetMaxOpenConns(1)

	s := &Store{db: db, filePath: filePath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initSchema creates the pages table if it doesn't exist
func (s *Store) initSchema() error {
	query := `
		PRAGMA journal_mode=WAL;
		CREATE TABLE IF NOT EXISTS pages (
			id TEXT PRIMARY KEY,
			content BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`

	_, err := s.db.Exec(query)
	return err
}

// Load returns the stored content of a page
func (s *Store) Load(ctx context.Context, pageID string) ([]byte, error) {
	if pageID == "" {
		return nil, errors.New("page id cannot be empty")
	}

	var content []byte
	err := s.db.QueryRowContext(ctx, "SELECT content FROM pages WHERE id = ?", pageID).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &coreerrors.NotFoundError{Resource: "page", ID: pageID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load page: %w", err)
	}

	return content, nil
}

// Store replaces the content of a page
func (s *Store) Store(ctx context.Context, pageID string, content []byte) error {
	if pageID == "" {
		return errors.New("page id cannot be empty")
	}
	if len(content) > maxContentLength {
		return fmt.Errorf("page content exceeds %d bytes", maxContentLength)
	}

	query := `
		INSERT INTO pages (id, content, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, pageID, content, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to store page: %w", err)
	}
	return nil
}

// Delete removes a page; deleting a missing page is not an error
func (s *Store) Delete(ctx context.Context, pageID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE id = ?", pageID); err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Stats returns store statistics
func (s *Store) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&count); err != nil {
		return nil, err
	}
	stats["total_pages"] = count

	var pageCount, pageSize int
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err == nil {
			stats["db_size_bytes"] = pageCount * pageSize
		}
	}

	stats["file_path"] = s.filePath
	return stats, nil
}
