// Package pagecache keeps the raw pages fetched for a (source, date) so
// that scraping can be repeated without crawling again.
package pagecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "embed"
)

//go:embed schema.sql
var Schema string

var ErrNotCached = errors.New("pages not cached")

type Page struct {
	Url       string
	FetchedAt time.Time
	Body      []byte
}

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// Open opens the database described by config and makes sure the schema
// exists.
func Open(ctx context.Context, config Config) (Store, error) {
	database, err := config.OpenDB()
	if err != nil {
		return Store{}, err
	}
	_, err = database.ExecContext(ctx, Schema)
	if err != nil {
		database.Close()
		return Store{}, fmt.Errorf("create schema: %w", err)
	}
	return NewStore(database), nil
}

func (s Store) Close() error {
	return s.db.Close()
}

// Put replaces every page cached for (source, date) with pages, in order.
func (s Store) Put(ctx context.Context, source, date string, pages []Page) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		"delete from crawled_page where source = ? and date = ?",
		source, date,
	)
	if err != nil {
		return err
	}

	for i, page := range pages {
		_, err = tx.ExecContext(
			ctx,
			`insert into crawled_page(source, date, idx, url, fetched_at, body)
			values (?, ?, ?, ?, ?, ?)`,
			source, date, i, page.Url, page.FetchedAt.Unix(), page.Body,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get returns the pages cached for (source, date) in the order they were
// put, ErrNotCached if there are none.
func (s Store) Get(ctx context.Context, source, date string) ([]Page, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`select url, fetched_at, body from crawled_page
		where source = ? and date = ?
		order by idx asc`,
		source, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var page Page
		var fetchedAt int64
		err := rows.Scan(&page.Url, &fetchedAt, &page.Body)
		if err != nil {
			return nil, err
		}
		page.FetchedAt = time.Unix(fetchedAt, 0).UTC()
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%s on %s: %w", source, date, ErrNotCached)
	}
	slog.DebugContext(ctx, "read cached pages", "source", source, "date", date, "count", len(pages))
	return pages, nil
}

// Dates lists every date with cached pages for source, oldest first.
func (s Store) Dates(ctx context.Context, source string) ([]string, error) {
	rows, err := s.db.QueryContext(
		ctx,
		"select distinct date from crawled_page where source = ? order by date asc",
		source,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}
