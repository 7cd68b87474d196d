package store

import (
	"context"
	"database/sql"
	"fmt"
)

// execer is the write surface shared by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WritePage inserts a page record.
// Uses ON CONFLICT(page_id) DO NOTHING for idempotency - duplicate IDs are
// silently ignored. A clash on (namespace, title) still returns an error.
func (s *Store) WritePage(ctx context.Context, p Page) error {
	return writePage(ctx, s.db, p)
}

// WriteCategoryLink inserts a category membership.
// Note: The page referenced by PageID must exist (foreign key constraint).
func (s *Store) WriteCategoryLink(ctx context.Context, l CategoryLink) error {
	return writeCategoryLink(ctx, s.db, l)
}

// WriteReview inserts or replaces the review status of a page.
func (s *Store) WriteReview(ctx context.Context, r Review) error {
	return writeReview(ctx, s.db, r)
}

func writePage(ctx context.Context, db execer, p Page) error {
	redirect := 0
	if p.IsRedirect {
		redirect = 1
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO page
		(page_id, page_namespace, page_title, page_is_redirect, page_len, page_touched, page_counter)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(page_id) DO NOTHING
	`,
		p.ID,
		p.Namespace,
		p.Title,
		redirect,
		p.Length,
		FormatTimestamp(p.Touched),
		p.Counter,
	)
	if err != nil {
		return fmt.Errorf("write page %d: %w", p.ID, err)
	}
	return nil
}

func writeCategoryLink(ctx context.Context, db execer, l CategoryLink) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO categorylinks
		(cl_from, cl_to, cl_sortkey, cl_timestamp, cl_type)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cl_from, cl_to) DO NOTHING
	`,
		l.PageID,
		l.Category,
		l.SortKey,
		FormatTimestamp(l.Added),
		l.Type,
	)
	if err != nil {
		return fmt.Errorf("write category link %d -> %s: %w", l.PageID, l.Category, err)
	}
	return nil
}

func writeReview(ctx context.Context, db execer, r Review) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO flaggedpages (fp_page_id, fp_stable, fp_quality)
		VALUES (?, ?, ?)
		ON CONFLICT(fp_page_id) DO UPDATE SET
			fp_stable = excluded.fp_stable,
			fp_quality = excluded.fp_quality
	`,
		r.PageID,
		nullInt64(r.Stable),
		nullInt(r.Quality),
	)
	if err != nil {
		return fmt.Errorf("write review %d: %w", r.PageID, err)
	}
	return nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
