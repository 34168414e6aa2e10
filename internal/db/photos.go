package db

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/keepsakehq/keepsake/internal/errors"
	"github.com/keepsakehq/keepsake/internal/photo"
)

// InsertPhoto stores a new photo.
func InsertPhoto(ctx context.Context, db *sql.DB, p *photo.Photo) error {
	filtersJSON, err := marshalFilters(p.Filters)
	if err != nil {
		return err
	}
	personsJSON, err := marshalPersonIDs(p.PersonIDs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO photos (
			id, url, private, taken_at, title, caption,
			filters_json, person_ids_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.ExecContext(ctx, query,
		p.ID, p.URL, boolToInt(p.Private), p.TakenAt,
		toNullString(p.Title), toNullString(p.Caption),
		filtersJSON, personsJSON, p.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// GetPhotoByID retrieves a photo by its ULID.
func GetPhotoByID(ctx context.Context, db *sql.DB, id string) (*photo.Photo, error) {
	query := `
		SELECT id, url, private, taken_at, title, caption,
			filters_json, person_ids_json, created_at
		FROM photos
		WHERE id = ?
	`

	row := db.QueryRowContext(ctx, query, id)
	p, err := scanPhoto(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return p, nil
}

// ListPhotos returns the photos of one partition in insertion order
// (rowid ascending), plus the partition's total count.
func ListPhotos(ctx context.Context, db *sql.DB, private bool, limit, offset int) ([]photo.Summary, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM photos WHERE private = ?`
	if err := db.QueryRowContext(ctx, countQuery, boolToInt(private)).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, url, private, taken_at, title, caption,
			filters_json, person_ids_json, created_at
		FROM photos
		WHERE private = ?
		ORDER BY rowid ASC
		LIMIT ? OFFSET ?
	`

	rows, err := db.QueryContext(ctx, query, boolToInt(private), limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	summaries := make([]photo.Summary, 0)
	for rows.Next() {
		p, err := scanPhotoRows(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		summaries = append(summaries, p.ToSummary())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return summaries, total, nil
}

// AllPhotos returns every photo of one partition in insertion order,
// including URL payloads. Used by the view projection.
func AllPhotos(ctx context.Context, db *sql.DB, private bool) ([]photo.Photo, error) {
	query := `
		SELECT id, url, private, taken_at, title, caption,
			filters_json, person_ids_json, created_at
		FROM photos
		WHERE private = ?
		ORDER BY rowid ASC
	`

	rows, err := db.QueryContext(ctx, query, boolToInt(private))
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	photos := make([]photo.Photo, 0)
	for rows.Next() {
		p, err := scanPhotoRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		photos = append(photos, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return photos, nil
}

// FlipPrivate flips a photo's partition membership with a single statement,
// so the photo is never observable in an in-between state.
func FlipPrivate(ctx context.Context, db *sql.DB, id string) error {
	query := `UPDATE photos SET private = 1 - private WHERE id = ?`

	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// UpdatePhotoFilters replaces a photo's stored adjustment wholesale.
// A nil adjustment clears the column (identity adjustment).
func UpdatePhotoFilters(ctx context.Context, db *sql.DB, id string, f *photo.FilterAdjustment) error {
	filtersJSON, err := marshalFilters(f)
	if err != nil {
		return err
	}

	query := `UPDATE photos SET filters_json = ? WHERE id = ?`

	result, err := db.ExecContext(ctx, query, filtersJSON, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// DeletePhoto permanently removes a photo. There is no soft delete or undo.
func DeletePhoto(ctx context.Context, db *sql.DB, id string) error {
	query := `DELETE FROM photos WHERE id = ?`

	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// scanner abstracts sql.Row and sql.Rows for the shared scan helper.
type scanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row *sql.Row) (*photo.Photo, error) {
	return scanPhotoFrom(row)
}

func scanPhotoRows(rows *sql.Rows) (*photo.Photo, error) {
	return scanPhotoFrom(rows)
}

func scanPhotoFrom(s scanner) (*photo.Photo, error) {
	var (
		p           photo.Photo
		private     int
		title       sql.NullString
		caption     sql.NullString
		filtersJSON sql.NullString
		personsJSON sql.NullString
	)

	err := s.Scan(
		&p.ID, &p.URL, &private, &p.TakenAt, &title, &caption,
		&filtersJSON, &personsJSON, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Private = private != 0
	p.Title = fromNullString(title)
	p.Caption = fromNullString(caption)

	if filtersJSON.Valid {
		var f photo.FilterAdjustment
		if err := json.Unmarshal([]byte(filtersJSON.String), &f); err != nil {
			return nil, err
		}
		p.Filters = &f
	}

	if personsJSON.Valid {
		var ids []string
		if err := json.Unmarshal([]byte(personsJSON.String), &ids); err != nil {
			return nil, err
		}
		p.PersonIDs = ids
	}

	return &p, nil
}

func marshalFilters(f *photo.FilterAdjustment) (sql.NullString, error) {
	if f == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return sql.NullString{}, errors.NewInternal(err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func marshalPersonIDs(ids []string) (sql.NullString, error) {
	if len(ids) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return sql.NullString{}, errors.NewInternal(err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
