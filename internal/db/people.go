package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/keepsakehq/keepsake/internal/errors"
	"github.com/keepsakehq/keepsake/internal/photo"
)

// ErrDuplicatePerson is returned when an insert collides with an existing id.
var ErrDuplicatePerson = &errors.KeepsakeError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "person id already exists",
}

// InsertPerson stores a new person record.
func InsertPerson(ctx context.Context, db *sql.DB, p *photo.Person) error {
	query := `INSERT INTO people (id, name, face_url, created_at) VALUES (?, ?, ?, ?)`

	_, err := db.ExecContext(ctx, query, p.ID, p.Name, p.FaceURL, time.Now().Unix())
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicatePerson
		}
		return errors.NewInternal(err)
	}

	return nil
}

// GetPersonByID retrieves a person record.
func GetPersonByID(ctx context.Context, db *sql.DB, id string) (*photo.Person, error) {
	query := `SELECT id, name, face_url FROM people WHERE id = ?`

	var p photo.Person
	err := db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.FaceURL)
	if err == sql.ErrNoRows {
		return nil, errors.NewPersonNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return &p, nil
}

// ListPeople returns all known people in insertion order.
func ListPeople(ctx context.Context, db *sql.DB) ([]photo.Person, error) {
	query := `SELECT id, name, face_url FROM people ORDER BY rowid ASC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	people := make([]photo.Person, 0)
	for rows.Next() {
		var p photo.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.FaceURL); err != nil {
			return nil, errors.NewInternal(err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return people, nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
