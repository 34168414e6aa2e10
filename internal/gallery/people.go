package gallery

import (
	"context"
	"database/sql"
	"strings"

	"github.com/keepsakehq/keepsake/internal/db"
	"github.com/keepsakehq/keepsake/internal/errors"
	"github.com/keepsakehq/keepsake/internal/photo"
)

// PeopleInput contains parameters for the People operation.
type PeopleInput struct {
	Mode string // "public" (default) or "vault"
}

// PersonSummary is a known person with their photo count in one partition.
type PersonSummary struct {
	photo.Person
	PhotoCount int `json:"photo_count"`
}

// PeopleOutput contains the result of the People operation.
type PeopleOutput struct {
	Mode  photo.AccessMode `json:"mode"`
	Items []PersonSummary  `json:"items"`
}

// People returns the known people with per-mode photo counts. In public
// mode, people with no accessible photos are hidden; the vault view shows
// everyone.
func People(ctx context.Context, database *sql.DB, input PeopleInput) (*PeopleOutput, error) {
	mode, err := parseMode(input.Mode)
	if err != nil {
		return nil, err
	}

	people, err := db.ListPeople(ctx, database)
	if err != nil {
		return nil, err
	}

	photos, err := db.AllPhotos(ctx, database, mode == photo.ModeVault)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, p := range photos {
		for _, id := range p.PersonIDs {
			counts[id]++
		}
	}

	items := make([]PersonSummary, 0, len(people))
	for _, person := range people {
		count := counts[person.ID]
		if count == 0 && mode != photo.ModeVault {
			continue
		}
		items = append(items, PersonSummary{Person: person, PhotoCount: count})
	}

	return &PeopleOutput{
		Mode:  mode,
		Items: items,
	}, nil
}

// AddPersonInput contains parameters for the AddPerson operation.
type AddPersonInput struct {
	ID      string // optional; generated when empty
	Name    string // required
	FaceURL string
}

// AddPersonOutput contains the result of the AddPerson operation.
type AddPersonOutput struct {
	Person photo.Person `json:"person"`
}

// AddPerson registers a known face for the detection collaborator to use.
func AddPerson(ctx context.Context, database *sql.DB, input AddPersonInput) (*AddPersonOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.NewInvalidRequest("name is required")
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		generated, err := generateULID()
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		id = generated
	}

	p := &photo.Person{
		ID:      id,
		Name:    name,
		FaceURL: input.FaceURL,
	}

	if err := db.InsertPerson(ctx, database, p); err != nil {
		return nil, err
	}

	return &AddPersonOutput{Person: *p}, nil
}
