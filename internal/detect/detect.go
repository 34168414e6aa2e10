// Package detect assigns known people to newly added photos. The real
// gallery would call a face recognition model here; the shipped
// implementation is a simulation that tags a random subset of the
// registered people.
package detect

import (
	"context"
	"database/sql"
	"math/rand"

	"github.com/keepsakehq/keepsake/internal/db"
)

// Service resolves a photo URL to the ids of people recognized in it.
type Service interface {
	Detect(ctx context.Context, url string) ([]string, error)
}

// Simulated picks 0 to 2 of the registered people at random, ignoring the
// image content entirely. A nil Rand falls back to the shared source.
type Simulated struct {
	DB   *sql.DB
	Rand *rand.Rand
}

func (s *Simulated) Detect(ctx context.Context, url string) ([]string, error) {
	people, err := db.ListPeople(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if len(people) == 0 {
		return nil, nil
	}

	shuffled := make([]string, len(people))
	for i, p := range people {
		shuffled[i] = p.ID
	}
	s.shuffle(shuffled)

	n := s.intn(3)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n], nil
}

func (s *Simulated) shuffle(ids []string) {
	swap := func(i, j int) { ids[i], ids[j] = ids[j], ids[i] }
	if s.Rand != nil {
		s.Rand.Shuffle(len(ids), swap)
		return
	}
	rand.Shuffle(len(ids), swap)
}

func (s *Simulated) intn(n int) int {
	if s.Rand != nil {
		return s.Rand.Intn(n)
	}
	return rand.Intn(n)
}
