package gallery

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/keepsakehq/keepsake/internal/db"
	"github.com/keepsakehq/keepsake/internal/photo"
)

// TimelineInput contains parameters for the Timeline projection.
type TimelineInput struct {
	Mode string // "public" (default) or "vault"

	// Query keeps only photos whose title contains it, case-insensitively.
	// Untitled photos are excluded while a query is active.
	Query string

	// PersonID keeps only photos that include the person.
	PersonID string

	// Now anchors the Today/Yesterday labels; zero means time.Now().
	Now time.Time
}

// TimelineItem is one photo as the rendering surface consumes it.
type TimelineItem struct {
	ID         string  `json:"id"`
	URL        string  `json:"url"`
	Private    bool    `json:"private"`
	TakenAt    int64   `json:"taken_at"`
	Title      *string `json:"title,omitempty"`
	Descriptor string  `json:"descriptor"`
}

// TimelineGroup is a run of photos sharing a calendar-day label.
type TimelineGroup struct {
	Label  string         `json:"label"`
	Photos []TimelineItem `json:"photos"`
}

// TimelineOutput contains the result of the Timeline projection.
type TimelineOutput struct {
	Mode   photo.AccessMode `json:"mode"`
	Groups []TimelineGroup  `json:"groups"`
	Total  int              `json:"total"`
}

// Timeline is the pure view projection: accessible set, filtered by search
// text and person, sorted most-recent-first, bucketed by calendar day.
// It holds no state and is recomputed on every call — a query plus one
// O(n) pass, cheap at personal-library scale.
func Timeline(ctx context.Context, database *sql.DB, input TimelineInput) (*TimelineOutput, error) {
	mode, err := parseMode(input.Mode)
	if err != nil {
		return nil, err
	}

	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	photos, err := db.AllPhotos(ctx, database, mode == photo.ModeVault)
	if err != nil {
		return nil, err
	}

	// Search text: case-insensitive contains on title. A photo with no
	// title cannot match text search.
	if query := strings.TrimSpace(input.Query); query != "" {
		queryLower := strings.ToLower(query)
		filtered := photos[:0]
		for _, p := range photos {
			if p.Title != nil && strings.Contains(strings.ToLower(*p.Title), queryLower) {
				filtered = append(filtered, p)
			}
		}
		photos = filtered
	}

	if input.PersonID != "" {
		filtered := photos[:0]
		for _, p := range photos {
			if containsString(p.PersonIDs, input.PersonID) {
				filtered = append(filtered, p)
			}
		}
		photos = filtered
	}

	// Most recent first; the stable sort keeps insertion order for ties.
	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].TakenAt > photos[j].TakenAt
	})

	// Bucket into day groups. Each photo's label depends only on its own
	// date, and groups appear in the order of their first member.
	var groups []TimelineGroup
	groupIndex := make(map[string]int)
	for _, p := range photos {
		label := dayLabel(time.UnixMilli(p.TakenAt), now)
		item := TimelineItem{
			ID:         p.ID,
			URL:        p.URL,
			Private:    p.Private,
			TakenAt:    p.TakenAt,
			Title:      p.Title,
			Descriptor: photo.DescriptorOf(p.Filters),
		}

		if idx, ok := groupIndex[label]; ok {
			groups[idx].Photos = append(groups[idx].Photos, item)
			continue
		}
		groupIndex[label] = len(groups)
		groups = append(groups, TimelineGroup{Label: label, Photos: []TimelineItem{item}})
	}

	if groups == nil {
		groups = []TimelineGroup{}
	}

	return &TimelineOutput{
		Mode:   mode,
		Groups: groups,
		Total:  len(photos),
	}, nil
}

// dayLabel renders the calendar-day bucket for a photo taken at t,
// relative to now: "Today", "Yesterday", or e.g. "Monday, January 2".
func dayLabel(t, now time.Time) string {
	t = t.In(now.Location())

	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	if ty == ny && tm == nm && td == nd {
		return "Today"
	}

	yy, ym, yd := now.AddDate(0, 0, -1).Date()
	if ty == yy && tm == ym && td == yd {
		return "Yesterday"
	}

	return t.Format("Monday, January 2")
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
