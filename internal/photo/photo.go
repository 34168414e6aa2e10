package photo

// AccessMode identifies which partition of the library a caller is viewing.
type AccessMode string

const (
	ModePublic AccessMode = "public"
	ModeVault  AccessMode = "vault"
)

// Valid reports whether the mode is one of the two known partitions.
func (m AccessMode) Valid() bool {
	return m == ModePublic || m == ModeVault
}

// Photo represents a single picture in the library.
// Every photo belongs to exactly one partition (public or vault) at any
// observable instant; Private is the sole membership flag.
type Photo struct {
	// ID is a ULID that uniquely identifies this photo
	ID string `json:"id"`

	// URL is an opaque reference to displayable image data, usually a
	// data URI produced by ingestion. The engine never inspects it.
	URL string `json:"url"`

	// Private is true when the photo lives in the vault partition
	Private bool `json:"private"`

	// TakenAt is the capture instant in Unix milliseconds (immutable)
	TakenAt int64 `json:"taken_at"`

	// Title is an optional display label
	Title *string `json:"title,omitempty"`

	// Caption is an optional markdown caption shown on the detail page
	Caption *string `json:"caption,omitempty"`

	// Filters is the non-destructive adjustment attached to the photo.
	// nil means the identity adjustment (all defaults).
	Filters *FilterAdjustment `json:"filters,omitempty"`

	// PersonIDs lists the people detected in this photo (no duplicates)
	PersonIDs []string `json:"person_ids,omitempty"`

	// CreatedAt is the Unix timestamp when the photo was ingested
	CreatedAt int64 `json:"created_at"`
}

// Summary is a photo without its URL payload. Data URIs can run to
// megabytes, so browse operations return summaries.
type Summary struct {
	ID        string            `json:"id"`
	Private   bool              `json:"private"`
	TakenAt   int64             `json:"taken_at"`
	Title     *string           `json:"title,omitempty"`
	Filters   *FilterAdjustment `json:"filters,omitempty"`
	PersonIDs []string          `json:"person_ids,omitempty"`
	CreatedAt int64             `json:"created_at"`
}

// ToSummary converts a Photo to a Summary by stripping the URL payload.
func (p *Photo) ToSummary() Summary {
	return Summary{
		ID:        p.ID,
		Private:   p.Private,
		TakenAt:   p.TakenAt,
		Title:     p.Title,
		Filters:   p.Filters,
		PersonIDs: p.PersonIDs,
		CreatedAt: p.CreatedAt,
	}
}

// Person represents a known face the detector can attach to photos.
// Reference data: the partition engine reads but never mutates people.
type Person struct {
	// ID uniquely identifies this person
	ID string `json:"id"`

	// Name is the display name
	Name string `json:"name"`

	// FaceURL is an opaque reference to a cropped face image
	FaceURL string `json:"face_url"`
}

// DedupePersonIDs removes duplicates while preserving first-seen order.
// Empty entries are dropped.
func DedupePersonIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
