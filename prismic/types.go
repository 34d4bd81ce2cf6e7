package prismic

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("prismic: document not found")

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("prismic: api returned %d: %s", e.Status, e.Message)
}

// Ref is a content release pointer returned by the API root.
type Ref struct {
	ID          string `json:"id"`
	Ref         string `json:"ref"`
	Label       string `json:"label"`
	IsMasterRef bool   `json:"isMasterRef"`
}

// APIInfo is the subset of the API root document we use.
type APIInfo struct {
	Refs []Ref `json:"refs"`
}

// Master returns the master ref, or "" if none is listed.
func (a APIInfo) Master() string {
	for _, r := range a.Refs {
		if r.IsMasterRef {
			return r.Ref
		}
	}
	return ""
}

// Document is a single search result. Data is left raw so callers decode
// it into their own custom type shape.
type Document struct {
	ID                   string          `json:"id"`
	UID                  string          `json:"uid"`
	Type                 string          `json:"type"`
	Href                 string          `json:"href"`
	Tags                 []string        `json:"tags"`
	Lang                 string          `json:"lang"`
	FirstPublicationDate Timestamp       `json:"first_publication_date"`
	LastPublicationDate  Timestamp       `json:"last_publication_date"`
	Data                 json.RawMessage `json:"data"`
}

// DecodeData unmarshals the document's data into v.
func (d Document) DecodeData(v any) error {
	if len(d.Data) == 0 {
		return fmt.Errorf("prismic: document %s has no data", d.ID)
	}
	if err := json.Unmarshal(d.Data, v); err != nil {
		return fmt.Errorf("prismic: decode data of %s: %w", d.ID, err)
	}
	return nil
}

// Response is a page of search results.
type Response struct {
	Page             int        `json:"page"`
	ResultsPerPage   int        `json:"results_per_page"`
	ResultsSize      int        `json:"results_size"`
	TotalResultsSize int        `json:"total_results_size"`
	TotalPages       int        `json:"total_pages"`
	NextPage         *string    `json:"next_page"`
	PrevPage         *string    `json:"prev_page"`
	Results          []Document `json:"results"`
}

// First returns the first result, if any.
func (r Response) First() (Document, bool) {
	if len(r.Results) == 0 {
		return Document{}, false
	}
	return r.Results[0], true
}

// timestampLayout is the format Prismic uses for publication dates.
const timestampLayout = "2006-01-02T15:04:05-0700"

// Timestamp is a nullable publication date.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

// UnmarshalJSON accepts null, Prismic's "+0000" offset form and RFC 3339.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*t = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := time.Parse(timestampLayout, raw)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("prismic: parse timestamp %q: %w", raw, err)
		}
	}
	*t = Timestamp{Time: parsed, Valid: true}
	return nil
}

// MarshalJSON writes the timestamp back in Prismic's format.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(timestampLayout))
}

// Ptr returns the time or nil when unset.
func (t Timestamp) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
