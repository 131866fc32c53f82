package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// BlogPost is one entry of the static blog index (blogs.json).
type BlogPost struct {
	ID      int      `json:"id"`
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Excerpt string   `json:"excerpt"`
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Date    Date     `json:"date"`
	Image   string   `json:"image"`
	Tags    []string `json:"tags"`
}

// Date is a calendar date as written by hand in blogs.json. Both plain
// dates ("2024-03-18") and full RFC 3339 timestamps are accepted.
type Date struct {
	time.Time
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("model: date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("model: unrecognised date %q", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}
