package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/studio-site/internal/model"
)

// RecentWindow is how far back "recently updated" reaches on the dashboard.
const RecentWindow = 7 * 24 * time.Hour

// Stats are the dashboard counters.
type Stats struct {
	Total           int
	RecentlyUpdated int
	Active          int
}

// Summarize counts the projects, how many changed within RecentWindow of
// now, and how many are explicitly marked active.
func Summarize(records []model.Project, now time.Time) Stats {
	cutoff := now.Add(-RecentWindow)
	s := Stats{Total: len(records)}
	for _, p := range records {
		if p.UpdatedAt.After(cutoff) {
			s.RecentlyUpdated++
		}
		if p.Status == model.StatusActive {
			s.Active++
		}
	}
	return s
}

// TruncateWords keeps the first n words of text and marks the cut with "...".
func TruncateWords(text string, n int) string {
	words := strings.Fields(text)
	if n <= 0 || len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}

// SerialNumber formats a zero-based list position as the two-digit project
// number shown on the listing ("01", "02", ...).
func SerialNumber(i int) string {
	return fmt.Sprintf("%02d", i+1)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
