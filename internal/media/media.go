// Package media turns stored image references into absolute URLs.
package media

import (
	"net/url"
	"strings"

	"github.com/sakif/studio-site/internal/model"
)

// Image is one entry of a project's slideshow.
type Image struct {
	URL string
	Alt string
}

// Resolver joins image references onto the uploads base URL.
type Resolver struct {
	base *url.URL
}

// NewResolver returns a Resolver for uploadsBase
// (e.g. "https://api.example.com/uploads").
func NewResolver(uploadsBase string) (*Resolver, error) {
	u, err := url.Parse(uploadsBase)
	if err != nil {
		return nil, err
	}
	return &Resolver{base: u}, nil
}

// URL returns the absolute address of ref, or "" when there is no image.
// Refs that climb out of the uploads base with ".." count as no image.
func (r *Resolver) URL(ref string) string {
	ref = strings.TrimLeft(strings.TrimSpace(ref), "/")
	if ref == "" || escapesBase(ref) {
		return ""
	}
	return r.base.JoinPath(ref).String()
}

func escapesBase(ref string) bool {
	for seg := range strings.FieldsFuncSeq(ref, func(c rune) bool { return c == '/' || c == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}

// Sequence lists a project's images in slideshow order: the main image
// first, then the gallery in insertion order. Positions in the returned
// slice are the indices the carousel and lightbox navigate.
func (r *Resolver) Sequence(p model.Project) []Image {
	refs := make([]string, 0, 1+len(p.OtherImages))
	refs = append(refs, p.MainImage)
	refs = append(refs, p.OtherImages...)

	out := make([]Image, 0, len(refs))
	for _, ref := range refs {
		if u := r.URL(ref); u != "" {
			out = append(out, Image{URL: u, Alt: p.Title})
		}
	}
	return out
}
