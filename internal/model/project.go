// Package model defines the data structures shared by the client, the
// reference API and the admin CLI.
//
// WIRE FORMAT:
// The backend this site was built against is a Mongo-style API, so the
// identifier travels as "_id" and every other field is camelCase:
//
//	{"_id":"cv37rs3pp9olc6atsptg","title":"Courtyard House","otherImages":["a.jpg"],...}
//
// The same struct is used on both sides of the wire so the reference API and
// the gateway can never drift apart.
package model

import "time"

// Project status values. An empty status is displayed as "Active" on the
// dashboard but is not counted as active.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Project is a portfolio entry managed through the admin area.
//
// OtherImages is ordered: the gallery and the slideshow follow insertion order.
type Project struct {
	ID              string    `json:"_id"`
	Title           string    `json:"title"`
	Description1    string    `json:"description1"`
	Description2    string    `json:"description2,omitempty"`
	ProjectType     string    `json:"projectType,omitempty"`
	ProjectArea     string    `json:"projectArea,omitempty"`
	ProjectLocation string    `json:"projectLocation,omitempty"`
	MainImage       string    `json:"mainImage,omitempty"`
	OtherImages     []string  `json:"otherImages"`
	Status          string    `json:"status,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DisplayStatus returns the status label shown in listings.
func (p Project) DisplayStatus() string {
	if p.Status == "" {
		return "Active"
	}
	return p.Status
}

// Tags returns the values a project can be related by. Project type is the
// only taxonomy the admin form captures.
func (p Project) Tags() []string {
	if p.ProjectType == "" {
		return nil
	}
	return []string{p.ProjectType}
}

// Field caps shared by the admin form and the API, counted in characters.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 10000
)

// ValidStatus reports whether s may be stored as a project status.
func ValidStatus(s string) bool {
	switch s {
	case "", StatusActive, StatusInactive:
		return true
	}
	return false
}
