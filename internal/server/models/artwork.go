package models

import "time"

// Artwork is a gallery item owned by the user that created it.
type Artwork struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Artist         string    `json:"artist"`
	Year           string    `json:"year"`
	Description    string    `json:"description"`
	ImageKey       string    `json:"image_key,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	FavoritesCount int64     `json:"favorites_count"`

	// Owner is populated on single-item reads.
	Owner *Identity `json:"owner,omitempty"`
}

// ArtworkPatch lists the fields a caller may change on update. Nil fields
// are left as they are; ownership, identity and timestamps are not here on
// purpose and cannot be written through it.
type ArtworkPatch struct {
	Title       *string `json:"title"`
	Artist      *string `json:"artist"`
	Year        *string `json:"year"`
	Description *string `json:"description"`
}

// Apply copies the set fields of p onto a.
func (p ArtworkPatch) Apply(a *Artwork) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Artist != nil {
		a.Artist = *p.Artist
	}
	if p.Year != nil {
		a.Year = *p.Year
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
}

// ArtworkPage is one page of a listing.
type ArtworkPage struct {
	Items []*Artwork `json:"items"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}
