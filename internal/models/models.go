// Package models defines the HTTP-facing data shapes of the application.
package models

// Meta is one catalog card: enough metadata to render a poster grid entry or
// a detail page header.
type Meta struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"` // "movie" or "series"
	Title       string   `json:"title"`
	Poster      string   `json:"poster,omitempty"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
	Rating      float32  `json:"rating,omitempty"`
	Overview    string   `json:"overview,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// CatalogResponse wraps a page of catalog entries.
type CatalogResponse struct {
	Metas []Meta `json:"metas"`
}

// MetaResponse wraps a single detail lookup.
type MetaResponse struct {
	Meta Meta `json:"meta"`
}
