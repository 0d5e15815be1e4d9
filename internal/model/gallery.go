package model

import "time"

// GalleryImage is a marketing image shown on the public gallery page.
type GalleryImage struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
