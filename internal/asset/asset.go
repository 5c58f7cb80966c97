package asset

import "time"

// Asset is one marketplace listing. FileURL points at the playable or
// downloadable media, ThumbnailURL at its cover image.
type Asset struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Price        int       `json:"price"`
	FileURL      string    `json:"fileUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	CreatorUID   string    `json:"creatorUid"`
	CreatedAt    time.Time `json:"createdAt"`
}
