package model

import "time"

// MediaKind selects the media collection a record is written to.
type MediaKind string

const (
	MediaVideo      MediaKind = "video"
	MediaImage      MediaKind = "image"
	MediaEventImage MediaKind = "event_image"
)

func (k MediaKind) Label() string {
	switch k {
	case MediaVideo:
		return "Video"
	case MediaImage:
		return "Image"
	case MediaEventImage:
		return "Event image"
	default:
		return "Media"
	}
}

// Media is a Video, Image or EventImage record. Caption holds the title
// (Video, Image) or the name (EventImage).
type Media struct {
	ID        string    `json:"id"`
	Kind      MediaKind `json:"kind"`
	Caption   string    `json:"caption"`
	Slug      string    `json:"slug"`
	URL       string    `json:"url"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
