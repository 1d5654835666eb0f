package media

import (
	"strings"
	"time"
)

const (
	KindImage = "image"
	KindVideo = "video"
)

// Asset is a record in the local media library: a binary the store already
// holds, addressable by numeric id or by its public URL.
type Asset struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	URL      string `gorm:"uniqueIndex;not null" json:"url"`
	MimeType string `gorm:"not null" json:"mime_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MatchesKind reports whether the asset's MIME type carries the expected
// kind prefix ("image/" or "video/").
func (a Asset) MatchesKind(kind string) bool {
	return strings.HasPrefix(a.MimeType, kind+"/")
}
