package catalog

import "time"

// Comment is a review attached to a movie. ParentID points at another
// comment on the same movie when the comment is a reply.
type Comment struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	MovieID    string `gorm:"type:uuid;not null;index" json:"-"`
	ParentID   *uint  `gorm:"index" json:"parent_id,omitempty"`
	AuthorName string `json:"author_name"`
	AuthorURL  string `json:"author_url,omitempty"`
	Content    string `gorm:"not null" json:"content"`

	CreatedAt time.Time `json:"created_at"`
}
