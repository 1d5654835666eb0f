package catalog

import "time"

type Person struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Name string `gorm:"not null" json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`

	// Careers holds terms from the "career" taxonomy (actor, director, ...),
	// attached when the resolver creates a person from a role-hinted
	// reference.
	Careers []Term `gorm:"many2many:person_terms;" json:"careers,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
