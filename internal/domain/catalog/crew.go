package catalog

const (
	RoleDirector = "director"
	RoleProducer = "producer"
	RoleWriter   = "writer"
	RoleActor    = "actor"
)

var CrewRoles = []string{RoleDirector, RoleProducer, RoleWriter, RoleActor}

// roleAliases maps legacy role names onto their canonical role.
var roleAliases = map[string]string{
	"star": RoleActor,
}

// CanonicalRole lowercases a role name and resolves aliases. The second
// return reports whether the result is a known crew role.
func CanonicalRole(role string) (string, bool) {
	r := lowerTrim(role)
	if canonical, ok := roleAliases[r]; ok {
		r = canonical
	}
	for _, known := range CrewRoles {
		if r == known {
			return r, true
		}
	}
	return r, false
}

// CrewRelation links a person to a movie in one role. A person may hold
// several roles on the same movie but at most one row per role.
type CrewRelation struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	MovieID  string `gorm:"type:uuid;not null;uniqueIndex:idx_crew_movie_person_role,priority:1" json:"-"`
	PersonID string `gorm:"type:uuid;not null;uniqueIndex:idx_crew_movie_person_role,priority:2;index" json:"person_id"`
	Role     string `gorm:"not null;uniqueIndex:idx_crew_movie_person_role,priority:3" json:"role"`

	// CharacterName is only meaningful when Role is actor.
	CharacterName *string `json:"character_name,omitempty"`

	Person *Person `gorm:"foreignKey:PersonID" json:"person,omitempty"`
}
