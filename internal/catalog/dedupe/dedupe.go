// Package dedupe decides what a REST create actually does: create a new
// movie, reject an exact duplicate with a conflict, or merge the request
// into the closest existing candidate. All comparisons run through the same
// normalization the validator uses, so "equal" means the same thing on
// every path.
package dedupe

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"movie-library/internal/domain/catalog"
)

// Store finds candidate movies whose stored title loosely matches the
// normalized incoming title. Crew relations with persons must be loaded;
// the engine re-checks normalized equality itself.
type Store interface {
	MoviesByTitle(normalizedTitle string) ([]catalog.Movie, error)
}

// Incoming carries the fields of a create request that take part in
// duplicate detection. Nil pointers and nil slices mean "not provided" and
// are never compared.
type Incoming struct {
	Title         string
	Content       *string
	Excerpt       *string
	Rating        *string
	Runtime       *string
	ReleaseDate   *string
	ContentRating *string
	DirectorNames []string
}

type Action int

const (
	ActionCreate Action = iota
	ActionConflict
	ActionMerge
)

// Decision names the action and, for conflict or merge, the existing movie
// it applies to.
type Decision struct {
	Action   Action
	Existing *catalog.Movie
}

type Engine struct {
	store Store
}

func New(store Store) *Engine {
	return &Engine{store: store}
}

// Evaluate runs duplicate detection for one incoming request. An empty
// normalized title skips detection entirely and creates unconditionally.
func (e *Engine) Evaluate(in Incoming) (Decision, error) {
	title := catalog.NormalizeTitle(in.Title)
	if title == "" {
		return Decision{Action: ActionCreate}, nil
	}

	found, err := e.store.MoviesByTitle(title)
	if err != nil {
		return Decision{}, errors.Wrap(err, "search candidates")
	}
	var candidates []catalog.Movie
	for _, m := range found {
		if catalog.NormalizeTitle(m.Title) == title {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return Decision{Action: ActionCreate}, nil
	}

	for i := range candidates {
		if e.exactDuplicate(in, &candidates[i]) {
			return Decision{Action: ActionConflict, Existing: &candidates[i]}, nil
		}
	}

	// No exact duplicate: merge into the best-scoring candidate. Ties keep
	// the earlier candidate (query order).
	best := 0
	bestScore := e.score(in, &candidates[0])
	for i := 1; i < len(candidates); i++ {
		if s := e.score(in, &candidates[i]); s > bestScore {
			best, bestScore = i, s
		}
	}
	return Decision{Action: ActionMerge, Existing: &candidates[best]}, nil
}

// exactDuplicate reports whether every field present in the request matches
// the candidate, with at least one comparison made.
func (e *Engine) exactDuplicate(in Incoming, m *catalog.Movie) bool {
	compared := 0
	check := func(equal bool) bool {
		compared++
		return equal
	}

	if !check(catalog.NormalizeTitle(in.Title) == catalog.NormalizeTitle(m.Title)) {
		return false
	}
	if in.Content != nil && !check(strings.TrimSpace(*in.Content) == strings.TrimSpace(m.Content)) {
		return false
	}
	if in.Excerpt != nil && !check(strings.TrimSpace(*in.Excerpt) == strings.TrimSpace(m.Excerpt)) {
		return false
	}
	if in.Rating != nil && !check(normalizeRating(*in.Rating) == storedRating(m)) {
		return false
	}
	if in.Runtime != nil && !check(catalog.NormalizeRuntime(*in.Runtime) == storedRuntime(m)) {
		return false
	}
	if in.ReleaseDate != nil && !check(catalog.NormalizeDate(*in.ReleaseDate) == storedDate(m)) {
		return false
	}
	if in.ContentRating != nil && !check(catalog.NormalizeContentRating(*in.ContentRating) == storedContentRating(m)) {
		return false
	}
	if in.DirectorNames != nil && !check(sameNameSet(in.DirectorNames, directorNames(m))) {
		return false
	}
	return compared > 0
}

// score counts signature matches: title, release date, runtime, content
// rating, director set.
func (e *Engine) score(in Incoming, m *catalog.Movie) int {
	score := 0
	if catalog.NormalizeTitle(in.Title) == catalog.NormalizeTitle(m.Title) {
		score++
	}
	if in.ReleaseDate != nil && catalog.NormalizeDate(*in.ReleaseDate) == storedDate(m) {
		score++
	}
	if in.Runtime != nil && catalog.NormalizeRuntime(*in.Runtime) == storedRuntime(m) {
		score++
	}
	if in.ContentRating != nil && catalog.NormalizeContentRating(*in.ContentRating) == storedContentRating(m) {
		score++
	}
	if in.DirectorNames != nil && sameNameSet(in.DirectorNames, directorNames(m)) {
		score++
	}
	return score
}

func normalizeRating(value string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 1, 64)
}

func storedRating(m *catalog.Movie) string {
	if m.Rating == nil {
		return ""
	}
	return strconv.FormatFloat(*m.Rating, 'f', 1, 64)
}

func storedRuntime(m *catalog.Movie) string {
	if m.RuntimeMinutes == nil {
		return ""
	}
	return strconv.Itoa(*m.RuntimeMinutes)
}

func storedDate(m *catalog.Movie) string {
	if m.ReleaseDate == nil {
		return ""
	}
	return catalog.NormalizeDate(*m.ReleaseDate)
}

func storedContentRating(m *catalog.Movie) string {
	if m.ContentRating == nil {
		return ""
	}
	return catalog.NormalizeContentRating(*m.ContentRating)
}

func directorNames(m *catalog.Movie) []string {
	var names []string
	for _, rel := range m.Crew {
		if rel.Role == catalog.RoleDirector && rel.Person != nil {
			names = append(names, rel.Person.Name)
		}
	}
	return names
}

func sameNameSet(a, b []string) bool {
	set := func(names []string) map[string]bool {
		out := make(map[string]bool, len(names))
		for _, n := range names {
			n = strings.ToLower(strings.TrimSpace(n))
			if n != "" {
				out[n] = true
			}
		}
		return out
	}
	sa, sb := set(a), set(b)
	if len(sa) != len(sb) {
		return false
	}
	for n := range sa {
		if !sb[n] {
			return false
		}
	}
	return true
}
