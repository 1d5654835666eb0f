package dedupe

import (
	"strconv"
	"strings"

	"movie-library/internal/domain/catalog"
)

// MergeReport tells the caller which fields the merge overwrote and which
// kept their stored value.
type MergeReport struct {
	Updated   []string `json:"updated"`
	Preserved []string `json:"preserved"`
}

// ApplyScalars merges the meaningful scalar fields of the request into the
// candidate. Absent or empty incoming values never touch stored data.
// Classification terms and crew merge additively elsewhere; this covers the
// movie record itself.
func ApplyScalars(in Incoming, m *catalog.Movie) MergeReport {
	report := MergeReport{Updated: []string{}, Preserved: []string{}}
	apply := func(field string, meaningful bool, set func()) {
		if meaningful {
			set()
			report.Updated = append(report.Updated, field)
		} else {
			report.Preserved = append(report.Preserved, field)
		}
	}

	apply("content", meaningfulString(in.Content), func() { m.Content = strings.TrimSpace(*in.Content) })
	apply("excerpt", meaningfulString(in.Excerpt), func() { m.Excerpt = strings.TrimSpace(*in.Excerpt) })

	rating := ""
	if in.Rating != nil {
		rating = normalizeRating(*in.Rating)
	}
	apply("rating", rating != "", func() {
		f, _ := strconv.ParseFloat(rating, 64)
		m.Rating = &f
	})

	runtime := ""
	if in.Runtime != nil {
		runtime = catalog.NormalizeRuntime(*in.Runtime)
	}
	apply("runtime", runtime != "", func() {
		n, _ := strconv.Atoi(runtime)
		m.RuntimeMinutes = &n
	})

	date := ""
	if in.ReleaseDate != nil {
		date = catalog.NormalizeDate(*in.ReleaseDate)
	}
	apply("release_date", date != "", func() { m.ReleaseDate = &date })

	contentRating := ""
	if in.ContentRating != nil {
		contentRating = catalog.NormalizeContentRating(*in.ContentRating)
	}
	apply("content_rating", contentRating != "", func() { m.ContentRating = &contentRating })

	return report
}

func meaningfulString(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}
