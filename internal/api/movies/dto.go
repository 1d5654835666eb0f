package movies

import (
	"encoding/json"
	"strconv"
)

// LooseString accepts a JSON string or number, so clients may send
// `"runtime": 148` or `"runtime": "148 min"` interchangeably.
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = LooseString(str)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if n == float64(int64(n)) {
		*s = LooseString(strconv.FormatInt(int64(n), 10))
	} else {
		*s = LooseString(strconv.FormatFloat(n, 'f', -1, 64))
	}
	return nil
}

type CrewInput struct {
	Role      string  `json:"role" binding:"required"`
	Person    string  `json:"person" binding:"required"`
	Character *string `json:"character"`
}

// TermRef is a classification reference: numeric id, slug or display name.
type TermRef = json.RawMessage

// ---------- requests

type CreateMovieRequest struct {
	Title   string  `json:"title" binding:"required"`
	Content *string `json:"content"`
	Excerpt *string `json:"excerpt"`
	Status  *string `json:"status"`

	Rating        *LooseString `json:"rating"`
	Runtime       *LooseString `json:"runtime"`
	ReleaseDate   *string      `json:"release_date"`
	ContentRating *string      `json:"content_rating"`

	// Meta carries alias/legacy field names; top-level fields win.
	Meta map[string]LooseString `json:"meta"`

	Taxonomies map[string][]TermRef `json:"taxonomies"`
	Crew       []CrewInput          `json:"crew"`
}

type UpdateMovieRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Excerpt *string `json:"excerpt"`
	Status  *string `json:"status"`

	Rating        *LooseString `json:"rating"`
	Runtime       *LooseString `json:"runtime"`
	ReleaseDate   *string      `json:"release_date"`
	ContentRating *string      `json:"content_rating"`

	Meta map[string]LooseString `json:"meta"`

	Taxonomies map[string][]TermRef `json:"taxonomies"`
	Crew       []CrewInput          `json:"crew"`
}

// metaAliases maps legacy meta keys from the old plugin data model onto
// canonical fields.
var metaAliases = map[string]string{
	"rt-movie-meta-basic-rating":         "rating",
	"rt-movie-meta-basic-runtime":        "runtime",
	"rt-movie-meta-basic-release-date":   "release_date",
	"rt-movie-meta-basic-content-rating": "content_rating",
}

// applyMetaAliases fills canonical fields from meta aliases when the
// top-level field is absent.
func applyMetaAliases(meta map[string]LooseString, rating, runtime **LooseString, releaseDate, contentRating **string) {
	for key, value := range meta {
		v := value
		switch metaAliases[key] {
		case "rating":
			if *rating == nil {
				*rating = &v
			}
		case "runtime":
			if *runtime == nil {
				*runtime = &v
			}
		case "release_date":
			if *releaseDate == nil {
				s := string(v)
				*releaseDate = &s
			}
		case "content_rating":
			if *contentRating == nil {
				s := string(v)
				*contentRating = &s
			}
		}
	}
}

func (r *CreateMovieRequest) metaFallback() {
	applyMetaAliases(r.Meta, &r.Rating, &r.Runtime, &r.ReleaseDate, &r.ContentRating)
}

func (r *UpdateMovieRequest) metaFallback() {
	applyMetaAliases(r.Meta, &r.Rating, &r.Runtime, &r.ReleaseDate, &r.ContentRating)
}
