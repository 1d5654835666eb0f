// Package validate holds the domain rules a row or create request must pass
// before anything touches the store. Validation is fail-fast: the first
// violated rule rejects the whole row with a named reason, in a fixed order
// (rating, runtime, release date, content rating, media URLs, comments).
package validate

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"movie-library/internal/catalog/interchange"
	"movie-library/internal/domain/catalog"
)

// RowError names the field and rule a row failed on.
type RowError struct {
	Field  string
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func fail(field, reason string) error {
	return &RowError{Field: field, Reason: reason}
}

// Row checks one interchange row against all domain rules. Empty cells are
// treated as "not provided" and pass.
func Row(row interchange.Row) error {
	if err := Rating(row.Rating); err != nil {
		return err
	}
	if err := Runtime(row.Runtime); err != nil {
		return err
	}
	if err := ReleaseDate(row.ReleaseDate); err != nil {
		return err
	}
	if err := ContentRating(row.ContentRating); err != nil {
		return err
	}
	if err := mediaURLs(row); err != nil {
		return err
	}
	return commentsCell(row.Comments)
}

// Rating accepts an empty value or a number in [1,10].
func Rating(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fail("rating", "must be a number")
	}
	if f < 1 || f > 10 {
		return fail("rating", "must be between 1 and 10")
	}
	return nil
}

// Runtime accepts an empty value or an unsigned integer in [1,300]. Signs
// and decimal points are rejected outright.
func Runtime(value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	for _, c := range v {
		if c < '0' || c > '9' {
			return fail("runtime", "must be a whole number of minutes")
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 300 {
		return fail("runtime", "must be between 1 and 300 minutes")
	}
	return nil
}

// ReleaseDate accepts an empty value or a real calendar date written exactly
// as YYYY-MM-DD. "2024-2-5" and "2024-02-30" both fail.
func ReleaseDate(value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	if !catalog.IsStrictDate(v) {
		return fail("release_date", "must be a valid date in YYYY-MM-DD format")
	}
	return nil
}

// ContentRating accepts an empty value or a member of the closed rating set.
func ContentRating(value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	if !catalog.IsContentRating(v) {
		return fail("content_rating", "must be one of "+strings.Join(catalog.ContentRatings, ", "))
	}
	return nil
}

// AbsoluteURL requires an http(s) URL with a host.
func AbsoluteURL(field, value string) error {
	u, err := url.Parse(strings.TrimSpace(value))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fail(field, "must be an absolute http or https URL")
	}
	return nil
}

func mediaURLs(row interchange.Row) error {
	if v := strings.TrimSpace(row.PosterURL); v != "" {
		if err := AbsoluteURL("poster_url", v); err != nil {
			return err
		}
	}
	if v := strings.TrimSpace(row.CarouselURL); v != "" {
		if err := AbsoluteURL("carousel_url", v); err != nil {
			return err
		}
	}
	for _, g := range []struct {
		field string
		cell  string
	}{
		{"gallery_images", row.GalleryImages},
		{"gallery_videos", row.GalleryVideos},
	} {
		for _, u := range urlList(g.cell) {
			if err := AbsoluteURL(g.field, u); err != nil {
				return err
			}
		}
	}
	return nil
}

// urlList decodes a JSON array of strings; anything malformed reads as empty
// because downstream decoding treats it the same way.
func urlList(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(cell), &urls); err != nil {
		return nil
	}
	return urls
}

// commentsCell requires the comments cell, when present, to decode to a
// JSON array. Non-object elements are tolerated here and skipped at decode
// time; a non-empty author URL on an object element must be absolute.
func commentsCell(cell string) error {
	v := strings.TrimSpace(cell)
	if v == "" {
		return nil
	}
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(v), &elements); err != nil {
		return fail("comments", "must be a JSON array")
	}
	for _, raw := range elements {
		var c interchange.EmbeddedComment
		if err := json.Unmarshal(raw, &c); err != nil {
			continue
		}
		if strings.TrimSpace(c.AuthorURL) != "" {
			if err := AbsoluteURL("comments", c.AuthorURL); err != nil {
				return err
			}
		}
	}
	return nil
}

// Header requires the parsed header to equal the fixed column list exactly.
// A UTF-8 BOM on the first cell is tolerated.
func Header(header []string) error {
	if len(header) != len(interchange.Columns) {
		return fmt.Errorf("header has %d columns, expected %d", len(header), len(interchange.Columns))
	}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if name != interchange.Columns[i] {
			return fmt.Errorf("header column %d is %q, expected %q", i+1, name, interchange.Columns[i])
		}
	}
	return nil
}
