// Package resolve turns loose references (numeric id, slug, free-text name,
// URL) into canonical store identifiers. Failures are soft: callers drop the
// unresolved item unless the surrounding field is mandatory.
package resolve

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"movie-library/internal/domain/catalog"
	"movie-library/internal/domain/media"
)

// PersonDirectory is the person lookup/creation surface the resolver needs.
// Lookups return nil with no error when nothing matches.
type PersonDirectory interface {
	PersonByID(id string) (*catalog.Person, error)
	PersonBySlug(slug string) (*catalog.Person, error)
	PersonByName(name string) (*catalog.Person, error)
	SearchPerson(text string) (*catalog.Person, error)
	CreatePerson(p *catalog.Person) error
}

// TermDirectory looks up and creates classification terms and attaches
// career terms to persons.
type TermDirectory interface {
	TermByName(taxonomy, name string) (*catalog.Term, error)
	CreateTerm(t *catalog.Term) error
	AttachPersonTerm(personID string, termID uint) error
}

// AssetDirectory is the media library lookup surface.
type AssetDirectory interface {
	AssetByID(id uint) (*media.Asset, error)
	AssetByURL(url string) (*media.Asset, error)
}

// Cache memoizes lookups for the duration of one pipeline run. It is a
// plain value handed to NewResolver and discarded with the run; nothing is
// evicted.
type Cache struct {
	personByRef  map[string]string
	nameByPerson map[string]string
	assetByURL   map[string]uint
	urlByAsset   map[uint]string
	termByKey    map[string]uint
}

func NewCache() *Cache {
	return &Cache{
		personByRef:  make(map[string]string),
		nameByPerson: make(map[string]string),
		assetByURL:   make(map[string]uint),
		urlByAsset:   make(map[uint]string),
		termByKey:    make(map[string]uint),
	}
}

type Resolver struct {
	persons PersonDirectory
	terms   TermDirectory
	assets  AssetDirectory
	cache   *Cache
}

func NewResolver(persons PersonDirectory, terms TermDirectory, assets AssetDirectory, cache *Cache) *Resolver {
	if cache == nil {
		cache = NewCache()
	}
	return &Resolver{persons: persons, terms: terms, assets: assets, cache: cache}
}

// ResolvePerson maps a reference to an existing person id. Priority: direct
// id, exact slug, exact display name, fuzzy search.
func (r *Resolver) ResolvePerson(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	if id, ok := r.cache.personByRef[ref]; ok {
		return id, id != ""
	}

	p := r.lookupPerson(ref)
	if p == nil {
		// Negative result is cached too; import rows repeat names a lot.
		r.cache.personByRef[ref] = ""
		return "", false
	}
	r.rememberPerson(ref, p)
	return p.ID, true
}

func (r *Resolver) lookupPerson(ref string) *catalog.Person {
	if _, err := uuid.Parse(ref); err == nil {
		if p, err := r.persons.PersonByID(ref); err == nil && p != nil {
			return p
		}
		return nil
	}
	if p, err := r.persons.PersonBySlug(catalog.MakeSlug(ref)); err == nil && p != nil {
		return p
	}
	if p, err := r.persons.PersonByName(ref); err == nil && p != nil {
		return p
	}
	if p, err := r.persons.SearchPerson(ref); err == nil && p != nil {
		return p
	}
	return nil
}

// FindOrCreatePerson resolves a reference, creating the person when nothing
// matches. The created record is titled from the humanized reference text;
// a role hint attaches the matching career term ("star" counts as "actor").
func (r *Resolver) FindOrCreatePerson(ref, roleHint string) (string, error) {
	if id, ok := r.ResolvePerson(ref); ok {
		return id, nil
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.New("empty person reference")
	}

	name := catalog.Humanize(ref)
	p := &catalog.Person{Name: name, Slug: catalog.MakeSlug(name)}
	if err := r.persons.CreatePerson(p); err != nil {
		return "", errors.Wrapf(err, "create person %q", name)
	}
	r.rememberPerson(ref, p)

	if role, ok := catalog.CanonicalRole(roleHint); ok {
		term, err := r.FindOrCreateTerm(catalog.TaxonomyCareer, role)
		if err != nil {
			return "", err
		}
		if err := r.terms.AttachPersonTerm(p.ID, term.ID); err != nil {
			return "", errors.Wrapf(err, "attach career %q", role)
		}
	}
	return p.ID, nil
}

// PersonName is the read path used when encoding person lists for export.
func (r *Resolver) PersonName(id string) (string, bool) {
	if name, ok := r.cache.nameByPerson[id]; ok {
		return name, name != ""
	}
	p, err := r.persons.PersonByID(id)
	if err != nil || p == nil {
		r.cache.nameByPerson[id] = ""
		return "", false
	}
	r.cache.nameByPerson[id] = p.Name
	return p.Name, true
}

func (r *Resolver) rememberPerson(ref string, p *catalog.Person) {
	r.cache.personByRef[ref] = p.ID
	r.cache.nameByPerson[p.ID] = p.Name
}

// FindOrCreateTerm finds a term by exact name within a taxonomy, creating
// it when absent.
func (r *Resolver) FindOrCreateTerm(taxonomy, name string) (*catalog.Term, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("empty term name")
	}
	key := taxonomy + ":" + catalog.MakeSlug(name)
	if id, ok := r.cache.termByKey[key]; ok {
		return &catalog.Term{ID: id, Taxonomy: taxonomy, Name: name}, nil
	}

	t, err := r.terms.TermByName(taxonomy, name)
	if err != nil {
		return nil, errors.Wrapf(err, "look up %s term %q", taxonomy, name)
	}
	if t == nil {
		t = &catalog.Term{Taxonomy: taxonomy, Name: name, Slug: catalog.MakeSlug(name)}
		if err := r.terms.CreateTerm(t); err != nil {
			return nil, errors.Wrapf(err, "create %s term %q", taxonomy, name)
		}
	}
	r.cache.termByKey[key] = t.ID
	return t, nil
}

// ResolveMedia maps a numeric id or URL to a local asset id. The asset must
// exist and its MIME prefix must match the expected kind; anything else is
// a soft failure and the caller drops the reference.
func (r *Resolver) ResolveMedia(ref, expectedKind string) (uint, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, false
	}

	if n, err := strconv.ParseUint(ref, 10, 32); err == nil {
		return r.checkAsset(uint(n), expectedKind)
	}

	if id, ok := r.cache.assetByURL[ref]; ok {
		if id == 0 {
			return 0, false
		}
		return r.checkAsset(id, expectedKind)
	}
	a, err := r.assets.AssetByURL(ref)
	if err != nil || a == nil {
		r.cache.assetByURL[ref] = 0
		return 0, false
	}
	r.cache.assetByURL[ref] = a.ID
	r.cache.urlByAsset[a.ID] = a.URL
	if !a.MatchesKind(expectedKind) {
		return 0, false
	}
	return a.ID, true
}

func (r *Resolver) checkAsset(id uint, expectedKind string) (uint, bool) {
	a, err := r.assets.AssetByID(id)
	if err != nil || a == nil || !a.MatchesKind(expectedKind) {
		return 0, false
	}
	r.cache.urlByAsset[a.ID] = a.URL
	return a.ID, true
}

// AssetURL is the read path used when encoding media lists for export.
func (r *Resolver) AssetURL(id uint) (string, bool) {
	if u, ok := r.cache.urlByAsset[id]; ok {
		return u, u != ""
	}
	a, err := r.assets.AssetByID(id)
	if err != nil || a == nil {
		r.cache.urlByAsset[id] = ""
		return "", false
	}
	r.cache.urlByAsset[id] = a.URL
	return a.URL, true
}
