// Package codec converts structured meta fields between their normalized
// in-memory form and the transport form carried in CSV cells and REST
// bodies (JSON). Decoding is total: malformed transport input decodes to an
// empty collection, which downstream code reads as "field not provided".
package codec

import (
	"encoding/json"
	"strconv"
	"strings"

	"movie-library/internal/catalog/resolve"
)

// FieldKind selects the codec strategy for a meta field.
type FieldKind int

const (
	Scalar FieldKind = iota
	PersonIDList
	ActorCharacterMap
	MediaIDList
)

// Value is the normalized form moved through Encode/Decode. Only the slot
// matching the field kind is populated; Persons doubles as the known-actor
// set when encoding an ActorCharacterMap.
type Value struct {
	Scalar     string
	Persons    []string
	Characters map[string]string
	Assets     []uint
}

type strategy struct {
	encode func(*Codec, Value) string
	decode func(*Codec, string, string) Value
}

// strategies is the dispatch table; field kinds index it directly instead
// of branching on meta-key strings.
var strategies = map[FieldKind]strategy{
	Scalar: {
		encode: func(_ *Codec, v Value) string { return v.Scalar },
		decode: func(_ *Codec, transport, _ string) Value { return Value{Scalar: transport} },
	},
	PersonIDList: {
		encode: (*Codec).encodePersonList,
		decode: (*Codec).decodePersonList,
	},
	ActorCharacterMap: {
		encode: (*Codec).encodeCharacters,
		decode: (*Codec).decodeCharacters,
	},
	MediaIDList: {
		encode: (*Codec).encodeMediaList,
		decode: (*Codec).decodeMediaList,
	},
}

type Codec struct {
	resolver *resolve.Resolver
	// mediaKind is consulted by MediaIDList decoding ("image" or "video").
	mediaKind string
}

func New(resolver *resolve.Resolver) *Codec {
	return &Codec{resolver: resolver}
}

// ForMediaKind returns a codec whose MediaIDList strategy resolves against
// the given asset kind.
func (c *Codec) ForMediaKind(kind string) *Codec {
	return &Codec{resolver: c.resolver, mediaKind: kind}
}

// Encode renders a normalized value in transport form.
func (c *Codec) Encode(kind FieldKind, v Value) string {
	return strategies[kind].encode(c, v)
}

// Decode parses a transport value back to normalized form. roleHint names
// the crew role for person references created along the way.
func (c *Codec) Decode(kind FieldKind, transport, roleHint string) Value {
	return strategies[kind].decode(c, transport, roleHint)
}

func (c *Codec) encodePersonList(v Value) string {
	names := make([]string, 0, len(v.Persons))
	for _, id := range v.Persons {
		if name, ok := c.resolver.PersonName(id); ok {
			names = append(names, name)
		}
	}
	return mustJSON(names)
}

func (c *Codec) decodePersonList(transport, roleHint string) Value {
	var names []string
	if err := json.Unmarshal([]byte(transport), &names); err != nil {
		return Value{}
	}
	seen := make(map[string]bool)
	var ids []string
	for _, name := range names {
		id, err := c.resolver.FindOrCreatePerson(name, roleHint)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return Value{Persons: ids}
}

func (c *Codec) encodeCharacters(v Value) string {
	out := make(map[string]string)
	for _, actorID := range v.Persons {
		text, ok := v.Characters[actorID]
		if !ok {
			continue
		}
		if name, ok := c.resolver.PersonName(actorID); ok {
			out[name] = text
		}
	}
	return mustJSON(out)
}

func (c *Codec) decodeCharacters(transport, _ string) Value {
	var byName map[string]string
	if err := json.Unmarshal([]byte(transport), &byName); err != nil {
		return Value{Characters: map[string]string{}}
	}
	byID := make(map[string]string)
	for name, text := range byName {
		if strings.TrimSpace(text) == "" {
			continue
		}
		id, err := c.resolver.FindOrCreatePerson(name, "actor")
		if err != nil {
			continue
		}
		// Last write wins when two names resolve to the same person.
		byID[id] = text
	}
	return Value{Characters: byID}
}

func (c *Codec) encodeMediaList(v Value) string {
	seen := make(map[string]bool)
	urls := make([]string, 0, len(v.Assets))
	for _, id := range v.Assets {
		u, ok := c.resolver.AssetURL(id)
		if !ok || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return mustJSON(urls)
}

func (c *Codec) decodeMediaList(transport, _ string) Value {
	kind := c.mediaKind
	if kind == "" {
		kind = "image"
	}
	var refs []json.RawMessage
	if err := json.Unmarshal([]byte(transport), &refs); err != nil {
		return Value{}
	}
	seen := make(map[uint]bool)
	var ids []uint
	for _, raw := range refs {
		ref := rawRef(raw)
		id, ok := c.resolver.ResolveMedia(ref, kind)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return Value{Assets: ids}
}

// rawRef accepts either a JSON string (URL or numeric text) or a bare JSON
// number as a media reference.
func rawRef(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatUint(uint64(n), 10)
	}
	return ""
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
