package codec_test

import (
	"reflect"
	"testing"

	"movie-library/internal/catalog/codec"
	"movie-library/internal/catalog/resolve"
	"movie-library/internal/domain/catalog"
	"movie-library/internal/domain/media"
	"movie-library/internal/testsupport"
)

func newCodec(st *testsupport.MemoryStore) *codec.Codec {
	return codec.New(resolve.NewResolver(st, st, st, resolve.NewCache()))
}

func TestPersonListRoundTrip(t *testing.T) {
	st := testsupport.NewMemoryStore()
	a := st.AddPerson("Ada Lovelace")
	b := st.AddPerson("Grace Hopper")
	c := newCodec(st)

	encoded := c.Encode(codec.PersonIDList, codec.Value{Persons: []string{a.ID, b.ID}})
	decoded := c.Decode(codec.PersonIDList, encoded, catalog.RoleDirector)

	want := map[string]bool{a.ID: true, b.ID: true}
	if len(decoded.Persons) != 2 {
		t.Fatalf("expected both persons back, got %v", decoded.Persons)
	}
	for _, id := range decoded.Persons {
		if !want[id] {
			t.Fatalf("unexpected id %q", id)
		}
	}
}

func TestPersonListDecodeCreatesAndDeduplicates(t *testing.T) {
	st := testsupport.NewMemoryStore()
	c := newCodec(st)

	decoded := c.Decode(codec.PersonIDList, `["New Person","New Person"]`, catalog.RoleWriter)
	if len(decoded.Persons) != 1 {
		t.Fatalf("duplicate names should collapse, got %v", decoded.Persons)
	}
	if len(st.Persons) != 1 {
		t.Fatalf("expected one created person, have %d", len(st.Persons))
	}
}

func TestPersonListDecodeIsTotal(t *testing.T) {
	st := testsupport.NewMemoryStore()
	c := newCodec(st)

	for _, malformed := range []string{"", "not json", `{"wrong":"shape"}`, "123"} {
		decoded := c.Decode(codec.PersonIDList, malformed, "")
		if len(decoded.Persons) != 0 {
			t.Fatalf("malformed input %q should decode empty, got %v", malformed, decoded.Persons)
		}
	}
}

func TestActorCharacterMapRoundTrip(t *testing.T) {
	st := testsupport.NewMemoryStore()
	actor := st.AddPerson("Leonardo DiCaprio")
	other := st.AddPerson("Somebody Else")
	c := newCodec(st)

	encoded := c.Encode(codec.ActorCharacterMap, codec.Value{
		Persons: []string{actor.ID},
		Characters: map[string]string{
			actor.ID: "Cobb",
			other.ID: "dropped, not in the actor set",
		},
	})
	decoded := c.Decode(codec.ActorCharacterMap, encoded, "")

	want := map[string]string{actor.ID: "Cobb"}
	if !reflect.DeepEqual(decoded.Characters, want) {
		t.Fatalf("round trip: got %v want %v", decoded.Characters, want)
	}
}

func TestActorCharacterMapDecodeDropsEmptyText(t *testing.T) {
	st := testsupport.NewMemoryStore()
	c := newCodec(st)

	decoded := c.Decode(codec.ActorCharacterMap, `{"Some Actor":"Role","Blank Actor":"  "}`, "")
	if len(decoded.Characters) != 1 {
		t.Fatalf("empty character text should drop, got %v", decoded.Characters)
	}
}

func TestMediaListRoundTrip(t *testing.T) {
	st := testsupport.NewMemoryStore()
	st.AddAsset(1, "https://cdn.example/a.jpg", "image/jpeg")
	st.AddAsset(2, "https://cdn.example/b.jpg", "image/png")
	c := newCodec(st).ForMediaKind(media.KindImage)

	encoded := c.Encode(codec.MediaIDList, codec.Value{Assets: []uint{1, 2, 1}})
	decoded := c.Decode(codec.MediaIDList, encoded, "")

	if !reflect.DeepEqual(decoded.Assets, []uint{1, 2}) {
		t.Fatalf("round trip: got %v", decoded.Assets)
	}
}

func TestMediaListDecodeDropsWrongKind(t *testing.T) {
	st := testsupport.NewMemoryStore()
	st.AddAsset(1, "https://cdn.example/a.jpg", "image/jpeg")
	st.AddAsset(2, "https://cdn.example/clip.mp4", "video/mp4")
	c := newCodec(st).ForMediaKind(media.KindImage)

	decoded := c.Decode(codec.MediaIDList, `["https://cdn.example/a.jpg","https://cdn.example/clip.mp4"]`, "")
	if !reflect.DeepEqual(decoded.Assets, []uint{1}) {
		t.Fatalf("video must be dropped from image list, got %v", decoded.Assets)
	}
}

func TestMediaListEncodeDropsUnknownAssets(t *testing.T) {
	st := testsupport.NewMemoryStore()
	st.AddAsset(1, "https://cdn.example/a.jpg", "image/jpeg")
	c := newCodec(st)

	encoded := c.Encode(codec.MediaIDList, codec.Value{Assets: []uint{1, 99}})
	if encoded != `["https://cdn.example/a.jpg"]` {
		t.Fatalf("unknown asset should be dropped: %s", encoded)
	}
}
