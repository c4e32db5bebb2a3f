package store

import (
	"reflect"
	"testing"
	"time"

	"github.com/sietev/posverdad/internal/models"
)

func sampleItems() []models.Article {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	return []models.Article{
		{
			ID: "a-1", Title: "Prueba 1", URL: "https://ejemplo.cl/nota/1",
			Source: "Fuente X", PublishedAt: now, LenChars: 1200,
			Polarity: 0.1, Subjectivity: 0.3,
			Entities: []models.Entity{
				{ID: "e-1", Name: "Gabriel", Type: models.EntityPerson, Aliases: []string{}},
				{ID: "e-2", Name: "SieteV", Type: models.EntityOrg, Aliases: []string{}},
			},
		},
		{
			ID: "a-2", Title: "Prueba 2", URL: "https://ejemplo.cl/nota/2",
			Source: "Fuente Y", PublishedAt: now, LenChars: 800,
			Polarity: -0.4, Subjectivity: 0.6,
			Entities: []models.Entity{
				{ID: "e-3", Name: "Chile", Type: models.EntityLoc, Aliases: []string{}},
			},
		},
	}
}

func TestSetEntityBlocked(t *testing.T) {
	items := sampleItems()
	out := SetEntityBlocked(items, "a-1", "e-2", true)

	if !out[0].Entities[1].Blocked {
		t.Error("entity not blocked in result")
	}
	if items[0].Entities[1].Blocked {
		t.Error("input collection was mutated")
	}
	// Untouched article may share storage; the mutated one must be fresh.
	if len(out[1].Entities) > 0 && len(items[1].Entities) > 0 &&
		&out[1].Entities[0] != &items[1].Entities[0] {
		t.Error("untouched article was needlessly copied")
	}
	if reflect.DeepEqual(out[0], items[0]) {
		t.Error("mutated article still equals input")
	}
}

func TestSetEntityBlockedMissingTarget(t *testing.T) {
	items := sampleItems()
	out := SetEntityBlocked(items, "missing-article", "missing-entity", true)
	if !reflect.DeepEqual(out, items) {
		t.Fatal("missing target must leave the collection deep-equal")
	}
	out = SetEntityBlocked(items, "a-1", "missing-entity", true)
	if !reflect.DeepEqual(out, items) {
		t.Fatal("missing entity must leave the collection deep-equal")
	}
}

func TestAddAliasIdempotent(t *testing.T) {
	items := sampleItems()
	once := AddAlias(items, "a-1", "e-1", "X")
	twice := AddAlias(once, "a-1", "e-1", "X")

	want := []string{"X"}
	if got := twice[0].Entities[0].Aliases; !reflect.DeepEqual(got, want) {
		t.Fatalf("aliases after double add = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Error("second add changed the collection")
	}
}

func TestRemoveAliasRestoresPreAddState(t *testing.T) {
	items := sampleItems()
	added := AddAlias(items, "a-2", "e-3", "Republica de Chile")
	removed := RemoveAlias(added, "a-2", "e-3", "Republica de Chile")
	if !reflect.DeepEqual(removed, items) {
		t.Fatal("remove after add did not restore the pre-add state")
	}
}

func TestRemoveAliasAbsentIsNoOp(t *testing.T) {
	items := sampleItems()
	out := RemoveAlias(items, "a-1", "e-1", "nope")
	if !reflect.DeepEqual(out, items) {
		t.Fatal("removing an absent alias must be a no-op")
	}
}

func TestAddAliasCaseSensitiveDedup(t *testing.T) {
	items := sampleItems()
	out := AddAlias(items, "a-1", "e-1", "gabo")
	out = AddAlias(out, "a-1", "e-1", "Gabo")
	want := []string{"gabo", "Gabo"}
	if got := out[0].Entities[0].Aliases; !reflect.DeepEqual(got, want) {
		t.Fatalf("aliases = %v, want %v (dedup is exact-match)", got, want)
	}
}

func TestOldCollectionValueStaysValid(t *testing.T) {
	items := sampleItems()
	before := items[0].Entities[0].Aliases
	_ = AddAlias(items, "a-1", "e-1", "X")
	if len(before) != 0 || len(items[0].Entities[0].Aliases) != 0 {
		t.Fatal("held collection value changed under mutation")
	}
}
