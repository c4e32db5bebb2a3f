// Package models defines the domain types for Posverdad.
package models

import (
	"fmt"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// EntityType classifies a named entity extracted from an article.
type EntityType string

// Entity types emitted by the NLP pipeline. Anything unrecognized is
// normalized to EntityOther.
const (
	EntityPerson    EntityType = "PERSON"
	EntityOrg       EntityType = "ORG"
	EntityLoc       EntityType = "LOC"
	EntityGPE       EntityType = "GPE"
	EntityEvent     EntityType = "EVENT"
	EntityWorkOfArt EntityType = "WORK_OF_ART"
	EntityProduct   EntityType = "PRODUCT"
	EntityOther     EntityType = "OTHER"
)

var knownEntityTypes = map[EntityType]struct{}{
	EntityPerson: {}, EntityOrg: {}, EntityLoc: {}, EntityGPE: {},
	EntityEvent: {}, EntityWorkOfArt: {}, EntityProduct: {}, EntityOther: {},
}

// Entity is a named entity detected within a single article. It is owned
// by its parent Article and is only ever addressed by the
// (article id, entity id) pair.
type Entity struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Type    EntityType `json:"type"`
	Aliases []string   `json:"aliases"`
	Blocked bool       `json:"blocked"`
}

// Clone returns a deep copy of the entity with a fresh alias slice.
func (e Entity) Clone() Entity {
	out := e
	out.Aliases = append([]string(nil), e.Aliases...)
	if out.Aliases == nil {
		out.Aliases = []string{}
	}
	return out
}

// Article is one ingested news article with its sentiment scores and
// extracted entities. Articles are treated as immutable values: annotation
// operations replace the whole Article rather than writing fields in place.
type Article struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Source       string    `json:"source"`
	PublishedAt  time.Time `json:"published_at"`
	LenChars     int       `json:"len_chars"`
	Polarity     float64   `json:"polarity"`
	Subjectivity float64   `json:"subjectivity"`
	Entities     []Entity  `json:"entities"`
}

// Clone returns a deep copy of the article, entities included.
func (a Article) Clone() Article {
	out := a
	out.Entities = make([]Entity, len(a.Entities))
	for i, e := range a.Entities {
		out.Entities[i] = e.Clone()
	}
	return out
}

// Validate checks the invariants the data source must uphold.
func (a Article) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.Required),
		validation.Field(&a.Title, validation.Required),
		validation.Field(&a.URL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&a.Source, validation.Required),
		validation.Field(&a.LenChars, validation.Min(0)),
		validation.Field(&a.Polarity, validation.Min(-1.0), validation.Max(1.0)),
		validation.Field(&a.Subjectivity, validation.Min(0.0), validation.Max(1.0)),
	)
}

func absoluteURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("must be an absolute URL")
	}
	return nil
}

// Normalize fills schema defaults on a decoded article: unknown or empty
// entity types become OTHER and nil alias slices become empty.
func (a *Article) Normalize() {
	for i := range a.Entities {
		e := &a.Entities[i]
		if _, ok := knownEntityTypes[e.Type]; !ok {
			e.Type = EntityOther
		}
		if e.Aliases == nil {
			e.Aliases = []string{}
		}
	}
	if a.Entities == nil {
		a.Entities = []Entity{}
	}
}

// FindEntity returns the entity with the given id, or false when absent.
func (a Article) FindEntity(entityID string) (Entity, bool) {
	for _, e := range a.Entities {
		if e.ID == entityID {
			return e, true
		}
	}
	return Entity{}, false
}
