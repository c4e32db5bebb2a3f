package store

import "github.com/sietev/posverdad/internal/models"

// Copy-on-write entity annotation over an article collection. Every
// operation returns a fresh top-level slice; the mutated Article and
// Entity are fresh values while untouched articles are shared. The input
// collection is never modified, so a caller holding the old value keeps a
// consistent snapshot. Operations addressed at ids that do not resolve
// are silent no-ops: the UI and the collection can transiently disagree
// about which ids exist and must not crash on that.

// SetEntityBlocked replaces the blocked flag of the addressed entity.
func SetEntityBlocked(items []models.Article, articleID, entityID string, blocked bool) []models.Article {
	return mutateEntity(items, articleID, entityID, func(e *models.Entity) {
		e.Blocked = blocked
	})
}

// AddAlias appends alias to the addressed entity unless the exact string
// is already present. The caller-facing boundary is responsible for
// rejecting empty input; this operation assumes a non-empty trimmed
// string.
func AddAlias(items []models.Article, articleID, entityID, alias string) []models.Article {
	return mutateEntity(items, articleID, entityID, func(e *models.Entity) {
		for _, a := range e.Aliases {
			if a == alias {
				return
			}
		}
		e.Aliases = append(e.Aliases, alias)
	})
}

// RemoveAlias removes the first exact match of alias from the addressed
// entity, or does nothing when absent.
func RemoveAlias(items []models.Article, articleID, entityID, alias string) []models.Article {
	return mutateEntity(items, articleID, entityID, func(e *models.Entity) {
		for i, a := range e.Aliases {
			if a == alias {
				e.Aliases = append(e.Aliases[:i:i], e.Aliases[i+1:]...)
				return
			}
		}
	})
}

func mutateEntity(items []models.Article, articleID, entityID string, fn func(*models.Entity)) []models.Article {
	out := make([]models.Article, len(items))
	copy(out, items)
	for i, art := range out {
		if art.ID != articleID {
			continue
		}
		fresh := art.Clone()
		for j := range fresh.Entities {
			if fresh.Entities[j].ID == entityID {
				fn(&fresh.Entities[j])
				break
			}
		}
		out[i] = fresh
		break
	}
	return out
}
