package menu

import (
	"strconv"
	"strings"

	"github.com/mekedron/tableorder-cli/internal/domain"
)

const categoryIDPrefix = "cat-"

// Collision records category names that map to the same category id.
type Collision struct {
	ID    string   `json:"id"`
	Names []string `json:"names"`
}

// GroupingResult is the output of GroupItemsByCategory.
type GroupingResult struct {
	Categories []domain.Category
	Collisions []Collision
}

// CategoryID derives the category id from its display name.
func CategoryID(name string) string {
	return categoryIDPrefix + strings.TrimSpace(name)
}

// GroupItemsByCategory groups items by category label in first-seen order.
// Distinct labels that land on an id already in use stay separate
// categories; later ones get a numeric suffix and the clash is listed in
// Collisions, including clashes with an earlier suffixed id.
func GroupItemsByCategory(items []domain.MenuItem) GroupingResult {
	result := GroupingResult{Categories: []domain.Category{}}
	byName := map[string]int{}
	ownerByID := map[string]string{}
	collisionByID := map[string]int{}

	for _, item := range items {
		idx, ok := byName[item.Category]
		if !ok {
			baseID := CategoryID(item.Category)
			if owner, taken := ownerByID[baseID]; taken {
				c, seen := collisionByID[baseID]
				if !seen {
					result.Collisions = append(result.Collisions, Collision{ID: baseID, Names: []string{owner}})
					c = len(result.Collisions) - 1
					collisionByID[baseID] = c
				}
				result.Collisions[c].Names = append(result.Collisions[c].Names, item.Category)
			}
			id := baseID
			for n := 2; ; n++ {
				if _, taken := ownerByID[id]; !taken {
					break
				}
				id = baseID + "-" + strconv.Itoa(n)
			}
			ownerByID[id] = item.Category
			result.Categories = append(result.Categories, domain.Category{ID: id, Name: item.Category})
			idx = len(result.Categories) - 1
			byName[item.Category] = idx
		}
		result.Categories[idx].Items = append(result.Categories[idx].Items, item)
	}
	return result
}
