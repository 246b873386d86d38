// Package classifier maps free-text problem descriptions to a fixed
// request category set using an ordered keyword rule table.
package classifier

import (
	"strings"

	"github.com/chgu-campus/dorm-api/internal/models"
	appErrors "github.com/chgu-campus/dorm-api/pkg/errors"
)

// rule binds a category to its trigger substrings. Matching is plain
// substring containment against the lowercased input, not whole-word.
type rule struct {
	category models.Category
	keywords []string
}

// rules are evaluated in order; the first match wins, so a description
// hitting both a plumbing and a repair keyword classifies as plumbing.
var rules = []rule{
	{models.CategoryPlumbing, []string{"кран", "вода", "течет", "туалет", "ванн"}},
	{models.CategoryElectrical, []string{"свет", "лампочк", "розетк", "электричеств"}},
	{models.CategoryFurniture, []string{"стол", "стул", "кровать", "шкаф"}},
	{models.CategoryRelocation, []string{"переселени", "перевод", "другую комнату", "сменить комнату"}},
	{models.CategoryRepair, []string{"ремонт", "стена", "потолок", "пол"}},
	{models.CategoryHousehold, []string{"шум", "мусор", "уборк", "сосед"}},
}

// Classify resolves a description to exactly one category. Input that
// is empty or whitespace-only is refused rather than guessed at;
// anything that matches no rule falls through to the catch-all.
func Classify(text string) (models.Category, error) {
	if strings.TrimSpace(text) == "" {
		return "", appErrors.ErrEmptyClassifyText
	}

	lowered := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lowered, kw) {
				return r.category, nil
			}
		}
	}
	return models.CategoryOther, nil
}
