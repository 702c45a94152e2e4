package services

import (
	. "restocoach/internal/models"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// missionHistory indexes the templates, categories and ideas a user saw during the rotation window.
type missionHistory struct {
	templates  map[uuid.UUID]bool
	categories map[string]bool
	ideas      map[uuid.UUID]bool
}

func newMissionHistory(recent []*Mission) missionHistory {
	history := missionHistory{
		templates:  make(map[uuid.UUID]bool, len(recent)),
		categories: make(map[string]bool, len(recent)),
		ideas:      make(map[uuid.UUID]bool, len(recent)),
	}

	for _, mission := range recent {
		history.templates[mission.TemplateID] = true
		if mission.Template != nil {
			history.categories[mission.Template.CategoryKey()] = true
		}
		if mission.ContentIdeaID != nil {
			history.ideas[*mission.ContentIdeaID] = true
		}
	}

	return history
}

func compareTemplates(a, b *MissionTemplate) int {
	if a.SortOrder != b.SortOrder {
		return a.SortOrder - b.SortOrder
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}

// rankTemplates orders templates unused in the window first, then by sort order and id.
func rankTemplates(templates []*MissionTemplate, history missionHistory) []*MissionTemplate {
	ranked := slices.Clone(templates)
	slices.SortStableFunc(ranked, func(a, b *MissionTemplate) int {
		usedA, usedB := history.templates[a.ID], history.templates[b.ID]
		if usedA != usedB {
			if usedA {
				return 1
			}
			return -1
		}
		return compareTemplates(a, b)
	})
	return ranked
}

type dayPlan struct {
	templates   []*MissionTemplate
	recommended int
}

// planDay picks up to slots templates, keeping categories distinct within the day when the
// catalog allows it, and flags exactly one recommended pick.
func planDay(templates []*MissionTemplate, history missionHistory, slots int) dayPlan {
	if slots < 1 || len(templates) == 0 {
		return dayPlan{recommended: -1}
	}

	ranked := rankTemplates(templates, history)
	picked := make([]*MissionTemplate, 0, slots)
	taken := make(map[uuid.UUID]bool, slots)
	categories := make(map[string]bool, slots)

	for _, template := range ranked {
		if len(picked) == slots {
			break
		}
		key := template.CategoryKey()
		if key != "" && categories[key] {
			continue
		}
		picked = append(picked, template)
		taken[template.ID] = true
		categories[key] = true
	}

	for _, template := range ranked {
		if len(picked) == slots {
			break
		}
		if taken[template.ID] {
			continue
		}
		picked = append(picked, template)
		taken[template.ID] = true
	}

	return dayPlan{templates: picked, recommended: recommendedIndex(picked, history)}
}

// recommendedIndex prefers the lowest sort order and id among templates whose category was
// not tried during the window, and falls back to the lowest overall.
func recommendedIndex(picked []*MissionTemplate, history missionHistory) int {
	best := -1
	bestUntried := false

	for i, template := range picked {
		untried := !history.categories[template.CategoryKey()]
		switch {
		case best == -1:
			best, bestUntried = i, untried
		case untried && !bestUntried:
			best, bestUntried = i, untried
		case untried == bestUntried && compareTemplates(template, picked[best]) < 0:
			best = i
		}
	}

	return best
}

// pickAlternative returns the best ranked template outside excluded, or nil.
func pickAlternative(
	templates []*MissionTemplate,
	history missionHistory,
	excluded map[uuid.UUID]bool,
) *MissionTemplate {
	for _, template := range rankTemplates(templates, history) {
		if !excluded[template.ID] {
			return template
		}
	}
	return nil
}

// pickIdea returns the first matching idea not used in the window nor already taken today,
// relaxing those preferences in turn. Nil when no idea matches.
func pickIdea(
	ideas []*ContentIdea,
	restaurantType string,
	template *MissionTemplate,
	history missionHistory,
	takenToday map[uuid.UUID]bool,
) *ContentIdea {
	var fresh, notToday, fallback *ContentIdea

	for _, idea := range ideas {
		if !idea.Matches(restaurantType, template.Type, template.CategorySlug()) {
			continue
		}
		if fallback == nil {
			fallback = idea
		}
		if takenToday[idea.ID] {
			continue
		}
		if notToday == nil {
			notToday = idea
		}
		if !history.ideas[idea.ID] {
			fresh = idea
			break
		}
	}

	switch {
	case fresh != nil:
		return fresh
	case notToday != nil:
		return notToday
	default:
		return fallback
	}
}
