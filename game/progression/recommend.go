package progression

import (
	"fmt"
	"sort"
	"time"

	"github.com/veyralune/lifequest/model"
)

// Suggestion is one ranked quest recommendation.
type Suggestion struct {
	TemplateID  int64   `json:"template_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Area        string  `json:"area"`
	XPReward    int     `json:"xp_reward"`
	Difficulty  string  `json:"difficulty"`
	Reason      string  `json:"reason"`
	Priority    float64 `json:"priority"`
}

type areaScore struct {
	score  float64
	reason string
}

// Recommend ranks quest templates against the user's weekly deficits and
// streak risk. Templates whose title is already accepted this period are
// excluded. Ties keep catalog order.
func Recommend(
	areas []model.AreaProgress,
	streaks []model.Streak,
	templates []model.QuestTemplate,
	acceptedTitles map[string]bool,
	weeklyTarget int,
	topN int,
	today time.Time,
) []Suggestion {
	if topN <= 0 {
		topN = 5
	}

	streakByArea := make(map[string]model.Streak, len(streaks))
	for _, s := range streaks {
		streakByArea[s.Area] = s
	}

	scores := make(map[string]areaScore, len(areas))
	for _, a := range areas {
		var sc areaScore
		if deficit := int64(weeklyTarget) - a.WeeklyXP; deficit > 0 {
			sc.score += float64(deficit) / 10
			sc.reason = fmt.Sprintf("Need %d more XP this week", deficit)
		}
		// Any streak with no activity today is worth defending, however
		// stale. The risk reason takes precedence over the deficit reason.
		if s, ok := streakByArea[a.Area]; ok && s.CurrentCount > 0 &&
			s.LastActivityDate != nil && daysBetween(*s.LastActivityDate, today) >= 1 {
			sc.score += 5
			sc.reason = fmt.Sprintf("%d day streak at risk!", s.CurrentCount)
		}
		scores[a.Area] = sc
	}

	suggestions := make([]Suggestion, 0, len(templates))
	for _, tpl := range templates {
		if acceptedTitles[tpl.Title] {
			continue
		}
		sc, ok := scores[tpl.Area]
		if !ok {
			sc = areaScore{reason: "Explore new area"}
		}
		reason := sc.reason
		if reason == "" {
			reason = "Build your character"
		}
		suggestions = append(suggestions, Suggestion{
			TemplateID:  tpl.ID,
			Title:       tpl.Title,
			Description: tpl.Description,
			Area:        tpl.Area,
			XPReward:    tpl.XPReward,
			Difficulty:  tpl.Difficulty,
			Reason:      reason,
			Priority:    sc.score + difficultyBonus(tpl.Difficulty),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Priority > suggestions[j].Priority
	})
	if len(suggestions) > topN {
		suggestions = suggestions[:topN]
	}
	return suggestions
}

// difficultyBonus favors low-friction quests when area scores tie.
func difficultyBonus(d string) float64 {
	switch d {
	case model.DifficultyEasy:
		return 2
	case model.DifficultyMedium:
		return 1
	default:
		return 0
	}
}
