package model

import (
	"errors"

	"gorm.io/gorm"
)

// defaultTemplates is the starter quest catalog, covering every life area
// with daily quests plus a smaller weekly set.
var defaultTemplates = []QuestTemplate{
	{Title: "Take a 30-minute walk", Area: AreaPhysical, XPReward: 10, Difficulty: DifficultyEasy, QuestType: QuestTypeDaily, Active: true},
	{Title: "Complete a full workout", Area: AreaPhysical, XPReward: 25, Difficulty: DifficultyMedium, QuestType: QuestTypeDaily, Active: true},
	{Title: "Read for 20 minutes", Area: AreaMental, XPReward: 10, Difficulty: DifficultyEasy, QuestType: QuestTypeDaily, Active: true},
	{Title: "Learn something new for an hour", Area: AreaMental, XPReward: 25, Difficulty: DifficultyMedium, QuestType: QuestTypeDaily, Active: true},
	{Title: "Clear your inbox", Area: AreaProductivity, XPReward: 10, Difficulty: DifficultyEasy, QuestType: QuestTypeDaily, Active: true},
	{Title: "Finish your top priority task", Area: AreaProductivity, XPReward: 30, Difficulty: DifficultyHard, QuestType: QuestTypeDaily, Active: true},
	{Title: "Call a friend or family member", Area: AreaSocial, XPReward: 10, Difficulty: DifficultyEasy, QuestType: QuestTypeDaily, Active: true},
	{Title: "Track today's spending", Area: AreaFinancial, XPReward: 5, Difficulty: DifficultyEasy, QuestType: QuestTypeDaily, Active: true},
	{Title: "Review your budget", Area: AreaFinancial, XPReward: 20, Difficulty: DifficultyMedium, QuestType: QuestTypeDaily, Active: true},
	{Title: "Journal for 10 minutes", Area: AreaPersonal, XPReward: 10, Difficulty: DifficultyEasy, QuestType: QuestTypeDaily, Active: true},
	{Title: "Meditate for 15 minutes", Area: AreaSpiritual, XPReward: 15, Difficulty: DifficultyMedium, QuestType: QuestTypeDaily, Active: true},
	{Title: "Exercise four times this week", Area: AreaPhysical, XPReward: 50, Difficulty: DifficultyHard, QuestType: QuestTypeWeekly, Active: true},
	{Title: "Finish a book chapter", Area: AreaMental, XPReward: 40, Difficulty: DifficultyMedium, QuestType: QuestTypeWeekly, Active: true},
	{Title: "Plan next week's priorities", Area: AreaProductivity, XPReward: 30, Difficulty: DifficultyEasy, QuestType: QuestTypeWeekly, Active: true},
	{Title: "Meet someone in person", Area: AreaSocial, XPReward: 40, Difficulty: DifficultyMedium, QuestType: QuestTypeWeekly, Active: true},
	{Title: "Reflect on the past week", Area: AreaPersonal, XPReward: 30, Difficulty: DifficultyEasy, QuestType: QuestTypeWeekly, Active: true},
}

// SeedQuestTemplates inserts the default catalog, skipping titles that
// already exist. Safe to run on every startup.
func SeedQuestTemplates(db *gorm.DB) error {
	for _, tpl := range defaultTemplates {
		var existing QuestTemplate
		err := db.Where("title = ?", tpl.Title).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		t := tpl
		if err := db.Create(&t).Error; err != nil {
			return err
		}
	}
	return nil
}
