package profile

import (
	"context"
	"fmt"
	"slices"
)

// AchievementReward is credited the first time an achievement is claimed.
const AchievementReward = 10

// Achievement is one milestone and whether it has been claimed.
type Achievement struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Achieved bool   `json:"achieved"`
}

var achievementTitles = []string{
	"Lay the first rail",
	"Raise a fence",
	"Send a train across",
	"Win a round",
	"Fill the shop",
}

const achievementsKey = "achievements"

// Achievements keeps the five claimable milestones.
type Achievements struct {
	store  *Store
	ledger *Ledger
}

// NewAchievements returns achievements persisted in s that pay through l.
func NewAchievements(s *Store, l *Ledger) *Achievements {
	return &Achievements{store: s, ledger: l}
}

// List returns every achievement in id order.
func (a *Achievements) List(ctx context.Context) ([]Achievement, error) {
	var achieved []int
	if _, err := a.store.Get(ctx, achievementsKey, &achieved); err != nil {
		return nil, err
	}
	out := make([]Achievement, len(achievementTitles))
	for i, title := range achievementTitles {
		id := i + 1
		out[i] = Achievement{ID: id, Title: title, Achieved: slices.Contains(achieved, id)}
	}
	return out, nil
}

// Claim marks an achievement as achieved and credits the reward in one
// transaction. Claiming one that is already achieved changes nothing and
// reports false.
func (a *Achievements) Claim(ctx context.Context, id int) (bool, error) {
	if id < 1 || id > len(achievementTitles) {
		return false, fmt.Errorf("achievement %d: %w", id, ErrUnknownAchievement)
	}
	claimed := false
	err := a.ledger.update(ctx, func(tx *Tx) error {
		var achieved []int
		if _, err := tx.Get(ctx, achievementsKey, &achieved); err != nil {
			return err
		}
		if slices.Contains(achieved, id) {
			return nil
		}
		achieved = append(achieved, id)
		slices.Sort(achieved)
		if err := tx.Put(ctx, achievementsKey, achieved); err != nil {
			return err
		}
		if _, err := credit(ctx, tx, AchievementReward); err != nil {
			return fmt.Errorf("credit achievement %d: %w", id, err)
		}
		claimed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return claimed, nil
}
