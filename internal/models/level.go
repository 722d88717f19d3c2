package models

import "strings"

const (
	XP_PER_LEVEL       = 100
	PROGRESS_BAR_STEPS = 10
)

func LevelForXP(xp int64) int {
	if xp < 0 {
		xp = 0
	}
	return int(xp/XP_PER_LEVEL) + 1
}

type LevelChange struct {
	AccountID int64 `json:"account_id"`
	XP        int64 `json:"xp"`
	PrevLevel int   `json:"prev_level"`
	Level     int   `json:"level"`
}

func (c *LevelChange) LeveledUp() bool {
	return c.Level > c.PrevLevel
}

type LevelProgress struct {
	Level       int    `json:"level"`
	XP          int64  `json:"xp"`
	Current     int64  `json:"current"`
	Needed      int64  `json:"needed"`
	NextLevelXP int64  `json:"next_level_xp"`
	Bar         string `json:"bar"`
}

func ProgressFor(xp int64, level int) LevelProgress {
	start := int64(level-1) * XP_PER_LEVEL
	if xp < start {
		xp = start
	}
	current := xp - start
	steps := int(current * PROGRESS_BAR_STEPS / XP_PER_LEVEL)
	steps = max(0, min(PROGRESS_BAR_STEPS, steps))

	return LevelProgress{
		Level:       level,
		XP:          xp,
		Current:     current,
		Needed:      XP_PER_LEVEL,
		NextLevelXP: int64(level) * XP_PER_LEVEL,
		Bar:         strings.Repeat("🟦", steps) + strings.Repeat("⬜", PROGRESS_BAR_STEPS-steps),
	}
}
