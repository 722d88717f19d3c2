package models

type Badge string

const (
	BadgeCentralBank Badge = "🏦 Central Bank"
	BadgeListener    Badge = "🎧 Listener"
	BadgeRich        Badge = "💎 Rich"
)

const (
	LISTENER_BADGE_LEVEL = 5
	RICH_BADGE_BALANCE   = 1000
)

var badges = map[Badge]struct{}{
	BadgeCentralBank: {},
	BadgeListener:    {},
	BadgeRich:        {},
}

func (b Badge) Valid() bool {
	_, ok := badges[b]
	return ok
}

func (b Badge) String() string {
	return string(b)
}

// LevelBadges returns the badges a level entitles an account to.
func LevelBadges(level int) []Badge {
	var out []Badge
	if level >= LISTENER_BADGE_LEVEL {
		out = append(out, BadgeListener)
	}
	return out
}
