package models

import "time"

type EventType string

const (
	EventLevelUp      EventType = "level_up"
	EventRainExecuted EventType = "rain_executed"
)

type Event struct {
	Type      EventType           `msgpack:"type" json:"type"`
	AccountID int64               `msgpack:"account_id" json:"account_id"`
	Level     int                 `msgpack:"level,omitempty" json:"level,omitempty"`
	PrevLevel int                 `msgpack:"prev_level,omitempty" json:"prev_level,omitempty"`
	Rain      *DistributionResult `msgpack:"rain,omitempty" json:"rain,omitempty"`
	CreatedAt time.Time           `msgpack:"created_at" json:"created_at"`
}
