package models

import (
	"time"

	"github.com/uptrace/bun"
)

const BANK_ID int64 = 0

type Account struct {
	bun.BaseModel `bun:"table:account"`
	ID            int64     `bun:"id,pk" json:"id"`
	Balance       int64     `bun:"balance,notnull,default:0" json:"balance"`
	XP            int64     `bun:"xp,notnull,default:0" json:"xp"`
	Level         int       `bun:"level,notnull,default:1" json:"level"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

func (a *Account) IsBank() bool {
	return a.ID == BANK_ID
}

type AccountBadge struct {
	bun.BaseModel `bun:"table:account_badge"`
	ID            int64     `bun:"id,pk,autoincrement" json:"-"`
	AccountID     int64     `bun:"account_id,notnull" json:"account_id"`
	Badge         Badge     `bun:"badge,notnull" json:"badge"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type AccountItem struct {
	bun.BaseModel `bun:"table:account_item"`
	ID            int64     `bun:"id,pk,autoincrement" json:"-"`
	AccountID     int64     `bun:"account_id,notnull" json:"account_id"`
	Item          string    `bun:"item,notnull" json:"item"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type Profile struct {
	Account  *Account      `json:"account"`
	Badges   []Badge       `json:"badges"`
	Items    []*Item       `json:"items"`
	Progress LevelProgress `json:"progress"`
}

type LeaderboardItem struct {
	AccountID int64 `bun:"id" json:"account_id"`
	Balance   int64 `bun:"balance" json:"balance"`
	Level     int   `bun:"level" json:"level"`
}

// UserFromAuth only use in middleware
type UserFromAuth struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	IsBot     bool   `json:"is_bot"`
}
