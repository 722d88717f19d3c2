package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type PendingDistribution struct {
	bun.BaseModel `bun:"table:pending_distribution"`
	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id" msgpack:"id"`
	SenderID      int64     `bun:"sender_id,notnull" json:"sender_id" msgpack:"sender_id"`
	TotalAmount   int64     `bun:"total_amount,notnull" json:"total_amount" msgpack:"total_amount"`
	Scope         string    `bun:"scope,notnull" json:"scope" msgpack:"scope"`
	DueTime       time.Time `bun:"due_time,notnull" json:"due_time" msgpack:"due_time"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at" msgpack:"created_at"`
}

type DistributionShare struct {
	AccountID int64 `json:"account_id" msgpack:"account_id"`
	Amount    int64 `json:"amount" msgpack:"amount"`
	Paid      bool  `json:"paid" msgpack:"paid"`
}

type DistributionResult struct {
	ID       uuid.UUID           `json:"id" msgpack:"id"`
	SenderID int64               `json:"sender_id" msgpack:"sender_id"`
	Amount   int64               `json:"amount" msgpack:"amount"`
	Scope    string              `json:"scope" msgpack:"scope"`
	Outcome  Outcome             `json:"outcome" msgpack:"outcome"`
	DueTime  *time.Time          `json:"due_time,omitempty" msgpack:"due_time"`
	Shares   []DistributionShare `json:"shares,omitempty" msgpack:"shares"`
}

func (r *DistributionResult) Distributed() int64 {
	var total int64
	for _, share := range r.Shares {
		if share.Paid {
			total += share.Amount
		}
	}
	return total
}

type AirdropResult struct {
	Amount     int64   `json:"amount"`
	PerAccount int64   `json:"per_account"`
	Recipients []int64 `json:"recipients"`
	Outcome    Outcome `json:"outcome"`
}
