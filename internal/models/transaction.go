package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type TxKind string

const (
	TxKindPayment    TxKind = "PAYMENT"
	TxKindTax        TxKind = "TAX"
	TxKindBet        TxKind = "BET"
	TxKindCasinoWin  TxKind = "CASINO_WIN"
	TxKindRainEscrow TxKind = "RAIN_ESCROW"
	TxKindRain       TxKind = "RAIN"
	TxKindRainRefund TxKind = "RAIN_REFUND"
	TxKindPassive    TxKind = "PASSIVE"
	TxKindAirdrop    TxKind = "AIRDROP"
	TxKindGrant      TxKind = "GRANT"
	TxKindShopBuy    TxKind = "SHOP_BUY"
)

type Transaction struct {
	bun.BaseModel `bun:"table:ledger_transaction"`
	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	FromID        int64     `bun:"from_id,notnull" json:"from_id"`
	ToID          int64     `bun:"to_id,notnull" json:"to_id"`
	Amount        int64     `bun:"amount,notnull" json:"amount"`
	Kind          TxKind    `bun:"kind,notnull" json:"kind"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

func NewTransaction(from, to, amount int64, kind TxKind) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		FromID:    from,
		ToID:      to,
		Amount:    amount,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
}

type Genesis struct {
	bun.BaseModel `bun:"table:ledger_genesis"`
	ID            int       `bun:"id,pk" json:"id"`
	Supply        int64     `bun:"supply,notnull" json:"supply"`
	MintedAt      time.Time `bun:"minted_at,nullzero,notnull,default:current_timestamp" json:"minted_at"`
}
