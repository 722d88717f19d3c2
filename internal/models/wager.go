package models

type Outcome string

const (
	OutcomeWon                Outcome = "won"
	OutcomeLost               Outcome = "lost"
	OutcomeInsufficientFunds  Outcome = "insufficient_funds"
	OutcomeTableLimitExceeded Outcome = "table_limit_exceeded"
	OutcomeBankInsolvent      Outcome = "bank_insolvent"

	OutcomeExecuted  Outcome = "executed"
	OutcomeScheduled Outcome = "scheduled"
	OutcomeRefunded  Outcome = "refunded"

	OutcomePurchased    Outcome = "purchased"
	OutcomeAlreadyOwned Outcome = "already_owned"

	OutcomePaid Outcome = "paid"
)

type Game string

const (
	GameCoinflip Game = "coinflip"
	GameSlots    Game = "slots"
)

type WagerResult struct {
	Game       Game     `json:"game"`
	PlayerID   int64    `json:"player_id"`
	Bet        int64    `json:"bet"`
	Outcome    Outcome  `json:"outcome"`
	Payout     int64    `json:"payout"`
	TableLimit int64    `json:"table_limit"`
	Symbols    []string `json:"symbols,omitempty"`
}

type PaymentResult struct {
	FromID  int64   `json:"from_id"`
	ToID    int64   `json:"to_id"`
	Amount  int64   `json:"amount"`
	Tax     int64   `json:"tax"`
	Net     int64   `json:"net"`
	Outcome Outcome `json:"outcome"`
}

type PurchaseResult struct {
	AccountID int64   `json:"account_id"`
	Item      *Item   `json:"item"`
	Outcome   Outcome `json:"outcome"`
}
