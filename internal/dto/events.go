package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event topics consumed by the external notifier.
const (
	TopicBalanceChanged  = "float.balance_changed"
	TopicTransferCreated = "float.transfer_created"
)

// BalanceChangedEvent is published after any committed chain mutation, once
// per affected holder. Delivery is best effort and never rolls back the
// ledger mutation that produced it.
type BalanceChangedEvent struct {
	HolderID   string          `json:"holder_id"`
	Balance    decimal.Decimal `json:"balance"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// TransferCreatedEvent is published after a transfer commits.
type TransferCreatedEvent struct {
	TransferID string          `json:"transfer_id"`
	SenderID   string          `json:"sender_id"`
	ReceiverID string          `json:"receiver_id"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}
