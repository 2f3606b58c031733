package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashTransfer is a peer-to-peer movement of float between two holders.
// Every transfer owns exactly two ledger entries: a debit on the sender and
// a credit on the receiver, linked via Reference{RefTransfer, TransferID}.
// Its ledger effect is immediate and unconditional on creation; edits and
// deletes recompute the affected holders' chains.
type CashTransfer struct {
	TransferID string          `json:"transferID"` // Primary Key (UUID)
	SenderID   string          `json:"senderID"`
	ReceiverID string          `json:"receiverID"`
	Amount     decimal.Decimal `json:"amount"` // positive
	Date       time.Time       `json:"date"`
	Notes      string          `json:"notes"`
	AuditFields
}
