package ledgerchain

import (
	"fmt"
	"sort"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the sign convention of a holder's float chain:
// credits add to the balance, debits deduct from it.
// This is used in both services and repositories to keep the arithmetic in
// one place.
func SignedAmount(kind domain.EntryKind, amount decimal.Decimal) (decimal.Decimal, error) {
	switch kind {
	case domain.Credit:
		return amount, nil
	case domain.Debit:
		return amount.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown entry kind '%s'", kind)
	}
}

// Apply returns the balance after applying one entry's effect to prev.
func Apply(prev decimal.Decimal, kind domain.EntryKind, amount decimal.Decimal) (decimal.Decimal, error) {
	signed, err := SignedAmount(kind, amount)
	if err != nil {
		return decimal.Zero, err
	}
	return prev.Add(signed), nil
}

// Recompute walks a single holder's entries in sequence order and rewrites
// PreviousBalance/NewBalance from a zero starting balance. The slice is
// sorted and mutated in place. All entries must belong to the same holder.
//
// A splice anywhere in the chain (edited or deleted transfer) followed by a
// full Recompute yields the same balances as walking forward from the
// splice point only, since everything before the splice is unchanged.
func Recompute(entries []domain.LedgerEntry) error {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Sequence < entries[j].Sequence
	})

	running := decimal.Zero
	for i := range entries {
		if i > 0 && entries[i].HolderID != entries[0].HolderID {
			return fmt.Errorf("entry %s belongs to holder %s, expected %s",
				entries[i].EntryID, entries[i].HolderID, entries[0].HolderID)
		}
		if entries[i].Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("entry %s has non-positive amount %s",
				entries[i].EntryID, entries[i].Amount.String())
		}
		next, err := Apply(running, entries[i].Kind, entries[i].Amount)
		if err != nil {
			return fmt.Errorf("entry %s: %w", entries[i].EntryID, err)
		}
		entries[i].PreviousBalance = running
		entries[i].NewBalance = next
		running = next
	}
	return nil
}

// Validate checks the chain invariant over a holder's entries in sequence
// order: the first entry starts at zero, every later entry starts where the
// prior one ended, and each entry's NewBalance reflects its own effect.
func Validate(entries []domain.LedgerEntry) error {
	sorted := make([]domain.LedgerEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Sequence < sorted[j].Sequence
	})

	running := decimal.Zero
	for _, e := range sorted {
		if !e.PreviousBalance.Equal(running) {
			return fmt.Errorf("entry %s (seq %d): previous balance is %s, chain expects %s",
				e.EntryID, e.Sequence, e.PreviousBalance.String(), running.String())
		}
		expected, err := Apply(e.PreviousBalance, e.Kind, e.Amount)
		if err != nil {
			return fmt.Errorf("entry %s: %w", e.EntryID, err)
		}
		if !e.NewBalance.Equal(expected) {
			return fmt.Errorf("entry %s (seq %d): new balance is %s, expected %s",
				e.EntryID, e.Sequence, e.NewBalance.String(), expected.String())
		}
		running = e.NewBalance
	}
	return nil
}

// CurrentBalance returns the NewBalance of the newest entry by sequence, or
// zero for an empty chain.
func CurrentBalance(entries []domain.LedgerEntry) decimal.Decimal {
	balance := decimal.Zero
	var newest int64 = -1
	for _, e := range entries {
		if e.Sequence > newest {
			newest = e.Sequence
			balance = e.NewBalance
		}
	}
	return balance
}
