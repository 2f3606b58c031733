package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alfurqan-institute/cashfloat_backend/internal/apperrors"
	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	portsrepo "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/repositories"
	portssvc "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/services"
	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
	"github.com/alfurqan-institute/cashfloat_backend/internal/middleware"
	"github.com/alfurqan-institute/cashfloat_backend/internal/utils/ledgerchain"
)

// transferService implements the cash transfer lifecycle. Every mutation
// runs inside one transaction holding the affected holders' row locks, so
// the transfer row and its ledger entries always commit together and the
// chain invariant holds for every committed state.
type transferService struct {
	transferRepo   portsrepo.TransferRepositoryWithTx
	ledgerRepo     portsrepo.LedgerRepositoryFacade
	holderRepo     portsrepo.HolderRepositoryFacade
	auditRepo      portsrepo.AuditRepositoryFacade
	publisher      portssvc.EventPublisher
	forbidNegative bool
}

// NewTransferService creates a new TransferService.
func NewTransferService(transferRepo portsrepo.TransferRepositoryWithTx, ledgerRepo portsrepo.LedgerRepositoryFacade, holderRepo portsrepo.HolderRepositoryFacade, auditRepo portsrepo.AuditRepositoryFacade, publisher portssvc.EventPublisher, forbidNegative bool) portssvc.TransferSvcFacade {
	return &transferService{
		transferRepo:   transferRepo,
		ledgerRepo:     ledgerRepo,
		holderRepo:     holderRepo,
		auditRepo:      auditRepo,
		publisher:      publisher,
		forbidNegative: forbidNegative,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// CreateTransfer records a float movement and posts its debit/credit pair
// at the end of both holders' chains.
func (s *transferService) CreateTransfer(ctx context.Context, req dto.CreateTransferRequest, creatorID string) (*domain.CashTransfer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.SenderID == req.ReceiverID {
		return nil, fmt.Errorf("%w: sender and receiver must differ", apperrors.ErrValidation)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()

	tx, err := s.transferRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.transferRepo.Rollback(ctx, tx)

	holders, err := s.holderRepo.FindHoldersByIDsForUpdate(ctx, tx, []string{req.SenderID, req.ReceiverID})
	if err != nil {
		return nil, err
	}
	for _, id := range []string{req.SenderID, req.ReceiverID} {
		if !holders[id].IsActive {
			return nil, fmt.Errorf("%w: holder %s is retired", apperrors.ErrValidation, id)
		}
	}

	senderBalance, err := s.ledgerRepo.LatestBalanceInTx(ctx, tx, req.SenderID)
	if err != nil {
		return nil, err
	}
	receiverBalance, err := s.ledgerRepo.LatestBalanceInTx(ctx, tx, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if s.forbidNegative && senderBalance.LessThan(req.Amount) {
		return nil, fmt.Errorf("%w: debit of %s exceeds sender balance %s", apperrors.ErrValidation, req.Amount.String(), senderBalance.String())
	}

	transfer := domain.CashTransfer{
		TransferID: uuid.NewString(),
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Amount:     req.Amount,
		Date:       req.Date,
		Notes:      req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	debitSeq, err := s.ledgerRepo.NextSequence(ctx, tx)
	if err != nil {
		return nil, err
	}
	creditSeq, err := s.ledgerRepo.NextSequence(ctx, tx)
	if err != nil {
		return nil, err
	}

	debit := newTransferEntry(transfer, domain.Debit, req.SenderID, debitSeq,
		senderBalance, fmt.Sprintf("Transfer to %s", holders[req.ReceiverID].Name), creatorID, now)
	credit := newTransferEntry(transfer, domain.Credit, req.ReceiverID, creditSeq,
		receiverBalance, fmt.Sprintf("Transfer from %s", holders[req.SenderID].Name), creatorID, now)

	if err := s.transferRepo.InsertTransferInTx(ctx, tx, transfer); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.InsertEntriesInTx(ctx, tx, []domain.LedgerEntry{debit, credit}); err != nil {
		return nil, err
	}

	audit := newAuditEntry(creatorID, domain.ActionCreate, domain.EntityTransfer, transfer.TransferID, nil, snapshot(transfer), now)
	if err := s.auditRepo.InsertAuditEntryInTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := s.transferRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Transfer created",
		slog.String("transfer_id", transfer.TransferID),
		slog.String("sender_id", transfer.SenderID),
		slog.String("receiver_id", transfer.ReceiverID),
		slog.String("amount", transfer.Amount.String()))

	if s.publisher != nil {
		event := dto.TransferCreatedEvent{
			TransferID: transfer.TransferID,
			SenderID:   transfer.SenderID,
			ReceiverID: transfer.ReceiverID,
			Amount:     transfer.Amount,
			OccurredAt: now,
		}
		if err := s.publisher.Publish(ctx, dto.TopicTransferCreated, event); err != nil {
			logger.Warn("Failed to publish transfer created event",
				slog.String("transfer_id", transfer.TransferID), slog.String("error", err.Error()))
		}
	}
	publishBalanceChanges(ctx, s.publisher, map[string]decimal.Decimal{
		req.SenderID:   debit.NewBalance,
		req.ReceiverID: credit.NewBalance,
	}, now)

	return &transfer, nil
}

// EditTransfer changes a recorded transfer's parties, amount, date or notes
// and rebuilds every affected holder's chain so later entries reflect the
// correction.
func (s *transferService) EditTransfer(ctx context.Context, transferID string, req dto.UpdateTransferRequest, updaterID string) (*domain.CashTransfer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()

	tx, err := s.transferRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.transferRepo.Rollback(ctx, tx)

	existing, err := s.transferRepo.FindTransferByIDForUpdate(ctx, tx, transferID)
	if err != nil {
		return nil, err
	}
	before := *existing

	updated := *existing
	if req.SenderID != nil {
		updated.SenderID = *req.SenderID
	}
	if req.ReceiverID != nil {
		updated.ReceiverID = *req.ReceiverID
	}
	if req.Amount != nil {
		updated.Amount = *req.Amount
	}
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}

	if updated.SenderID == updated.ReceiverID {
		return nil, fmt.Errorf("%w: sender and receiver must differ", apperrors.ErrValidation)
	}
	if updated.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}
	if updated.SenderID == before.SenderID && updated.ReceiverID == before.ReceiverID &&
		updated.Amount.Equal(before.Amount) && updated.Date.Equal(before.Date) && updated.Notes == before.Notes {
		return existing, nil // nothing changed
	}

	affected := uniqueSorted(before.SenderID, before.ReceiverID, updated.SenderID, updated.ReceiverID)
	holders, err := s.holderRepo.FindHoldersByIDsForUpdate(ctx, tx, affected)
	if err != nil {
		return nil, err
	}
	// Only a newly involved party must be active; the original parties stay
	// editable after retirement so historical mistakes remain correctable.
	if updated.SenderID != before.SenderID && !holders[updated.SenderID].IsActive {
		return nil, fmt.Errorf("%w: holder %s is retired", apperrors.ErrValidation, updated.SenderID)
	}
	if updated.ReceiverID != before.ReceiverID && !holders[updated.ReceiverID].IsActive {
		return nil, fmt.Errorf("%w: holder %s is retired", apperrors.ErrValidation, updated.ReceiverID)
	}

	ref := domain.Reference{Kind: domain.RefTransfer, ReferenceID: &transferID}

	chains := make(map[string][]domain.LedgerEntry, len(affected))
	for _, holderID := range affected {
		chain, err := s.ledgerRepo.ListChainForHolderInTx(ctx, tx, holderID)
		if err != nil {
			return nil, err
		}
		chains[holderID] = chain
	}

	oldDebit, oldCredit, err := findTransferPair(chains, ref, before.SenderID, before.ReceiverID)
	if err != nil {
		return nil, err
	}

	// An unchanged party keeps its entry's position in the chain; a new
	// party's entry goes to the end of its chain.
	debitSeq := oldDebit.Sequence
	if updated.SenderID != before.SenderID {
		if debitSeq, err = s.ledgerRepo.NextSequence(ctx, tx); err != nil {
			return nil, err
		}
	}
	creditSeq := oldCredit.Sequence
	if updated.ReceiverID != before.ReceiverID {
		if creditSeq, err = s.ledgerRepo.NextSequence(ctx, tx); err != nil {
			return nil, err
		}
	}

	newDebit := newTransferEntry(updated, domain.Debit, updated.SenderID, debitSeq,
		decimal.Zero, fmt.Sprintf("Transfer to %s", holders[updated.ReceiverID].Name), updaterID, now)
	newCredit := newTransferEntry(updated, domain.Credit, updated.ReceiverID, creditSeq,
		decimal.Zero, fmt.Sprintf("Transfer from %s", holders[updated.SenderID].Name), updaterID, now)
	replacements := []domain.LedgerEntry{newDebit, newCredit}

	survivors, balances, err := rebuildChains(chains, ref, replacements)
	if err != nil {
		return nil, err
	}

	if _, err := s.ledgerRepo.ReplaceReferenceEntriesInTx(ctx, tx, ref, replacements); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.UpdateEntryBalancesInTx(ctx, tx, survivors); err != nil {
		return nil, err
	}

	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = updaterID
	if err := s.transferRepo.UpdateTransferInTx(ctx, tx, updated); err != nil {
		return nil, err
	}

	audit := newAuditEntry(updaterID, domain.ActionUpdate, domain.EntityTransfer, transferID, snapshot(before), snapshot(updated), now)
	if err := s.auditRepo.InsertAuditEntryInTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := s.transferRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Transfer updated",
		slog.String("transfer_id", transferID),
		slog.Int("recomputed_entries", len(survivors)))

	publishBalanceChanges(ctx, s.publisher, balances, now)
	return &updated, nil
}

// DeleteTransfer removes a transfer and its debit/credit pair, rebuilding
// both holders' chains as if the transfer had never happened.
func (s *transferService) DeleteTransfer(ctx context.Context, transferID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()

	tx, err := s.transferRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.transferRepo.Rollback(ctx, tx)

	existing, err := s.transferRepo.FindTransferByIDForUpdate(ctx, tx, transferID)
	if err != nil {
		return err
	}

	affected := uniqueSorted(existing.SenderID, existing.ReceiverID)
	if _, err := s.holderRepo.FindHoldersByIDsForUpdate(ctx, tx, affected); err != nil {
		return err
	}

	ref := domain.Reference{Kind: domain.RefTransfer, ReferenceID: &transferID}

	chains := make(map[string][]domain.LedgerEntry, len(affected))
	for _, holderID := range affected {
		chain, err := s.ledgerRepo.ListChainForHolderInTx(ctx, tx, holderID)
		if err != nil {
			return err
		}
		chains[holderID] = chain
	}

	survivors, balances, err := rebuildChains(chains, ref, nil)
	if err != nil {
		return err
	}

	if _, err := s.ledgerRepo.ReplaceReferenceEntriesInTx(ctx, tx, ref, nil); err != nil {
		return err
	}
	if err := s.ledgerRepo.UpdateEntryBalancesInTx(ctx, tx, survivors); err != nil {
		return err
	}
	if err := s.transferRepo.DeleteTransferInTx(ctx, tx, transferID); err != nil {
		return err
	}

	audit := newAuditEntry(actorID, domain.ActionDelete, domain.EntityTransfer, transferID, snapshot(*existing), nil, now)
	if err := s.auditRepo.InsertAuditEntryInTx(ctx, tx, audit); err != nil {
		return err
	}

	if err := s.transferRepo.Commit(ctx, tx); err != nil {
		return err
	}

	logger.Info("Transfer deleted",
		slog.String("transfer_id", transferID),
		slog.Int("recomputed_entries", len(survivors)))

	publishBalanceChanges(ctx, s.publisher, balances, now)
	return nil
}

// GetTransferByID retrieves a transfer by its unique identifier.
func (s *transferService) GetTransferByID(ctx context.Context, transferID string) (*domain.CashTransfer, error) {
	return s.transferRepo.FindTransferByID(ctx, transferID)
}

// ListTransfers retrieves a paginated list of transfers, newest first.
func (s *transferService) ListTransfers(ctx context.Context, params dto.ListTransfersParams) (*dto.ListTransfersResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	transfers, nextToken, err := s.transferRepo.ListTransfers(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transfers: %w", err)
	}

	res := make([]dto.TransferResponse, len(transfers))
	for i := range transfers {
		res[i] = dto.ToTransferResponse(&transfers[i])
	}
	return &dto.ListTransfersResponse{Transfers: res, NextToken: nextToken}, nil
}

// newTransferEntry builds one side of a transfer's debit/credit pair.
// prevBalance seeds Previous/NewBalance for append-at-end entries; callers
// that recompute the whole chain pass zero and let the walk fill them in.
func newTransferEntry(t domain.CashTransfer, kind domain.EntryKind, holderID string, seq int64, prevBalance decimal.Decimal, description string, actorID string, now time.Time) domain.LedgerEntry {
	newBalance, _ := ledgerchain.Apply(prevBalance, kind, t.Amount)
	transferID := t.TransferID
	return domain.LedgerEntry{
		EntryID:         uuid.NewString(),
		HolderID:        holderID,
		Sequence:        seq,
		Kind:            kind,
		Amount:          t.Amount,
		PreviousBalance: prevBalance,
		NewBalance:      newBalance,
		Reference:       domain.Reference{Kind: domain.RefTransfer, ReferenceID: &transferID},
		Description:     description,
		EntryDate:       t.Date,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
}

// findTransferPair locates a transfer's existing debit and credit entries
// inside the loaded chains.
func findTransferPair(chains map[string][]domain.LedgerEntry, ref domain.Reference, senderID, receiverID string) (debit, credit *domain.LedgerEntry, err error) {
	for _, e := range chains[senderID] {
		if refMatches(e.Reference, ref) && e.Kind == domain.Debit {
			d := e
			debit = &d
		}
	}
	for _, e := range chains[receiverID] {
		if refMatches(e.Reference, ref) && e.Kind == domain.Credit {
			c := e
			credit = &c
		}
	}
	if debit == nil || credit == nil {
		return nil, nil, fmt.Errorf("%w: ledger entries for transfer %s are missing", apperrors.ErrInternal, *ref.ReferenceID)
	}
	return debit, credit, nil
}

// rebuildChains removes a reference's entries from each loaded chain,
// splices in the replacements, and recomputes every chain forward. It
// returns the surviving entries whose stored balances must be rewritten and
// the resulting balance per holder. The chains map is mutated.
func rebuildChains(chains map[string][]domain.LedgerEntry, ref domain.Reference, replacements []domain.LedgerEntry) (survivors []domain.LedgerEntry, balances map[string]decimal.Decimal, err error) {
	replacementIDs := make(map[string]struct{}, len(replacements))
	for _, e := range replacements {
		replacementIDs[e.EntryID] = struct{}{}
	}

	balances = make(map[string]decimal.Decimal, len(chains))
	for holderID, chain := range chains {
		rebuilt := chain[:0]
		for _, e := range chain {
			if !refMatches(e.Reference, ref) {
				rebuilt = append(rebuilt, e)
			}
		}
		for _, e := range replacements {
			if e.HolderID == holderID {
				rebuilt = append(rebuilt, e)
			}
		}
		if err := ledgerchain.Recompute(rebuilt); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
		}
		chains[holderID] = rebuilt
		balances[holderID] = ledgerchain.CurrentBalance(rebuilt)

		for _, e := range rebuilt {
			if _, isNew := replacementIDs[e.EntryID]; !isNew {
				survivors = append(survivors, e)
			}
		}
	}

	// The recompute walk wrote the replacements' balances into the chain
	// copies; carry them back so the caller inserts correct values.
	for i := range replacements {
		for _, e := range chains[replacements[i].HolderID] {
			if e.EntryID == replacements[i].EntryID {
				replacements[i].PreviousBalance = e.PreviousBalance
				replacements[i].NewBalance = e.NewBalance
			}
		}
	}
	return survivors, balances, nil
}

func refMatches(a, b domain.Reference) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.ReferenceID == nil || b.ReferenceID == nil {
		return a.ReferenceID == b.ReferenceID
	}
	return *a.ReferenceID == *b.ReferenceID
}

// uniqueSorted deduplicates holder ids and orders them ascending, matching
// the lock order used by the holder repository.
func uniqueSorted(ids ...string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
