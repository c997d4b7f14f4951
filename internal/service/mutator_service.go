package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finledger/holdings-backend/internal/api/request"
	"github.com/finledger/holdings-backend/internal/apperrors"
	"github.com/finledger/holdings-backend/internal/ledger"
	"github.com/finledger/holdings-backend/internal/model"
	"github.com/finledger/holdings-backend/internal/repository"
)

// MutatorService is the serialization boundary for account mutations. Each
// operation is one atomic read-modify-write cycle: load the aggregate at its
// current version, apply the ledger mutation in memory, and save snapshot
// plus log entry in a single database transaction guarded by the version
// check. A concurrent writer causes ErrConcurrentModification; the service
// performs no hidden retry, the caller re-reads and retries.
//
// Rejected operations (validation, insufficient quantity, insufficient
// funds) never reach Save, so they leave persisted state and the transaction
// log exactly as they were.
type MutatorService struct {
	accountRepo *repository.AccountRepository
}

// NewMutatorService creates a new MutatorService with the provided repository dependency.
func NewMutatorService(accountRepo *repository.AccountRepository) *MutatorService {
	return &MutatorService{accountRepo: accountRepo}
}

// load fetches the aggregate and verifies the caller owns it.
func (s *MutatorService) load(accountID, caller string) (model.Account, error) {
	account, err := s.accountRepo.Get(accountID)
	if err != nil {
		return model.Account{}, err
	}
	if err := verifyOwner(&account, caller); err != nil {
		return model.Account{}, err
	}
	return account, nil
}

// OpenHolding creates the holding if absent, otherwise adds a purchase lot to
// the existing one. Buying does not debit cash; purchases are funded outside
// the account's cash balance. Appends a BUY entry.
func (s *MutatorService) OpenHolding(ctx context.Context, accountID, caller string, req request.OpenHoldingRequest) (model.TransactionEntry, error) {
	account, err := s.load(accountID, caller)
	if err != nil {
		return model.TransactionEntry{}, err
	}

	acquiredAt, err := parseDate(req.AcquiredAt)
	if err != nil {
		return model.TransactionEntry{}, err
	}

	holding := account.Holding(req.Symbol)
	if holding == nil {
		account.Holdings = append(account.Holdings, model.Holding{
			ID:           uuid.New().String(),
			AccountID:    account.ID,
			Symbol:       req.Symbol,
			DisplayName:  req.DisplayName,
			AssetKind:    model.AssetKind(req.AssetKind),
			CurrentPrice: decimal.Zero,
		})
		holding = &account.Holdings[len(account.Holdings)-1]
	}

	if _, err := ledger.Buy(holding, req.Quantity, req.UnitCost, acquiredAt, req.Notes); err != nil {
		return model.TransactionEntry{}, err
	}

	entry := model.TransactionEntry{
		ID:        uuid.New().String(),
		AccountID: account.ID,
		Kind:      model.KindBuy,
		Date:      acquiredAt,
		Symbol:    req.Symbol,
		Quantity:  decimal.NullDecimal{Decimal: req.Quantity, Valid: true},
		UnitPrice: decimal.NullDecimal{Decimal: req.UnitCost, Valid: true},
		Amount:    decimal.Zero,
		Notes:     req.Notes,
	}

	if err := s.accountRepo.Save(ctx, &account, []model.TransactionEntry{entry}); err != nil {
		return model.TransactionEntry{}, err
	}

	return entry, nil
}

// SellHolding sells quantity from the holding at the given price: lots are
// consumed oldest-first, cash is credited with the gross proceeds, and a
// SELL entry carrying the realized gain is appended. A holding left at zero
// quantity is removed from the account.
func (s *MutatorService) SellHolding(ctx context.Context, accountID, caller string, symbol string, req request.SellHoldingRequest) (model.TransactionEntry, error) {
	account, err := s.load(accountID, caller)
	if err != nil {
		return model.TransactionEntry{}, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return model.TransactionEntry{}, err
	}

	holding := account.Holding(symbol)
	if holding == nil {
		return model.TransactionEntry{}, fmt.Errorf("%w: %s", apperrors.ErrHoldingNotFound, symbol)
	}

	result, err := ledger.Sell(holding, req.Quantity, req.SalePrice)
	if err != nil {
		return model.TransactionEntry{}, err
	}

	cash := ledger.NewCashLedger(account.CashBalance)
	if err := cash.Credit(result.Proceeds); err != nil {
		return model.TransactionEntry{}, err
	}
	account.CashBalance = cash.Balance()

	if holding.TotalQuantity().IsZero() {
		account.DropHolding(symbol)
	}

	entry := model.TransactionEntry{
		ID:           uuid.New().String(),
		AccountID:    account.ID,
		Kind:         model.KindSell,
		Date:         date,
		Symbol:       symbol,
		Quantity:     decimal.NullDecimal{Decimal: req.Quantity, Valid: true},
		UnitPrice:    decimal.NullDecimal{Decimal: req.SalePrice, Valid: true},
		Amount:       result.Proceeds,
		RealizedGain: decimal.NullDecimal{Decimal: result.RealizedGain, Valid: true},
		Notes:        req.Notes,
	}

	if err := s.accountRepo.Save(ctx, &account, []model.TransactionEntry{entry}); err != nil {
		return model.TransactionEntry{}, err
	}

	return entry, nil
}

// RemoveHolding clears the holding's lots without a sale: no price, no
// realized gain, no cash effect. The distinction from a sell is carried by
// the entry's REMOVE kind, not by a marker in the notes.
func (s *MutatorService) RemoveHolding(ctx context.Context, accountID, caller string, symbol, reason string) (model.TransactionEntry, error) {
	account, err := s.load(accountID, caller)
	if err != nil {
		return model.TransactionEntry{}, err
	}

	holding := account.Holding(symbol)
	if holding == nil {
		return model.TransactionEntry{}, fmt.Errorf("%w: %s", apperrors.ErrHoldingNotFound, symbol)
	}

	removed := holding.TotalQuantity()
	ledger.Remove(holding)
	account.DropHolding(symbol)

	entry := model.TransactionEntry{
		ID:        uuid.New().String(),
		AccountID: account.ID,
		Kind:      model.KindRemove,
		Date:      nowUTC(),
		Symbol:    symbol,
		Quantity:  decimal.NullDecimal{Decimal: removed, Valid: true},
		Amount:    decimal.Zero,
		Notes:     reason,
	}

	if err := s.accountRepo.Save(ctx, &account, []model.TransactionEntry{entry}); err != nil {
		return model.TransactionEntry{}, err
	}

	return entry, nil
}

// RecordCashTransaction records a user-initiated deposit or withdrawal.
// The entry is appended only when the cash operation succeeds; a withdrawal
// beyond the balance is rejected whole.
func (s *MutatorService) RecordCashTransaction(ctx context.Context, accountID, caller string, req request.CashTransactionRequest) (model.TransactionEntry, error) {
	account, err := s.load(accountID, caller)
	if err != nil {
		return model.TransactionEntry{}, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return model.TransactionEntry{}, err
	}

	cash := ledger.NewCashLedger(account.CashBalance)
	kind := model.TransactionKind(req.Kind)
	amount := req.Amount

	switch kind {
	case model.KindDeposit:
		err = cash.Deposit(req.Amount)
	case model.KindWithdrawal:
		err = cash.Withdraw(req.Amount)
		amount = req.Amount.Neg()
	default:
		return model.TransactionEntry{}, fmt.Errorf("%w: kind %s", apperrors.ErrMissingRequiredField, req.Kind)
	}
	if err != nil {
		return model.TransactionEntry{}, err
	}
	account.CashBalance = cash.Balance()

	entry := model.TransactionEntry{
		ID:        uuid.New().String(),
		AccountID: account.ID,
		Kind:      kind,
		Date:      date,
		Amount:    amount,
		Notes:     req.Notes,
	}

	if err := s.accountRepo.Save(ctx, &account, []model.TransactionEntry{entry}); err != nil {
		return model.TransactionEntry{}, err
	}

	return entry, nil
}

// RecordDividend credits a cash dividend paid by a held security and appends
// a DIVIDEND entry linked to the symbol.
func (s *MutatorService) RecordDividend(ctx context.Context, accountID, caller string, symbol string, req request.DividendRequest) (model.TransactionEntry, error) {
	account, err := s.load(accountID, caller)
	if err != nil {
		return model.TransactionEntry{}, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return model.TransactionEntry{}, err
	}

	if account.Holding(symbol) == nil {
		return model.TransactionEntry{}, fmt.Errorf("%w: %s", apperrors.ErrHoldingNotFound, symbol)
	}

	cash := ledger.NewCashLedger(account.CashBalance)
	if err := cash.Credit(req.Amount); err != nil {
		return model.TransactionEntry{}, err
	}
	account.CashBalance = cash.Balance()

	entry := model.TransactionEntry{
		ID:        uuid.New().String(),
		AccountID: account.ID,
		Kind:      model.KindDividend,
		Date:      date,
		Symbol:    symbol,
		Amount:    req.Amount,
		Notes:     req.Notes,
	}

	if err := s.accountRepo.Save(ctx, &account, []model.TransactionEntry{entry}); err != nil {
		return model.TransactionEntry{}, err
	}

	return entry, nil
}

// EditLot corrects a specific lot of a holding. Omitted fields keep their
// current value; provided fields are validated like a new lot. Appends a BUY
// entry noting the correction.
func (s *MutatorService) EditLot(ctx context.Context, accountID, caller string, symbol, lotID string, req request.UpdateLotRequest) (model.Lot, error) {
	account, err := s.load(accountID, caller)
	if err != nil {
		return model.Lot{}, err
	}

	holding := account.Holding(symbol)
	if holding == nil {
		return model.Lot{}, fmt.Errorf("%w: %s", apperrors.ErrHoldingNotFound, symbol)
	}

	lots := ledger.NewLotLedger(holding.ID, holding.Lots)

	var current model.Lot
	found := false
	for _, lot := range lots.Lots() {
		if lot.ID == lotID {
			current = lot
			found = true
			break
		}
	}
	if !found {
		return model.Lot{}, fmt.Errorf("%w: %s", apperrors.ErrLotNotFound, lotID)
	}

	quantity := current.Quantity
	unitCost := current.UnitCost
	acquiredAt := current.AcquiredAt
	notes := current.Notes

	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if req.UnitCost != nil {
		unitCost = *req.UnitCost
	}
	if req.AcquiredAt != nil {
		acquiredAt, err = parseDate(*req.AcquiredAt)
		if err != nil {
			return model.Lot{}, err
		}
	}
	if req.Notes != nil {
		notes = *req.Notes
	}

	updated, err := lots.Edit(lotID, quantity, unitCost, acquiredAt, notes)
	if err != nil {
		return model.Lot{}, err
	}
	holding.Lots = lots.Lots()

	entry := model.TransactionEntry{
		ID:        uuid.New().String(),
		AccountID: account.ID,
		Kind:      model.KindBuy,
		Date:      acquiredAt,
		Symbol:    symbol,
		Quantity:  decimal.NullDecimal{Decimal: quantity, Valid: true},
		UnitPrice: decimal.NullDecimal{Decimal: unitCost, Valid: true},
		Amount:    decimal.Zero,
		Notes:     "lot correction",
	}

	if err := s.accountRepo.Save(ctx, &account, []model.TransactionEntry{entry}); err != nil {
		return model.Lot{}, err
	}

	return updated, nil
}

// DeleteLot removes a specific lot. Deleting the last lot of a holding
// removes the holding itself. Appends a REMOVE entry for the deleted
// quantity.
func (s *MutatorService) DeleteLot(ctx context.Context, accountID, caller string, symbol, lotID string) error {
	account, err := s.load(accountID, caller)
	if err != nil {
		return err
	}

	holding := account.Holding(symbol)
	if holding == nil {
		return fmt.Errorf("%w: %s", apperrors.ErrHoldingNotFound, symbol)
	}

	lots := ledger.NewLotLedger(holding.ID, holding.Lots)

	var deleted model.Lot
	found := false
	for _, lot := range lots.Lots() {
		if lot.ID == lotID {
			deleted = lot
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", apperrors.ErrLotNotFound, lotID)
	}

	if err := lots.Delete(lotID); err != nil {
		return err
	}
	holding.Lots = lots.Lots()

	if holding.TotalQuantity().IsZero() {
		account.DropHolding(symbol)
	}

	entry := model.TransactionEntry{
		ID:        uuid.New().String(),
		AccountID: account.ID,
		Kind:      model.KindRemove,
		Date:      nowUTC(),
		Symbol:    symbol,
		Quantity:  decimal.NullDecimal{Decimal: deleted.Quantity, Valid: true},
		Amount:    decimal.Zero,
		Notes:     "lot deleted",
	}

	return s.accountRepo.Save(ctx, &account, []model.TransactionEntry{entry})
}
