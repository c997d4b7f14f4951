package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finledger/holdings-backend/internal/api/request"
	"github.com/finledger/holdings-backend/internal/model"
	"github.com/finledger/holdings-backend/internal/repository"
)

// AccountService handles account lifecycle and the pure read derivations:
// listings, valuation summaries, and transaction history.
type AccountService struct {
	accountRepo     *repository.AccountRepository
	transactionRepo *repository.TransactionRepository
}

// NewAccountService creates a new AccountService with the provided repository dependencies.
func NewAccountService(
	accountRepo *repository.AccountRepository,
	transactionRepo *repository.TransactionRepository,
) *AccountService {
	return &AccountService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// CreateAccount creates a new, empty account owned by the caller: zero cash,
// no holdings, an empty transaction log.
func (s *AccountService) CreateAccount(ctx context.Context, owner string, req request.CreateAccountRequest) (*model.Account, error) {
	account := &model.Account{
		ID:          uuid.New().String(),
		Owner:       owner,
		Name:        req.Name,
		Institution: req.Institution,
		AccountType: req.AccountType,
		CashBalance: decimal.Zero,
		Version:     1,
		Holdings:    []model.Holding{},
	}

	if err := s.accountRepo.Insert(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// GetAccount retrieves the full account aggregate, verifying ownership.
func (s *AccountService) GetAccount(accountID, caller string) (model.Account, error) {
	account, err := s.accountRepo.Get(accountID)
	if err != nil {
		return model.Account{}, err
	}
	if err := verifyOwner(&account, caller); err != nil {
		return model.Account{}, err
	}
	return account, nil
}

// GetAccounts retrieves all accounts owned by the caller.
func (s *AccountService) GetAccounts(owner string) ([]model.Account, error) {
	return s.accountRepo.List(owner)
}

// UpdateAccount updates account metadata. Only provided fields are changed.
// The write goes through the same optimistic-concurrency check as every
// other mutation.
func (s *AccountService) UpdateAccount(ctx context.Context, accountID, caller string, req request.UpdateAccountRequest) (model.Account, error) {
	account, err := s.GetAccount(accountID, caller)
	if err != nil {
		return model.Account{}, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Institution != nil {
		account.Institution = *req.Institution
	}
	if req.AccountType != nil {
		account.AccountType = *req.AccountType
	}

	if err := s.accountRepo.Save(ctx, &account, nil); err != nil {
		return model.Account{}, err
	}

	return account, nil
}

// DeleteAccount deletes the account as a whole unit, cascading holdings,
// lots, and the transaction log.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID, caller string) error {
	if _, err := s.GetAccount(accountID, caller); err != nil {
		return err
	}
	return s.accountRepo.Delete(ctx, accountID)
}

// GetSummary derives the account's current valuation from the persisted
// snapshot: per-holding metrics, cash, and gain/loss totals. Realized gains
// and dividends come from the transaction log; everything else from the
// holdings themselves.
func (s *AccountService) GetSummary(accountID, caller string) (model.AccountSummary, error) {
	account, err := s.GetAccount(accountID, caller)
	if err != nil {
		return model.AccountSummary{}, err
	}

	summary := model.AccountSummary{
		ID:          account.ID,
		Name:        account.Name,
		Owner:       account.Owner,
		Institution: account.Institution,
		AccountType: account.AccountType,
		CashBalance: account.CashBalance,
		Holdings:    make([]model.HoldingSummary, 0, len(account.Holdings)),
	}

	totalValue := decimal.Zero
	totalCost := decimal.Zero

	for i := range account.Holdings {
		h := &account.Holdings[i]
		value := h.MarketValue()
		cost := h.CostBasis()

		summary.Holdings = append(summary.Holdings, model.HoldingSummary{
			Symbol:         h.Symbol,
			DisplayName:    h.DisplayName,
			AssetKind:      h.AssetKind,
			Quantity:       h.TotalQuantity(),
			AverageCost:    h.AverageCost(),
			CostBasis:      cost,
			CurrentPrice:   h.CurrentPrice,
			PriceUpdatedAt: h.PriceUpdatedAt,
			MarketValue:    value,
			UnrealizedGain: h.UnrealizedGain(),
		})

		totalValue = totalValue.Add(value)
		totalCost = totalCost.Add(cost)
	}

	summary.TotalMarketValue = totalValue
	summary.TotalCostBasis = totalCost
	summary.TotalUnrealized = totalValue.Sub(totalCost)
	summary.TotalValueWithCash = totalValue.Add(account.CashBalance)

	entries, err := s.transactionRepo.GetByAccount(accountID, "")
	if err != nil {
		return model.AccountSummary{}, err
	}

	realized := decimal.Zero
	dividends := decimal.Zero
	for _, e := range entries {
		if e.Kind == model.KindSell && e.RealizedGain.Valid {
			realized = realized.Add(e.RealizedGain.Decimal)
		}
		if e.Kind == model.KindDividend {
			dividends = dividends.Add(e.Amount)
		}
	}
	summary.TotalRealized = realized
	summary.TotalDividends = dividends

	return summary, nil
}

// GetTransactions retrieves the account's transaction history, newest first,
// optionally filtered by kind.
func (s *AccountService) GetTransactions(accountID, caller string, kind model.TransactionKind) ([]model.TransactionEntry, error) {
	if _, err := s.GetAccount(accountID, caller); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetByAccount(accountID, kind)
}
