package service

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/finledger/holdings-backend/internal/apperrors"
	"github.com/finledger/holdings-backend/internal/ledger"
	"github.com/finledger/holdings-backend/internal/model"
	"github.com/finledger/holdings-backend/internal/oracle"
	"github.com/finledger/holdings-backend/internal/repository"
)

// maxConcurrentLookups bounds parallel oracle calls during a batch refresh.
const maxConcurrentLookups = 4

// PriceService refreshes holding prices from the external oracle. Oracle
// failures are surfaced as PriceUnavailable and never turn into a price of
// zero; a holding whose lookup fails keeps its previous price and timestamp.
type PriceService struct {
	accountRepo *repository.AccountRepository
	oracle      oracle.Client
}

// NewPriceService creates a new PriceService with the provided dependencies.
func NewPriceService(accountRepo *repository.AccountRepository, oracleClient oracle.Client) *PriceService {
	return &PriceService{
		accountRepo: accountRepo,
		oracle:      oracleClient,
	}
}

// RefreshResult is the per-holding outcome of a batch refresh. Each holding
// succeeds or fails independently.
type RefreshResult struct {
	Symbol  string              `json:"symbol"`
	Updated bool                `json:"updated"`
	Price   decimal.NullDecimal `json:"price,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// RefreshHoldingPrice looks up the current price for one holding and stores
// it. On oracle failure the error is returned and the holding keeps its last
// known price with its existing timestamp.
func (s *PriceService) RefreshHoldingPrice(ctx context.Context, accountID, caller string, symbol string) (model.Holding, error) {
	account, err := s.accountRepo.Get(accountID)
	if err != nil {
		return model.Holding{}, err
	}
	if err := verifyOwner(&account, caller); err != nil {
		return model.Holding{}, err
	}

	holding := account.Holding(symbol)
	if holding == nil {
		return model.Holding{}, fmt.Errorf("%w: %s", apperrors.ErrHoldingNotFound, symbol)
	}

	quote, err := s.oracle.LookupPrice(ctx, symbol)
	if err != nil {
		return model.Holding{}, err
	}

	if err := ledger.RefreshPrice(holding, quote.Price, quote.AsOf); err != nil {
		return model.Holding{}, err
	}

	if err := s.accountRepo.Save(ctx, &account, nil); err != nil {
		return model.Holding{}, err
	}

	return *holding, nil
}

// RefreshAllPrices refreshes every holding of the account. Lookups run with
// bounded parallelism and each holding's outcome is independent: one
// holding's oracle failure never prevents the others from being attempted or
// applied. Successfully fetched prices are written in a single atomic save.
func (s *PriceService) RefreshAllPrices(ctx context.Context, accountID, caller string) ([]RefreshResult, error) {
	account, err := s.accountRepo.Get(accountID)
	if err != nil {
		return nil, err
	}
	if err := verifyOwner(&account, caller); err != nil {
		return nil, err
	}

	results, updated := s.lookupAll(ctx, &account)
	if updated == 0 {
		return results, nil
	}

	if err := s.accountRepo.Save(ctx, &account, nil); err != nil {
		return nil, err
	}

	return results, nil
}

// RefreshEveryAccount refreshes prices for all accounts in the system. Used
// by the scheduled job; per-account failures are logged and do not stop the
// sweep.
func (s *PriceService) RefreshEveryAccount(ctx context.Context) error {
	ids, err := s.accountRepo.ListIDs()
	if err != nil {
		return err
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		account, err := s.accountRepo.Get(id)
		if err != nil {
			log.Printf("price refresh: failed to load account %s: %v", id, err)
			continue
		}

		results, updated := s.lookupAll(ctx, &account)
		if updated == 0 {
			continue
		}

		if err := s.accountRepo.Save(ctx, &account, nil); err != nil {
			log.Printf("price refresh: failed to save account %s: %v", id, err)
			continue
		}

		for _, r := range results {
			if r.Error != "" {
				log.Printf("price refresh: account %s holding %s: %s", id, r.Symbol, r.Error)
			}
		}
	}

	return nil
}

// lookupAll fetches quotes for every holding of the account with bounded
// parallelism and applies the successful ones to the in-memory aggregate.
// Returns the per-holding outcomes and the number of holdings updated.
func (s *PriceService) lookupAll(ctx context.Context, account *model.Account) ([]RefreshResult, int) {
	results := make([]RefreshResult, len(account.Holdings))
	quotes := make([]*oracle.Quote, len(account.Holdings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for i := range account.Holdings {
		symbol := account.Holdings[i].Symbol
		results[i].Symbol = symbol

		g.Go(func() error {
			quote, err := s.oracle.LookupPrice(gctx, symbol)
			if err != nil {
				// Failure stays local to this holding.
				results[i].Error = err.Error()
				return nil
			}
			quotes[i] = &quote
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()

	updated := 0
	for i := range account.Holdings {
		if quotes[i] == nil {
			continue
		}
		if err := ledger.RefreshPrice(&account.Holdings[i], quotes[i].Price, quotes[i].AsOf); err != nil {
			results[i].Error = err.Error()
			continue
		}
		results[i].Updated = true
		results[i].Price = decimal.NullDecimal{Decimal: quotes[i].Price, Valid: true}
		updated++
	}

	return results, updated
}
