// Package fixtures provides in-memory repository implementations for tests.
package fixtures

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankx/transactions/pkg/currency"
	"github.com/bankx/transactions/pkg/dto"
	"github.com/bankx/transactions/pkg/repository"
)

// AccountRepo is an in-memory account store with a compare-and-swap balance
// commit, mirroring the contract of the SQL implementation.
type AccountRepo struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]dto.AccountRead
	byNumber map[string]uuid.UUID
}

// NewAccountRepo creates an empty in-memory account store.
func NewAccountRepo() *AccountRepo {
	return &AccountRepo{
		byID:     make(map[uuid.UUID]dto.AccountRead),
		byNumber: make(map[string]uuid.UUID),
	}
}

// Create implements account.Repository.
func (r *AccountRepo) Create(_ context.Context, create dto.AccountCreate) error {
	if !currency.IsValidFormat(create.Currency) {
		return fmt.Errorf("invalid currency code %q", create.Currency)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byNumber[create.Number]; exists {
		return fmt.Errorf("account number %q already exists", create.Number)
	}
	r.byID[create.ID] = dto.AccountRead{
		ID:         create.ID,
		Number:     create.Number,
		HolderName: create.HolderName,
		Currency:   create.Currency,
		Balance:    create.Balance,
	}
	r.byNumber[create.Number] = create.ID
	return nil
}

// GetByNumber implements account.Repository.
func (r *AccountRepo) GetByNumber(_ context.Context, number string) (*dto.AccountRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byNumber[number]
	if !ok {
		return nil, repository.ErrNotFound
	}
	acct := r.byID[id]
	return &acct, nil
}

// CommitBalance implements account.Repository. The whole compare-and-swap
// runs under one lock, like the single UPDATE statement it stands in for.
func (r *AccountRepo) CommitBalance(_ context.Context, id uuid.UUID, expected, next decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if !acct.Balance.Equal(expected) {
		return repository.ErrConflict
	}
	acct.Balance = next
	r.byID[id] = acct
	return nil
}

// DeleteAll implements account.Repository.
func (r *AccountRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = make(map[uuid.UUID]dto.AccountRead)
	r.byNumber = make(map[string]uuid.UUID)
	return nil
}

func (r *AccountRepo) snapshot() map[uuid.UUID]dto.AccountRead {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[uuid.UUID]dto.AccountRead, len(r.byID))
	for id, acct := range r.byID {
		snap[id] = acct
	}
	return snap
}

func (r *AccountRepo) restore(snap map[uuid.UUID]dto.AccountRead) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, acct := range snap {
		r.byID[id] = acct
	}
}

type logEntry struct {
	tx  dto.TransactionRead
	seq int
}

// TransactionRepo is an in-memory append-only transaction log. Setting
// FailCreate makes the next append fail, for atomicity tests.
type TransactionRepo struct {
	mu         sync.Mutex
	entries    []logEntry
	nextSeq    int
	FailCreate error
}

// NewTransactionRepo creates an empty in-memory transaction log.
func NewTransactionRepo() *TransactionRepo {
	return &TransactionRepo{}
}

// Create implements transaction.Repository.
func (r *TransactionRepo) Create(_ context.Context, create dto.TransactionCreate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreate != nil {
		return r.FailCreate
	}
	r.entries = append(r.entries, logEntry{
		tx: dto.TransactionRead{
			ID:        create.ID,
			AccountID: create.AccountID,
			Type:      create.Type,
			Amount:    create.Amount,
			Timestamp: create.Timestamp,
			Status:    create.Status,
		},
		seq: r.nextSeq,
	})
	r.nextSeq++
	return nil
}

// ListByAccount implements transaction.Repository: timestamp descending,
// ties broken by insertion order, most recent first.
func (r *TransactionRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*dto.TransactionRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []logEntry
	for _, e := range r.entries {
		if e.tx.AccountID == accountID {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].tx.Timestamp.Equal(matched[j].tx.Timestamp) {
			return matched[i].tx.Timestamp.After(matched[j].tx.Timestamp)
		}
		return matched[i].seq > matched[j].seq
	})
	out := make([]*dto.TransactionRead, 0, len(matched))
	for i := range matched {
		tx := matched[i].tx
		out = append(out, &tx)
	}
	return out, nil
}

// Len returns the total number of appended transactions.
func (r *TransactionRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// RiskRuleRepo is an in-memory risk rule store.
type RiskRuleRepo struct {
	mu    sync.RWMutex
	rules map[string]dto.RiskRuleRead
}

// NewRiskRuleRepo creates an empty in-memory risk rule store.
func NewRiskRuleRepo() *RiskRuleRepo {
	return &RiskRuleRepo{rules: make(map[string]dto.RiskRuleRead)}
}

// GetByCurrency implements riskrule.Repository.
func (r *RiskRuleRepo) GetByCurrency(_ context.Context, code currency.Code) (*dto.RiskRuleRead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[code.String()]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rule, nil
}

// Upsert implements riskrule.Repository.
func (r *RiskRuleRepo) Upsert(_ context.Context, create dto.RiskRuleCreate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[create.Currency] = dto.RiskRuleRead{
		Currency:      create.Currency,
		MaxDebitPerTx: create.MaxDebitPerTx,
	}
	return nil
}
