package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mitraisp/mitrabooks/internal/domain"
	"github.com/mitraisp/mitrabooks/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository backed
// by an in-memory map; any Func field overrides the default behavior.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc         func(ctx context.Context, account *domain.Account) error
	GetByIDFunc        func(ctx context.Context, businessID, id string) (*domain.Account, error)
	GetByCodeFunc      func(ctx context.Context, businessID, code string) (*domain.Account, error)
	GetByIDsTxFunc     func(ctx context.Context, tx usecase.Transaction, businessID string, ids []string) ([]*domain.Account, error)
	ListByBusinessFunc func(ctx context.Context, businessID string) ([]*domain.Account, error)
	HasChildrenFunc    func(ctx context.Context, businessID, id string) (bool, error)
	DeleteFunc         func(ctx context.Context, businessID, id string) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, businessID, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, businessID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok && acc.BusinessID == businessID {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, businessID, code string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, businessID, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.BusinessID == businessID && acc.Code == code {
			return acc, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDsTx(ctx context.Context, tx usecase.Transaction, businessID string, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsTxFunc != nil {
		return m.GetByIDsTxFunc(ctx, tx, businessID, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok && acc.BusinessID == businessID {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) ListByBusiness(ctx context.Context, businessID string) ([]*domain.Account, error) {
	if m.ListByBusinessFunc != nil {
		return m.ListByBusinessFunc(ctx, businessID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.BusinessID == businessID {
			accounts = append(accounts, acc)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (m *MockAccountRepository) HasChildren(ctx context.Context, businessID, id string) (bool, error) {
	if m.HasChildrenFunc != nil {
		return m.HasChildrenFunc(ctx, businessID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.BusinessID == businessID && acc.ParentID != nil && *acc.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, businessID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, businessID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
	return nil
}

// MockRuleRepository is a mock implementation of RuleRepository.
type MockRuleRepository struct {
	mu    sync.RWMutex
	rules map[string]*domain.AccountingRule

	CreateFunc            func(ctx context.Context, rule *domain.AccountingRule) error
	GetByIDFunc           func(ctx context.Context, businessID, id string) (*domain.AccountingRule, error)
	UpdateFunc            func(ctx context.Context, rule *domain.AccountingRule) error
	DeleteFunc            func(ctx context.Context, businessID, id string) error
	ListByBusinessFunc    func(ctx context.Context, tenantID, businessID string) ([]*domain.AccountingRule, error)
	ListActiveByEventFunc func(ctx context.Context, tenantID, businessID, eventCode string) ([]*domain.AccountingRule, error)
	CountByAccountFunc    func(ctx context.Context, businessID, accountID string) (int64, error)
}

func NewMockRuleRepository() *MockRuleRepository {
	return &MockRuleRepository{rules: make(map[string]*domain.AccountingRule)}
}

func (m *MockRuleRepository) Create(ctx context.Context, rule *domain.AccountingRule) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rule)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = rule
	return nil
}

func (m *MockRuleRepository) GetByID(ctx context.Context, businessID, id string) (*domain.AccountingRule, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, businessID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rule, ok := m.rules[id]; ok && rule.BusinessID == businessID {
		return rule, nil
	}
	return nil, domain.ErrRuleNotFound
}

func (m *MockRuleRepository) Update(ctx context.Context, rule *domain.AccountingRule) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, rule)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = rule
	return nil
}

func (m *MockRuleRepository) Delete(ctx context.Context, businessID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, businessID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rules, id)
	return nil
}

func (m *MockRuleRepository) ListByBusiness(ctx context.Context, tenantID, businessID string) ([]*domain.AccountingRule, error) {
	if m.ListByBusinessFunc != nil {
		return m.ListByBusinessFunc(ctx, tenantID, businessID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rules []*domain.AccountingRule
	for _, rule := range m.rules {
		if rule.TenantID == tenantID && rule.BusinessID == businessID {
			rules = append(rules, rule)
		}
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules, nil
}

func (m *MockRuleRepository) ListActiveByEvent(ctx context.Context, tenantID, businessID, eventCode string) ([]*domain.AccountingRule, error) {
	if m.ListActiveByEventFunc != nil {
		return m.ListActiveByEventFunc(ctx, tenantID, businessID, eventCode)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rules []*domain.AccountingRule
	for _, rule := range m.rules {
		if rule.TenantID == tenantID && rule.BusinessID == businessID && rule.EventCode == eventCode && rule.Active {
			rules = append(rules, rule)
		}
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules, nil
}

func (m *MockRuleRepository) CountByAccount(ctx context.Context, businessID, accountID string) (int64, error) {
	if m.CountByAccountFunc != nil {
		return m.CountByAccountFunc(ctx, businessID, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, rule := range m.rules {
		if rule.BusinessID == businessID && rule.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

// MockPeriodRepository is a mock implementation of PeriodRepository.
type MockPeriodRepository struct {
	mu      sync.RWMutex
	periods map[string]*domain.Period

	CreateFunc              func(ctx context.Context, period *domain.Period) error
	GetByIDFunc             func(ctx context.Context, businessID, id string) (*domain.Period, error)
	GetByIDForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, businessID, id string) (*domain.Period, error)
	FindByDateFunc          func(ctx context.Context, businessID string, date time.Time) (*domain.Period, error)
	FindByDateForUpdateFunc func(ctx context.Context, tx usecase.Transaction, businessID string, date time.Time) (*domain.Period, error)
	ListByBusinessFunc      func(ctx context.Context, businessID string) ([]*domain.Period, error)
	AnyOverlappingFunc      func(ctx context.Context, businessID string, start, end time.Time) (bool, error)
	UpdateStatusFunc        func(ctx context.Context, tx usecase.Transaction, period *domain.Period) error
}

func NewMockPeriodRepository() *MockPeriodRepository {
	return &MockPeriodRepository{periods: make(map[string]*domain.Period)}
}

func (m *MockPeriodRepository) Create(ctx context.Context, period *domain.Period) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, period)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.periods[period.ID] = period
	return nil
}

func (m *MockPeriodRepository) GetByID(ctx context.Context, businessID, id string) (*domain.Period, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, businessID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.periods[id]; ok && p.BusinessID == businessID {
		return p, nil
	}
	return nil, domain.ErrPeriodNotFound
}

func (m *MockPeriodRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, businessID, id string) (*domain.Period, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, businessID, id)
	}
	return m.GetByID(ctx, businessID, id)
}

func (m *MockPeriodRepository) FindByDate(ctx context.Context, businessID string, date time.Time) (*domain.Period, error) {
	if m.FindByDateFunc != nil {
		return m.FindByDateFunc(ctx, businessID, date)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.periods {
		if p.BusinessID == businessID && p.Contains(date) {
			return p, nil
		}
	}
	return nil, domain.ErrPeriodNotFound
}

func (m *MockPeriodRepository) FindByDateForUpdate(ctx context.Context, tx usecase.Transaction, businessID string, date time.Time) (*domain.Period, error) {
	if m.FindByDateForUpdateFunc != nil {
		return m.FindByDateForUpdateFunc(ctx, tx, businessID, date)
	}
	return m.FindByDate(ctx, businessID, date)
}

func (m *MockPeriodRepository) ListByBusiness(ctx context.Context, businessID string) ([]*domain.Period, error) {
	if m.ListByBusinessFunc != nil {
		return m.ListByBusinessFunc(ctx, businessID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var periods []*domain.Period
	for _, p := range m.periods {
		if p.BusinessID == businessID {
			periods = append(periods, p)
		}
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].StartDate.Before(periods[j].StartDate) })
	return periods, nil
}

func (m *MockPeriodRepository) AnyOverlapping(ctx context.Context, businessID string, start, end time.Time) (bool, error) {
	if m.AnyOverlappingFunc != nil {
		return m.AnyOverlappingFunc(ctx, businessID, start, end)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.periods {
		if p.BusinessID == businessID && p.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPeriodRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, period *domain.Period) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, period)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.periods[period.ID] = period
	return nil
}

// MockJournalRepository is a mock implementation of JournalRepository.
type MockJournalRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.JournalEntry

	CreateEntryFunc         func(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error
	GetByIDFunc             func(ctx context.Context, businessID, id string) (*domain.JournalEntry, error)
	ListByBusinessFunc      func(ctx context.Context, businessID string, limit, offset int) ([]*domain.JournalEntry, error)
	CountLinesByAccountFunc func(ctx context.Context, businessID, accountID string) (int64, error)
	FindReversalFunc        func(ctx context.Context, businessID, originalEntryID string) (*domain.JournalEntry, error)
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{entries: make(map[string]*domain.JournalEntry)}
}

func (m *MockJournalRepository) CreateEntry(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	if m.CreateEntryFunc != nil {
		return m.CreateEntryFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockJournalRepository) GetByID(ctx context.Context, businessID, id string) (*domain.JournalEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, businessID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok && e.BusinessID == businessID {
		return e, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockJournalRepository) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*domain.JournalEntry, error) {
	if m.ListByBusinessFunc != nil {
		return m.ListByBusinessFunc(ctx, businessID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.JournalEntry
	for _, e := range m.entries {
		if e.BusinessID == businessID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (m *MockJournalRepository) CountLinesByAccount(ctx context.Context, businessID, accountID string) (int64, error) {
	if m.CountLinesByAccountFunc != nil {
		return m.CountLinesByAccountFunc(ctx, businessID, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, e := range m.entries {
		if e.BusinessID != businessID {
			continue
		}
		for _, line := range e.Lines {
			if line.AccountID == accountID {
				count++
			}
		}
	}
	return count, nil
}

func (m *MockJournalRepository) FindReversal(ctx context.Context, businessID, originalEntryID string) (*domain.JournalEntry, error) {
	if m.FindReversalFunc != nil {
		return m.FindReversalFunc(ctx, businessID, originalEntryID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.BusinessID == businessID && e.Source.Type == domain.SourceReversal && e.Source.ID == originalEntryID {
			return e, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

// Entries returns a snapshot of stored entries for assertions.
func (m *MockJournalRepository) Entries() []*domain.JournalEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.JournalEntry
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	return entries
}

// MockRuleCache is a mock implementation of RuleCache.
type MockRuleCache struct {
	mu    sync.RWMutex
	store map[string][]*domain.AccountingRule

	GetFunc        func(ctx context.Context, tenantID, businessID, eventCode string) ([]*domain.AccountingRule, bool, error)
	SetFunc        func(ctx context.Context, tenantID, businessID, eventCode string, rules []*domain.AccountingRule, ttl time.Duration) error
	InvalidateFunc func(ctx context.Context, tenantID, businessID string) error

	SetCalls        int
	InvalidateCalls int
}

func NewMockRuleCache() *MockRuleCache {
	return &MockRuleCache{store: make(map[string][]*domain.AccountingRule)}
}

func cacheKey(tenantID, businessID, eventCode string) string {
	return tenantID + "|" + businessID + "|" + eventCode
}

func (m *MockRuleCache) Get(ctx context.Context, tenantID, businessID, eventCode string) ([]*domain.AccountingRule, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, tenantID, businessID, eventCode)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rules, ok := m.store[cacheKey(tenantID, businessID, eventCode)]
	return rules, ok, nil
}

func (m *MockRuleCache) Set(ctx context.Context, tenantID, businessID, eventCode string, rules []*domain.AccountingRule, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, tenantID, businessID, eventCode, rules, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[cacheKey(tenantID, businessID, eventCode)] = rules
	m.SetCalls++
	return nil
}

func (m *MockRuleCache) Invalidate(ctx context.Context, tenantID, businessID string) error {
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, tenantID, businessID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := tenantID + "|" + businessID + "|"
	for key := range m.store {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(m.store, key)
		}
	}
	m.InvalidateCalls++
	return nil
}

// MockTransaction is a no-op transaction recording commit/rollback calls.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	Transactions []*MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// MockIDGenerator is a mock implementation of IDGenerator producing
// sequential IDs.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%04d", m.counter)
}

// MockRetrier runs the operation once without retrying.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error

	Calls int
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	m.Calls++
	return operation()
}
