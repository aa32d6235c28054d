package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/khatahq/khata/internal/domain"
	"github.com/khatahq/khata/internal/usecase"
)

// memStore is a shared in-memory backing store for scenario tests that
// exercise several use cases against the same state.
type memStore struct {
	clients map[string]*domain.Client
	works   map[string]*domain.WorkTransaction
	history []*domain.BalanceHistoryEntry
}

func newMemStore() *memStore {
	return &memStore{
		clients: make(map[string]*domain.Client),
		works:   make(map[string]*domain.WorkTransaction),
	}
}

func (s *memStore) historyFor(clientID string) []*domain.BalanceHistoryEntry {
	var out []*domain.BalanceHistoryEntry
	for _, e := range s.history {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return out
}

type memTx struct {
	committed  bool
	rolledBack bool
}

func (t *memTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type memTxManager struct{}

func (m *memTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	return &memTx{}, nil
}

type seqIDGen struct {
	prefix string
	n      int
}

func (g *seqIDGen) Generate() string {
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

type passRetrier struct{}

func (passRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

type memClientRepo struct{ s *memStore }

func (r *memClientRepo) Create(ctx context.Context, client *domain.Client) error {
	c := *client
	r.s.clients[c.ID] = &c
	return nil
}

func (r *memClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	c, ok := r.s.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memClientRepo) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Client, error) {
	return r.GetByID(ctx, id)
}

func (r *memClientRepo) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Client, error) {
	out := make([]*domain.Client, 0, len(ids))
	for _, id := range ids {
		c, err := r.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *memClientRepo) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance int64, updatedAt time.Time) error {
	c, ok := r.s.clients[id]
	if !ok {
		return domain.ErrClientNotFound
	}
	c.Balance = balance
	c.UpdatedAt = updatedAt
	return nil
}

func (r *memClientRepo) Update(ctx context.Context, client *domain.Client) error {
	if _, ok := r.s.clients[client.ID]; !ok {
		return domain.ErrClientNotFound
	}
	c := *client
	r.s.clients[c.ID] = &c
	return nil
}

func (r *memClientRepo) List(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	ids, _ := r.ListIDs(ctx)
	out := make([]*domain.Client, 0, len(ids))
	for _, id := range ids {
		c, _ := r.GetByID(ctx, id)
		out = append(out, c)
	}
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r *memClientRepo) ListIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(r.s.clients))
	for id := range r.s.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type memWorkRepo struct{ s *memStore }

func (r *memWorkRepo) Create(ctx context.Context, tx usecase.Transaction, work *domain.WorkTransaction) error {
	w := *work
	r.s.works[w.ID] = &w
	return nil
}

func (r *memWorkRepo) GetByID(ctx context.Context, id string) (*domain.WorkTransaction, error) {
	w, ok := r.s.works[id]
	if !ok {
		return nil, domain.ErrWorkNotFound
	}
	copied := *w
	return &copied, nil
}

func (r *memWorkRepo) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.WorkTransaction, error) {
	return r.GetByID(ctx, id)
}

func (r *memWorkRepo) Update(ctx context.Context, tx usecase.Transaction, work *domain.WorkTransaction) error {
	if _, ok := r.s.works[work.ID]; !ok {
		return domain.ErrWorkNotFound
	}
	w := *work
	r.s.works[w.ID] = &w
	return nil
}

func (r *memWorkRepo) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if _, ok := r.s.works[id]; !ok {
		return domain.ErrWorkNotFound
	}
	delete(r.s.works, id)
	return nil
}

func (r *memWorkRepo) List(ctx context.Context, filter domain.WorkFilter) ([]*domain.WorkTransaction, error) {
	ids := make([]string, 0, len(r.s.works))
	for id := range r.s.works {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*domain.WorkTransaction
	for _, id := range ids {
		w, _ := r.GetByID(ctx, id)
		if filter.ClientID != "" && w.ClientID != filter.ClientID {
			continue
		}
		if filter.PaymentStatus != "" && w.PaymentStatus != filter.PaymentStatus {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (r *memWorkRepo) SumRemainderByClient(ctx context.Context, tx usecase.Transaction, clientID string) (int64, error) {
	var sum int64
	for _, w := range r.s.works {
		if w.ClientID == clientID {
			sum += w.Remainder()
		}
	}
	return sum, nil
}

func (r *memWorkRepo) Stats(ctx context.Context) (*domain.WorkStats, error) {
	stats := &domain.WorkStats{}
	for _, w := range r.s.works {
		stats.Count++
		stats.TotalIncome += w.PaidAmount
		stats.TotalDue += w.Remainder()
		stats.TotalValue += w.TotalPrice

		switch w.PaymentStatus {
		case domain.PaymentStatusPaid:
			stats.PaidCount++
		case domain.PaymentStatusPartial:
			stats.PartialCount++
		case domain.PaymentStatusUnpaid:
			stats.UnpaidCount++
		}
	}
	return stats, nil
}

func (r *memWorkRepo) IncomeByMonth(ctx context.Context, from time.Time) ([]*domain.MonthlyIncome, error) {
	return nil, nil
}

func (r *memWorkRepo) StatsByWorkType(ctx context.Context) ([]*domain.WorkTypeStats, error) {
	return nil, nil
}

type memHistoryRepo struct{ s *memStore }

func (r *memHistoryRepo) Create(ctx context.Context, tx usecase.Transaction, entry *domain.BalanceHistoryEntry) error {
	e := *entry
	r.s.history = append(r.s.history, &e)
	return nil
}

func (r *memHistoryRepo) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.BalanceHistoryEntry, error) {
	all := r.s.historyFor(clientID)

	desc := make([]*domain.BalanceHistoryEntry, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		desc = append(desc, all[i])
	}

	if offset >= len(desc) {
		return nil, nil
	}
	end := offset + limit
	if end > len(desc) {
		end = len(desc)
	}
	return desc[offset:end], nil
}

func (r *memHistoryRepo) ListByClientAsc(ctx context.Context, clientID string, limit int) ([]*domain.BalanceHistoryEntry, error) {
	all := r.s.historyFor(clientID)
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memHistoryRepo) ListByClientRange(ctx context.Context, clientID string, from, to time.Time) ([]*domain.BalanceHistoryEntry, error) {
	var out []*domain.BalanceHistoryEntry
	for _, e := range r.s.historyFor(clientID) {
		if !from.IsZero() && e.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.CreatedAt.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memHistoryRepo) CountByClient(ctx context.Context, clientID string) (int64, error) {
	return int64(len(r.s.historyFor(clientID))), nil
}

func (r *memHistoryRepo) PruneOldest(ctx context.Context, clientID string, keep int) (int64, error) {
	mine := r.s.historyFor(clientID)
	if len(mine) <= keep {
		return 0, nil
	}

	drop := len(mine) - keep
	doomed := make(map[*domain.BalanceHistoryEntry]bool, drop)
	for _, e := range mine[:drop] {
		doomed[e] = true
	}

	kept := r.s.history[:0]
	for _, e := range r.s.history {
		if !doomed[e] {
			kept = append(kept, e)
		}
	}
	r.s.history = kept

	return int64(drop), nil
}

// ledgerEnv wires a full set of use cases over one memStore.
type ledgerEnv struct {
	store     *memStore
	clients   *memClientRepo
	works     *memWorkRepo
	history   *memHistoryRepo
	ledgerUC  *usecase.LedgerUseCase
	workUC    *usecase.WorkUseCase
	historyUC *usecase.HistoryUseCase
}

func newLedgerEnv() *ledgerEnv {
	store := newMemStore()
	clients := &memClientRepo{s: store}
	works := &memWorkRepo{s: store}
	history := &memHistoryRepo{s: store}
	txMgr := &memTxManager{}
	idGen := &seqIDGen{prefix: "id"}

	ledgerUC := usecase.NewLedgerUseCase(txMgr, clients, works, history, idGen, nil)

	return &ledgerEnv{
		store:     store,
		clients:   clients,
		works:     works,
		history:   history,
		ledgerUC:  ledgerUC,
		workUC:    usecase.NewWorkUseCase(txMgr, clients, works, ledgerUC, idGen, passRetrier{}, nil, nil),
		historyUC: usecase.NewHistoryUseCase(clients, works, history),
	}
}

func (e *ledgerEnv) seedClient(id string) {
	now := time.Now().UTC()
	e.store.clients[id] = &domain.Client{
		ID:        id,
		Name:      "Client " + id,
		WorkTypes: []string{"stitching"},
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *ledgerEnv) balance(id string) int64 {
	return e.store.clients[id].Balance
}
