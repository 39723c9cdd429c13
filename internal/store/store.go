package store

import (
	"errors"
	"sync"

	"github.com/bwmarrin/snowflake"
	commissiondomain "github.com/cashtrail/console/internal/commission/domain"
	disputedomain "github.com/cashtrail/console/internal/dispute/domain"
	onboardingdomain "github.com/cashtrail/console/internal/onboarding/domain"
	transactiondomain "github.com/cashtrail/console/internal/transaction/domain"
)

// ErrNotFound is returned when an id matches no record.
var ErrNotFound = errors.New("record_not_found")

type Kind string

const (
	KindDistributor    Kind = "distributor"
	KindRetailer       Kind = "retailer"
	KindCustomer       Kind = "customer"
	KindCommissionRule Kind = "commission_rule"
	KindTransaction    Kind = "transaction"
	KindDispute        Kind = "dispute"
	KindCardApproval   Kind = "card_approval"
)

type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
)

// ChangeEvent is published after every mutation so dependent views can
// recompute from the new snapshot.
type ChangeEvent struct {
	Kind Kind
	ID   snowflake.ID
	Op   Op
}

// Record is anything the store can hold.
type Record interface {
	RecordID() snowflake.ID
}

// Collection is an append-only, in-memory list of records. Lookups are
// linear scans; updates copy the row, apply the mutation, and replace it in
// place. Records are never removed.
//
// Rows are held and returned by value. Mutators must replace slice fields
// rather than appending in place, otherwise the copy still shares backing
// arrays with earlier snapshots.
type Collection[T Record] struct {
	mu     sync.RWMutex
	kind   Kind
	rows   []T
	notify func(ChangeEvent)
}

func newCollection[T Record](kind Kind, notify func(ChangeEvent)) *Collection[T] {
	return &Collection[T]{kind: kind, notify: notify}
}

// Add appends the record and publishes a created event.
func (c *Collection[T]) Add(row T) T {
	c.mu.Lock()
	c.rows = append(c.rows, row)
	c.mu.Unlock()

	c.notify(ChangeEvent{Kind: c.kind, ID: row.RecordID(), Op: OpCreated})
	return row
}

// Update finds the record by id, applies mutate to a copy, and replaces the
// stored row. The updated record is returned.
func (c *Collection[T]) Update(id snowflake.ID, mutate func(*T)) (T, error) {
	var updated T

	c.mu.Lock()
	idx := -1
	for i := range c.rows {
		if c.rows[i].RecordID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return updated, ErrNotFound
	}

	row := c.rows[idx]
	mutate(&row)
	c.rows[idx] = row
	updated = row
	c.mu.Unlock()

	c.notify(ChangeEvent{Kind: c.kind, ID: id, Op: OpUpdated})
	return updated, nil
}

// Get scans for the record by id.
func (c *Collection[T]) Get(id snowflake.ID) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.rows {
		if c.rows[i].RecordID() == id {
			return c.rows[i], true
		}
	}
	var zero T
	return zero, false
}

// Find returns all records matching the predicate, in insertion order.
func (c *Collection[T]) Find(pred func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0)
	for i := range c.rows {
		if pred(c.rows[i]) {
			out = append(out, c.rows[i])
		}
	}
	return out
}

// List returns a snapshot copy of all records in insertion order.
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.rows))
	copy(out, c.rows)
	return out
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}

// Store is the canonical in-memory state of the console: one collection
// per entity, plus the change-notification contract. It is injected
// explicitly, never reached through a package-level variable.
type Store struct {
	Distributors    *Collection[onboardingdomain.Distributor]
	Retailers       *Collection[onboardingdomain.Retailer]
	Customers       *Collection[onboardingdomain.Customer]
	CommissionRules *Collection[commissiondomain.Rule]
	Transactions    *Collection[transactiondomain.Transaction]
	Disputes        *Collection[disputedomain.Dispute]
	CardApprovals   *Collection[onboardingdomain.CreditCardApproval]

	subMu       sync.RWMutex
	subscribers []func(ChangeEvent)
}

func New() *Store {
	s := &Store{}
	s.Distributors = newCollection[onboardingdomain.Distributor](KindDistributor, s.publish)
	s.Retailers = newCollection[onboardingdomain.Retailer](KindRetailer, s.publish)
	s.Customers = newCollection[onboardingdomain.Customer](KindCustomer, s.publish)
	s.CommissionRules = newCollection[commissiondomain.Rule](KindCommissionRule, s.publish)
	s.Transactions = newCollection[transactiondomain.Transaction](KindTransaction, s.publish)
	s.Disputes = newCollection[disputedomain.Dispute](KindDispute, s.publish)
	s.CardApprovals = newCollection[onboardingdomain.CreditCardApproval](KindCardApproval, s.publish)
	return s
}

// Subscribe registers an observer called synchronously after each mutation.
// Observers must not mutate the store from the callback.
func (s *Store) Subscribe(fn func(ChangeEvent)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) publish(ev ChangeEvent) {
	s.subMu.RLock()
	subs := make([]func(ChangeEvent), len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}
