// Package local is the anonymous-mode backing store: JSON collections in a
// device-local data directory, one file per account partition plus one
// shared file for custom categories. Single writer, synchronous once loaded.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"moneydrain/internal/category"
	"moneydrain/internal/core"
	"moneydrain/internal/currency"
	"moneydrain/internal/ledger"
	"moneydrain/internal/log"
)

const customCategoriesFile = "custom-categories.json"

type customSet struct {
	Expense []core.Category `json:"expense"`
	Income  []core.Category `json:"income"`
}

// Store keeps the whole local ledger in memory and persists each mutation
// back to its JSON file. Unparseable stored data is treated as an empty
// collection, never as an error.
type Store struct {
	mu      sync.Mutex
	dir     string
	txs     map[int][]core.Transaction
	customs customSet
	now     func() time.Time
}

// Open loads the local ledger from dir, creating it if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	s := &Store{
		dir: dir,
		txs: make(map[int][]core.Transaction),
		now: time.Now,
	}
	for account := 1; account <= core.MaxAccounts; account++ {
		s.txs[account] = readCollection[[]core.Transaction](s.accountPath(account))
	}
	s.customs = readCollection[customSet](filepath.Join(dir, customCategoriesFile))
	return s, nil
}

func (s *Store) accountPath(account int) string {
	return filepath.Join(s.dir, fmt.Sprintf("transactions-account-%d.json", account))
}

// readCollection loads a JSON file, falling back to the zero collection for
// missing or corrupt data.
func readCollection[T any](path string) T {
	var out T
	data, err := os.ReadFile(path)
	if err != nil {
		return out
	}
	if err := json.Unmarshal(data, &out); err != nil {
		slog.Warn("Discarding unparseable local collection",
			"path", path,
			log.FieldError, err)
		var zero T
		return zero
	}
	return out
}

// writeCollection persists via a temp file and rename so a crash never
// leaves a half-written collection behind.
func writeCollection(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace collection: %w", err)
	}
	return nil
}

func (s *Store) registry() *category.Registry {
	return category.NewRegistry(s.customs.Expense, s.customs.Income)
}

// List implements ledger.Store.
func (s *Store) List(_ context.Context, account int) ([]core.Transaction, error) {
	if !core.ValidAccount(account) {
		return nil, core.ErrInvalidAccount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs[account]...), nil
}

// Add implements ledger.Store. New transactions go to the front, matching
// the newest-first storage order of the account files.
func (s *Store) Add(_ context.Context, account int, d ledger.Draft) (core.Transaction, error) {
	if !core.ValidAccount(account) {
		return core.Transaction{}, core.ErrInvalidAccount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := d.Validate(s.now())
	if err != nil {
		return core.Transaction{}, err
	}
	if !s.registry().Known(d.Category) {
		return core.Transaction{}, core.ErrUnknownCategory
	}

	t := core.Transaction{
		ID:          uuid.NewString(),
		Description: d.Description,
		Amount:      d.Amount,
		Type:        d.Type,
		Category:    d.Category,
		Date:        d.Date,
	}
	next := append([]core.Transaction{t}, s.txs[account]...)
	if err := writeCollection(s.accountPath(account), next); err != nil {
		return core.Transaction{}, err
	}
	s.txs[account] = next
	return t, nil
}

// Update implements ledger.Store.
func (s *Store) Update(_ context.Context, id string, p ledger.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := p.Validate(); err != nil {
		return err
	}
	if p.Category != nil && !s.registry().Known(*p.Category) {
		return core.ErrUnknownCategory
	}

	account, idx, ok := s.locate(id)
	if !ok {
		return core.ErrNotFound
	}
	next := append([]core.Transaction(nil), s.txs[account]...)
	next[idx] = p.Apply(next[idx])
	if p.Description != nil {
		// store the canonical trimmed form
		desc, _ := core.ValidateDescription(*p.Description)
		next[idx].Description = desc
	}
	if err := writeCollection(s.accountPath(account), next); err != nil {
		return err
	}
	s.txs[account] = next
	return nil
}

// Remove implements ledger.Store.
func (s *Store) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, idx, ok := s.locate(id)
	if !ok {
		return core.ErrNotFound
	}
	next := append([]core.Transaction(nil), s.txs[account][:idx]...)
	next = append(next, s.txs[account][idx+1:]...)
	if err := writeCollection(s.accountPath(account), next); err != nil {
		return err
	}
	s.txs[account] = next
	return nil
}

// Clear implements ledger.Store: the addressed partition only.
func (s *Store) Clear(_ context.Context, account int) error {
	if !core.ValidAccount(account) {
		return core.ErrInvalidAccount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	empty := []core.Transaction{}
	if err := writeCollection(s.accountPath(account), empty); err != nil {
		return err
	}
	s.txs[account] = empty
	return nil
}

// ConvertAll implements ledger.Store. Amounts are converted up front so a
// bad currency pair aborts before anything is rewritten.
func (s *Store) ConvertAll(_ context.Context, account int, from, to currency.Code) error {
	if !core.ValidAccount(account) {
		return core.ErrInvalidAccount
	}
	if _, err := currency.Rate(from); err != nil {
		return err
	}
	if _, err := currency.Rate(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append([]core.Transaction(nil), s.txs[account]...)
	for i := range next {
		converted, err := currency.Convert(next[i].Amount, from, to)
		if err != nil {
			return err
		}
		next[i].Amount = converted
	}
	if err := writeCollection(s.accountPath(account), next); err != nil {
		return err
	}
	s.txs[account] = next
	return nil
}

// Categories implements ledger.Store.
func (s *Store) Categories(_ context.Context, t core.Type) ([]core.Category, error) {
	if !t.Valid() {
		return nil, core.ErrInvalidType
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry().List(t), nil
}

// CreateCategory implements ledger.Store.
func (s *Store) CreateCategory(_ context.Context, t core.Type, name, icon, color string) (core.Category, error) {
	if !t.Valid() {
		return core.Category{}, core.ErrInvalidType
	}
	name, err := category.ValidateCustom(name, icon, color)
	if err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := core.Category{ID: category.NewCustomID(), Name: name, Icon: icon, Color: color}
	next := s.customs
	if t == core.Income {
		next.Income = append(append([]core.Category(nil), s.customs.Income...), c)
	} else {
		next.Expense = append(append([]core.Category(nil), s.customs.Expense...), c)
	}
	if err := writeCollection(filepath.Join(s.dir, customCategoriesFile), next); err != nil {
		return core.Category{}, err
	}
	s.customs = next
	return c, nil
}

// DeleteCategory implements ledger.Store. Unknown or built-in ids are a
// no-op; transactions keep whatever id they reference.
func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := customSet{
		Expense: dropCategory(s.customs.Expense, id),
		Income:  dropCategory(s.customs.Income, id),
	}
	if len(next.Expense) == len(s.customs.Expense) && len(next.Income) == len(s.customs.Income) {
		return nil
	}
	if err := writeCollection(filepath.Join(s.dir, customCategoriesFile), next); err != nil {
		return err
	}
	s.customs = next
	return nil
}

func dropCategory(cats []core.Category, id string) []core.Category {
	out := make([]core.Category, 0, len(cats))
	for _, c := range cats {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// locate finds a transaction by id across all account partitions.
func (s *Store) locate(id string) (account, idx int, ok bool) {
	for account := 1; account <= core.MaxAccounts; account++ {
		for i, t := range s.txs[account] {
			if t.ID == id {
				return account, i, true
			}
		}
	}
	return 0, 0, false
}
