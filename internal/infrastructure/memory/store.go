package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// Store backend en memoria del ledger. Cada unidad de trabajo se ejecuta de forma
// exclusiva sobre una copia del estado; la copia reemplaza al estado vivo solo si
// la función termina sin error y el contexto sigue vigente.
type Store struct {
	txMu  sync.Mutex   // serializa unidades de trabajo y escrituras sueltas
	mu    sync.RWMutex // protege el puntero a state
	state *state
}

type state struct {
	stock      map[string]*entity.StockRecord
	stockByKey map[entity.StockKey]string
	logs       []*entity.StockMovementLog
	txs        []*entity.StockMovementTransaction
	sales      map[string]*entity.Sale
	saleOrder  []string
	saleNumber map[string]string
	expenses   map[string]*entity.Expense
	branches   map[string]*entity.Branch
	products   map[string]*entity.Product
	categories map[string]*entity.Category
}

// New crea un store vacío.
func New() *Store {
	return &Store{state: &state{
		stock:      map[string]*entity.StockRecord{},
		stockByKey: map[entity.StockKey]string{},
		sales:      map[string]*entity.Sale{},
		saleNumber: map[string]string{},
		expenses:   map[string]*entity.Expense{},
		branches:   map[string]*entity.Branch{},
		products:   map[string]*entity.Product{},
		categories: map[string]*entity.Category{},
	}}
}

// clone copia los índices. Las entidades guardadas nunca se mutan en sitio
// (cada escritura reemplaza la entrada), así que se comparten entre copias.
func (s *state) clone() *state {
	return &state{
		stock:      maps.Clone(s.stock),
		stockByKey: maps.Clone(s.stockByKey),
		logs:       slices.Clone(s.logs),
		txs:        slices.Clone(s.txs),
		sales:      maps.Clone(s.sales),
		saleOrder:  slices.Clone(s.saleOrder),
		saleNumber: maps.Clone(s.saleNumber),
		expenses:   maps.Clone(s.expenses),
		branches:   maps.Clone(s.branches),
		products:   maps.Clone(s.products),
		categories: maps.Clone(s.categories),
	}
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(tx inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return domain.StorageFailure(err)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.state.clone()
	s.mu.RUnlock()

	v := view{store: s, tx: work}
	if err := fn(v.repos()); err != nil {
		return domain.StorageFailure(err)
	}
	if err := ctx.Err(); err != nil {
		return domain.StorageFailure(err)
	}

	s.mu.Lock()
	s.state = work
	s.mu.Unlock()
	return nil
}

var _ inventory.TxRunner = (*Store)(nil)

// Repositorios fuera de transacción: lecturas sobre el estado confirmado.

func (s *Store) StockRecords() *StockRepo { return &StockRepo{v: view{store: s}} }
func (s *Store) Movements() *MovementRepo { return &MovementRepo{v: view{store: s}} }
func (s *Store) Sales() *SaleRepo { return &SaleRepo{v: view{store: s}} }
func (s *Store) Expenses() *ExpenseRepo { return &ExpenseRepo{v: view{store: s}} }
func (s *Store) Branches() *BranchRepo { return &BranchRepo{v: view{store: s}} }
func (s *Store) Finance() *FinanceRepo { return &FinanceRepo{v: view{store: s}} }

// view acceso al estado: dentro de una transacción usa la copia de trabajo,
// fuera de ella el estado confirmado.
type view struct {
	store *Store
	tx    *state
}

func (v view) repos() inventory.Repos {
	return inventory.Repos{
		Stock:     &StockRepo{v: v},
		Movements: &MovementRepo{v: v},
		Sales:     &SaleRepo{v: v},
		Expenses:  &ExpenseRepo{v: v},
	}
}

func (v view) read(fn func(st *state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	fn(v.store.state)
}

// write fuera de transacción se comporta como una sentencia autocommit.
func (v view) write(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.txMu.Lock()
	defer v.store.txMu.Unlock()
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.state)
}
