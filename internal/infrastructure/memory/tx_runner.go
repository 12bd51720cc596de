package memory

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/application/order"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ order.TxRunner = (*TxRunner)(nil)

// TxRunner transacciones en memoria: una a la vez, con registro de deshacer.
// Si fn falla se restaura el stock de los productos tocados y se borran los pedidos creados.
// Sólo el stock vuelve atrás: las ediciones de administración no toman txMu y deben sobrevivir.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre s.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// RunOrder ejecuta fn con repositorios que registran cambios para rollback.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	tx := &txLog{s: r.s, products: make(map[string]*entity.Product)}
	products := &txProductRepo{ProductRepo: NewProductRepository(r.s), log: tx}
	orders := &txOrderRepo{OrderRepo: NewOrderRepository(r.s), log: tx}

	if err := fn(products, orders); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

type txLog struct {
	s        *Store
	products map[string]*entity.Product // copia original; nil si no existía
	orders   []string
}

func (t *txLog) touch(id string) {
	if _, seen := t.products[id]; seen {
		return
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if row, ok := t.s.products[id]; ok {
		t.products[id] = cloneProduct(row.p)
	} else {
		t.products[id] = nil
	}
}

func (t *txLog) rollback() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for id, original := range t.products {
		if original == nil {
			delete(t.s.products, id)
			continue
		}
		if row, ok := t.s.products[id]; ok {
			row.p.Stock = original.Stock
		} else {
			t.s.products[id] = &productRow{seq: t.s.next(), p: original}
		}
	}
	for _, id := range t.orders {
		delete(t.s.orders, id)
	}
}

type txProductRepo struct {
	*ProductRepo
	log *txLog
}

func (r *txProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.log.touch(p.ID)
	return r.ProductRepo.Create(ctx, p)
}

func (r *txProductRepo) Update(ctx context.Context, p *entity.Product) error {
	r.log.touch(p.ID)
	return r.ProductRepo.Update(ctx, p)
}

func (r *txProductRepo) SetStock(ctx context.Context, id string, stock int) error {
	r.log.touch(id)
	return r.ProductRepo.SetStock(ctx, id, stock)
}

func (r *txProductRepo) DecrementStock(ctx context.Context, id string, qty int) error {
	r.log.touch(id)
	return r.ProductRepo.DecrementStock(ctx, id, qty)
}

func (r *txProductRepo) Delete(ctx context.Context, id string) error {
	r.log.touch(id)
	return r.ProductRepo.Delete(ctx, id)
}

type txOrderRepo struct {
	*OrderRepo
	log *txLog
}

func (r *txOrderRepo) Create(ctx context.Context, o *entity.Order) error {
	if err := r.OrderRepo.Create(ctx, o); err != nil {
		return err
	}
	r.log.orders = append(r.log.orders, o.ID)
	return nil
}
