// Package service реализует бизнес-логику сервиса фотосалона поверх
// хранилища снимков: каталог, фиксация заказов, сводка, импорт и экспорт.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/mmeshcher/printshop-system/internal/engine"
	"github.com/mmeshcher/printshop-system/internal/model"
)

// ErrProductNotFound возвращается при обновлении или удалении отсутствующего товара.
var (
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается при операции над отсутствующим заказом.
	ErrOrderNotFound = errors.New("order not found")
)

// Store описывает контракт хранилища снимков, используемый сервисом.
// Возвращаемый список — полный авторитетный снимок коллекции; частичных
// обновлений нет, каждая мутация сохраняет список целиком.
type Store interface {
	Close() error
	LoadProducts(ctx context.Context) ([]model.Product, error)
	SaveProducts(ctx context.Context, products []model.Product) error
	LoadOrders(ctx context.Context) ([]model.Order, error)
	SaveOrders(ctx context.Context, orders []model.Order) error
}

// Service содержит бизнес-логику сервиса фотосалона.
type Service struct {
	store Store
}

// NewService создаёт новый сервис поверх указанного хранилища.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// ListProducts возвращает текущий снимок каталога.
func (s *Service) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.store.LoadProducts(ctx)
}

// CreateProduct создаёт товар и добавляет его в каталог.
func (s *Service) CreateProduct(ctx context.Context, in engine.ProductInput) (model.Product, error) {
	p, err := engine.NewProduct(in)
	if err != nil {
		return model.Product{}, err
	}

	products, err := s.store.LoadProducts(ctx)
	if err != nil {
		return model.Product{}, err
	}

	products = append(products, p)
	if err := s.store.SaveProducts(ctx, products); err != nil {
		return model.Product{}, err
	}

	return p, nil
}

// UpdateProduct применяет частичное обновление к товару каталога.
func (s *Service) UpdateProduct(ctx context.Context, id string, patch engine.ProductPatch) (model.Product, error) {
	products, err := s.store.LoadProducts(ctx)
	if err != nil {
		return model.Product{}, err
	}

	for i := range products {
		if products[i].ID != id {
			continue
		}

		next, err := engine.PatchProduct(products[i], patch)
		if err != nil {
			return model.Product{}, err
		}

		products[i] = next
		if err := s.store.SaveProducts(ctx, products); err != nil {
			return model.Product{}, err
		}

		return next, nil
	}

	return model.Product{}, ErrProductNotFound
}

// DeleteProduct убирает товар из каталога. Заказы хранят снимок названия и
// цены, поэтому повисшая ссылка productId в истории допустима.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	products, err := s.store.LoadProducts(ctx)
	if err != nil {
		return err
	}

	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}

	if len(kept) == len(products) {
		return ErrProductNotFound
	}

	return s.store.SaveProducts(ctx, kept)
}

// ReplaceProducts заменяет каталог целиком (импорт или снимок от клиента).
func (s *Service) ReplaceProducts(ctx context.Context, products []model.Product) error {
	return s.store.SaveProducts(ctx, products)
}

// ListOrders возвращает текущий снимок истории заказов.
func (s *Service) ListOrders(ctx context.Context) ([]model.Order, error) {
	return s.store.LoadOrders(ctx)
}

// CommitDraft валидирует черновик и добавляет его в историю заказов.
func (s *Service) CommitDraft(ctx context.Context, draft model.Order) (model.Order, error) {
	final, err := engine.Finalize(draft)
	if err != nil {
		return model.Order{}, err
	}

	orders, err := s.store.LoadOrders(ctx)
	if err != nil {
		return model.Order{}, err
	}

	orders = append(orders, final)
	if err := s.store.SaveOrders(ctx, orders); err != nil {
		return model.Order{}, err
	}

	return final, nil
}

// SettleOrder отмечает заказ полностью оплаченным.
func (s *Service) SettleOrder(ctx context.Context, id string) (model.Order, error) {
	orders, err := s.store.LoadOrders(ctx)
	if err != nil {
		return model.Order{}, err
	}

	for i := range orders {
		if orders[i].ID != id {
			continue
		}

		orders[i] = engine.Settle(orders[i])
		if err := s.store.SaveOrders(ctx, orders); err != nil {
			return model.Order{}, err
		}

		return orders[i], nil
	}

	return model.Order{}, ErrOrderNotFound
}

// DeleteOrder убирает заказ из истории.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	orders, err := s.store.LoadOrders(ctx)
	if err != nil {
		return err
	}

	kept := orders[:0]
	for _, o := range orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}

	if len(kept) == len(orders) {
		return ErrOrderNotFound
	}

	return s.store.SaveOrders(ctx, kept)
}

// ReplaceOrders заменяет историю заказов целиком. Каждый заказ проходит
// через пересчёт: числовым полям импортированных данных нельзя доверять.
func (s *Service) ReplaceOrders(ctx context.Context, orders []model.Order) error {
	recomputed := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		recomputed = append(recomputed, engine.Recompute(o))
	}
	return s.store.SaveOrders(ctx, recomputed)
}

// Stats собирает сводные показатели по истории заказов.
func (s *Service) Stats(ctx context.Context) (*model.Stats, error) {
	orders, err := s.store.LoadOrders(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	today := now.Format("2006-01-02")

	stats := &model.Stats{TotalOrders: len(orders)}
	customers := map[string]struct{}{}

	for _, o := range orders {
		createdAt := o.CreatedAt
		if createdAt == "" {
			createdAt = o.Customer.CreatedAt
		}

		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			ts = ts.UTC()
			if ts.Format("2006-01-02") == today {
				stats.TodayOrders++
			}
			if ts.Year() == now.Year() && ts.Month() == now.Month() {
				stats.MonthRevenue += o.TotalAmount
			}
		}

		stats.TotalRevenue += o.TotalAmount

		if o.Customer.Phone != "" {
			customers[o.Customer.Phone] = struct{}{}
		}

		if o.RemainingAmount > 0 {
			stats.UnpaidOrders++
			stats.RemainingAmount += o.RemainingAmount
		}
	}

	stats.TotalCustomers = len(customers)

	return stats, nil
}
