package service

import (
	"context"
	"fmt"

	"github.com/mmeshcher/printshop-system/internal/engine"
	"github.com/mmeshcher/printshop-system/internal/model"
	"github.com/mmeshcher/printshop-system/internal/money"
)

// OrderItemInput описывает одну позицию оформляемого заказа: ссылку на
// товар каталога и сырое количество из формы.
type OrderItemInput struct {
	ProductID string `json:"productId"`
	Quantity  string `json:"quantity"`
}

// PlaceOrderInput содержит сырые данные формы оформления заказа.
type PlaceOrderInput struct {
	LastName    string           `json:"lastName"`
	Phone       string           `json:"phone"`
	Items       []OrderItemInput `json:"items"`
	Deposit     string           `json:"deposit"`
	Description string           `json:"description"`
}

// PlaceOrder собирает черновик из данных формы, проводит его через движок
// и фиксирует в истории заказов. Ссылка на неизвестный товар отклоняется
// до обращения к движку: движок получает только существующие товары.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (model.Order, error) {
	products, err := s.store.LoadProducts(ctx)
	if err != nil {
		return model.Order{}, err
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	draft := engine.NewDraft()

	draft, err = engine.SetCustomer(draft, engine.CustomerInput{
		LastName: in.LastName,
		Phone:    in.Phone,
	})
	if err != nil {
		return model.Order{}, err
	}

	for _, it := range in.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			return model.Order{}, fmt.Errorf("%w: %s", ErrProductNotFound, it.ProductID)
		}
		draft = engine.AddItem(draft, p, it.Quantity)
	}

	draft.Description = in.Description
	draft.Deposit = money.ParseAmount(in.Deposit)
	draft = engine.Recompute(draft)

	return s.CommitDraft(ctx, draft)
}
