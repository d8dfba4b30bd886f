package engine

import (
	"strings"

	"github.com/mmeshcher/printshop-system/internal/ident"
	"github.com/mmeshcher/printshop-system/internal/model"
	"github.com/mmeshcher/printshop-system/internal/money"
	"github.com/mmeshcher/printshop-system/internal/validation"
)

// CustomerInput содержит сырые данные клиента из формы заказа.
type CustomerInput struct {
	LastName string
	Phone    string
}

// NewDraft возвращает пустой черновик заказа с новым идентификатором.
func NewDraft() model.Order {
	now := ident.NowISO()

	return model.Order{
		ID: ident.NewID("ord"),
		Customer: model.Customer{
			CreatedAt: now,
		},
		Items:     []model.LineItem{},
		CreatedAt: now,
	}
}

// cloneOrder возвращает копию заказа с собственным срезом позиций,
// чтобы изменения не были видны через исходное значение.
func cloneOrder(d model.Order) model.Order {
	next := d
	next.Items = make([]model.LineItem, len(d.Items))
	copy(next.Items, d.Items)
	return next
}

// SetCustomer привязывает клиента к черновику. Фамилия обрезается, телефон
// нормализуется; в черновик записывается уже нормализованный номер.
func SetCustomer(d model.Order, in CustomerInput) (model.Order, error) {
	lastName := strings.TrimSpace(in.LastName)
	if lastName == "" {
		return model.Order{}, ErrLastNameRequired
	}

	phone := validation.NormalizeMobile(in.Phone)
	if !validation.IsValidMobile(phone) {
		return model.Order{}, ErrPhoneInvalid
	}

	next := cloneOrder(d)
	next.Customer.LastName = lastName
	next.Customer.Phone = phone
	return next, nil
}

// AddItem добавляет товар в черновик. Если позиция с тем же товаром уже
// есть, количества складываются (сумма заново проходит границы
// количества), дубликат строки не создаётся. Новая позиция получает снимок
// названия, цены и описания товара на момент добавления.
func AddItem(d model.Order, p model.Product, quantityInput string) model.Order {
	qty := money.ParseQuantity(quantityInput)
	next := cloneOrder(d)

	merged := false
	for i := range next.Items {
		if next.Items[i].ProductID == p.ID {
			next.Items[i].Quantity = money.ClampQuantity(next.Items[i].Quantity + qty)
			merged = true
			break
		}
	}

	if !merged {
		next.Items = append(next.Items, model.LineItem{
			ID:          ident.NewID("item"),
			ProductID:   p.ID,
			Name:        p.Name,
			Quantity:    qty,
			UnitPrice:   p.Price,
			TotalPrice:  p.Price * qty,
			Description: p.Description,
		})
	}

	return Recompute(next)
}

// UpdateItemQuantity задаёт количество в указанной позиции. Неизвестный
// идентификатор — тихий no-op: возвращается исходный черновик.
func UpdateItemQuantity(d model.Order, itemID, quantityInput string) model.Order {
	qty := money.ParseQuantity(quantityInput)

	found := false
	next := cloneOrder(d)
	for i := range next.Items {
		if next.Items[i].ID == itemID {
			next.Items[i].Quantity = qty
			found = true
			break
		}
	}

	if !found {
		return d
	}

	return Recompute(next)
}

// RemoveItem убирает позицию из черновика; отсутствующий идентификатор —
// тихий no-op.
func RemoveItem(d model.Order, itemID string) model.Order {
	next := cloneOrder(d)

	items := next.Items[:0]
	for _, it := range next.Items {
		if it.ID != itemID {
			items = append(items, it)
		}
	}
	next.Items = items

	return Recompute(next)
}

// Recompute пересчитывает производные поля заказа. Количество и цена каждой
// позиции заново проходят свои границы: значения из импорта или ручной
// правки файла не считаются доверенными. Итог, предоплата и остаток
// выводятся только отсюда. Функция идемпотентна.
func Recompute(d model.Order) model.Order {
	next := cloneOrder(d)

	var total int64
	for i := range next.Items {
		qty := money.ClampQuantity(next.Items[i].Quantity)
		unit := money.ClampAmount(next.Items[i].UnitPrice)

		next.Items[i].Quantity = qty
		next.Items[i].UnitPrice = unit
		next.Items[i].TotalPrice = qty * unit

		total += next.Items[i].TotalPrice
	}

	next.TotalAmount = total
	next.Deposit = money.ClampAmount(next.Deposit)

	remaining := total - next.Deposit
	if remaining < 0 {
		remaining = 0
	}
	next.RemainingAmount = remaining

	return next
}

// Finalize валидирует черновик и возвращает его как зафиксированный заказ.
// Порядок проверок значим: сначала клиент, затем корзина, затем деньги —
// при нескольких нарушениях наружу выходит первая ошибка в этом порядке.
func Finalize(d model.Order) (model.Order, error) {
	if strings.TrimSpace(d.Customer.LastName) == "" {
		return model.Order{}, ErrLastNameRequired
	}
	if !validation.IsValidMobile(d.Customer.Phone) {
		return model.Order{}, ErrPhoneInvalid
	}
	if len(d.Items) == 0 {
		return model.Order{}, ErrCartEmpty
	}

	next := Recompute(d)

	if next.TotalAmount <= 0 {
		return model.Order{}, ErrPriceNotPositive
	}
	if next.Deposit > next.TotalAmount {
		return model.Order{}, ErrDepositExceedsTotal
	}

	next.Description = strings.TrimSpace(next.Description)

	return next, nil
}

// Settle отмечает заказ полностью оплаченным: предоплата приравнивается к
// итогу, остаток обнуляется. Единственное намеренное исключение из правила
// «всегда пересчитывать»: повторная валидация заказа здесь не выполняется.
func Settle(d model.Order) model.Order {
	next := cloneOrder(d)
	next.Deposit = next.TotalAmount
	next.RemainingAmount = 0
	return next
}
