// Package engine реализует вычислительное ядро сервиса: операции над
// каталогом и машину состояний черновика заказа.
//
// Все функции чистые: аргументы не изменяются, результат — новое значение.
// Ожидаемые ошибки валидации возвращаются значениями, паник нет.
package engine

import (
	"strings"

	"github.com/mmeshcher/printshop-system/internal/ident"
	"github.com/mmeshcher/printshop-system/internal/model"
	"github.com/mmeshcher/printshop-system/internal/money"
)

// ProductInput содержит сырые пользовательские данные для создания товара.
type ProductInput struct {
	Name         string
	Price        string
	Description  string
	ImageDataURL string
}

// ProductPatch описывает частичное обновление товара: применяются только
// ненулевые поля, остальные значения остаются прежними.
type ProductPatch struct {
	Name         *string
	Price        *string
	Description  *string
	ImageDataURL *string
}

// NewProduct создаёт товар из пользовательского ввода.
// Название обрезается, цена разбирается через money.ParseAmount и должна
// быть строго положительной.
func NewProduct(in ProductInput) (model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Product{}, ErrProductNameRequired
	}

	price := money.ParseAmount(in.Price)
	if price <= 0 {
		return model.Product{}, ErrPriceNotPositive
	}

	now := ident.NowISO()

	return model.Product{
		ID:           ident.NewID("prod"),
		Name:         name,
		Price:        price,
		Description:  strings.TrimSpace(in.Description),
		ImageDataURL: in.ImageDataURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// PatchProduct применяет частичное обновление к существующему товару.
// Присутствующие поля проходят те же правила очистки, что и при создании;
// результат повторно валидируется, UpdatedAt обновляется.
func PatchProduct(existing model.Product, patch ProductPatch) (model.Product, error) {
	next := existing

	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Price != nil {
		next.Price = money.ParseAmount(*patch.Price)
	}
	if patch.Description != nil {
		next.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.ImageDataURL != nil {
		next.ImageDataURL = *patch.ImageDataURL
	}

	if next.Name == "" {
		return model.Product{}, ErrProductNameRequired
	}
	if next.Price <= 0 {
		return model.Product{}, ErrPriceNotPositive
	}

	next.UpdatedAt = ident.NowISO()

	return next, nil
}
