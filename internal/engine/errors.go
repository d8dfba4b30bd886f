package engine

import "errors"

// ErrProductNameRequired возвращается, если название товара пустое после обрезки пробелов.
var (
	ErrProductNameRequired = errors.New("product name required")
	// ErrPriceNotPositive возвращается, если цена товара или итог заказа не больше нуля.
	ErrPriceNotPositive = errors.New("price must be positive")
	// ErrLastNameRequired возвращается, если фамилия клиента пустая.
	ErrLastNameRequired = errors.New("customer last name required")
	// ErrPhoneInvalid возвращается, если номер телефона клиента некорректен.
	ErrPhoneInvalid = errors.New("customer phone invalid")
	// ErrCartEmpty возвращается при попытке зафиксировать заказ без позиций.
	ErrCartEmpty = errors.New("cart is empty")
	// ErrDepositExceedsTotal возвращается, если предоплата превышает итог заказа.
	ErrDepositExceedsTotal = errors.New("deposit exceeds total amount")
)
