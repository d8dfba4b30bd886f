// Package model содержит доменные сущности сервиса фотосалона.
package model

// Product представляет позицию каталога фотосалона.
// Имена JSON-полей являются контрактом хранения и экспорта.
type Product struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	Description  string `json:"description"`
	ImageDataURL string `json:"imageDataUrl"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// Customer содержит данные клиента, привязанные к заказу.
type Customer struct {
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"createdAt"`
}

// LineItem описывает одну строку заказа со снимком цены и названия товара
// на момент добавления. ProductID — слабая ссылка: товар может быть удалён,
// заказ остаётся корректным благодаря снимку.
type LineItem struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	Name        string `json:"name"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
	TotalPrice  int64  `json:"totalPrice"`
	Description string `json:"description"`
}

// Order описывает заказ клиента: черновик в процессе оформления либо
// зафиксированный заказ в истории. Поля TotalAmount и RemainingAmount
// производные и всегда пересчитываются движком, вручную не задаются.
type Order struct {
	ID              string     `json:"id"`
	Customer        Customer   `json:"customer"`
	Items           []LineItem `json:"items"`
	TotalAmount     int64      `json:"totalAmount"`
	Deposit         int64      `json:"deposit"`
	RemainingAmount int64      `json:"remainingAmount"`
	Description     string     `json:"description"`
	CreatedAt       string     `json:"createdAt"`
}

// Stats содержит сводные показатели для панели управления.
type Stats struct {
	TotalOrders     int   `json:"totalOrders"`
	TodayOrders     int   `json:"todayOrders"`
	UnpaidOrders    int   `json:"unpaidOrders"`
	TotalRevenue    int64 `json:"totalRevenue"`
	MonthRevenue    int64 `json:"monthRevenue"`
	TotalCustomers  int   `json:"totalCustomers"`
	RemainingAmount int64 `json:"remainingAmount"`
}
