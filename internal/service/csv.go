package service

import (
	"context"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/mmeshcher/printshop-system/internal/model"
)

// orderCSVRow — строка табличной выгрузки заказов. Выгрузка проекционная и
// с потерями: позиции сворачиваются в счётчики типовых форматов печати,
// формат обратного импорта не поддерживает.
type orderCSVRow struct {
	LastName        string `csv:"lastName"`
	Phone           string `csv:"phone"`
	Qty3x4          int64  `csv:"qty_3x4"`
	Qty2x3          int64  `csv:"qty_2x3"`
	Qty4x6          int64  `csv:"qty_4x6"`
	QtyRetake       int64  `csv:"qty_retake"`
	QtyLarge        int64  `csv:"qty_large"`
	TotalAmount     int64  `csv:"totalAmount"`
	Deposit         int64  `csv:"deposit"`
	RemainingAmount int64  `csv:"remainingAmount"`
	Description     string `csv:"description"`
	Date            string `csv:"date"`
}

// itemKind определяет тип позиции по названию товара: распознаются
// стандартные форматы фотопечати в латинской и персидской записи.
func itemKind(name string) string {
	n := strings.ToLower(name)
	n = strings.ReplaceAll(n, "×", "x")
	n = strings.Join(strings.Fields(n), "")

	switch {
	case strings.Contains(n, "3x4") || strings.Contains(n, "3٭4") || strings.Contains(n, "3در4"):
		return "3x4"
	case strings.Contains(n, "2x3") || strings.Contains(n, "2در3") || strings.Contains(n, "2٭3"):
		return "2x3"
	case strings.Contains(n, "4x6") || strings.Contains(n, "6x4") || strings.Contains(n, "4در6"):
		return "4x6"
	case strings.Contains(n, "مجدد") || strings.Contains(n, "retake"):
		return "retake"
	case strings.Contains(n, "بزرگ") || strings.Contains(n, "large"):
		return "large"
	default:
		return "other"
	}
}

func orderToCSVRow(o model.Order) orderCSVRow {
	row := orderCSVRow{
		LastName:        o.Customer.LastName,
		Phone:           o.Customer.Phone,
		TotalAmount:     o.TotalAmount,
		Deposit:         o.Deposit,
		RemainingAmount: o.RemainingAmount,
		Description:     o.Description,
		Date:            o.CreatedAt,
	}

	for _, it := range o.Items {
		switch itemKind(it.Name) {
		case "3x4":
			row.Qty3x4 += it.Quantity
		case "2x3":
			row.Qty2x3 += it.Quantity
		case "4x6":
			row.Qty4x6 += it.Quantity
		case "retake":
			row.QtyRetake += it.Quantity
		case "large":
			row.QtyLarge += it.Quantity
		}
	}

	return row
}

// OrdersCSV возвращает табличную выгрузку всей истории заказов.
func (s *Service) OrdersCSV(ctx context.Context) (string, error) {
	orders, err := s.store.LoadOrders(ctx)
	if err != nil {
		return "", err
	}

	rows := make([]orderCSVRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderToCSVRow(o))
	}

	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return "", err
	}

	return out, nil
}
