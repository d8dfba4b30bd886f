package engine

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mmeshcher/printshop-system/internal/model"
	"github.com/mmeshcher/printshop-system/internal/money"
)

func testProduct(id, name string, price int64) model.Product {
	return model.Product{
		ID:    id,
		Name:  name,
		Price: price,
	}
}

// checkDerived проверяет инварианты производных полей после любой операции движка.
func checkDerived(t *testing.T, d model.Order) {
	t.Helper()

	var total int64
	for _, it := range d.Items {
		if it.Quantity < 1 {
			t.Fatalf("item %s quantity = %d, must be >= 1", it.ID, it.Quantity)
		}
		if it.TotalPrice != it.Quantity*it.UnitPrice {
			t.Fatalf("item %s totalPrice = %d, want %d", it.ID, it.TotalPrice, it.Quantity*it.UnitPrice)
		}
		total += it.TotalPrice
	}

	if d.TotalAmount != total {
		t.Fatalf("totalAmount = %d, want %d", d.TotalAmount, total)
	}

	wantRemaining := d.TotalAmount - d.Deposit
	if wantRemaining < 0 {
		wantRemaining = 0
	}
	if d.RemainingAmount != wantRemaining {
		t.Fatalf("remainingAmount = %d, want %d", d.RemainingAmount, wantRemaining)
	}
}

func TestNewDraft(t *testing.T) {
	d := NewDraft()

	if d.ID == "" {
		t.Fatalf("draft must get an id")
	}
	if len(d.Items) != 0 {
		t.Fatalf("new draft must have no items")
	}
	if d.TotalAmount != 0 || d.Deposit != 0 || d.RemainingAmount != 0 {
		t.Fatalf("new draft totals must be zero: %+v", d)
	}
	if d.CreatedAt == "" || d.Customer.CreatedAt == "" {
		t.Fatalf("new draft timestamps must be set")
	}
}

func TestSetCustomer(t *testing.T) {
	d := NewDraft()

	t.Run("normalizes international phone", func(t *testing.T) {
		next, err := SetCustomer(d, CustomerInput{LastName: "Smith", Phone: "+989123456789"})
		if err != nil {
			t.Fatalf("SetCustomer error: %v", err)
		}
		if next.Customer.LastName != "Smith" {
			t.Fatalf("lastName = %q", next.Customer.LastName)
		}
		if next.Customer.Phone != "09123456789" {
			t.Fatalf("phone = %q, want 09123456789", next.Customer.Phone)
		}
		if d.Customer.LastName != "" {
			t.Fatalf("input draft mutated: %+v", d.Customer)
		}
	})

	t.Run("blank last name", func(t *testing.T) {
		_, err := SetCustomer(d, CustomerInput{LastName: "  ", Phone: "09123456789"})
		if !errors.Is(err, ErrLastNameRequired) {
			t.Fatalf("error = %v, want ErrLastNameRequired", err)
		}
	})

	t.Run("invalid phone", func(t *testing.T) {
		_, err := SetCustomer(d, CustomerInput{LastName: "Smith", Phone: "12345"})
		if !errors.Is(err, ErrPhoneInvalid) {
			t.Fatalf("error = %v, want ErrPhoneInvalid", err)
		}
	})
}

func TestAddItem_MergesSameProduct(t *testing.T) {
	p := testProduct("p1", "4x6", 50000)

	d := NewDraft()
	d = AddItem(d, p, "2")
	d = AddItem(d, p, "3")

	if len(d.Items) != 1 {
		t.Fatalf("items = %d, want one merged line", len(d.Items))
	}
	if d.Items[0].Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", d.Items[0].Quantity)
	}
	if d.Items[0].TotalPrice != 250000 {
		t.Fatalf("totalPrice = %d, want 250000", d.Items[0].TotalPrice)
	}
	if d.TotalAmount != 250000 {
		t.Fatalf("totalAmount = %d, want 250000", d.TotalAmount)
	}

	checkDerived(t, d)
}

func TestAddItem_SnapshotsProduct(t *testing.T) {
	p := testProduct("p1", "4x6", 50000)
	p.Description = "glossy"

	d := AddItem(NewDraft(), p, "1")

	it := d.Items[0]
	if it.ProductID != "p1" || it.Name != "4x6" || it.UnitPrice != 50000 || it.Description != "glossy" {
		t.Fatalf("line item must snapshot the product: %+v", it)
	}

	// Последующее изменение товара не трогает снимок в заказе.
	p.Price = 99999
	if d.Items[0].UnitPrice != 50000 {
		t.Fatalf("snapshot must not follow product edits")
	}
}

func TestAddItem_MergeSaturatesAtCap(t *testing.T) {
	p := testProduct("p1", "4x6", 10)

	d := AddItem(NewDraft(), p, "999999999")
	d = AddItem(d, p, "999999999")

	if d.Items[0].Quantity != money.MaxQuantity {
		t.Fatalf("quantity = %d, want saturation at %d", d.Items[0].Quantity, money.MaxQuantity)
	}

	checkDerived(t, d)
}

func TestUpdateItemQuantity(t *testing.T) {
	p := testProduct("p1", "4x6", 50000)
	d := AddItem(NewDraft(), p, "2")
	itemID := d.Items[0].ID

	t.Run("updates and recomputes", func(t *testing.T) {
		next := UpdateItemQuantity(d, itemID, "7")
		if next.Items[0].Quantity != 7 {
			t.Fatalf("quantity = %d, want 7", next.Items[0].Quantity)
		}
		if next.TotalAmount != 350000 {
			t.Fatalf("totalAmount = %d, want 350000", next.TotalAmount)
		}
		checkDerived(t, next)
	})

	t.Run("unknown item is a no-op", func(t *testing.T) {
		next := UpdateItemQuantity(d, "nonexistent-id", "7")
		if !reflect.DeepEqual(next, d) {
			t.Fatalf("draft changed on unknown item: %+v", next)
		}
	})
}

func TestRemoveItem(t *testing.T) {
	p1 := testProduct("p1", "4x6", 50000)
	p2 := testProduct("p2", "3x4", 20000)

	d := AddItem(AddItem(NewDraft(), p1, "1"), p2, "1")

	t.Run("removes and recomputes", func(t *testing.T) {
		next := RemoveItem(d, d.Items[0].ID)
		if len(next.Items) != 1 {
			t.Fatalf("items = %d, want 1", len(next.Items))
		}
		if next.TotalAmount != 20000 {
			t.Fatalf("totalAmount = %d, want 20000", next.TotalAmount)
		}
		checkDerived(t, next)
	})

	t.Run("unknown item yields an equal draft", func(t *testing.T) {
		next := RemoveItem(d, "nonexistent-id")
		if !reflect.DeepEqual(next, d) {
			t.Fatalf("draft changed on unknown item: %+v", next)
		}
	})
}

func TestRecompute_Idempotent(t *testing.T) {
	d := model.Order{
		ID: "ord_test",
		Items: []model.LineItem{
			// Испорченные данные импорта: нулевое количество, отрицательная
			// цена, произвольный totalPrice.
			{ID: "i1", ProductID: "p1", Quantity: 0, UnitPrice: 1000, TotalPrice: 777},
			{ID: "i2", ProductID: "p2", Quantity: 3, UnitPrice: -50, TotalPrice: 12345},
		},
		TotalAmount:     -1,
		Deposit:         -200,
		RemainingAmount: 99,
	}

	once := Recompute(d)
	twice := Recompute(once)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("Recompute is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}

	checkDerived(t, once)

	if once.Items[0].Quantity != 1 {
		t.Fatalf("zero quantity must clamp to 1, got %d", once.Items[0].Quantity)
	}
	if once.Items[1].UnitPrice != 0 {
		t.Fatalf("negative unit price must clamp to 0, got %d", once.Items[1].UnitPrice)
	}
	if once.Deposit != 0 {
		t.Fatalf("negative deposit must clamp to 0, got %d", once.Deposit)
	}
}

func TestRecompute_RemainingNeverNegative(t *testing.T) {
	d := model.Order{
		Items:   []model.LineItem{{ID: "i1", Quantity: 1, UnitPrice: 1000}},
		Deposit: 5000,
	}

	next := Recompute(d)
	if next.RemainingAmount != 0 {
		t.Fatalf("remainingAmount = %d, want 0 when deposit exceeds total", next.RemainingAmount)
	}
}

func boundDraft(t *testing.T) model.Order {
	t.Helper()

	d, err := SetCustomer(NewDraft(), CustomerInput{LastName: "Smith", Phone: "09123456789"})
	if err != nil {
		t.Fatalf("SetCustomer error: %v", err)
	}
	return d
}

func TestFinalize(t *testing.T) {
	p := testProduct("p1", "4x6", 50000)

	t.Run("success trims description", func(t *testing.T) {
		d := AddItem(boundDraft(t), p, "5")
		d.Description = "  urgent  "

		final, err := Finalize(d)
		if err != nil {
			t.Fatalf("Finalize error: %v", err)
		}
		if final.Description != "urgent" {
			t.Fatalf("description = %q, want trimmed", final.Description)
		}
		if final.TotalAmount != 250000 {
			t.Fatalf("totalAmount = %d, want 250000", final.TotalAmount)
		}
		checkDerived(t, final)
	})

	t.Run("empty cart", func(t *testing.T) {
		_, err := Finalize(boundDraft(t))
		if !errors.Is(err, ErrCartEmpty) {
			t.Fatalf("error = %v, want ErrCartEmpty", err)
		}
	})

	t.Run("deposit exceeds total", func(t *testing.T) {
		d := AddItem(boundDraft(t), p, "5")
		d.Deposit = 300000
		d = Recompute(d)

		_, err := Finalize(d)
		if !errors.Is(err, ErrDepositExceedsTotal) {
			t.Fatalf("error = %v, want ErrDepositExceedsTotal", err)
		}
	})

	t.Run("zero total", func(t *testing.T) {
		free := testProduct("p0", "freebie", 0)
		d := AddItem(boundDraft(t), free, "1")

		_, err := Finalize(d)
		if !errors.Is(err, ErrPriceNotPositive) {
			t.Fatalf("error = %v, want ErrPriceNotPositive", err)
		}
	})

	t.Run("customer errors win over cart errors", func(t *testing.T) {
		// Пустая фамилия и некорректный телефон одновременно: первой
		// наружу выходит ошибка фамилии.
		d := NewDraft()
		d.Customer.Phone = "12345"

		_, err := Finalize(d)
		if !errors.Is(err, ErrLastNameRequired) {
			t.Fatalf("error = %v, want ErrLastNameRequired first", err)
		}
	})

	t.Run("phone checked before cart", func(t *testing.T) {
		d := NewDraft()
		d.Customer.LastName = "Smith"
		d.Customer.Phone = "12345"

		_, err := Finalize(d)
		if !errors.Is(err, ErrPhoneInvalid) {
			t.Fatalf("error = %v, want ErrPhoneInvalid before ErrCartEmpty", err)
		}
	})
}

func TestSettle(t *testing.T) {
	p := testProduct("p1", "4x6", 50000)
	d := AddItem(boundDraft(t), p, "2")
	d.Deposit = 30000
	d = Recompute(d)

	settled := Settle(d)

	if settled.Deposit != settled.TotalAmount {
		t.Fatalf("deposit = %d, want equal to total %d", settled.Deposit, settled.TotalAmount)
	}
	if settled.RemainingAmount != 0 {
		t.Fatalf("remainingAmount = %d, want 0", settled.RemainingAmount)
	}
	if d.Deposit != 30000 {
		t.Fatalf("input order mutated: deposit = %d", d.Deposit)
	}
}

// Settle сознательно не пересчитывает и не валидирует заказ повторно —
// узкое исключение из общего правила, закреплённое этим тестом.
func TestSettle_SkipsRevalidation(t *testing.T) {
	d := model.Order{
		ID:          "ord_test",
		TotalAmount: 100,
		Deposit:     999,
	}

	settled := Settle(d)

	if settled.Deposit != 100 || settled.RemainingAmount != 0 {
		t.Fatalf("Settle must only mirror the stored total: %+v", settled)
	}
	if len(settled.Items) != 0 || settled.TotalAmount != 100 {
		t.Fatalf("Settle must not recompute the order: %+v", settled)
	}
}

func TestAddItem_DoesNotMutateInput(t *testing.T) {
	p := testProduct("p1", "4x6", 50000)
	d := AddItem(NewDraft(), p, "1")

	before := d.Items[0].Quantity
	_ = AddItem(d, p, "9")

	if d.Items[0].Quantity != before {
		t.Fatalf("input draft items mutated: quantity = %d", d.Items[0].Quantity)
	}
}
