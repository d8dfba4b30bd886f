// Package money содержит разбор и форматирование денежных сумм и количеств.
//
// Функции разбора тотальны: любой ввод, включая пустой или испорченный,
// даёт конечное значение в допустимых границах. Это сознательная защита
// от данных, пришедших из импорта или отредактированных вручную.
package money

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MaxQuantity ограничивает количество в строке заказа. Слияние одинаковых
// товаров суммирует количества с насыщением на этой границе, поэтому сумма
// не может переполниться.
const MaxQuantity int64 = 1_000_000_000

var printer = message.NewPrinter(language.English)

// stripSeparators удаляет разделители тысяч и пробельные символы.
func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ParseAmount разбирает денежную сумму из пользовательского ввода.
// Пустой или нечисловой ввод даёт 0; иначе значение округляется до целого
// и ограничивается снизу нулём.
func ParseAmount(input string) int64 {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return 0
	}

	f, err := strconv.ParseFloat(stripSeparators(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	f = math.Round(f)
	if f <= 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(f)
}

// ParseQuantity разбирает количество из пользовательского ввода.
// Нечисловой ввод даёт 1; иначе значение усекается до целого и
// ограничивается отрезком [1, MaxQuantity].
func ParseQuantity(input string) int64 {
	f, err := strconv.ParseFloat(stripSeparators(strings.TrimSpace(input)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 1
	}

	f = math.Floor(f)
	if f < 1 {
		return 1
	}
	if f >= float64(MaxQuantity) {
		return MaxQuantity
	}

	return int64(f)
}

// ClampQuantity приводит уже числовое количество к тем же границам,
// что и ParseQuantity.
func ClampQuantity(n int64) int64 {
	if n < 1 {
		return 1
	}
	if n > MaxQuantity {
		return MaxQuantity
	}
	return n
}

// ClampAmount приводит уже числовую сумму к границам ParseAmount.
func ClampAmount(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

// Format выводит сумму с разделителями тысяч для отображения.
func Format(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatInput переформатирует денежный ввод пользователя, добавляя
// разделители тысяч. Нечисловой ввод возвращается без изменений.
func FormatInput(input string) string {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return ""
	}

	f, err := strconv.ParseFloat(stripSeparators(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return raw
	}

	return printer.Sprintf("%d", int64(math.Round(f)))
}
