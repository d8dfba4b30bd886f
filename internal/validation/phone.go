// Package validation содержит функции валидации входных данных.
package validation

import "strings"

// NormalizeMobile приводит номер мобильного телефона к локальной записи.
// Из строки удаляются все символы, кроме цифр ASCII и ведущего «+»;
// международный префикс +98 или 0098 заменяется на ведущий 0. Результат —
// строка цифр, без гарантии, что номер действительно корректен.
func NormalizeMobile(input string) string {
	raw := strings.TrimSpace(input)

	var b strings.Builder
	for i, r := range raw {
		if isDigit(r) || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, "+98"):
		return "0" + digits[3:]
	case strings.HasPrefix(digits, "0098"):
		return "0" + digits[4:]
	}

	return strings.TrimPrefix(digits, "+")
}

// IsValidMobile сообщает, является ли ввод корректным иранским мобильным
// номером: после нормализации ровно 11 цифр с префиксом 09.
func IsValidMobile(input string) bool {
	n := NormalizeMobile(input)
	if len(n) != 11 || !strings.HasPrefix(n, "09") {
		return false
	}
	for _, r := range n {
		if !isDigit(r) {
			return false
		}
	}
	return true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
