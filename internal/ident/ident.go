// Package ident содержит генерацию идентификаторов и текущих меток времени.
package ident

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// isoFormat соответствует формату меток времени в сохранённых данных.
const isoFormat = "2006-01-02T15:04:05.000Z07:00"

// NewID возвращает новый идентификатор с указанным префиксом.
// Идентификатор состоит из временной и случайной части; формат непрозрачен
// для вызывающих и не предназначен для разбора.
func NewID(prefix string) string {
	rnd := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s_%x_%s", prefix, time.Now().UnixMilli(), rnd[:12])
}

// NowISO возвращает текущее время в формате ISO-8601 (UTC).
func NowISO() string {
	return time.Now().UTC().Format(isoFormat)
}
