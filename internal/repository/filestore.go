// Package repository содержит реализации хранилища снимков данных.
//
// Хранилище работает полными снимками: каждая мутация — это «загрузить весь
// список, преобразовать, сохранить весь список», побеждает последняя запись.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mmeshcher/printshop-system/internal/model"
)

const (
	productsFileName = "products.json"
	ordersFileName   = "orders.json"
)

// FileStore хранит снимки каталога и заказов в JSON-файлах каталога данных.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore создаёт файловое хранилище в указанном каталоге.
// Каталог и пустые файлы снимков создаются при необходимости.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &FileStore{dir: dir}

	for _, name := range []string{productsFileName, ordersFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
				return nil, fmt.Errorf("init %s: %w", name, err)
			}
		}
	}

	return s, nil
}

// Close освобождает ресурсы хранилища.
func (s *FileStore) Close() error {
	return nil
}

// LoadProducts возвращает полный снимок каталога.
func (s *FileStore) LoadProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := s.readSnapshot(ctx, productsFileName, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// SaveProducts заменяет снимок каталога.
func (s *FileStore) SaveProducts(ctx context.Context, products []model.Product) error {
	if products == nil {
		products = []model.Product{}
	}
	return s.writeSnapshot(ctx, productsFileName, products)
}

// LoadOrders возвращает полный снимок истории заказов.
func (s *FileStore) LoadOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := s.readSnapshot(ctx, ordersFileName, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// SaveOrders заменяет снимок истории заказов.
func (s *FileStore) SaveOrders(ctx context.Context, orders []model.Order) error {
	if orders == nil {
		orders = []model.Order{}
	}
	return s.writeSnapshot(ctx, ordersFileName, orders)
}

// readSnapshot читает файл снимка. Отсутствующий или испорченный файл
// считается пустым списком: данные могли быть отредактированы вручную.
func (s *FileStore) readSnapshot(ctx context.Context, name string, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return nil
	}

	return nil
}

// writeSnapshot записывает снимок через временный файл и переименование,
// чтобы не оставить усечённый файл при сбое посреди записи.
func (s *FileStore) writeSnapshot(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}

	return nil
}
