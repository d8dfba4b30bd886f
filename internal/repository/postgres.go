package repository

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/printshop-system/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore хранит снимки каталога и заказов в PostgreSQL.
// Семантика та же, что у файлового хранилища: сохранение заменяет
// коллекцию целиком в одной транзакции.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore создаёт хранилище и инициализирует схему БД через миграции.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &PostgresStore{pool: pool}

	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (s *PostgresStore) withRetry(ctx context.Context, fn func() error) error {
	var err error
	delays := []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

	for i := 0; i <= len(delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		// Повторяем только сериализационные конфликты и дедлоки: снимочные
		// записи двух сессий конфликтуют именно так.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected {
				if i < len(delays) {
					time.Sleep(delays[i])
					continue
				}
			}
		}

		if isConnectionError(err) {
			if i < len(delays) {
				time.Sleep(delays[i])
				continue
			}
		}

		break
	}
	return err
}

func isConnectionError(err error) bool {
	// Упрощённая проверка на ошибки соединения
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// LoadProducts возвращает полный снимок каталога в порядке сохранения.
func (s *PostgresStore) LoadProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, price, description, image_data_url, created_at, updated_at
		 FROM products
		 ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.ImageDataURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}

// SaveProducts заменяет снимок каталога в одной транзакции.
func (s *PostgresStore) SaveProducts(ctx context.Context, products []model.Product) error {
	return s.withRetry(ctx, func() error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		if _, err := tx.Exec(ctx, `DELETE FROM products`); err != nil {
			return fmt.Errorf("clear products: %w", err)
		}

		for _, p := range products {
			_, err := tx.Exec(ctx,
				`INSERT INTO products (id, name, price, description, image_data_url, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				p.ID, p.Name, p.Price, p.Description, p.ImageDataURL, p.CreatedAt, p.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("insert product: %w", err)
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}

		return nil
	})
}

// LoadOrders возвращает полный снимок истории заказов в порядке сохранения.
func (s *PostgresStore) LoadOrders(ctx context.Context) ([]model.Order, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, customer, items, total_amount, deposit, remaining_amount, description, created_at
		 FROM orders
		 ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var (
			o            model.Order
			customerJSON []byte
			itemsJSON    []byte
		)
		if err := rows.Scan(&o.ID, &customerJSON, &itemsJSON, &o.TotalAmount, &o.Deposit, &o.RemainingAmount, &o.Description, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}

		if err := json.Unmarshal(customerJSON, &o.Customer); err != nil {
			return nil, fmt.Errorf("decode customer: %w", err)
		}
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}

// SaveOrders заменяет снимок истории заказов в одной транзакции.
func (s *PostgresStore) SaveOrders(ctx context.Context, orders []model.Order) error {
	return s.withRetry(ctx, func() error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		if _, err := tx.Exec(ctx, `DELETE FROM orders`); err != nil {
			return fmt.Errorf("clear orders: %w", err)
		}

		for _, o := range orders {
			customerJSON, err := json.Marshal(o.Customer)
			if err != nil {
				return fmt.Errorf("encode customer: %w", err)
			}

			items := o.Items
			if items == nil {
				items = []model.LineItem{}
			}
			itemsJSON, err := json.Marshal(items)
			if err != nil {
				return fmt.Errorf("encode items: %w", err)
			}

			_, err = tx.Exec(ctx,
				`INSERT INTO orders (id, customer, items, total_amount, deposit, remaining_amount, description, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				o.ID, customerJSON, itemsJSON, o.TotalAmount, o.Deposit, o.RemainingAmount, o.Description, o.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("insert order: %w", err)
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}

		return nil
	})
}
