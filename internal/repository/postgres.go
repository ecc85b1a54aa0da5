// Package repository содержит реализацию доступа к данным в PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/emilaliyev17/analytics/internal/model"
	"github.com/emilaliyev17/analytics/internal/report"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrUserExists возвращается при попытке создать пользователя с уже существующим именем.
var (
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
)

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
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

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
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

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// CreateUser создаёт новую учётную запись пользователя.
func (r *PostgresRepository) CreateUser(ctx context.Context, username, passwordHash string, role model.Role) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3)`,
		username, passwordHash, string(role),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", ErrUserExists, username)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByUsername возвращает пользователя по имени.
func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, role, created_at FROM users WHERE username = $1`,
		username,
	)

	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.Role = model.Role(role)

	return &u, nil
}

// ListUsers возвращает все учётные записи без хешей паролей.
func (r *PostgresRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT username, role, created_at
		 FROM users
		 ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var (
			username  string
			role      string
			createdAt time.Time
		)
		if err := rows.Scan(&username, &role, &createdAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}

		users = append(users, model.User{
			Username:  username,
			Role:      model.Role(role),
			CreatedAt: createdAt,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return users, nil
}

// Overview возвращает сводные показатели продаж за период.
func (r *PostgresRepository) Overview(ctx context.Context, f report.Filter) (*model.OverviewMetrics, error) {
	q, err := report.Build(report.KindOverview, f)
	if err != nil {
		return nil, err
	}

	var m model.OverviewMetrics
	err = r.pool.QueryRow(ctx, q.SQL, q.Args...).Scan(&m.TotalSKUs, &m.TotalUnits, &m.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("overview query: %w", err)
	}

	return &m, nil
}

// BestSellers возвращает 20 лучших SKU по выручке за период.
func (r *PostgresRepository) BestSellers(ctx context.Context, f report.Filter) ([]model.ProductSales, error) {
	q, err := report.Build(report.KindBestSellers, f)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("best sellers query: %w", err)
	}
	defer rows.Close()

	var res []model.ProductSales
	for rows.Next() {
		var p model.ProductSales
		if err := rows.Scan(&p.MasterSKU, &p.UnitsSold, &p.Revenue, &p.AvgPrice); err != nil {
			return nil, fmt.Errorf("scan best seller: %w", err)
		}
		res = append(res, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// LaunchPerformance возвращает все запущенные продукты с агрегатами их
// продаж за период заказов. Продукты без продаж входят в результат
// с нулевыми агрегатами.
func (r *PostgresRepository) LaunchPerformance(ctx context.Context, f report.Filter) ([]model.LaunchPerformanceRow, error) {
	q, err := report.Build(report.KindLaunchPerformance, f)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("launch performance query: %w", err)
	}
	defer rows.Close()

	var res []model.LaunchPerformanceRow
	for rows.Next() {
		var row model.LaunchPerformanceRow
		if err := rows.Scan(&row.SKU, &row.LaunchDate, &row.UnitsSold, &row.Revenue, &row.AvgPrice); err != nil {
			return nil, fmt.Errorf("scan launch performance: %w", err)
		}
		res = append(res, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// LaunchPeriod возвращает продукты, запущенные в выбранный период,
// с агрегатами всех их продаж.
func (r *PostgresRepository) LaunchPeriod(ctx context.Context, f report.Filter) ([]model.LaunchPeriodRow, error) {
	q, err := report.Build(report.KindLaunchPeriod, f)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("launch period query: %w", err)
	}
	defer rows.Close()

	var res []model.LaunchPeriodRow
	for rows.Next() {
		var row model.LaunchPeriodRow
		if err := rows.Scan(&row.SKU, &row.LaunchDate, &row.UnitsSold, &row.Revenue); err != nil {
			return nil, fmt.Errorf("scan launch period: %w", err)
		}
		res = append(res, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}
