// Package service реализует бизнес-логику сервиса аналитики продаж.
package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"go.uber.org/zap"

	"github.com/emilaliyev17/analytics/internal/cache"
	"github.com/emilaliyev17/analytics/internal/model"
	"github.com/emilaliyev17/analytics/internal/report"
	"github.com/emilaliyev17/analytics/internal/repository"
	"github.com/emilaliyev17/analytics/internal/validation"
)

// ErrInvalidCredentials возвращается при любой неудачной попытке входа:
// неизвестное имя, неверный пароль и недоступность хранилища для
// вызывающего неразличимы.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidUserData возвращается при недопустимых полях формы добавления пользователя.
var ErrInvalidUserData = errors.New("invalid user data")

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	CreateUser(ctx context.Context, username, passwordHash string, role model.Role) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	Overview(ctx context.Context, f report.Filter) (*model.OverviewMetrics, error)
	BestSellers(ctx context.Context, f report.Filter) ([]model.ProductSales, error)
	LaunchPerformance(ctx context.Context, f report.Filter) ([]model.LaunchPerformanceRow, error)
	LaunchPeriod(ctx context.Context, f report.Filter) ([]model.LaunchPeriodRow, error)
}

// Service содержит бизнес-логику сервиса аналитики продаж.
type Service struct {
	repo   Repository
	cache  *cache.ReportCache
	logger *zap.Logger
}

// NewService создаёт новый сервис с указанным репозиторием и кешем отчётов.
func NewService(repo Repository, reportCache *cache.ReportCache, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  reportCache,
		logger: logger,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// HashPassword возвращает hex-представление SHA-256 от байтов пароля.
// Соль не используется: хранимый дайджест равен sha256(password).
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Authenticate проверяет имя и пароль пользователя. Любой сбой закрывает
// доступ: вызывающий получает ErrInvalidCredentials, но недоступность
// хранилища и несовпадение пароля различимы в логах.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Info("login rejected: unknown username", zap.String("username", username))
		} else {
			s.logger.Error("login rejected: credential lookup failed", zap.Error(err))
		}
		return nil, ErrInvalidCredentials
	}

	submitted := HashPassword(password)
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(u.PasswordHash)) != 1 {
		s.logger.Info("login rejected: password mismatch", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// AddUser создаёт новую учётную запись. Поля проверяются на непустоту,
// роль — на принадлежность двум допустимым значениям; дубликат имени
// поднимается как repository.ErrUserExists.
func (s *Service) AddUser(ctx context.Context, username, password string, role model.Role) error {
	if !validation.IsValidUsername(username) || !validation.IsValidPassword(password) || !role.Valid() {
		return ErrInvalidUserData
	}

	return s.repo.CreateUser(ctx, username, HashPassword(password), role)
}

// ListUsers возвращает все учётные записи. Хеши паролей не покидают репозиторий.
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

// Overview возвращает сводные показатели продаж за период, используя кеш отчётов.
func (s *Service) Overview(ctx context.Context, f report.Filter) (*model.OverviewMetrics, error) {
	f = f.Normalize()
	key := report.CacheKey(report.KindOverview, f)

	if v, ok := s.cache.Get(key); ok {
		return v.(*model.OverviewMetrics), nil
	}

	m, err := s.repo.Overview(ctx, f)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, m)
	return m, nil
}

// BestSellers возвращает 20 лучших SKU по выручке, используя кеш отчётов.
func (s *Service) BestSellers(ctx context.Context, f report.Filter) ([]model.ProductSales, error) {
	f = f.Normalize()
	key := report.CacheKey(report.KindBestSellers, f)

	if v, ok := s.cache.Get(key); ok {
		return v.([]model.ProductSales), nil
	}

	rows, err := s.repo.BestSellers(ctx, f)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, rows)
	return rows, nil
}

// LaunchPerformance возвращает продажи всех запущенных продуктов за период,
// используя кеш отчётов.
func (s *Service) LaunchPerformance(ctx context.Context, f report.Filter) ([]model.LaunchPerformanceRow, error) {
	f = f.Normalize()
	key := report.CacheKey(report.KindLaunchPerformance, f)

	if v, ok := s.cache.Get(key); ok {
		return v.([]model.LaunchPerformanceRow), nil
	}

	rows, err := s.repo.LaunchPerformance(ctx, f)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, rows)
	return rows, nil
}

// LaunchPeriod возвращает продукты, запущенные в выбранный период,
// используя кеш отчётов.
func (s *Service) LaunchPeriod(ctx context.Context, f report.Filter) ([]model.LaunchPeriodRow, error) {
	f = f.Normalize()
	key := report.CacheKey(report.KindLaunchPeriod, f)

	if v, ok := s.cache.Get(key); ok {
		return v.([]model.LaunchPeriodRow), nil
	}

	rows, err := s.repo.LaunchPeriod(ctx, f)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, rows)
	return rows, nil
}
