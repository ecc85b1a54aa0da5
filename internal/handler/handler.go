// Package handler содержит HTTP-обработчики API сервиса аналитики продаж.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/emilaliyev17/analytics/internal/middleware"
	"github.com/emilaliyev17/analytics/internal/model"
	"github.com/emilaliyev17/analytics/internal/render"
	"github.com/emilaliyev17/analytics/internal/report"
	"github.com/emilaliyev17/analytics/internal/repository"
	"github.com/emilaliyev17/analytics/internal/service"
)

const dateLayout = "2006-01-02"

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	AddUser(ctx context.Context, username, password string, role model.Role) error
	ListUsers(ctx context.Context) ([]model.User, error)
	Overview(ctx context.Context, f report.Filter) (*model.OverviewMetrics, error)
	BestSellers(ctx context.Context, f report.Filter) ([]model.ProductSales, error)
	LaunchPerformance(ctx context.Context, f report.Filter) ([]model.LaunchPerformanceRow, error)
	LaunchPeriod(ctx context.Context, f report.Filter) ([]model.LaunchPeriodRow, error)
}

// Handler реализует HTTP-обработчики API сервиса аналитики продаж.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login выполняет аутентификацию пользователя и установку сессионной cookie.
// Сообщение об ошибке одинаково для неизвестного имени и неверного пароля.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	u, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		http.Error(w, "invalid username or password", http.StatusUnauthorized)
		return
	}

	h.authMiddleware.SetSessionCookie(w, u.Username, u.Role)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(loginResponse{
		Username: u.Username,
		Role:     string(u.Role),
	}); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
}

// Logout завершает сессию пользователя, уничтожая сессионную cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authMiddleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func parseFilter(values url.Values) (report.Filter, error) {
	var f report.Filter

	fields := []struct {
		name string
		dst  *time.Time
	}{
		{"start", &f.Start},
		{"end", &f.End},
		{"launch_start", &f.LaunchStart},
		{"launch_end", &f.LaunchEnd},
	}

	for _, field := range fields {
		raw := values.Get(field.name)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return report.Filter{}, err
		}
		*field.dst = parsed
	}

	return f, nil
}

type overviewResponse struct {
	Kind    string `json:"kind"`
	Metrics struct {
		TotalSKUs    int64  `json:"total_skus"`
		TotalUnits   int64  `json:"total_units"`
		TotalRevenue string `json:"total_revenue"`
	} `json:"metrics"`
	Formatted struct {
		TotalSKUs    string `json:"total_skus"`
		TotalUnits   string `json:"total_units"`
		TotalRevenue string `json:"total_revenue"`
	} `json:"formatted"`
}

type productSalesResponse struct {
	MasterSKU       string `json:"master_sku"`
	UnitsSold       int64  `json:"units_sold"`
	Revenue         string `json:"revenue"`
	AvgPrice        string `json:"avg_price"`
	RevenueDisplay  string `json:"revenue_display"`
	AvgPriceDisplay string `json:"avg_price_display"`
}

type launchPerformanceRowResponse struct {
	SKU            string `json:"sku"`
	LaunchDate     string `json:"launch_date"`
	UnitsSold      int64  `json:"total_units_sold"`
	Revenue        string `json:"total_revenue"`
	AvgPrice       string `json:"average_price"`
	RevenueDisplay string `json:"total_revenue_display"`
}

type launchPerformanceSummaryResponse struct {
	TotalProducts        int `json:"total_products"`
	ProductsWithSales    int `json:"products_with_sales"`
	ProductsWithoutSales int `json:"products_without_sales"`
}

type launchPerformanceResponse struct {
	Kind    string                           `json:"kind"`
	Rows    []launchPerformanceRowResponse   `json:"rows"`
	Summary launchPerformanceSummaryResponse `json:"summary"`
}

type launchPeriodRowResponse struct {
	SKU            string `json:"sku"`
	LaunchDate     string `json:"launch_date"`
	UnitsSold      int64  `json:"units_sold"`
	Revenue        string `json:"revenue"`
	RevenueDisplay string `json:"revenue_display"`
}

type launchPeriodSummaryResponse struct {
	ProductsLaunched  int    `json:"products_launched"`
	TotalUnits        string `json:"total_units"`
	TotalRevenue      string `json:"total_revenue"`
	AvgRevenuePerItem string `json:"avg_revenue_per_product"`
}

type launchPeriodResponse struct {
	Kind    string                      `json:"kind"`
	Rows    []launchPeriodRowResponse   `json:"rows"`
	Summary launchPeriodSummaryResponse `json:"summary"`
}

// GetReport строит выбранный отчёт за указанный период.
// Сбой запроса фатален для текущего отчёта: ошибка возвращается
// клиенту, повторных попыток нет.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	kind, err := report.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f, err := parseFilter(r.URL.Query())
	if err != nil {
		http.Error(w, "invalid date format, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	switch kind {
	case report.KindOverview:
		h.overviewReport(w, r, f)
	case report.KindBestSellers:
		h.bestSellersReport(w, r, f)
	case report.KindLaunchPerformance:
		h.launchPerformanceReport(w, r, f)
	case report.KindLaunchPeriod:
		h.launchPeriodReport(w, r, f)
	default:
		http.Error(w, report.ErrNotImplemented.Error(), http.StatusNotImplemented)
	}
}

func (h *Handler) overviewReport(w http.ResponseWriter, r *http.Request, f report.Filter) {
	m, err := h.service.Overview(r.Context(), f)
	if err != nil {
		h.logger.Error("overview report error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var resp overviewResponse
	resp.Kind = string(report.KindOverview)
	resp.Metrics.TotalSKUs = m.TotalSKUs
	resp.Metrics.TotalUnits = m.TotalUnits
	resp.Metrics.TotalRevenue = m.TotalRevenue.StringFixed(2)
	resp.Formatted.TotalSKUs = render.Int(m.TotalSKUs)
	resp.Formatted.TotalUnits = render.Int(m.TotalUnits)
	resp.Formatted.TotalRevenue = render.Currency(m.TotalRevenue)

	h.writeJSON(w, resp)
}

func (h *Handler) bestSellersReport(w http.ResponseWriter, r *http.Request, f report.Filter) {
	rows, err := h.service.BestSellers(r.Context(), f)
	if err != nil {
		h.logger.Error("best sellers report error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := struct {
		Kind string                 `json:"kind"`
		Rows []productSalesResponse `json:"rows"`
	}{Kind: string(report.KindBestSellers), Rows: make([]productSalesResponse, 0, len(rows))}

	for _, row := range rows {
		resp.Rows = append(resp.Rows, productSalesResponse{
			MasterSKU:       row.MasterSKU,
			UnitsSold:       row.UnitsSold,
			Revenue:         row.Revenue.StringFixed(2),
			AvgPrice:        row.AvgPrice.StringFixed(2),
			RevenueDisplay:  render.Currency(row.Revenue),
			AvgPriceDisplay: render.Currency(row.AvgPrice),
		})
	}

	h.writeJSON(w, resp)
}

func (h *Handler) launchPerformanceReport(w http.ResponseWriter, r *http.Request, f report.Filter) {
	rows, err := h.service.LaunchPerformance(r.Context(), f)
	if err != nil {
		h.logger.Error("launch performance report error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var resp launchPerformanceResponse
	resp.Kind = string(report.KindLaunchPerformance)
	resp.Rows = make([]launchPerformanceRowResponse, 0, len(rows))

	for _, row := range rows {
		resp.Rows = append(resp.Rows, launchPerformanceRowResponse{
			SKU:            row.SKU,
			LaunchDate:     row.LaunchDate.Format(dateLayout),
			UnitsSold:      row.UnitsSold,
			Revenue:        row.Revenue.StringFixed(2),
			AvgPrice:       row.AvgPrice.StringFixed(2),
			RevenueDisplay: render.Currency(row.Revenue),
		})
	}

	summary := render.SummarizeLaunchPerformance(rows)
	resp.Summary.TotalProducts = summary.TotalProducts
	resp.Summary.ProductsWithSales = summary.ProductsWithSales
	resp.Summary.ProductsWithoutSales = summary.ProductsWithoutSales

	h.writeJSON(w, resp)
}

func (h *Handler) launchPeriodReport(w http.ResponseWriter, r *http.Request, f report.Filter) {
	rows, err := h.service.LaunchPeriod(r.Context(), f)
	if err != nil {
		h.logger.Error("launch period report error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var resp launchPeriodResponse
	resp.Kind = string(report.KindLaunchPeriod)
	resp.Rows = make([]launchPeriodRowResponse, 0, len(rows))

	for _, row := range rows {
		resp.Rows = append(resp.Rows, launchPeriodRowResponse{
			SKU:            row.SKU,
			LaunchDate:     row.LaunchDate.Format(dateLayout),
			UnitsSold:      row.UnitsSold,
			Revenue:        row.Revenue.StringFixed(2),
			RevenueDisplay: render.Currency(row.Revenue),
		})
	}

	summary := render.SummarizeLaunchPeriod(rows)
	resp.Summary.ProductsLaunched = summary.ProductsLaunched
	resp.Summary.TotalUnits = render.Int(summary.TotalUnits)
	resp.Summary.TotalRevenue = render.Currency(summary.TotalRevenue)
	resp.Summary.AvgRevenuePerItem = render.Currency(summary.AvgRevenuePerItem)

	h.writeJSON(w, resp)
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser добавляет новую учётную запись. Доступно только администратору.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	err := h.service.AddUser(r.Context(), req.Username, req.Password, model.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUserData):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, repository.ErrUserExists):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			h.logger.Error("create user error", zap.Error(err), zap.String("username", req.Username))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
}

type userResponse struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// ListUsers возвращает все учётные записи. Хеши паролей не отображаются.
// Доступно только администратору.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userResponse{
			Username:  u.Username,
			Role:      string(u.Role),
			CreatedAt: u.CreatedAt.Format(time.RFC3339),
		})
	}

	h.writeJSON(w, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
