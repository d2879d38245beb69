package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"milkledger/handlers"
)

type Handlers struct {
	Auth     *handlers.AuthMiddleware
	User     *handlers.UserHandler
	Admin    *handlers.AdminHandler
	Customer *handlers.CustomerHandler
	Milk     *handlers.MilkHandler
	Report   *handlers.ReportHandler
	Health   *handlers.HealthHandler
}

// SetupRoutes builds the API mux. Metrics go to a private registry so
// several routers can coexist in one process.
func SetupRoutes(h Handlers, corsOrigins []string) http.Handler {
	mux := http.NewServeMux()
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := newHTTPMetrics(reg)

	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, handlers.RecoverWrapper(fn))
	}
	authed := h.Auth.RequireAuth
	admin := h.Auth.RequireAdmin

	// User routes
	handle("POST /api/user/register", h.User.Register)
	handle("POST /api/user/login", h.User.Login)
	handle("POST /api/user/logout", authed(h.User.Logout))
	handle("GET /api/user/me", authed(h.User.Me))

	// Customer routes
	handle("GET /api/customers", authed(h.Customer.ListCustomers))
	handle("POST /api/customers", authed(h.Customer.CreateCustomer))
	handle("DELETE /api/customers/{id}", authed(h.Customer.DeleteCustomer))

	// Milk routes
	handle("POST /api/milk", authed(h.Milk.CreateEntry))
	handle("GET /api/milk", authed(h.Milk.ListEntries))
	handle("GET /api/milk/daily-data", authed(h.Milk.DailyData))
	handle("GET /api/milk/monthly-data", authed(h.Milk.MonthlyData))
	handle("GET /api/milk/summary", authed(h.Milk.Summary))
	handle("GET /api/milk/{id}", authed(h.Milk.GetEntry))
	handle("PUT /api/milk/{id}", authed(h.Milk.UpdateEntry))
	handle("DELETE /api/milk/{id}", authed(h.Milk.DeleteEntry))

	// Report routes
	handle("GET /api/reports", authed(h.Report.GetReport))
	handle("GET /api/reports/pdf", authed(h.Report.ReportPDF))

	// Admin routes
	handle("GET /api/users", admin(h.Admin.ListUsers))
	handle("PATCH /api/users/{id}/status", admin(h.Admin.UpdateStatus))
	handle("PATCH /api/users/{id}/role", admin(h.Admin.UpdateRole))
	handle("GET /api/stats", admin(h.Admin.Stats))

	handle("GET /health", h.Health.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return withCORS(corsOrigins, metrics.instrument(mux))
}
