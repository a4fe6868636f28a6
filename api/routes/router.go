package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shaheen-020/pharmacy-backend/api/controllers"
	"github.com/shaheen-020/pharmacy-backend/api/middleware"
	"github.com/shaheen-020/pharmacy-backend/internal/categories"
	"github.com/shaheen-020/pharmacy-backend/internal/customers"
	"github.com/shaheen-020/pharmacy-backend/internal/dashboard"
	"github.com/shaheen-020/pharmacy-backend/internal/invoices"
	"github.com/shaheen-020/pharmacy-backend/internal/medicines"
	"github.com/shaheen-020/pharmacy-backend/internal/purchases"
	"github.com/shaheen-020/pharmacy-backend/internal/reports"
	"github.com/shaheen-020/pharmacy-backend/internal/suppliers"
	"github.com/shaheen-020/pharmacy-backend/pkg/config"
	"github.com/shaheen-020/pharmacy-backend/pkg/logger"
	"github.com/shaheen-020/pharmacy-backend/pkg/metrics"
	pkgredis "github.com/shaheen-020/pharmacy-backend/pkg/redis"
)

type Services struct {
	Medicines  medicines.Service
	Customers  customers.Service
	Suppliers  suppliers.Service
	Categories categories.Service
	Invoices   invoices.Service
	Purchases  purchases.Service
	Dashboard  dashboard.Service
	Reports    reports.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisClient *pkgredis.Client,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App),
		middleware.ActorContext,
	)

	readiness := map[string]controllers.Pinger{"database": dbPinger}
	if redisClient != nil {
		readiness["redis"] = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, readiness))
	})

	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	adminOnly := middleware.RequireRole(logg, middleware.RoleAdmin)

	var idempotent func(http.Handler) http.Handler
	if redisClient != nil {
		idempotent = middleware.Idempotency(redisClient, logg)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/medicines", func(r chi.Router) {
			r.Post("/", controllers.CreateMedicine(svcs.Medicines, logg))
			r.Get("/", controllers.ListMedicines(svcs.Medicines, logg))
			r.Get("/low-stock", controllers.LowStockMedicines(svcs.Medicines, logg, cfg.Sales.LowStockThreshold))
			r.Get("/{id}", controllers.GetMedicine(svcs.Medicines, logg))
			r.Put("/{id}", controllers.UpdateMedicine(svcs.Medicines, logg))
			r.With(adminOnly).Delete("/{id}", controllers.DeleteMedicine(svcs.Medicines, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.CreateCustomer(svcs.Customers, logg))
			r.Get("/", controllers.ListCustomers(svcs.Customers, logg))
			r.Get("/{id}", controllers.GetCustomer(svcs.Customers, logg))
			r.Put("/{id}", controllers.UpdateCustomer(svcs.Customers, logg))
			r.With(adminOnly).Delete("/{id}", controllers.DeleteCustomer(svcs.Customers, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Post("/", controllers.CreateSupplier(svcs.Suppliers, logg))
			r.Get("/", controllers.ListSuppliers(svcs.Suppliers, logg))
			r.Get("/{id}", controllers.GetSupplier(svcs.Suppliers, logg))
			r.Put("/{id}", controllers.UpdateSupplier(svcs.Suppliers, logg))
			r.With(adminOnly).Delete("/{id}", controllers.DeleteSupplier(svcs.Suppliers, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.CreateCategory(svcs.Categories, logg))
			r.Get("/", controllers.ListCategories(svcs.Categories, logg))
			r.Get("/{id}", controllers.GetCategory(svcs.Categories, logg))
			r.Put("/{id}", controllers.UpdateCategory(svcs.Categories, logg))
			r.With(adminOnly).Delete("/{id}", controllers.DeleteCategory(svcs.Categories, logg))
		})

		r.Route("/invoices", func(r chi.Router) {
			if idempotent != nil {
				r.With(idempotent).Post("/", controllers.CreateSale(svcs.Invoices, logg))
			} else {
				r.Post("/", controllers.CreateSale(svcs.Invoices, logg))
			}
			r.Get("/", controllers.ListInvoices(svcs.Invoices, logg))
			r.Get("/{id}", controllers.GetInvoice(svcs.Invoices, logg))
			r.With(adminOnly).Delete("/{id}", controllers.DeleteInvoice(svcs.Invoices, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			if idempotent != nil {
				r.With(idempotent).Post("/", controllers.CreatePurchase(svcs.Purchases, logg))
			} else {
				r.Post("/", controllers.CreatePurchase(svcs.Purchases, logg))
			}
			r.Get("/", controllers.ListPurchases(svcs.Purchases, logg))
			r.Get("/{id}", controllers.GetPurchase(svcs.Purchases, logg))
			r.With(adminOnly).Delete("/{id}", controllers.DeletePurchase(svcs.Purchases, logg))
		})

		r.Get("/dashboard", controllers.DashboardSummary(svcs.Dashboard, logg))

		r.Route("/reports", func(r chi.Router) {
			r.Get("/sales", controllers.SalesReport(svcs.Reports, logg))
			r.Get("/purchases", controllers.PurchaseReport(svcs.Reports, logg))
			r.Get("/valuation", controllers.ValuationReport(svcs.Reports, logg))
			r.Get("/expiry", controllers.ExpiryReport(svcs.Reports, logg, cfg.Sales.ExpiryWindowMonths))
			r.Get("/stock-card", controllers.StockCardReport(svcs.Reports, logg))
		})
	})

	return r
}
