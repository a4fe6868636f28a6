package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/shaheen-020/pharmacy-backend/api/routes"
	"github.com/shaheen-020/pharmacy-backend/internal/categories"
	"github.com/shaheen-020/pharmacy-backend/internal/customers"
	"github.com/shaheen-020/pharmacy-backend/internal/dashboard"
	"github.com/shaheen-020/pharmacy-backend/internal/invoices"
	"github.com/shaheen-020/pharmacy-backend/internal/medicines"
	"github.com/shaheen-020/pharmacy-backend/internal/purchases"
	"github.com/shaheen-020/pharmacy-backend/internal/reports"
	"github.com/shaheen-020/pharmacy-backend/internal/stockledger"
	"github.com/shaheen-020/pharmacy-backend/internal/suppliers"
	"github.com/shaheen-020/pharmacy-backend/pkg/config"
	"github.com/shaheen-020/pharmacy-backend/pkg/db"
	"github.com/shaheen-020/pharmacy-backend/pkg/logger"
	"github.com/shaheen-020/pharmacy-backend/pkg/metrics"
	"github.com/shaheen-020/pharmacy-backend/pkg/migrate"
	"github.com/shaheen-020/pharmacy-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotency protection disabled")
	}

	gormDB := dbClient.DB()

	medicineRepo := medicines.NewRepository(gormDB)
	customerRepo := customers.NewRepository(gormDB)
	supplierRepo := suppliers.NewRepository(gormDB)
	categoryRepo := categories.NewRepository(gormDB)
	invoiceRepo := invoices.NewRepository(gormDB)
	purchaseRepo := purchases.NewRepository(gormDB)

	stockService := requireService(logg, "stock ledger", func() (stockledger.Service, error) {
		return stockledger.NewService(stockledger.NewRepository(gormDB))
	})
	medicineService := requireService(logg, "medicines", func() (medicines.Service, error) {
		return medicines.NewService(medicineRepo)
	})
	customerService := requireService(logg, "customers", func() (customers.Service, error) {
		return customers.NewService(customerRepo)
	})
	supplierService := requireService(logg, "suppliers", func() (suppliers.Service, error) {
		return suppliers.NewService(supplierRepo)
	})
	categoryService := requireService(logg, "categories", func() (categories.Service, error) {
		return categories.NewService(categoryRepo)
	})
	invoiceService := requireService(logg, "invoices", func() (invoices.Service, error) {
		return invoices.NewService(dbClient, invoiceRepo, stockService, customerRepo, medicineRepo, cfg.Sales.ConflictRetries)
	})
	purchaseService := requireService(logg, "purchases", func() (purchases.Service, error) {
		return purchases.NewService(dbClient, purchaseRepo, stockService, supplierRepo, medicineRepo)
	})
	dashboardService := requireService(logg, "dashboard", func() (dashboard.Service, error) {
		return dashboard.NewService(dashboard.NewRepository(gormDB), medicineService, medicineRepo, customerRepo, supplierRepo, dashboard.Config{
			LowStockThreshold:  cfg.Sales.LowStockThreshold,
			ExpiryWindowMonths: cfg.Sales.ExpiryWindowMonths,
		})
	})
	reportService := requireService(logg, "reports", func() (reports.Service, error) {
		return reports.NewService(reports.NewRepository(gormDB))
	})

	httpMetrics := metrics.NewHTTPMetrics()

	router := routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, routes.Services{
		Medicines:  medicineService,
		Customers:  customerService,
		Suppliers:  supplierService,
		Categories: categoryService,
		Invoices:   invoiceService,
		Purchases:  purchaseService,
		Dashboard:  dashboardService,
		Reports:    reportService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService[T any](logg *logger.Logger, name string, build func() (T, error)) T {
	svc, err := build()
	if err != nil {
		logg.Error(context.Background(), "failed to create "+name+" service", err)
		os.Exit(1)
	}
	return svc
}
