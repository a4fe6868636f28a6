package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shaheen-020/pharmacy-backend/internal/medicines"
)

type counter interface {
	Count(ctx context.Context) (int64, error)
}

// Summary is the landing-page snapshot.
type Summary struct {
	TotalMedicines    int64                   `json:"total_medicines"`
	TotalCustomers    int64                   `json:"total_customers"`
	TotalSuppliers    int64                   `json:"total_suppliers"`
	TodaySalesCount   int64                   `json:"today_sales_count"`
	TodaySalesTotal   decimal.Decimal         `json:"today_sales_total"`
	ExpiringSoonCount int64                   `json:"expiring_soon_count"`
	ExpiredCount      int64                   `json:"expired_count"`
	LowStock          []medicines.MedicineDTO `json:"low_stock"`
}

// Service assembles the dashboard summary.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	repo              Repository
	medicines         medicines.Service
	medicineCount     counter
	customerCount     counter
	supplierCount     counter
	lowStockThreshold int
	expiryWindow      time.Duration
}

// Config carries the report thresholds the dashboard shares with the config layer.
type Config struct {
	LowStockThreshold  int
	ExpiryWindowMonths int
}

// NewService builds the dashboard service.
func NewService(
	repo Repository,
	medicineSvc medicines.Service,
	medicineCount counter,
	customerCount counter,
	supplierCount counter,
	cfg Config,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	if medicineSvc == nil {
		return nil, fmt.Errorf("medicine service required")
	}
	if medicineCount == nil || customerCount == nil || supplierCount == nil {
		return nil, fmt.Errorf("counters required")
	}
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = 10
	}
	if cfg.ExpiryWindowMonths <= 0 {
		cfg.ExpiryWindowMonths = 6
	}
	return &service{
		repo:              repo,
		medicines:         medicineSvc,
		medicineCount:     medicineCount,
		customerCount:     customerCount,
		supplierCount:     supplierCount,
		lowStockThreshold: cfg.LowStockThreshold,
		expiryWindow:      time.Duration(cfg.ExpiryWindowMonths) * 30 * 24 * time.Hour,
	}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	summary := &Summary{TodaySalesTotal: decimal.Zero}

	var err error
	if summary.TotalMedicines, err = s.medicineCount.Count(ctx); err != nil {
		return nil, err
	}
	if summary.TotalCustomers, err = s.customerCount.Count(ctx); err != nil {
		return nil, err
	}
	if summary.TotalSuppliers, err = s.supplierCount.Count(ctx); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if summary.TodaySalesCount, summary.TodaySalesTotal, err = s.repo.SalesOnDay(ctx, now); err != nil {
		return nil, err
	}
	if summary.ExpiringSoonCount, err = s.repo.ExpiringBatchCount(ctx, now.Add(s.expiryWindow)); err != nil {
		return nil, err
	}
	if summary.ExpiredCount, err = s.repo.ExpiredBatchCount(ctx, now); err != nil {
		return nil, err
	}

	if summary.LowStock, err = s.medicines.LowStock(ctx, s.lowStockThreshold); err != nil {
		return nil, err
	}
	return summary, nil
}
