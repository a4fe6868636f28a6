package reports

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/shaheen-020/pharmacy-backend/pkg/errors"
)

// grossMarginRate estimates profit until per-item cost tracking exists.
var grossMarginRate = decimal.RequireFromString("0.3")

// SalesReport is a date-ranged sales summary with an estimated margin.
type SalesReport struct {
	From            time.Time       `json:"from"`
	To              time.Time       `json:"to"`
	Days            []DailySalesRow `json:"days"`
	InvoiceCount    int64           `json:"invoice_count"`
	GrossTotal      decimal.Decimal `json:"gross_total"`
	NetTotal        decimal.Decimal `json:"net_total"`
	EstimatedProfit decimal.Decimal `json:"estimated_profit"`
}

// PurchaseReport is a date-ranged purchasing summary.
type PurchaseReport struct {
	From          time.Time          `json:"from"`
	To            time.Time          `json:"to"`
	Days          []DailyPurchaseRow `json:"days"`
	PurchaseCount int64              `json:"purchase_count"`
	Total         decimal.Decimal    `json:"total"`
}

// ValuationReport prices the entire inventory at retail.
type ValuationReport struct {
	Items      []ValuationItem `json:"items"`
	TotalValue decimal.Decimal `json:"total_value"`
	TotalUnits int             `json:"total_units"`
}

// ValuationItem is one medicine's contribution to the valuation.
type ValuationItem struct {
	ValuationRow
	Value decimal.Decimal `json:"value"`
}

// ExpiryReport lists batches past or nearing expiry.
type ExpiryReport struct {
	Cutoff   time.Time   `json:"cutoff"`
	Expired  []ExpiryRow `json:"expired"`
	Expiring []ExpiryRow `json:"expiring"`
}

// StockCard reconstructs one medicine's movement history.
type StockCard struct {
	MedicineID     uuid.UUID       `json:"medicine_id"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance int             `json:"opening_balance"`
	ClosingBalance int             `json:"closing_balance"`
	Movements      []StockMovement `json:"movements"`
}

// StockMovement is one in or out entry with its running balance.
type StockMovement struct {
	Date      time.Time       `json:"date"`
	Direction string          `json:"direction"`
	Reference string          `json:"reference,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Balance   int             `json:"balance"`
}

// Service renders the reporting surface.
type Service interface {
	Sales(ctx context.Context, from, to time.Time, customerID *uuid.UUID) (*SalesReport, error)
	Purchases(ctx context.Context, from, to time.Time) (*PurchaseReport, error)
	Valuation(ctx context.Context) (*ValuationReport, error)
	Expiry(ctx context.Context, windowMonths int) (*ExpiryReport, error)
	StockCard(ctx context.Context, medicineID uuid.UUID, from, to time.Time) (*StockCard, error)
}

type service struct {
	repo Repository
}

// NewService wires a report service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("report repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Sales(ctx context.Context, from, to time.Time, customerID *uuid.UUID) (*SalesReport, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}

	days, err := s.repo.SalesByDay(ctx, from, to, customerID)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		From:       from,
		To:         to,
		Days:       days,
		GrossTotal: decimal.Zero,
		NetTotal:   decimal.Zero,
	}
	for _, day := range days {
		report.InvoiceCount += day.InvoiceCount
		report.GrossTotal = report.GrossTotal.Add(day.GrossTotal)
		report.NetTotal = report.NetTotal.Add(day.NetTotal)
	}
	report.EstimatedProfit = report.NetTotal.Mul(grossMarginRate).Round(2)
	return report, nil
}

func (s *service) Purchases(ctx context.Context, from, to time.Time) (*PurchaseReport, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}

	days, err := s.repo.PurchasesByDay(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &PurchaseReport{From: from, To: to, Days: days, Total: decimal.Zero}
	for _, day := range days {
		report.PurchaseCount += day.PurchaseCount
		report.Total = report.Total.Add(day.Total)
	}
	return report, nil
}

func (s *service) Valuation(ctx context.Context) (*ValuationReport, error) {
	rows, err := s.repo.Valuation(ctx)
	if err != nil {
		return nil, err
	}

	report := &ValuationReport{TotalValue: decimal.Zero, Items: make([]ValuationItem, 0, len(rows))}
	for _, row := range rows {
		value := row.Price.Mul(decimal.NewFromInt(int64(row.Quantity)))
		report.Items = append(report.Items, ValuationItem{ValuationRow: row, Value: value})
		report.TotalValue = report.TotalValue.Add(value)
		report.TotalUnits += row.Quantity
	}
	return report, nil
}

func (s *service) Expiry(ctx context.Context, windowMonths int) (*ExpiryReport, error) {
	if windowMonths <= 0 {
		windowMonths = 6
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	cutoff := today.AddDate(0, windowMonths, 0)

	rows, err := s.repo.ExpiringBatches(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	report := &ExpiryReport{Cutoff: cutoff}
	for _, row := range rows {
		if row.ExpiryDate != nil && row.ExpiryDate.Before(today) {
			report.Expired = append(report.Expired, row)
		} else {
			report.Expiring = append(report.Expiring, row)
		}
	}
	return report, nil
}

// StockCard replays purchases and sales for one medicine. The opening balance
// is derived backwards from the current on-hand total so the card closes on
// the number the shelves actually show.
func (s *service) StockCard(ctx context.Context, medicineID uuid.UUID, from, to time.Time) (*StockCard, error) {
	if medicineID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "medicine id is required")
	}
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.CurrentStock(ctx, medicineID)
	if err != nil {
		return nil, err
	}

	inflows, err := s.repo.PurchaseMovements(ctx, medicineID, from)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			inflows = nil
		} else {
			return nil, err
		}
	}
	outflows, err := s.repo.SaleMovements(ctx, medicineID, from)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			outflows = nil
		} else {
			return nil, err
		}
	}

	// Walk back from today's total to the balance at the window start.
	opening := current
	for _, row := range inflows {
		opening -= row.Quantity
	}
	for _, row := range outflows {
		opening += row.Quantity
	}

	movements := make([]StockMovement, 0, len(inflows)+len(outflows))
	for _, row := range inflows {
		if row.Date.After(to) {
			continue
		}
		movements = append(movements, StockMovement{
			Date:      row.Date,
			Direction: "in",
			Reference: row.Reference,
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
		})
	}
	for _, row := range outflows {
		if row.Date.After(to) {
			continue
		}
		movements = append(movements, StockMovement{
			Date:      row.Date,
			Direction: "out",
			Reference: row.Reference,
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
		})
	}
	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Date.Before(movements[j].Date)
	})

	balance := opening
	for i := range movements {
		if movements[i].Direction == "in" {
			balance += movements[i].Quantity
		} else {
			balance -= movements[i].Quantity
		}
		movements[i].Balance = balance
	}

	return &StockCard{
		MedicineID:     medicineID,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		ClosingBalance: balance,
		Movements:      movements,
	}, nil
}

func normalizeRange(from, to time.Time) (time.Time, time.Time, error) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.AddDate(0, -1, 0)
	}
	from = from.UTC().Truncate(24 * time.Hour)
	to = to.UTC().Truncate(24 * time.Hour)
	if from.After(to) {
		return time.Time{}, time.Time{}, apperrors.New(apperrors.CodeValidation, "from must not be after to")
	}
	return from, to, nil
}
