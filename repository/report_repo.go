package repository

import (
	"context"
	"time"

	"milkledger/models"
	"milkledger/utils"
)

// ReportRepository assembles reports and dashboard views from stored entries.
type ReportRepository struct {
	MilkRepo MilkRepository
}

func NewReportRepository(milkRepo MilkRepository) *ReportRepository {
	return &ReportRepository{MilkRepo: milkRepo}
}

// BuildReport lists the matching entries oldest first and totals them.
func (r *ReportRepository) BuildReport(ctx context.Context, userID string, f models.ReportFilter) (*models.Report, error) {
	from, to := f.StartDate, f.EndDate
	rows, err := r.MilkRepo.ListEntries(ctx, models.MilkFilter{
		UserID:       userID,
		From:         &from,
		To:           &to,
		CustomerName: f.CustomerName,
		MilkType:     f.MilkType,
		Ascending:    true,
	})
	if err != nil {
		return nil, err
	}
	return &models.Report{
		Filter:      f,
		Rows:        rows,
		Totals:      utils.Totals(rows),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// MonthlySummary covers the calendar month containing day.
func (r *ReportRepository) MonthlySummary(ctx context.Context, userID string, day models.Date) (models.MonthlySummary, error) {
	start := models.NewDate(time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC))
	end := models.NewDate(start.AddDate(0, 1, -1))
	rows, err := r.MilkRepo.ListEntries(ctx, models.MilkFilter{
		UserID:    userID,
		From:      &start,
		To:        &end,
		Ascending: true,
	})
	if err != nil {
		return models.MonthlySummary{}, err
	}
	return utils.Monthly(start.Format("2006-01"), rows), nil
}

func (r *ReportRepository) DailySummary(ctx context.Context, userID string, day models.Date) (models.DailySummary, error) {
	rows, err := r.MilkRepo.ListEntries(ctx, models.MilkFilter{
		UserID: userID,
		From:   &day,
		To:     &day,
	})
	if err != nil {
		return models.DailySummary{}, err
	}
	return utils.Daily(day, rows), nil
}
