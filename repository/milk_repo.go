package repository

import (
	"context"

	"milkledger/models"
)

// MilkStats are store-wide figures for the admin panel.
type MilkStats struct {
	Entries     int
	TotalSales  float64
	TotalCredit float64
}

type MilkRepository interface {
	CreateEntry(ctx context.Context, e *models.MilkEntry) error
	GetEntry(ctx context.Context, userID, id string) (*models.MilkEntry, error)
	ListEntries(ctx context.Context, f models.MilkFilter) ([]*models.MilkEntry, error)
	// UpdateEntry rewrites the mutable fields of an entry owned by e.UserID.
	UpdateEntry(ctx context.Context, e *models.MilkEntry) error
	DeleteEntry(ctx context.Context, userID, id string) (*models.MilkEntry, error)
	Stats(ctx context.Context) (MilkStats, error)
}
