package models

import "time"

type ReportTotals struct {
	Entries      int     `json:"entries" bson:"entries"`
	Liters       float64 `json:"liters" bson:"liters"`
	TotalAmount  float64 `json:"totalAmount" bson:"total_amount"`
	CashReceived float64 `json:"cashReceived" bson:"cash_received"`
	CreditDue    float64 `json:"creditDue" bson:"credit_due"`
}

type ReportFilter struct {
	StartDate    Date     `json:"startDate"`
	EndDate      Date     `json:"endDate"`
	CustomerName string   `json:"customerName,omitempty"`
	MilkType     MilkType `json:"milkType,omitempty"`
}

type Report struct {
	Filter      ReportFilter `json:"filter"`
	Rows        []*MilkEntry `json:"rows"`
	Totals      ReportTotals `json:"totals"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

type MonthlySeries struct {
	CashReceived  []float64 `json:"cashReceived"`
	CreditDue     []float64 `json:"creditDue"`
	TotalMilkSold []float64 `json:"totalMilkSold"`
}

type MonthlySummary struct {
	Month         string        `json:"month"`
	CashReceived  float64       `json:"cashReceived"`
	CreditDue     float64       `json:"creditDue"`
	TotalMilkSold float64       `json:"totalMilkSold"`
	TotalAmount   float64       `json:"totalAmount"`
	Dates         []string      `json:"dates"`
	Series        MonthlySeries `json:"series"`
}

type ShiftTotals struct {
	Liters float64 `json:"liters"`
	Amount float64 `json:"amount"`
}

type DailySummary struct {
	Date      Date         `json:"date"`
	Totals    ReportTotals `json:"totals"`
	Morning   ShiftTotals  `json:"morning"`
	Evening   ShiftTotals  `json:"evening"`
	Customers int          `json:"customers"`
}

type SystemStats struct {
	TotalUsers       int     `json:"totalUsers"`
	TotalCustomers   int     `json:"totalCustomers"`
	TotalMilkEntries int     `json:"totalMilkEntries"`
	TotalSales       float64 `json:"totalSales"`
	TotalCredit      float64 `json:"totalCredit"`
}
