package models

// ReportPDFData feeds the report PDF template.
type ReportPDFData struct {
	Title        string
	Vendor       string
	DateRange    string
	CustomerName string
	MilkType     string
	Rows         []ReportPDFRow
	Totals       ReportTotals
	TotalWords   string
	GeneratedAt  string
}

type ReportPDFRow struct {
	Date         string
	CustomerName string
	Shift        string
	Liters       float64
	Rate         float64
	Amount       float64
	CashReceived float64
	CreditDue    float64
}
