package utils

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"milkledger/models"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.New("report.html").Funcs(template.FuncMap{
	"money": func(v float64) string { return decimalString(v) },
}).ParseFS(templateFS, "templates/report.html"))

func decimalString(v float64) string {
	return money(v).StringFixed(2)
}

// BuildReportPDFData flattens a report into template rows.
func BuildReportPDFData(vendor string, report *models.Report) models.ReportPDFData {
	customer := report.Filter.CustomerName
	if customer == "" {
		customer = "All Customers"
	}
	shift := "All Types"
	if report.Filter.MilkType != "" {
		shift = shiftLabel(report.Filter.MilkType)
	}

	rows := make([]models.ReportPDFRow, 0, len(report.Rows))
	for _, e := range report.Rows {
		rows = append(rows, models.ReportPDFRow{
			Date:         e.Date.Format("02-Jan-2006"),
			CustomerName: e.CustomerName,
			Shift:        shiftLabel(e.MilkType),
			Liters:       e.Liters,
			Rate:         e.Rate,
			Amount:       e.Amount,
			CashReceived: e.CashReceived,
			CreditDue:    e.CreditDue,
		})
	}

	return models.ReportPDFData{
		Title:        "Milk Collection Report",
		Vendor:       vendor,
		DateRange:    report.Filter.StartDate.String() + " to " + report.Filter.EndDate.String(),
		CustomerName: customer,
		MilkType:     shift,
		Rows:         rows,
		Totals:       report.Totals,
		TotalWords:   NumberToCurrencyWords(report.Totals.TotalAmount),
		GeneratedAt:  report.GeneratedAt.Format("02-Jan-2006 15:04"),
	}
}

func shiftLabel(t models.MilkType) string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// RenderReportHTML executes the report template into a standalone page.
func RenderReportHTML(data models.ReportPDFData) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateReportPDF prints the rendered report to an A4 PDF with headless Chrome.
func GenerateReportPDF(ctx context.Context, data models.ReportPDFData) ([]byte, error) {
	html, err := RenderReportHTML(data)
	if err != nil {
		return nil, err
	}

	tmpHTML := filepath.Join(os.TempDir(), "milk_report_"+time.Now().Format("20060102150405.000000000")+".html")
	if err := os.WriteFile(tmpHTML, html, 0644); err != nil {
		return nil, err
	}
	defer os.Remove(tmpHTML)

	cctx, cancel := chromedp.NewContext(ctx)
	defer cancel()
	cctx, cancelTimeout := context.WithTimeout(cctx, 30*time.Second)
	defer cancelTimeout()

	var pdfBuf []byte
	err = chromedp.Run(cctx,
		chromedp.Navigate("file://"+tmpHTML),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}
