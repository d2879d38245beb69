package utils

import (
	"errors"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"milkledger/models"
)

var (
	ErrNonPositiveLiters = errors.New("liters must be a positive number")
	ErrNonPositiveRate   = errors.New("rate must be a positive number")
	ErrNegativeCash      = errors.New("cash received must be a non-negative number")
	ErrNegativeCredit    = errors.New("credit due must be a non-negative number")
	ErrCashExceedsAmount = errors.New("cash received cannot exceed the total amount")
	ErrCreditExceeds     = errors.New("credit due cannot exceed the total amount")
	ErrSplitMismatch     = errors.New("cash received and credit due must add up to the total amount")
	ErrNotFinite         = errors.New("liters, rate, cash received and credit due must be finite numbers")
	ErrLitersTooLarge    = errors.New("liters exceeds the maximum allowed value")
	ErrRateTooLarge      = errors.New("rate exceeds the maximum allowed value")
	ErrAmountTooLarge    = errors.New("total amount exceeds the maximum allowed value")
)

// Upper bounds (exclusive) that fit the NUMERIC(10,2) and NUMERIC(12,2)
// columns of milk_entry.
const (
	MaxLiters = 1e8
	MaxRate   = 1e8
	MaxAmount = 1e10
)

// Split is the payment breakdown of one sale. Liters and Rate are rounded to
// the two decimal places the store keeps and Amount is computed from them.
type Split struct {
	Liters       float64
	Rate         float64
	Amount       float64
	CashReceived float64
	CreditDue    float64
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Reconcile computes amount = liters*rate and fills in whichever side of the
// cash/credit split was not supplied. When both are supplied they must add up
// to the amount.
func Reconcile(liters, rate float64, cash, credit *float64) (Split, error) {
	if !finite(liters) || !finite(rate) || (cash != nil && !finite(*cash)) || (credit != nil && !finite(*credit)) {
		return Split{}, ErrNotFinite
	}
	if liters >= MaxLiters {
		return Split{}, ErrLitersTooLarge
	}
	if rate >= MaxRate {
		return Split{}, ErrRateTooLarge
	}

	l, r := money(liters), money(rate)
	if !l.IsPositive() {
		return Split{}, ErrNonPositiveLiters
	}
	if !r.IsPositive() {
		return Split{}, ErrNonPositiveRate
	}
	if cash != nil && *cash < 0 {
		return Split{}, ErrNegativeCash
	}
	if credit != nil && *credit < 0 {
		return Split{}, ErrNegativeCredit
	}

	amount := l.Mul(r).Round(2)
	if amount.GreaterThanOrEqual(decimal.NewFromFloat(MaxAmount)) {
		return Split{}, ErrAmountTooLarge
	}

	var c, d decimal.Decimal
	switch {
	case cash == nil && credit == nil:
		c, d = decimal.Zero, amount
	case credit == nil:
		c = money(*cash)
		if c.GreaterThan(amount) {
			return Split{}, ErrCashExceedsAmount
		}
		d = amount.Sub(c)
	case cash == nil:
		d = money(*credit)
		if d.GreaterThan(amount) {
			return Split{}, ErrCreditExceeds
		}
		c = amount.Sub(d)
	default:
		c, d = money(*cash), money(*credit)
		if !c.Add(d).Equal(amount) {
			return Split{}, ErrSplitMismatch
		}
	}

	return Split{
		Liters:       l.InexactFloat64(),
		Rate:         r.InexactFloat64(),
		Amount:       amount.InexactFloat64(),
		CashReceived: c.InexactFloat64(),
		CreditDue:    d.InexactFloat64(),
	}, nil
}

type totalsAcc struct {
	entries               int
	liters, amount        decimal.Decimal
	cashReceived, credits decimal.Decimal
}

func (a *totalsAcc) add(e *models.MilkEntry) {
	a.entries++
	a.liters = a.liters.Add(decimal.NewFromFloat(e.Liters))
	a.amount = a.amount.Add(decimal.NewFromFloat(e.Amount))
	a.cashReceived = a.cashReceived.Add(decimal.NewFromFloat(e.CashReceived))
	a.credits = a.credits.Add(decimal.NewFromFloat(e.CreditDue))
}

func (a *totalsAcc) totals() models.ReportTotals {
	return models.ReportTotals{
		Entries:      a.entries,
		Liters:       a.liters.Round(2).InexactFloat64(),
		TotalAmount:  a.amount.Round(2).InexactFloat64(),
		CashReceived: a.cashReceived.Round(2).InexactFloat64(),
		CreditDue:    a.credits.Round(2).InexactFloat64(),
	}
}

// Totals sums a set of entries.
func Totals(entries []*models.MilkEntry) models.ReportTotals {
	var acc totalsAcc
	for _, e := range entries {
		acc.add(e)
	}
	return acc.totals()
}

// Monthly builds the dashboard overview for month (YYYY-MM): overall totals
// plus one series point per delivery date, oldest first.
func Monthly(month string, entries []*models.MilkEntry) models.MonthlySummary {
	byDay := make(map[string]*totalsAcc)
	var all totalsAcc
	for _, e := range entries {
		all.add(e)
		key := e.Date.String()
		acc, ok := byDay[key]
		if !ok {
			acc = &totalsAcc{}
			byDay[key] = acc
		}
		acc.add(e)
	}

	dates := make([]string, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	t := all.totals()
	out := models.MonthlySummary{
		Month:         month,
		CashReceived:  t.CashReceived,
		CreditDue:     t.CreditDue,
		TotalMilkSold: t.Liters,
		TotalAmount:   t.TotalAmount,
		Dates:         dates,
		Series: models.MonthlySeries{
			CashReceived:  make([]float64, len(dates)),
			CreditDue:     make([]float64, len(dates)),
			TotalMilkSold: make([]float64, len(dates)),
		},
	}
	for i, d := range dates {
		dt := byDay[d].totals()
		out.Series.CashReceived[i] = dt.CashReceived
		out.Series.CreditDue[i] = dt.CreditDue
		out.Series.TotalMilkSold[i] = dt.Liters
	}
	return out
}

// Daily summarises one day's deliveries, split by shift.
func Daily(day models.Date, entries []*models.MilkEntry) models.DailySummary {
	var all totalsAcc
	var morning, evening totalsAcc
	customers := make(map[string]struct{})
	for _, e := range entries {
		all.add(e)
		if e.MilkType == models.Morning {
			morning.add(e)
		} else {
			evening.add(e)
		}
		customers[e.CustomerName] = struct{}{}
	}
	m, ev := morning.totals(), evening.totals()
	return models.DailySummary{
		Date:      day,
		Totals:    all.totals(),
		Morning:   models.ShiftTotals{Liters: m.Liters, Amount: m.TotalAmount},
		Evening:   models.ShiftTotals{Liters: ev.Liters, Amount: ev.TotalAmount},
		Customers: len(customers),
	}
}
