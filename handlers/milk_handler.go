package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"milkledger/models"
	"milkledger/repository"
	"milkledger/utils"
)

type MilkHandler struct {
	Repo      repository.MilkRepository
	Customers repository.CustomerRepository
	Reports   *repository.ReportRepository
}

// milkInput is the body of create and update requests. Pointers tell
// missing fields apart from zero values.
type milkInput struct {
	CustomerName *string      `json:"customerName"`
	MilkType     *string      `json:"milkType"`
	Liters       *float64     `json:"liters"`
	Rate         *float64     `json:"rate"`
	CashReceived *float64     `json:"cashReceived"`
	CreditDue    *float64     `json:"creditDue"`
	Date         *models.Date `json:"date"`
}

var allowedUpdates = map[string]bool{
	"customerName": true,
	"milkType":     true,
	"liters":       true,
	"rate":         true,
	"cashReceived": true,
	"creditDue":    true,
	"date":         true,
}

var errMissingFields = errors.New("Missing required fields")

// apply validates in and writes the reconciled values into e.
func (in milkInput) apply(e *models.MilkEntry) error {
	if in.CustomerName == nil || strings.TrimSpace(*in.CustomerName) == "" ||
		in.MilkType == nil || *in.MilkType == "" || in.Liters == nil || in.Rate == nil {
		return errMissingFields
	}
	milkType := models.MilkType(*in.MilkType)
	if !milkType.Valid() {
		return errors.New("Invalid milk type")
	}
	split, err := utils.Reconcile(*in.Liters, *in.Rate, in.CashReceived, in.CreditDue)
	if err != nil {
		return err
	}

	e.CustomerName = strings.TrimSpace(*in.CustomerName)
	e.MilkType = milkType
	e.Liters = split.Liters
	e.Rate = split.Rate
	e.Amount = split.Amount
	e.CashReceived = split.CashReceived
	e.CreditDue = split.CreditDue
	if in.Date != nil && !in.Date.IsZero() {
		e.Date = *in.Date
	}
	return nil
}

func (h *MilkHandler) linkCustomer(r *http.Request, e *models.MilkEntry) error {
	c, err := ensureCustomer(r.Context(), h.Customers, e.UserID, e.CustomerName)
	if err != nil {
		return err
	}
	e.CustomerID = &c.ID
	return nil
}

func (h *MilkHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var in milkInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	e := &models.MilkEntry{UserID: UserFromContext(r.Context()).ID, Date: models.Today()}
	if err := in.apply(e); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.linkCustomer(r, e); err != nil {
		writeStoreError(w, r, err)
		return
	}
	if err := h.Repo.CreateEntry(r.Context(), e); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// parseDateParam returns nil when the parameter is absent.
func parseDateParam(r *http.Request, name string) (*models.Date, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	d, err := models.ParseDate(v)
	if err != nil {
		return nil, errors.New("Invalid " + name + ": expected YYYY-MM-DD")
	}
	return &d, nil
}

func parseMilkType(r *http.Request) (models.MilkType, error) {
	t := models.MilkType(r.URL.Query().Get("milkType"))
	if t != "" && !t.Valid() {
		return "", errors.New("Invalid milk type")
	}
	return t, nil
}

func (h *MilkHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseDateParam(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	milkType, err := parseMilkType(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.Repo.ListEntries(r.Context(), models.MilkFilter{
		UserID:       UserFromContext(r.Context()).ID,
		From:         from,
		To:           to,
		CustomerName: strings.TrimSpace(r.URL.Query().Get("customerName")),
		MilkType:     milkType,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// DailyData lists the entries of one day, or every entry when no date is given.
func (h *MilkHandler) DailyData(w http.ResponseWriter, r *http.Request) {
	day, err := parseDateParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := h.Repo.ListEntries(r.Context(), models.MilkFilter{
		UserID: UserFromContext(r.Context()).ID,
		From:   day,
		To:     day,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *MilkHandler) MonthlyData(w http.ResponseWriter, r *http.Request) {
	day := models.Today()
	if v := r.URL.Query().Get("month"); v != "" {
		t, err := time.Parse("2006-01", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month: expected YYYY-MM")
			return
		}
		day = models.NewDate(t)
	}
	summary, err := h.Reports.MonthlySummary(r.Context(), UserFromContext(r.Context()).ID, day)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *MilkHandler) Summary(w http.ResponseWriter, r *http.Request) {
	day, err := parseDateParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if day == nil {
		today := models.Today()
		day = &today
	}
	summary, err := h.Reports.DailySummary(r.Context(), UserFromContext(r.Context()).ID, *day)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *MilkHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.Repo.GetEntry(r.Context(), UserFromContext(r.Context()).ID, r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if e == nil {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *MilkHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for key := range raw {
		if !allowedUpdates[key] {
			writeError(w, http.StatusBadRequest, "Invalid updates!")
			return
		}
	}
	// re-marshalling a map of raw messages cannot fail
	body, _ := json.Marshal(raw)
	var in milkInput
	if err := json.Unmarshal(body, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	userID := UserFromContext(r.Context()).ID
	e, err := h.Repo.GetEntry(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if e == nil {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}
	if err := in.apply(e); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.linkCustomer(r, e); err != nil {
		writeStoreError(w, r, err)
		return
	}
	if err := h.Repo.UpdateEntry(r.Context(), e); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Entry not found")
			return
		}
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *MilkHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.Repo.DeleteEntry(r.Context(), UserFromContext(r.Context()).ID, r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}
