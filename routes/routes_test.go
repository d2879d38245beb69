package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"milkledger/auth"
	"milkledger/config"
	"milkledger/handlers"
	"milkledger/models"
	"milkledger/repository"
)

type fakeUploader struct {
	uploaded []string
}

func (f *fakeUploader) Upload(_ context.Context, _ []byte, filename string) (string, error) {
	f.uploaded = append(f.uploaded, filename)
	return "https://cdn.example.com/" + filename, nil
}

type testAPI struct {
	t        *testing.T
	handler  http.Handler
	store    *repository.Store
	uploader *fakeUploader
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	auth.HashCost = 4

	dir := t.TempDir()
	store, err := repository.OpenStore(&config.Config{
		DBType:     config.DBSQLite,
		SQLitePath: filepath.Join(dir, "api.db"),
	})
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	uploader := &fakeUploader{}
	h := SetupRoutes(Handlers{
		Auth:     &handlers.AuthMiddleware{JWT: jwtManager, Users: store.Users},
		User:     &handlers.UserHandler{Repo: store.Users, JWT: jwtManager},
		Admin:    &handlers.AdminHandler{Users: store.Users, Customers: store.Customers, Milk: store.Milk},
		Customer: &handlers.CustomerHandler{Repo: store.Customers},
		Milk:     &handlers.MilkHandler{Repo: store.Milk, Customers: store.Customers, Reports: store.Reports},
		Report: &handlers.ReportHandler{
			Repo:     store.Reports,
			SavePath: filepath.Join(dir, "pdfs"),
			Uploader: uploader,
			RenderPDF: func(_ context.Context, data models.ReportPDFData) ([]byte, error) {
				return []byte("%PDF-1.4 " + data.DateRange), nil
			},
		},
		Health: &handlers.HealthHandler{DB: store.Conn},
	}, []string{"http://localhost:3000"})

	return &testAPI{t: t, handler: h, store: store, uploader: uploader}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, want, rec.Body.String())
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	expectStatus(t, rec, status)
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	decode(t, rec, &body)
	if body.Success || body.Error != msg {
		t.Errorf("error = %q, want %q", body.Error, msg)
	}
}

func (a *testAPI) register(username string) (string, *models.AppUser) {
	a.t.Helper()
	rec := a.do("POST", "/api/user/register", "", map[string]string{
		"name":     strings.ToUpper(username[:1]) + username[1:],
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	expectStatus(a.t, rec, http.StatusCreated)
	var resp struct {
		Success bool            `json:"success"`
		User    *models.AppUser `json:"user"`
		Token   string          `json:"token"`
	}
	decode(a.t, rec, &resp)
	if !resp.Success || resp.Token == "" || resp.User == nil {
		a.t.Fatalf("bad register response: %s", rec.Body.String())
	}
	return resp.Token, resp.User
}

func TestUserRoutes(t *testing.T) {
	api := newTestAPI(t)
	token, user := api.register("ravi")

	t.Run("register normalizes and hides password", func(t *testing.T) {
		rec := api.do("POST", "/api/user/register", "", map[string]string{
			"name": "Sita", "username": "SITA", "email": "Sita@Example.com", "password": "secret123",
		})
		expectStatus(t, rec, http.StatusCreated)
		if strings.Contains(rec.Body.String(), "password") {
			t.Error("response leaks password field")
		}
		var resp struct {
			User models.AppUser `json:"user"`
		}
		decode(t, rec, &resp)
		if resp.User.Email != "sita@example.com" || resp.User.Username != "sita" {
			t.Errorf("not lowercased: %+v", resp.User)
		}
		if resp.User.Role != models.RoleUser || !resp.User.IsActive {
			t.Errorf("unexpected defaults: %+v", resp.User)
		}
	})

	t.Run("register validation", func(t *testing.T) {
		tests := []struct {
			name string
			body map[string]string
			want string
		}{
			{"missing field", map[string]string{"name": "A", "email": "a@example.com", "password": "secret123"}, "All fields are required"},
			{"bad email", map[string]string{"name": "A", "username": "a", "email": "not-an-email", "password": "secret123"}, "Invalid email address"},
			{"short password", map[string]string{"name": "A", "username": "a", "email": "a@example.com", "password": "12345"}, auth.ErrWeakPassword.Error()},
			{"long password", map[string]string{"name": "A", "username": "a", "email": "a@example.com", "password": strings.Repeat("x", 80)}, auth.ErrPasswordTooLong.Error()},
			{"duplicate email", map[string]string{"name": "A", "username": "other", "email": "RAVI@example.com", "password": "secret123"}, "User with this email or username already exists"},
			{"duplicate username", map[string]string{"name": "A", "username": "Ravi", "email": "x@example.com", "password": "secret123"}, "User with this email or username already exists"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				expectError(t, api.do("POST", "/api/user/register", "", tt.body), http.StatusBadRequest, tt.want)
			})
		}
	})

	t.Run("login", func(t *testing.T) {
		expectError(t, api.do("POST", "/api/user/login", "", map[string]string{"email": "ravi@example.com"}),
			http.StatusBadRequest, "Email and password are required")
		expectError(t, api.do("POST", "/api/user/login", "", map[string]string{"email": "ravi@example.com", "password": "wrong-pass"}),
			http.StatusUnauthorized, "Invalid credentials")
		expectError(t, api.do("POST", "/api/user/login", "", map[string]string{"email": "nobody@example.com", "password": "secret123"}),
			http.StatusUnauthorized, "Invalid credentials")

		rec := api.do("POST", "/api/user/login", "", map[string]string{"email": "RAVI@example.com", "password": "secret123"})
		expectStatus(t, rec, http.StatusOK)
		var resp struct {
			Message string `json:"message"`
			Token   string `json:"token"`
		}
		decode(t, rec, &resp)
		if resp.Message != "Login successful" || resp.Token == "" {
			t.Errorf("unexpected login response: %s", rec.Body.String())
		}
	})

	t.Run("auth middleware", func(t *testing.T) {
		expectError(t, api.do("GET", "/api/user/me", "", nil), http.StatusUnauthorized, "No Authorization header found")

		req := httptest.NewRequest("GET", "/api/user/me", nil)
		req.Header.Set("Authorization", "Bearer ")
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, req)
		expectError(t, rec, http.StatusUnauthorized, "Invalid token format")

		expectError(t, api.do("GET", "/api/user/me", "garbage", nil), http.StatusUnauthorized, "Invalid token")

		expired, err := auth.NewJWTManager("test-secret", -time.Minute).Generate(user)
		if err != nil {
			t.Fatal(err)
		}
		rec = api.do("GET", "/api/user/me", expired, nil)
		expectStatus(t, rec, http.StatusUnauthorized)
		if !strings.Contains(rec.Body.String(), "Your session has expired. Please login again.") {
			t.Errorf("expected session expiry message, got %s", rec.Body.String())
		}

		ghost, err := auth.NewJWTManager("test-secret", time.Hour).Generate(&models.AppUser{ID: "ghost"})
		if err != nil {
			t.Fatal(err)
		}
		expectError(t, api.do("GET", "/api/user/me", ghost, nil), http.StatusUnauthorized, "User not found")
	})

	t.Run("me and logout", func(t *testing.T) {
		rec := api.do("GET", "/api/user/me", token, nil)
		expectStatus(t, rec, http.StatusOK)
		var resp struct {
			User models.AppUser `json:"user"`
		}
		decode(t, rec, &resp)
		if resp.User.ID != user.ID {
			t.Errorf("me returned %+v", resp.User)
		}
		expectStatus(t, api.do("POST", "/api/user/logout", token, nil), http.StatusOK)
	})
}

func TestCustomerRoutes(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("ravi")
	otherToken, _ := api.register("sita")

	rec := api.do("POST", "/api/customers", token, map[string]string{"name": "  Mohan  "})
	expectStatus(t, rec, http.StatusCreated)
	var c models.Customer
	decode(t, rec, &c)
	if c.Name != "Mohan" || c.ID == "" {
		t.Errorf("unexpected customer: %+v", c)
	}

	expectError(t, api.do("POST", "/api/customers", token, map[string]string{"name": "Mohan"}),
		http.StatusBadRequest, "Customer already exists")
	expectError(t, api.do("POST", "/api/customers", token, map[string]string{"name": "   "}),
		http.StatusBadRequest, "Customer name is required")
	expectStatus(t, api.do("POST", "/api/customers", token, map[string]string{"name": "Anil"}), http.StatusCreated)

	rec = api.do("GET", "/api/customers", token, nil)
	expectStatus(t, rec, http.StatusOK)
	var list []models.Customer
	decode(t, rec, &list)
	if len(list) != 2 || list[0].Name != "Anil" {
		t.Errorf("unexpected list: %+v", list)
	}

	expectError(t, api.do("DELETE", "/api/customers/"+c.ID, otherToken, nil), http.StatusNotFound, "Customer not found")
	expectStatus(t, api.do("DELETE", "/api/customers/"+c.ID, token, nil), http.StatusOK)
	expectError(t, api.do("DELETE", "/api/customers/"+c.ID, token, nil), http.StatusNotFound, "Customer not found")
}

func createEntry(t *testing.T, api *testAPI, token string, body map[string]interface{}) models.MilkEntry {
	t.Helper()
	rec := api.do("POST", "/api/milk", token, body)
	expectStatus(t, rec, http.StatusCreated)
	var e models.MilkEntry
	decode(t, rec, &e)
	return e
}

func TestMilkRoutes(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("ravi")
	otherToken, _ := api.register("sita")

	first := createEntry(t, api, token, map[string]interface{}{
		"customerName": "Mohan", "milkType": "morning", "liters": 10, "rate": 45.5,
		"cashReceived": 200, "date": "2024-03-01",
	})

	t.Run("create computes split and links customer", func(t *testing.T) {
		if first.Amount != 455 || first.CashReceived != 200 || first.CreditDue != 255 {
			t.Errorf("unexpected split: %+v", first)
		}
		if first.CustomerID == nil {
			t.Fatal("expected customer link")
		}
		rec := api.do("GET", "/api/customers", token, nil)
		var list []models.Customer
		decode(t, rec, &list)
		if len(list) != 1 || list[0].Name != "Mohan" || list[0].ID != *first.CustomerID {
			t.Errorf("customer not auto-created: %+v", list)
		}

		again := createEntry(t, api, token, map[string]interface{}{
			"customerName": "Mohan", "milkType": "evening", "liters": 2, "rate": 50, "date": "2024-03-01",
		})
		if again.CustomerID == nil || *again.CustomerID != *first.CustomerID {
			t.Error("second entry should reuse the customer")
		}
		if again.CreditDue != 100 || again.CashReceived != 0 {
			t.Errorf("default split should be all credit: %+v", again)
		}
	})

	t.Run("create defaults date to today", func(t *testing.T) {
		e := createEntry(t, api, token, map[string]interface{}{
			"customerName": "Anil", "milkType": "morning", "liters": 1, "rate": 50, "cashReceived": 50,
		})
		if e.Date.String() != models.Today().String() {
			t.Errorf("date = %s, want today", e.Date)
		}
	})

	t.Run("create validation", func(t *testing.T) {
		tests := []struct {
			name string
			body map[string]interface{}
			want string
		}{
			{"missing liters", map[string]interface{}{"customerName": "A", "milkType": "morning", "rate": 50}, "Missing required fields"},
			{"bad shift", map[string]interface{}{"customerName": "A", "milkType": "night", "liters": 1, "rate": 50}, "Invalid milk type"},
			{"zero liters", map[string]interface{}{"customerName": "A", "milkType": "morning", "liters": 0, "rate": 50}, "liters must be a positive number"},
			{"cash too high", map[string]interface{}{"customerName": "A", "milkType": "morning", "liters": 1, "rate": 50, "cashReceived": 60}, "cash received cannot exceed the total amount"},
			{"split mismatch", map[string]interface{}{"customerName": "A", "milkType": "morning", "liters": 1, "rate": 50, "cashReceived": 10, "creditDue": 10}, "cash received and credit due must add up to the total amount"},
			{"huge liters", map[string]interface{}{"customerName": "A", "milkType": "morning", "liters": 1e200, "rate": 50}, "liters exceeds the maximum allowed value"},
			{"huge rate", map[string]interface{}{"customerName": "A", "milkType": "morning", "liters": 1, "rate": 1e200}, "rate exceeds the maximum allowed value"},
			{"amount too large", map[string]interface{}{"customerName": "A", "milkType": "morning", "liters": 1e6, "rate": 1e4}, "total amount exceeds the maximum allowed value"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				expectError(t, api.do("POST", "/api/milk", token, tt.body), http.StatusBadRequest, tt.want)
			})
		}
	})

	t.Run("list filters", func(t *testing.T) {
		var entries []models.MilkEntry
		rec := api.do("GET", "/api/milk?startDate=2024-03-01&endDate=2024-03-01&milkType=morning", token, nil)
		expectStatus(t, rec, http.StatusOK)
		decode(t, rec, &entries)
		if len(entries) != 1 || entries[0].ID != first.ID {
			t.Errorf("unexpected entries: %+v", entries)
		}

		rec = api.do("GET", "/api/milk?customerName=Mohan", token, nil)
		decode(t, rec, &entries)
		if len(entries) != 2 {
			t.Errorf("expected 2 entries for Mohan, got %d", len(entries))
		}

		rec = api.do("GET", "/api/milk", otherToken, nil)
		decode(t, rec, &entries)
		if len(entries) != 0 {
			t.Errorf("other user sees %d entries", len(entries))
		}

		expectError(t, api.do("GET", "/api/milk?startDate=yesterday", token, nil),
			http.StatusBadRequest, "Invalid startDate: expected YYYY-MM-DD")
		expectError(t, api.do("GET", "/api/milk?milkType=night", token, nil), http.StatusBadRequest, "Invalid milk type")
	})

	t.Run("daily data", func(t *testing.T) {
		var entries []models.MilkEntry
		decode(t, api.do("GET", "/api/milk/daily-data?date=2024-03-01", token, nil), &entries)
		if len(entries) != 2 {
			t.Errorf("expected 2 entries on 2024-03-01, got %d", len(entries))
		}
		decode(t, api.do("GET", "/api/milk/daily-data", token, nil), &entries)
		if len(entries) != 3 {
			t.Errorf("expected every entry without a date, got %d", len(entries))
		}
	})

	t.Run("monthly data and summary", func(t *testing.T) {
		rec := api.do("GET", "/api/milk/monthly-data?month=2024-03", token, nil)
		expectStatus(t, rec, http.StatusOK)
		var m models.MonthlySummary
		decode(t, rec, &m)
		if m.Month != "2024-03" || m.TotalMilkSold != 12 || m.CreditDue != 355 || len(m.Dates) != 1 {
			t.Errorf("unexpected monthly summary: %+v", m)
		}
		expectError(t, api.do("GET", "/api/milk/monthly-data?month=March", token, nil),
			http.StatusBadRequest, "Invalid month: expected YYYY-MM")

		rec = api.do("GET", "/api/milk/summary?date=2024-03-01", token, nil)
		expectStatus(t, rec, http.StatusOK)
		var d models.DailySummary
		decode(t, rec, &d)
		if d.Totals.Entries != 2 || d.Morning.Liters != 10 || d.Evening.Liters != 2 || d.Customers != 1 {
			t.Errorf("unexpected daily summary: %+v", d)
		}
	})

	t.Run("get update delete", func(t *testing.T) {
		path := "/api/milk/" + first.ID
		expectStatus(t, api.do("GET", path, token, nil), http.StatusOK)
		expectError(t, api.do("GET", path, otherToken, nil), http.StatusNotFound, "Entry not found")

		expectError(t, api.do("PUT", path, token, map[string]interface{}{
			"customerName": "Mohan", "milkType": "morning", "liters": 10, "rate": 45.5, "userId": "x",
		}), http.StatusBadRequest, "Invalid updates!")
		expectError(t, api.do("PUT", path, token, map[string]interface{}{"liters": 5}),
			http.StatusBadRequest, "Missing required fields")
		expectError(t, api.do("PUT", path, otherToken, map[string]interface{}{
			"customerName": "Mohan", "milkType": "morning", "liters": 10, "rate": 45.5,
		}), http.StatusNotFound, "Entry not found")

		rec := api.do("PUT", path, token, map[string]interface{}{
			"customerName": "Gopal", "milkType": "evening", "liters": 4, "rate": 50, "creditDue": 50,
		})
		expectStatus(t, rec, http.StatusOK)
		var e models.MilkEntry
		decode(t, rec, &e)
		if e.CustomerName != "Gopal" || e.Amount != 200 || e.CashReceived != 150 || e.CreditDue != 50 {
			t.Errorf("unexpected update: %+v", e)
		}
		if e.Date.String() != "2024-03-01" {
			t.Errorf("date should be kept when omitted, got %s", e.Date)
		}
		if e.CustomerID == nil || *e.CustomerID == *first.CustomerID {
			t.Error("renamed entry should link to the new customer")
		}

		expectError(t, api.do("DELETE", path, otherToken, nil), http.StatusNotFound, "Entry not found")
		expectStatus(t, api.do("DELETE", path, token, nil), http.StatusOK)
		expectError(t, api.do("GET", path, token, nil), http.StatusNotFound, "Entry not found")
	})
}

func TestReportRoutes(t *testing.T) {
	api := newTestAPI(t)
	token, ravi := api.register("ravi")
	createEntry(t, api, token, map[string]interface{}{
		"customerName": "Mohan", "milkType": "morning", "liters": 10, "rate": 45.5, "cashReceived": 200, "date": "2024-03-02",
	})
	createEntry(t, api, token, map[string]interface{}{
		"customerName": "Anil", "milkType": "evening", "liters": 2, "rate": 50, "date": "2024-03-01",
	})

	t.Run("validation", func(t *testing.T) {
		expectError(t, api.do("GET", "/api/reports?startDate=2024-03-01", token, nil),
			http.StatusBadRequest, "startDate and endDate are required")
		expectError(t, api.do("GET", "/api/reports?startDate=2024-03-05&endDate=2024-03-01", token, nil),
			http.StatusBadRequest, "startDate must not be after endDate")
	})

	t.Run("json report", func(t *testing.T) {
		rec := api.do("GET", "/api/reports?startDate=2024-03-01&endDate=2024-03-31", token, nil)
		expectStatus(t, rec, http.StatusOK)
		var report models.Report
		decode(t, rec, &report)
		if len(report.Rows) != 2 || report.Rows[0].CustomerName != "Anil" {
			t.Errorf("rows should be oldest first: %+v", report.Rows)
		}
		if report.Totals.TotalAmount != 555 || report.Totals.CreditDue != 355 || report.Totals.Liters != 12 {
			t.Errorf("unexpected totals: %+v", report.Totals)
		}
	})

	t.Run("pdf stream", func(t *testing.T) {
		rec := api.do("GET", "/api/reports/pdf?startDate=2024-03-01&endDate=2024-03-31", token, nil)
		expectStatus(t, rec, http.StatusOK)
		if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("content type = %q", ct)
		}
		if !strings.HasPrefix(rec.Body.String(), "%PDF-1.4 2024-03-01 to 2024-03-31") {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("pdf upload", func(t *testing.T) {
		rec := api.do("GET", "/api/reports/pdf?startDate=2024-03-01&endDate=2024-03-31&upload=true", token, nil)
		expectStatus(t, rec, http.StatusOK)
		var resp struct {
			Success bool   `json:"success"`
			File    string `json:"file"`
			URL     string `json:"url"`
		}
		decode(t, rec, &resp)
		if !resp.Success || resp.URL != "https://cdn.example.com/"+resp.File || len(api.uploader.uploaded) != 1 {
			t.Errorf("unexpected upload response: %s", rec.Body.String())
		}
	})

	t.Run("upload keys per user", func(t *testing.T) {
		otherToken, sita := api.register("sita")
		createEntry(t, api, otherToken, map[string]interface{}{
			"customerName": "Mohan", "milkType": "morning", "liters": 1, "rate": 50, "date": "2024-03-02",
		})
		before := len(api.uploader.uploaded)
		const path = "/api/reports/pdf?startDate=2024-03-01&endDate=2024-03-31&upload=true"
		expectStatus(t, api.do("GET", path, token, nil), http.StatusOK)
		expectStatus(t, api.do("GET", path, otherToken, nil), http.StatusOK)
		expectStatus(t, api.do("GET", path, token, nil), http.StatusOK)

		keys := api.uploader.uploaded[before:]
		if len(keys) != 3 {
			t.Fatalf("expected 3 uploads, got %v", keys)
		}
		seen := map[string]bool{}
		for _, k := range keys {
			if seen[k] {
				t.Errorf("duplicate upload key %s", k)
			}
			seen[k] = true
		}
		if !strings.Contains(keys[0], ravi.ID) || !strings.Contains(keys[1], sita.ID) || !strings.Contains(keys[2], ravi.ID) {
			t.Errorf("keys not scoped to their users: %v", keys)
		}
	})

	t.Run("pdf without rows", func(t *testing.T) {
		expectError(t, api.do("GET", "/api/reports/pdf?startDate=2024-01-01&endDate=2024-01-31", token, nil),
			http.StatusNotFound, "No data to generate PDF")
	})
}

func TestAdminRoutes(t *testing.T) {
	api := newTestAPI(t)
	adminToken, admin := api.register("ravi")
	userToken, user := api.register("sita")
	ctx := context.Background()
	if _, err := api.store.Users.UpdateUserRole(ctx, admin.ID, models.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	createEntry(t, api, userToken, map[string]interface{}{
		"customerName": "Mohan", "milkType": "morning", "liters": 2, "rate": 50, "cashReceived": 40,
	})

	expectError(t, api.do("GET", "/api/users", userToken, nil), http.StatusForbidden, "Forbidden")

	rec := api.do("GET", "/api/users", adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var users []models.AppUser
	decode(t, rec, &users)
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}

	rec = api.do("GET", "/api/stats", adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var stats models.SystemStats
	decode(t, rec, &stats)
	want := models.SystemStats{TotalUsers: 2, TotalCustomers: 1, TotalMilkEntries: 1, TotalSales: 100, TotalCredit: 60}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}

	expectError(t, api.do("PATCH", "/api/users/"+admin.ID+"/status", adminToken, map[string]bool{"isActive": false}),
		http.StatusBadRequest, "You cannot disable your own account")
	expectError(t, api.do("PATCH", "/api/users/"+user.ID+"/role", adminToken, map[string]string{"role": "owner"}),
		http.StatusBadRequest, "Role must be user or admin")
	expectError(t, api.do("PATCH", "/api/users/"+admin.ID+"/role", adminToken, map[string]string{"role": "user"}),
		http.StatusBadRequest, "You cannot remove your own admin role")
	expectStatus(t, api.do("PATCH", "/api/users/"+admin.ID+"/role", adminToken, map[string]string{"role": "admin"}), http.StatusOK)
	expectError(t, api.do("PATCH", "/api/users/missing/status", adminToken, map[string]bool{"isActive": false}),
		http.StatusNotFound, "User not found")

	expectStatus(t, api.do("PATCH", "/api/users/"+user.ID+"/status", adminToken, map[string]bool{"isActive": false}), http.StatusOK)
	expectError(t, api.do("GET", "/api/milk", userToken, nil), http.StatusForbidden, "Account disabled")
	expectError(t, api.do("POST", "/api/user/login", "", map[string]string{"email": "sita@example.com", "password": "secret123"}),
		http.StatusForbidden, "Account is disabled")

	expectStatus(t, api.do("PATCH", "/api/users/"+user.ID+"/role", adminToken, map[string]string{"role": "admin"}), http.StatusOK)
}

func TestOperationalRoutes(t *testing.T) {
	api := newTestAPI(t)

	t.Run("health", func(t *testing.T) {
		rec := api.do("GET", "/health", "", nil)
		expectStatus(t, rec, http.StatusOK)
		if !strings.Contains(rec.Body.String(), `"ok"`) {
			t.Errorf("unexpected health body: %s", rec.Body.String())
		}
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/milk", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, req)
		expectStatus(t, rec, http.StatusNoContent)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("allow origin = %q", got)
		}

		req = httptest.NewRequest(http.MethodOptions, "/api/milk", nil)
		req.Header.Set("Origin", "http://evil.example.com")
		rec = httptest.NewRecorder()
		api.handler.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("unexpected allow origin %q for unknown origin", got)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		api.do("GET", "/health", "", nil)
		rec := api.do("GET", "/metrics", "", nil)
		expectStatus(t, rec, http.StatusOK)
		body := rec.Body.String()
		if !strings.Contains(body, `http_requests_total{method="GET",route="GET /health",status="200"}`) {
			t.Errorf("request counter missing from metrics output")
		}
		if !strings.Contains(body, "http_request_duration_seconds_bucket") {
			t.Errorf("latency histogram missing from metrics output")
		}
	})
}
