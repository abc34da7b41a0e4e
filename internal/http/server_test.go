package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kassa/internal/core"
	"kassa/internal/report"
	"kassa/internal/services"
	"kassa/internal/session"
	"kassa/internal/store/memory"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	st := memory.New()
	sessions := session.NewManager(map[string]string{"treasurer@example.com": "secret"}, time.Hour)
	srv := NewServer(":0", services.NewLedgerService(st, nil), st, sessions, report.New(""))
	srv.now = func() time.Time { return time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC) }
	ts := httptest.NewServer(srv.Server.Handler)
	t.Cleanup(ts.Close)
	return srv, ts
}

func do(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func signIn(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := do(t, http.MethodPost, ts.URL+"/api/session", "",
		`{"email":"treasurer@example.com","password":"secret"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sign in status %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Token == "" {
		t.Fatalf("empty token")
	}
	return out.Token
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	_, ts := newTestServer(t)
	for _, path := range []string{"/api/transactions", "/api/members", "/api/summary", "/api/report"} {
		resp := do(t, http.MethodGet, ts.URL+path, "", "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: status %d, want 401", path, resp.StatusCode)
		}
	}
}

func TestSignInRejected(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/api/session", "",
		`{"email":"treasurer@example.com","password":"wrong"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", resp.StatusCode)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	_, ts := newTestServer(t)
	token := signIn(t, ts)

	resp := do(t, http.MethodPost, ts.URL+"/api/transactions", token,
		`{"type":"income","category":"Tithe","amount":"100","description":"weekly","date":"2025-06-08"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d", resp.StatusCode)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()

	resp = do(t, http.MethodGet, ts.URL+"/api/transactions", token, "")
	var txs []core.Transaction
	if err := json.NewDecoder(resp.Body).Decode(&txs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if len(txs) != 1 || txs[0].ID != created.ID {
		t.Fatalf("list: %+v", txs)
	}
	if txs[0].CreatedBy != "treasurer@example.com" {
		t.Fatalf("created by not stamped: %+v", txs[0])
	}

	resp = do(t, http.MethodDelete, ts.URL+"/api/transactions/"+created.ID, token, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status %d", resp.StatusCode)
	}

	resp = do(t, http.MethodDelete, ts.URL+"/api/transactions/"+created.ID, token, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status %d, want 404", resp.StatusCode)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	_, ts := newTestServer(t)
	token := signIn(t, ts)

	cases := []string{
		`{"type":"transfer","category":"Tithe","amount":"10","description":"x"}`,
		`{"type":"income","category":"NotACategory","amount":"10","description":"x"}`,
		`{"type":"expense","category":"Tithe","amount":"10","description":"x"}`,
		`{"type":"income","category":"Tithe","amount":"-10","description":"x"}`,
		`{"type":"income","category":"Tithe","amount":"ten","description":"x"}`,
	}
	for i, body := range cases {
		resp := do(t, http.MethodPost, ts.URL+"/api/transactions", token, body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("case %d: status %d, want 400", i, resp.StatusCode)
		}
	}
}

// Length caps are validation failures, not server errors.
func TestCreateRejectsOverlongInput(t *testing.T) {
	_, ts := newTestServer(t)
	token := signIn(t, ts)

	longDesc := strings.Repeat("x", 201)
	resp := do(t, http.MethodPost, ts.URL+"/api/transactions", token,
		`{"type":"income","category":"Tithe","amount":"10","description":"`+longDesc+`"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("transaction status %d, want 400", resp.StatusCode)
	}

	longName := strings.Repeat("y", 101)
	resp = do(t, http.MethodPost, ts.URL+"/api/members", token,
		`{"name":"`+longName+`"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("member status %d, want 400", resp.StatusCode)
	}
}

// An expense never carries a member attribution, whatever the client sends.
func TestExpenseDropsMemberReference(t *testing.T) {
	_, ts := newTestServer(t)
	token := signIn(t, ts)

	resp := do(t, http.MethodPost, ts.URL+"/api/transactions", token,
		`{"type":"expense","category":"Rent","amount":"40","description":"rent","memberId":"m1"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/transactions", token, "")
	var txs []core.Transaction
	if err := json.NewDecoder(resp.Body).Decode(&txs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if txs[0].MemberID != "" {
		t.Fatalf("member reference kept on expense: %+v", txs[0])
	}
}

// Date defaults to the current day when omitted.
func TestCreateTransactionDefaultsDate(t *testing.T) {
	_, ts := newTestServer(t)
	token := signIn(t, ts)

	resp := do(t, http.MethodPost, ts.URL+"/api/transactions", token,
		`{"type":"income","category":"Offering","amount":"5","description":"x"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/transactions", token, "")
	var txs []core.Transaction
	if err := json.NewDecoder(resp.Body).Decode(&txs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if txs[0].Date != "2025-06-09" {
		t.Fatalf("date: %q", txs[0].Date)
	}
}

func TestSummary(t *testing.T) {
	_, ts := newTestServer(t)
	token := signIn(t, ts)

	resp := do(t, http.MethodPost, ts.URL+"/api/members", token, `{"name":"Anna"}`)
	var member struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&member); err != nil {
		t.Fatalf("decode member: %v", err)
	}
	resp.Body.Close()

	do(t, http.MethodPost, ts.URL+"/api/transactions", token,
		`{"type":"income","category":"Tithe","amount":"100","description":"t","memberId":"`+member.ID+`"}`).Body.Close()
	do(t, http.MethodPost, ts.URL+"/api/transactions", token,
		`{"type":"expense","category":"Rent","amount":"40","description":"r"}`).Body.Close()

	resp = do(t, http.MethodGet, ts.URL+"/api/summary", token, "")
	var view core.DerivedView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	resp.Body.Close()

	if view.TotalIncome != 100 || view.TotalExpense != 40 || view.Balance != 60 {
		t.Fatalf("totals: %+v", view)
	}
	if view.GeneratedBy != "treasurer@example.com" {
		t.Fatalf("identity: %q", view.GeneratedBy)
	}
	if len(view.Members) != 1 || view.Members[0].Total != 100 {
		t.Fatalf("member stats: %+v", view.Members)
	}
}

func TestReportDownload(t *testing.T) {
	_, ts := newTestServer(t)
	token := signIn(t, ts)

	do(t, http.MethodPost, ts.URL+"/api/transactions", token,
		`{"type":"expense","category":"Rent","amount":"40","description":"rent","date":"2025-06-01"}`).Body.Close()

	resp := do(t, http.MethodGet, ts.URL+"/api/report", token, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "Budget_Full_2025-06-09.txt") {
		t.Fatalf("content disposition %q", cd)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.HasPrefix(string(body), "FULL BUDGET REPORT") {
		t.Fatalf("report body:\n%s", body)
	}
}

func TestSignOutInvalidatesToken(t *testing.T) {
	_, ts := newTestServer(t)
	token := signIn(t, ts)

	resp := do(t, http.MethodDelete, ts.URL+"/api/session", token, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("sign out status %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/transactions", token, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d after sign-out, want 401", resp.StatusCode)
	}
}
