package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Misakavorst/drl-quant-trading/internal/api/models"
	"github.com/Misakavorst/drl-quant-trading/internal/data"
	"github.com/Misakavorst/drl-quant-trading/internal/market"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewBacktestHandler(nil, nil)
	r.POST("/api/v1/backtest", h.RunBacktest)
	r.GET("/api/v1/policies", NewPolicyHandler().ListPolicies)
	return r
}

func sampleDataset(days, assets int) *data.Dataset {
	ds := &data.Dataset{}
	for a := 0; a < assets; a++ {
		ds.Symbols = append(ds.Symbols, string(rune('A'+a)))
	}
	for day := 0; day < days; day++ {
		ds.Dates = append(ds.Dates, "2024-01-02")
		row := make([]float64, assets)
		ind := make([]float64, assets*market.FieldsPerAsset)
		for a := 0; a < assets; a++ {
			row[a] = 100 + float64(day)
			ind[a*market.FieldsPerAsset+market.FieldRSI] = 50
		}
		ds.Close = append(ds.Close, row)
		ds.Indicators = append(ds.Indicators, ind)
	}
	return ds
}

func postBacktest(t *testing.T, r *gin.Engine, req models.BacktestRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/backtest", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, httpReq)
	return w
}

func TestRunBacktestInlineDataset(t *testing.T) {
	r := newTestRouter()

	w := postBacktest(t, r, models.BacktestRequest{
		Dataset: sampleDataset(12, 2),
		Policies: []models.PolicySpec{
			{Name: "hold"},
			{Name: "buy-and-hold"},
		},
		Options: models.BacktestOptions{IncludeLedger: true},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp models.BacktestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.ID == "" {
		t.Error("expected a run id")
	}
	if resp.Days != 12 || resp.Assets != 2 {
		t.Errorf("days/assets = %d/%d, want 12/2", resp.Days, resp.Assets)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(resp.Results))
	}
	if len(resp.Ranking) != 2 {
		t.Fatalf("got %d ranking entries, want 2", len(resp.Ranking))
	}
	for _, res := range resp.Results {
		if len(res.Ledger) == 0 {
			t.Errorf("policy %s: ledger requested but empty", res.Policy)
		}
		if len(res.Returns) == 0 {
			t.Errorf("policy %s: no returns", res.Policy)
		}
		if len(res.Dates) != len(res.Returns) {
			t.Errorf("policy %s: %d dates for %d returns", res.Policy, len(res.Dates), len(res.Returns))
		}
	}
	// Prices rise every day, so buy-and-hold must outrank hold.
	if resp.Ranking[0].Name != "buy-and-hold" {
		t.Errorf("top ranked = %s, want buy-and-hold", resp.Ranking[0].Name)
	}
}

func TestRunBacktestLimitDays(t *testing.T) {
	r := newTestRouter()

	w := postBacktest(t, r, models.BacktestRequest{
		Dataset:  sampleDataset(30, 1),
		Policies: []models.PolicySpec{{Name: "hold"}},
		Options:  models.BacktestOptions{LimitDays: 10},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp models.BacktestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Days != 10 {
		t.Errorf("days = %d, want 10", resp.Days)
	}
}

func TestRunBacktestValidation(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		name string
		req  models.BacktestRequest
	}{
		{
			name: "no policies",
			req:  models.BacktestRequest{Dataset: sampleDataset(5, 1)},
		},
		{
			name: "no dataset",
			req:  models.BacktestRequest{Policies: []models.PolicySpec{{Name: "hold"}}},
		},
		{
			name: "both inline and path",
			req: models.BacktestRequest{
				Dataset:     sampleDataset(5, 1),
				DatasetPath: "somewhere.json",
				Policies:    []models.PolicySpec{{Name: "hold"}},
			},
		},
		{
			name: "unknown policy",
			req: models.BacktestRequest{
				Dataset:  sampleDataset(5, 1),
				Policies: []models.PolicySpec{{Name: "clairvoyant"}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postBacktest(t, r, tc.req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body = %s", w.Code, w.Body.String())
			}
			var errResp models.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("unmarshal error response: %v", err)
			}
			if errResp.Error.Code == "" {
				t.Error("expected an error code")
			}
		})
	}
}

func TestListPolicies(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/policies", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Policies []models.PolicyInfo `json:"policies"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Policies) == 0 {
		t.Fatal("no policies listed")
	}
	seen := map[string]bool{}
	for _, p := range resp.Policies {
		seen[p.Name] = true
		if p.Description == "" {
			t.Errorf("policy %s has no description", p.Name)
		}
	}
	for _, want := range []string{"buy-and-hold", "hold", "random", "onnx"} {
		if !seen[want] {
			t.Errorf("policy %s missing from listing", want)
		}
	}
}
