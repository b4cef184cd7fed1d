package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"trademo/internal/application/port"
	"trademo/internal/application/service"
	"trademo/internal/domain"
	"trademo/internal/infrastructure/storage/memory"
)

type stubPrices struct {
	price decimal.Decimal
	quote port.Quote
	bars  []port.Bar
	err   error
}

func (s *stubPrices) Quote(ctx context.Context, symbol string) (port.Quote, error) {
	return s.quote, s.err
}

func (s *stubPrices) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return s.price, s.err
}

func (s *stubPrices) History(ctx context.Context, symbol, period, interval string) ([]port.Bar, error) {
	return s.bars, s.err
}

func newTestServer(t *testing.T, prices port.PriceProvider) (*httptest.Server, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	portfolios := service.NewPortfolioService(store, domain.DefaultStartingCash)
	deps := Deps{
		Portfolios: portfolios,
		Orders: service.NewOrderService(service.OrderServiceDeps{
			Store:      store,
			Prices:     prices,
			Portfolios: portfolios,
			Locker:     memory.NewKeyedLock(),
		}),
		Quotes:         service.NewQuoteService(prices),
		Verifier:       NewStaticVerifier(map[string]string{"devtoken": "user-1"}),
		AllowedOrigins: []string{"http://localhost:5173"},
		StreamInterval: 10 * time.Millisecond,
	}

	srv := httptest.NewServer(New("127.0.0.1:0", deps).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func get(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestRootLiveness(t *testing.T) {
	srv, _ := newTestServer(t, &stubPrices{})

	resp := get(t, srv.URL+"/", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["message"] == "" {
		t.Error("liveness message missing")
	}
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	srv, _ := newTestServer(t, &stubPrices{})

	resp := get(t, srv.URL+"/api/nope", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type: %q", ct)
	}
	resp.Body.Close()
}

func TestStockQuote(t *testing.T) {
	srv, _ := newTestServer(t, &stubPrices{
		quote: port.Quote{Symbol: "AAPL", Name: "Apple Inc.", Price: decimal.NewFromFloat(150.25)},
	})

	resp := get(t, srv.URL+"/stock/aapl", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var q port.Quote
	decodeBody(t, resp, &q)
	if q.Symbol != "AAPL" || q.Name != "Apple Inc." {
		t.Errorf("quote: %+v", q)
	}
}

func TestStockInvalidSymbol(t *testing.T) {
	srv, _ := newTestServer(t, &stubPrices{})

	resp := get(t, srv.URL+"/stock/WAYTOOLONGSYMBOL", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestStockUnknownSymbol(t *testing.T) {
	srv, _ := newTestServer(t, &stubPrices{err: port.ErrSymbolNotFound})

	resp := get(t, srv.URL+"/stock/ZZZZ", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status: %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestChart(t *testing.T) {
	srv, _ := newTestServer(t, &stubPrices{bars: []port.Bar{
		{Time: 1700000000, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
	}})

	resp := get(t, srv.URL+"/chart/aapl?timeframe=1h&period=5d", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var chart service.ChartData
	decodeBody(t, resp, &chart)
	if chart.Symbol != "AAPL" || chart.Timeframe != "1h" || chart.Period != "5d" {
		t.Errorf("chart echo: %+v", chart)
	}
	if len(chart.Data) != 1 {
		t.Errorf("bars: %d", len(chart.Data))
	}
}

func TestChartMissingRangeParams(t *testing.T) {
	srv, _ := newTestServer(t, &stubPrices{})

	for _, path := range []string{"/chart/aapl", "/chart/aapl?timeframe=1h", "/chart/aapl?period=5d"} {
		resp := get(t, srv.URL+path, "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", path, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestPortfolioRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t, &stubPrices{})

	resp := get(t, srv.URL+"/portfolio", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status: %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()

	resp = get(t, srv.URL+"/portfolio", "wrongtoken")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status with bad token: %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestPortfolioRejectsNonBearerScheme(t *testing.T) {
	srv, _ := newTestServer(t, &stubPrices{})

	// A valid token under the wrong scheme must not slip through as-is.
	for _, header := range []string{"devtoken", "Basic devtoken", "bearer devtoken"} {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/portfolio", nil)
		req.Header.Set("Authorization", header)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("header %q: status %d, want 401", header, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestPortfolioFirstReadCreatesDefault(t *testing.T) {
	srv, store := newTestServer(t, &stubPrices{})

	resp := get(t, srv.URL+"/portfolio", "devtoken")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var pf domain.Portfolio
	decodeBody(t, resp, &pf)
	if !pf.Cash.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("cash: got %s, want 100000", pf.Cash)
	}

	// The default document is persisted, not just returned.
	if _, found, _ := store.GetPortfolio(context.Background(), "user-1"); !found {
		t.Error("default portfolio was not persisted")
	}
}

func TestPlaceOrder(t *testing.T) {
	srv, store := newTestServer(t, &stubPrices{price: decimal.NewFromInt(50)})

	body := strings.NewReader(`{"symbol":"AAPL","quantity":5,"price":50,"order_type":"market"}`)
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/order", body)
	req.Header.Set("Authorization", "Bearer devtoken")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}

	var out struct {
		Status    string           `json:"status"`
		Portfolio domain.Portfolio `json:"portfolio"`
	}
	decodeBody(t, resp, &out)
	if out.Status != "success" {
		t.Errorf("status field: %q", out.Status)
	}
	if !out.Portfolio.Cash.Equal(decimal.NewFromInt(99750)) {
		t.Errorf("cash: got %s, want 99750", out.Portfolio.Cash)
	}
	if len(store.Transactions("user-1")) != 1 {
		t.Error("transaction not logged")
	}
}

func TestPlaceOrderInsufficientFunds(t *testing.T) {
	srv, _ := newTestServer(t, &stubPrices{price: decimal.NewFromInt(1000000)})

	body := strings.NewReader(`{"symbol":"AAPL","quantity":5,"order_type":"market"}`)
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/order", body)
	req.Header.Set("Authorization", "Bearer devtoken")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d, want 400", resp.StatusCode)
	}
	var out map[string]string
	decodeBody(t, resp, &out)
	if out["detail"] == "" {
		t.Error("rejection detail missing")
	}
}

func TestPlaceOrderMalformedBody(t *testing.T) {
	srv, _ := newTestServer(t, &stubPrices{price: decimal.NewFromInt(50)})

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/order", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer devtoken")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, &stubPrices{})

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/order", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status: %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin: %q", got)
	}
}

func TestCORSUnknownOriginGetsNoHeaders(t *testing.T) {
	srv, _ := newTestServer(t, &stubPrices{})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	req.Header.Set("Origin", "http://evil.example")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow origin leaked: %q", got)
	}
}
