package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"trademo/internal/application/port"
	"trademo/internal/application/service"
	"trademo/internal/domain"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "trademo api is running"})
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	quote, err := s.deps.Quotes.Quote(r.Context(), r.PathValue("symbol"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	timeframe := r.URL.Query().Get("timeframe")
	period := r.URL.Query().Get("period")
	if timeframe == "" || period == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "timeframe and period query parameters are required"})
		return
	}

	chart, err := s.deps.Quotes.Chart(r.Context(), r.PathValue("symbol"), timeframe, period)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	pf, _, err := s.deps.Portfolios.LoadOrCreate(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pf)
}

type orderResponse struct {
	Status    string           `json:"status"`
	Portfolio domain.Portfolio `json:"portfolio"`
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var order domain.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed order payload"})
		return
	}

	pf, err := s.deps.Orders.PlaceOrder(r.Context(), userID(r), order)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Status: "success", Portfolio: pf})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response failed")
	}
}

// writeError maps the error taxonomy to HTTP statuses: order rejections are
// client errors, unknown symbols and missing prices are 404 like the
// upstream provider reported them, everything else is a server error.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})

	case errors.Is(err, port.ErrSymbolNotFound), errors.Is(err, port.ErrPriceUnavailable):
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "stock not found, check the symbol"})

	case errors.Is(err, service.ErrTransactionLog):
		// The order committed but its log entry did not; the client sees a
		// server error, the portfolio state is already persisted.
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "order recorded, transaction log unavailable"})

	default:
		log.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
	}
}
