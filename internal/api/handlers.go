package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"fenrir/internal/common"
	"fenrir/internal/engine"
)

const (
	defaultDepth = 20
	maxDepth     = 100
	defaultLimit = 50
	maxLimit     = 200
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response body")
	}
}

func writeFailure(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, responseDTO{Success: false, Message: err.Error()})
}

// submitErrorStatus classifies an engine error as either a client
// mistake (400) or a business outcome worth a dedicated status.
// Validation failures and business outcomes are both expected results,
// never 500s.
func submitErrorStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrOrderNotFound), errors.Is(err, engine.ErrUnknownSymbol):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInsufficientLiquidity):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// handleSubmit implements POST /v1/orders.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, err)
		return
	}

	report, err := s.engine.Submit(engine.SubmitRequest{
		Symbol:   req.Symbol,
		Type:     req.Type,
		Side:     req.Side,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		status := submitErrorStatus(err)
		if errors.Is(err, engine.ErrUnknownSymbol) {
			// Submit reports this only for an empty symbol: a client
			// mistake, not a missing resource.
			status = http.StatusBadRequest
		}
		// Business outcomes (e.g. a rejected FOK) still carry the order's
		// final snapshot; validation failures never got far enough to
		// produce one.
		writeJSON(w, status, responseDTO{
			Success: false,
			Message: err.Error(),
			Order:   report.Order,
			Trades:  report.Trades,
		})
		return
	}

	writeJSON(w, http.StatusOK, responseDTO{Success: true, Order: report.Order, Trades: report.Trades})
}

// handleCancel implements DELETE /v1/symbols/{symbol}/orders/{id}.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	order, err := s.engine.Cancel(vars["symbol"], vars["id"])
	if err != nil {
		writeFailure(w, submitErrorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, responseDTO{Success: true, Order: order})
}

// handleDepth implements GET /v1/symbols/{symbol}/book?depth=N.
func (s *Server) handleDepth(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	n, err := intQueryParam(r, "depth", defaultDepth, maxDepth, engine.ErrInvalidDepth)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Depth(symbol, n))
}

// handleBBO implements GET /v1/symbols/{symbol}/bbo.
func (s *Server) handleBBO(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	writeJSON(w, http.StatusOK, s.engine.BBO(symbol))
}

// handleTrades implements GET /v1/trades?symbol=&limit=N.
func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		writeFailure(w, http.StatusBadRequest, engine.ErrUnknownSymbol)
		return
	}
	limit, err := intQueryParam(r, "limit", defaultLimit, maxLimit, engine.ErrInvalidLimit)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err)
		return
	}
	trades := s.engine.RecentTrades(symbol, limit)
	if trades == nil {
		trades = []*common.Trade{}
	}
	writeJSON(w, http.StatusOK, trades)
}

// handleHealth implements GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func intQueryParam(r *http.Request, name string, def, max int, invalid error) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > max {
		return 0, invalid
	}
	return n, nil
}
