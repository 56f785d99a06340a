package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"neon-casino/internal/app/jackpot"
	"neon-casino/internal/store"

	"github.com/go-chi/chi/v5"
)

type JackpotHandlers struct {
	jackpotSvc *jackpot.Service
	store      *store.Store
}

func NewJackpotHandlers(jackpotSvc *jackpot.Service, st *store.Store) *JackpotHandlers {
	return &JackpotHandlers{jackpotSvc: jackpotSvc, store: st}
}

func (h *JackpotHandlers) Pools() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pools, err := h.jackpotSvc.Pools(r.Context())
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": pools})
	}
}

// SettleWin force-settles a jackpot win. A missing win_amount pays the
// whole pool.
func (h *JackpotHandlers) SettleWin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricJackpotWinTotal.Add(1)

		typ, ok := parseJackpotType(chi.URLParam(r, "type"))
		if !ok {
			metricJackpotWinErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "unknown_jackpot_type")
			return
		}
		var body struct {
			GameID    string `json:"game_id"`
			UserID    string `json:"user_id"`
			WinAmount *int64 `json:"win_amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			metricJackpotWinErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.GameID == "" || body.UserID == "" {
			metricJackpotWinErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		res, err := h.jackpotSvc.Win(r.Context(), typ, body.GameID, body.UserID, body.WinAmount)
		if err != nil {
			metricJackpotWinErrors.Add(1)
			writeJackpotError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

func (h *JackpotHandlers) UpdateConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]jackpot.ConfigUpdate
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		updates := make(map[store.JackpotType]jackpot.ConfigUpdate, len(body))
		for k, v := range body {
			typ, ok := parseJackpotType(k)
			if !ok {
				WriteHTTPError(w, http.StatusBadRequest, "unknown_jackpot_type")
				return
			}
			updates[typ] = v
		}
		if err := h.jackpotSvc.UpdateConfig(r.Context(), updates); err != nil {
			writeJackpotError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *JackpotHandlers) Contributions() http.HandlerFunc {
	return h.poolHistory(func(r *http.Request, poolID string, limit, offset int) (any, error) {
		return h.store.ListContributions(r.Context(), poolID, limit, offset)
	})
}

func (h *JackpotHandlers) Wins() http.HandlerFunc {
	return h.poolHistory(func(r *http.Request, poolID string, limit, offset int) (any, error) {
		return h.store.ListWins(r.Context(), poolID, limit, offset)
	})
}

func (h *JackpotHandlers) poolHistory(list func(r *http.Request, poolID string, limit, offset int) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typ, ok := parseJackpotType(chi.URLParam(r, "type"))
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "unknown_jackpot_type")
			return
		}
		pool, err := h.store.GetJackpotPoolByType(r.Context(), typ)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "pool_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		limit, offset := ParsePagination(r)
		items, err := list(r, pool.ID, limit, offset)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}

func parseJackpotType(v string) (store.JackpotType, bool) {
	switch store.JackpotType(strings.ToUpper(v)) {
	case store.JackpotMinor:
		return store.JackpotMinor, true
	case store.JackpotMajor:
		return store.JackpotMajor, true
	case store.JackpotGrand:
		return store.JackpotGrand, true
	}
	return "", false
}

func writeJackpotError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, jackpot.ErrUnknownType):
		WriteHTTPError(w, http.StatusBadRequest, "unknown_jackpot_type")
	case errors.Is(err, jackpot.ErrInvalidAmount):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_amount")
	case errors.Is(err, jackpot.ErrInvalidConfig):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_config")
	case errors.Is(err, jackpot.ErrInsufficientPool):
		WriteHTTPError(w, http.StatusConflict, "insufficient_pool_funds")
	case errors.Is(err, store.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, store.ErrConcurrency):
		WriteHTTPError(w, http.StatusConflict, "concurrency_conflict")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
