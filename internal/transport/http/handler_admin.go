package httptransport

import (
	"encoding/json"
	"net/http"

	"neon-casino/internal/ledger"
	"neon-casino/internal/store"

	"github.com/go-chi/chi/v5"
)

type AdminHandlers struct {
	store  *store.Store
	ledger *ledger.Writer
}

func NewAdminHandlers(st *store.Store, ledgerW *ledger.Writer) *AdminHandlers {
	return &AdminHandlers{store: st, ledger: ledgerW}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

func (h *AdminHandlers) Transactions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		f := store.TransactionLogFilter{
			UserID: r.URL.Query().Get("user_id"),
			Type:   r.URL.Query().Get("type"),
		}
		items, err := h.ledger.List(r.Context(), f, limit, offset)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}

// Transaction returns a log row together with any rows settled against
// it, so a BET id also surfaces its paired WIN.
func (h *AdminHandlers) Transaction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logID := chi.URLParam(r, "log_id")
		items, err := h.store.GetTransactionLogByRelatedID(r.Context(), logID)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		if len(items) == 0 {
			WriteHTTPError(w, http.StatusNotFound, "not_found")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}
}

func (h *AdminHandlers) BackfillVIP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Points int64 `json:"points"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.Points < 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := h.ledger.BackfillVIPPoints(r.Context(), chi.URLParam(r, "log_id"), body.Points); err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *AdminHandlers) CreateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name           string  `json:"name"`
			InitialBalance int64   `json:"initial_balance"`
			BonusAmounts   []int64 `json:"bonus_amounts"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.Name == "" || body.InitialBalance < 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		userID, err := h.store.CreateUser(r.Context(), body.Name)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		if err := h.store.EnsureUserBalance(r.Context(), userID, body.InitialBalance); err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		for i, amount := range body.BonusAmounts {
			if amount <= 0 {
				continue
			}
			if _, err := h.store.CreateBonusBucket(r.Context(), userID, amount, i); err != nil {
				WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
				return
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"user_id": userID})
	}
}

func (h *AdminHandlers) CreateGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name         string   `json:"name"`
			MinBet       int64    `json:"min_bet"`
			MaxBet       int64    `json:"max_bet"`
			JackpotTypes []string `json:"jackpot_types"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.Name == "" || body.MinBet <= 0 || body.MaxBet < body.MinBet {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		types := make([]store.JackpotType, 0, len(body.JackpotTypes))
		for _, v := range body.JackpotTypes {
			typ, ok := parseJackpotType(v)
			if !ok {
				WriteHTTPError(w, http.StatusBadRequest, "unknown_jackpot_type")
				return
			}
			types = append(types, typ)
		}
		gameID, err := h.store.CreateGame(r.Context(), body.Name, body.MinBet, body.MaxBet)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		if len(types) > 0 {
			if err := h.store.SetGameJackpotTypes(r.Context(), gameID, types); err != nil {
				WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
				return
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"game_id": gameID})
	}
}
