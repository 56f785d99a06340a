package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"neon-casino/internal/app/wallet"
	"neon-casino/internal/store"

	"github.com/go-chi/chi/v5"
)

type WalletHandlers struct {
	walletSvc *wallet.Service
}

func NewWalletHandlers(walletSvc *wallet.Service) *WalletHandlers {
	return &WalletHandlers{walletSvc: walletSvc}
}

func (h *WalletHandlers) PlaceBet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metricBetSettleTotal.Add(1)

		var body struct {
			UserID      string `json:"user_id"`
			GameID      string `json:"game_id"`
			WagerAmount int64  `json:"wager_amount"`
			WinAmount   int64  `json:"win_amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			metricBetSettleErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		req := wallet.BetRequest{UserID: body.UserID, GameID: body.GameID, WagerAmount: body.WagerAmount}
		res, err := h.walletSvc.PlaceBet(r.Context(), req, wallet.GameOutcome{WinAmount: body.WinAmount})
		if err != nil {
			metricBetSettleErrors.Add(1)
			writeWalletError(w, err)
			return
		}
		metricBetSettleLastMS.Set(time.Since(start).Milliseconds())
		_ = json.NewEncoder(w).Encode(res)
	}
}

func (h *WalletHandlers) Deposit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricDepositTotal.Add(1)

		var body struct {
			UserID string `json:"user_id"`
			Amount int64  `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			metricDepositErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		res, err := h.walletSvc.Deposit(r.Context(), body.UserID, body.Amount)
		if err != nil {
			metricDepositErrors.Add(1)
			writeWalletError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

func (h *WalletHandlers) Balance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "user_id")
		balance, buckets, err := h.walletSvc.GetBalance(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "user_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		var bonusTotal int64
		for _, b := range buckets {
			bonusTotal += b.Amount
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id":       balance.UserID,
			"real_balance":  balance.RealBalance,
			"bonus_balance": bonusTotal,
			"bonus_buckets": buckets,
		})
	}
}

func writeWalletError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wallet.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, wallet.ErrBetLimits):
		WriteHTTPError(w, http.StatusBadRequest, "bet_outside_limits")
	case errors.Is(err, wallet.ErrInsufficientFunds):
		WriteHTTPError(w, http.StatusConflict, "insufficient_funds")
	case errors.Is(err, wallet.ErrGameInactive):
		WriteHTTPError(w, http.StatusConflict, "game_inactive")
	case errors.Is(err, store.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, store.ErrConcurrency):
		WriteHTTPError(w, http.StatusConflict, "concurrency_conflict")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
