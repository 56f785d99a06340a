package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"neon-casino/internal/app/jackpot"
	"neon-casino/internal/app/wallet"
	"neon-casino/internal/config"
	"neon-casino/internal/ledger"
	"neon-casino/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func NewRouter(st *store.Store, cfg config.ServerConfig, walletSvc *wallet.Service, jackpotSvc *jackpot.Service, ledgerW *ledger.Writer) *chi.Mux {
	walletHandlers := NewWalletHandlers(walletSvc)
	jackpotHandlers := NewJackpotHandlers(jackpotSvc, st)
	adminHandlers := NewAdminHandlers(st, ledgerW)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Post("/bets", walletHandlers.PlaceBet())
		r.Post("/deposits", walletHandlers.Deposit())
		r.Get("/users/{user_id}/balance", walletHandlers.Balance())
		r.Get("/jackpots", jackpotHandlers.Pools())

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Post("/users", adminHandlers.CreateUser())
			r.Post("/games", adminHandlers.CreateGame())
			r.Post("/jackpots/{type}/win", jackpotHandlers.SettleWin())
			r.Put("/jackpots/config", jackpotHandlers.UpdateConfig())
			r.Get("/jackpots/{type}/contributions", jackpotHandlers.Contributions())
			r.Get("/jackpots/{type}/wins", jackpotHandlers.Wins())
			r.Get("/transactions", adminHandlers.Transactions())
			r.Get("/transactions/{log_id}", adminHandlers.Transaction())
			r.Post("/transactions/{log_id}/vip", adminHandlers.BackfillVIP())

			r.Route("/debug", func(r chi.Router) {
				r.Use(BodyCaptureMiddleware(cfg.BodyCaptureBytes))
				r.Get("/vars", expvar.Handler().ServeHTTP)
			})
		})
	})

	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 64)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
