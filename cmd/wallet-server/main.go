package main

import (
	"context"
	"net/http"
	"time"

	"neon-casino/internal/app/jackpot"
	"neon-casino/internal/app/wallet"
	"neon-casino/internal/config"
	"neon-casino/internal/events"
	"neon-casino/internal/ledger"
	"neon-casino/internal/logging"
	"neon-casino/internal/store"
	httptransport "neon-casino/internal/transport/http"

	"github.com/rs/zerolog/log"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("load server config failed")
	}
	jackpotCfg, err := config.LoadJackpot()
	if err != nil {
		log.Fatal().Err(err).Msg("load jackpot config failed")
	}

	st, err := store.New(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	st.RetryMax = cfg.TxRetryMax
	st.RetryBase = time.Duration(cfg.TxRetryBaseMS) * time.Millisecond
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	jackpotSvc := jackpot.NewService(st, jackpot.DefaultsFromConfig(jackpotCfg))
	if err := jackpotSvc.EnsurePools(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("ensure jackpot pools failed")
	}

	var publisher wallet.EventPublisher = events.NoopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("amqp publisher init failed")
		}
		defer amqpPub.Close()
		publisher = amqpPub
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("amqp publisher connected")
	}

	ledgerW := ledger.NewWriter(st)
	walletSvc := wallet.NewService(st, jackpotSvc, ledgerW, publisher)

	if cfg.SeedDemoData {
		seedDemoData(st, cfg.DemoInitialBalance)
	}

	r := httptransport.NewRouter(st, cfg, walletSvc, jackpotSvc, ledgerW)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}

// seedDemoData creates one funded user and one jackpot-mapped game on an
// empty database so a fresh deployment can place bets immediately.
func seedDemoData(st *store.Store, initialBalance int64) {
	ctx := context.Background()
	var users int64
	if err := st.Pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&users); err != nil {
		log.Warn().Err(err).Msg("demo seed skipped")
		return
	}
	if users > 0 {
		return
	}
	userID, err := st.CreateUser(ctx, "demo")
	if err != nil {
		log.Warn().Err(err).Msg("demo user create failed")
		return
	}
	if err := st.EnsureUserBalance(ctx, userID, initialBalance); err != nil {
		log.Warn().Err(err).Msg("demo balance create failed")
		return
	}
	gameID, err := st.CreateGame(ctx, "demo-slots", 10, 100000)
	if err != nil {
		log.Warn().Err(err).Msg("demo game create failed")
		return
	}
	if err := st.SetGameJackpotTypes(ctx, gameID, []store.JackpotType{store.JackpotMinor, store.JackpotMajor}); err != nil {
		log.Warn().Err(err).Msg("demo jackpot mapping failed")
		return
	}
	log.Info().Str("user_id", userID).Str("game_id", gameID).Msg("demo data seeded")
}
