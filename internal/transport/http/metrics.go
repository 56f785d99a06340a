package httptransport

import "expvar"

var (
	metricBetSettleTotal  = expvar.NewInt("bet_settle_total")
	metricBetSettleErrors = expvar.NewInt("bet_settle_errors_total")
	metricBetSettleLastMS = expvar.NewInt("bet_settle_last_ms")

	metricDepositTotal  = expvar.NewInt("deposit_total")
	metricDepositErrors = expvar.NewInt("deposit_errors_total")

	metricJackpotWinTotal  = expvar.NewInt("jackpot_win_total")
	metricJackpotWinErrors = expvar.NewInt("jackpot_win_errors_total")
)
