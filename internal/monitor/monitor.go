package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	BetsPlaced    *prometheus.CounterVec
	RoundsSettled *prometheus.CounterVec
	TokensWagered *prometheus.CounterVec
	TokensPaid    *prometheus.CounterVec
	FaucetClaims  prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		BetsPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bets_placed_total",
			Help:      "Number of accepted bets",
		}, []string{"game"}),
		RoundsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_settled_total",
			Help:      "Number of settled rounds",
		}, []string{"game", "result"}),
		TokensWagered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_wagered_total",
			Help:      "Total tokens wagered",
		}, []string{"game"}),
		TokensPaid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_paid_total",
			Help:      "Total tokens paid out",
		}, []string{"game"}),
		FaucetClaims: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "faucet_claims_total",
			Help:      "Number of faucet claims",
		}),
	}

	prometheus.MustRegister(
		m.BetsPlaced,
		m.RoundsSettled,
		m.TokensWagered,
		m.TokensPaid,
		m.FaucetClaims,
	)

	return m
}

func (m *Metrics) RecordBet(game string, amount int64) {
	m.BetsPlaced.WithLabelValues(game).Inc()
	m.TokensWagered.WithLabelValues(game).Add(float64(amount))
}

func (m *Metrics) RecordSettlement(game string, payout int64) {
	result := "lose"
	if payout > 0 {
		result = "win"
	}
	m.RoundsSettled.WithLabelValues(game, result).Inc()
	if payout > 0 {
		m.TokensPaid.WithLabelValues(game).Add(float64(payout))
	}
}

func StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(addr, mux)
}
