package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CandidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "candidates_total", Help: "Candidates discovered per feed"},
		[]string{"source"},
	)
	FeedErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "feed_errors_total", Help: "Feed fetches that degraded a run"},
		[]string{"source"},
	)
	RiskChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "risk_checks_total", Help: "Safety checks by resulting status"},
		[]string{"status"},
	)
	GateDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "gate_decisions_total", Help: "Gate verdicts"},
		[]string{"verdict"},
	)
	PurchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "purchases_total", Help: "Purchase outcomes by terminal status"},
		[]string{"status"},
	)
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "notifications_total", Help: "Notification attempts by severity"},
		[]string{"severity"},
	)
)

func init() {
	prometheus.MustRegister(
		CandidatesTotal,
		FeedErrorsTotal,
		RiskChecksTotal,
		GateDecisionsTotal,
		PurchasesTotal,
		NotificationsTotal,
	)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
