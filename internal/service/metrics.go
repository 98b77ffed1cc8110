package service

import "github.com/prometheus/client_golang/prometheus"

var (
	syncErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feedsync_sync_errors_total",
		Help: "Failed source syncs by error kind.",
	}, []string{"kind"})

	articlesInserted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feedsync_articles_inserted_total",
		Help: "Newly inserted canonical records.",
	})
)

func init() {
	prometheus.MustRegister(syncErrors, articlesInserted)
}
