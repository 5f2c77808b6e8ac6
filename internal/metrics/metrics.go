package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FileManagerActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docstore", Name: "filemanager_actions_total", Help: "File manager actions handled, by action and outcome."},
		[]string{"action", "outcome"},
	)
	DocumentSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docstore", Name: "document_saves_total", Help: "Document save operations, by path (update or insert)."},
		[]string{"path"},
	)
	DownloadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docstore", Name: "download_bytes_total", Help: "Bytes served by the download endpoint."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(FileManagerActions)
	reg.MustRegister(DocumentSaves)
	reg.MustRegister(DownloadBytes)
}
