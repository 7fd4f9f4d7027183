// Package metrics собирает метрики сервера в Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder — интерфейс, через который сервисы сообщают о событиях.
type Recorder interface {
	RecordAuth(op string, ok bool)
	RecordBlobOp(op string, ok bool)
	RecordBlobBytes(n int64)
	RecordDocCreated(collection string)
}

// Collector — реализация Recorder на Prometheus.
type Collector struct {
	auth       *prometheus.CounterVec
	blobOps    *prometheus.CounterVec
	blobBytes  prometheus.Counter
	docCreated *prometheus.CounterVec
}

// NewCollector создаёт Collector и регистрирует метрики в reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		auth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webcarros_auth_total",
			Help: "Операции аутентификации по типу и результату",
		}, []string{"op", "result"}),
		blobOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webcarros_blob_ops_total",
			Help: "Операции файлового хранилища по типу и результату",
		}, []string{"op", "result"}),
		blobBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webcarros_blob_uploaded_bytes_total",
			Help: "Суммарный объём загруженных файлов",
		}),
		docCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webcarros_documents_created_total",
			Help: "Созданные документы по коллекциям",
		}, []string{"collection"}),
	}
	reg.MustRegister(c.auth, c.blobOps, c.blobBytes, c.docCreated)
	return c
}

func (c *Collector) RecordAuth(op string, ok bool) {
	c.auth.WithLabelValues(op, result(ok)).Inc()
}

func (c *Collector) RecordBlobOp(op string, ok bool) {
	c.blobOps.WithLabelValues(op, result(ok)).Inc()
}

func (c *Collector) RecordBlobBytes(n int64) {
	c.blobBytes.Add(float64(n))
}

func (c *Collector) RecordDocCreated(collection string) {
	c.docCreated.WithLabelValues(collection).Inc()
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// Handler отдаёт метрики для Prometheus scrape.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop — Recorder, который ничего не делает (тесты, отключённые метрики).
type Nop struct{}

func (Nop) RecordAuth(string, bool)   {}
func (Nop) RecordBlobOp(string, bool) {}
func (Nop) RecordBlobBytes(int64)     {}
func (Nop) RecordDocCreated(string)   {}
