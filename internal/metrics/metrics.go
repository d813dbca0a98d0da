// Package metrics exposes the engine's view-snapshot counters to
// Prometheus, the way the project's other daemons register a small set of
// gauges/counters and serve them over promhttp.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Registry holds the four collectors mirroring the view snapshot
// interface: message count, plane count, FIFO-full drops, and sweep
// evictions. It owns its own prometheus.Registry rather than registering
// into the global default, so multiple engine instances in the same
// process (as in tests) never collide over metric names.
type Registry struct {
	reg *prometheus.Registry

	messagesDecoded prometheus.Counter
	planesTracked   prometheus.Gauge
	fifoFullDrops   prometheus.Counter
	sweepEvictions  prometheus.Counter
}

// NewRegistry creates a Registry with all four collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		messagesDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squitter_messages_decoded_total",
			Help: "Total number of CRC-valid Mode-S frames decoded.",
		}),
		planesTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "squitter_planes_tracked",
			Help: "Number of planes currently in the plane database.",
		}),
		fifoFullDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squitter_fifo_full_drops_total",
			Help: "Total number of frame starts seen while the FIFO was full.",
		}),
		sweepEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squitter_sweep_evictions_total",
			Help: "Total number of planes aged out of the plane database.",
		}),
	}

	r.reg.MustRegister(r.messagesDecoded, r.planesTracked, r.fifoFullDrops, r.sweepEvictions)
	return r
}

// Snapshot holds the counter values collected from the engine's
// read-only interfaces, the same data the terminal scope viewer renders.
type Snapshot struct {
	MsgCount     uint64
	PlaneCount   int
	FIFODrops    uint64
	SweepEvicted uint64
}

// Update sets every collector from s. The caller takes s under the same
// monitor the view snapshot interface already requires, so this call
// itself touches no engine lock.
func (r *Registry) Update(s Snapshot) {
	r.messagesDecoded.Add(float64(s.MsgCount) - counterValue(r.messagesDecoded))
	r.planesTracked.Set(float64(s.PlaneCount))
	r.fifoFullDrops.Add(float64(s.FIFODrops) - counterValue(r.fifoFullDrops))
	r.sweepEvictions.Add(float64(s.SweepEvicted) - counterValue(r.sweepEvictions))
}

// counterValue reads back a Counter's current value so Update can compute
// the delta to Add from the engine's monotonically increasing totals.
func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil || m.Counter == nil {
		return 0
	}
	return m.Counter.GetValue()
}

// Handler returns the http.Handler serving this registry's metrics in the
// Prometheus text exposition format, for mounting under /metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
