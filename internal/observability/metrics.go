// Package observability exports arbitration and actuator metrics to
// Prometheus.
package observability

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "arbiterx"

// Collectors implements core.Recorder and look.Recorder.
type Collectors struct {
	ticks         prometheus.Counter
	transfers     *prometheus.CounterVec
	faults        *prometheus.CounterVec
	actuatorWrite *prometheus.CounterVec

	registerOnce sync.Once
	registerErr  error
}

// NewCollectors creates the collectors and registers them with reg. A nil
// reg leaves them unregistered.
func NewCollectors(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "arbiter",
			Name:      "ticks_total",
			Help:      "Ticks resolved by the arbiter.",
		}),
		transfers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "arbiter",
				Name:      "control_transfers_total",
				Help:      "Changes of the process in control.",
			},
			[]string{"from", "to"},
		),
		faults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "arbiter",
				Name:      "decision_faults_total",
				Help:      "Decisions that returned an error or panicked.",
			},
			[]string{"process"},
		),
		actuatorWrite: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "look",
				Name:      "writes_total",
				Help:      "Actuator writes by mode.",
			},
			[]string{"mode"},
		),
	}
	if reg == nil {
		return c, nil
	}
	if err := c.Register(reg); err != nil {
		return nil, err
	}
	return c, nil
}

// Register adds the collectors to reg. Repeated calls return the first
// result.
func (c *Collectors) Register(reg prometheus.Registerer) error {
	c.registerOnce.Do(func() {
		for _, col := range []prometheus.Collector{c.ticks, c.transfers, c.faults, c.actuatorWrite} {
			if err := reg.Register(col); err != nil {
				c.registerErr = fmt.Errorf("register metrics: %w", err)
				return
			}
		}
	})
	return c.registerErr
}

func (c *Collectors) ObserveTick() {
	c.ticks.Inc()
}

func (c *Collectors) ControlTransfer(from, to string) {
	c.transfers.WithLabelValues(label(from), label(to)).Inc()
}

func (c *Collectors) DecisionFault(process string) {
	c.faults.WithLabelValues(process).Inc()
}

func (c *Collectors) ActuatorWrite(mode string) {
	c.actuatorWrite.WithLabelValues(mode).Inc()
}

func label(name string) string {
	if name == "" {
		return "none"
	}
	return name
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
