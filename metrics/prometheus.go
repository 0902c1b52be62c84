// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package metrics

import (
	"fmt"
	"net/http"
	"time"

	"code.vegaprotocol.io/simex/logging"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	gauge instrument = iota
	counter
	histogram
)

const namespace = "simex"

// ErrInstrumentNotSupported signals the specified instrument is not yet supported.
var ErrInstrumentNotSupported = errors.New("instrument type unsupported")

var (
	commandCounter    *prometheus.CounterVec
	orderEventCounter *prometheus.CounterVec
	fillCounter       *prometheus.CounterVec
	openOrdersGauge   *prometheus.GaugeVec
	processDuration   *prometheus.HistogramVec
)

type instrument int

// every venue instrument is labelled, so only the vector flavours exist.
type instrumentOpts struct {
	opts    prometheus.Opts
	buckets []float64
	labels  []string
}

type instrumentOption func(o *instrumentOpts)

func labels(names ...string) instrumentOption {
	return func(o *instrumentOpts) {
		o.labels = names
	}
}

func help(h string) instrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = h
	}
}

func buckets(b []float64) instrumentOption {
	return func(o *instrumentOpts) {
		o.buckets = b
	}
}

// addInstrument builds the collector of type t and registers it on reg.
func addInstrument(reg prometheus.Registerer, t instrument, name string, opts ...instrumentOption) (prometheus.Collector, error) {
	opt := instrumentOpts{
		opts: prometheus.Opts{
			Namespace: namespace,
			Name:      name,
		},
	}
	for _, o := range opts {
		o(&opt)
	}

	var col prometheus.Collector
	switch t {
	case gauge:
		col = prometheus.NewGaugeVec(prometheus.GaugeOpts(opt.opts), opt.labels)
	case counter:
		col = prometheus.NewCounterVec(prometheus.CounterOpts(opt.opts), opt.labels)
	case histogram:
		col = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opt.opts.Namespace,
			Name:      opt.opts.Name,
			Help:      opt.opts.Help,
			Buckets:   opt.buckets,
		}, opt.labels)
	default:
		return nil, ErrInstrumentNotSupported
	}
	if err := reg.Register(col); err != nil {
		return nil, err
	}
	return col, nil
}

// Setup registers the venue instruments on reg. Until it is called every
// update below is a no-op.
func Setup(reg prometheus.Registerer) error {
	col, err := addInstrument(reg, counter, "commands_total",
		labels("instrument", "command"),
		help("Number of trading commands received"),
	)
	if err != nil {
		return err
	}
	commandCounter = col.(*prometheus.CounterVec)

	col, err = addInstrument(reg, counter, "order_events_total",
		labels("instrument", "event"),
		help("Number of order events generated"),
	)
	if err != nil {
		return err
	}
	orderEventCounter = col.(*prometheus.CounterVec)

	col, err = addInstrument(reg, counter, "fills_total",
		labels("instrument", "liquidity"),
		help("Number of fills by liquidity side"),
	)
	if err != nil {
		return err
	}
	fillCounter = col.(*prometheus.CounterVec)

	col, err = addInstrument(reg, gauge, "open_orders",
		labels("instrument"),
		help("Number of orders resting in the venue"),
	)
	if err != nil {
		return err
	}
	openOrdersGauge = col.(*prometheus.GaugeVec)

	col, err = addInstrument(reg, histogram, "process_seconds",
		labels("fn"),
		buckets(prometheus.ExponentialBuckets(0.00001, 4, 10)),
		help("Wall time spent processing commands and market data"),
	)
	if err != nil {
		return err
	}
	processDuration = col.(*prometheus.HistogramVec)
	return nil
}

// Start registers the instruments on the default registry and serves them
// when enabled.
func Start(log *logging.Logger, conf Config) error {
	if !conf.Enabled.Get() {
		return nil
	}
	log = log.Named(namedLogger)
	log.SetLevel(conf.Level.Get())
	if err := Setup(prometheus.DefaultRegisterer); err != nil {
		return errors.Wrap(err, "could not set up metrics")
	}

	mux := http.NewServeMux()
	mux.Handle(conf.Path, promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Port),
		Handler:           mux,
		ReadHeaderTimeout: conf.Timeout.Get(),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server stopped", logging.Error(err))
		}
	}()
	log.Info("serving metrics",
		logging.Int("port", conf.Port),
		logging.String("path", conf.Path))
	return nil
}

// CommandCounterInc increments the command counter.
func CommandCounterInc(labelValues ...string) {
	if commandCounter == nil {
		return
	}
	commandCounter.WithLabelValues(labelValues...).Inc()
}

// OrderEventCounterInc increments the order event counter.
func OrderEventCounterInc(labelValues ...string) {
	if orderEventCounter == nil {
		return
	}
	orderEventCounter.WithLabelValues(labelValues...).Inc()
}

func FillCounterInc(labelValues ...string) {
	if fillCounter == nil {
		return
	}
	fillCounter.WithLabelValues(labelValues...).Inc()
}

// OpenOrdersGaugeSet update the number of resting orders of an instrument.
func OpenOrdersGaugeSet(n int, labelValues ...string) {
	if openOrdersGauge == nil {
		return
	}
	openOrdersGauge.WithLabelValues(labelValues...).Set(float64(n))
}

// ProcessTimer is used to time a function. Call it, using defer, at the start of the
// function to be timed.
//
// e.g.
//
//	defer metrics.ProcessTimer("Process")()
//
// Note the extra "()" at the end of the above line - the returned function must be called.
func ProcessTimer(fn string) func() {
	start := time.Now()
	return func() {
		// tests do not set up the metrics
		if processDuration == nil {
			return
		}
		processDuration.WithLabelValues(fn).Observe(time.Since(start).Seconds())
	}
}
