// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type stateMetrics struct {
	txApplied  *prometheus.CounterVec
	txRejected *prometheus.CounterVec
	txDuration prometheus.Histogram
	seq        prometheus.Gauge
}

func (m *stateMetrics) init(promRegistry prometheus.Registerer) {
	// A nil registerer gives working but unregistered metrics
	promautoFactory := promauto.With(promRegistry)
	m.txApplied = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chirp_ledger_tx_applied_total",
			Help: "transactions committed by entrypoint",
		},
		[]string{"entrypoint"},
	)
	m.txRejected = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chirp_ledger_tx_rejected_total",
			Help: "transactions rolled back by entrypoint and reason",
		},
		[]string{"entrypoint", "reason"},
	)
	m.txDuration = promautoFactory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chirp_ledger_tx_duration_seconds",
			Help:    "time spent applying a transaction",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)
	m.seq = promautoFactory.NewGauge(prometheus.GaugeOpts{
		Name: "chirp_ledger_seq",
		Help: "number of transactions in the journal",
	})
}
