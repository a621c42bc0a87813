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

package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type relayMetrics struct {
	answers *prometheus.CounterVec
	errors  prometheus.Counter
	score   prometheus.Histogram
}

func (m *relayMetrics) init(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	m.answers = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chirp_relay_answers_total",
			Help: "bot check verdicts submitted by verdict",
		},
		[]string{"verdict"},
	)
	m.errors = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "chirp_relay_errors_total",
		Help: "bot check requests that could not be answered",
	})
	m.score = promautoFactory.NewHistogram(prometheus.HistogramOpts{
		Name:    "chirp_relay_score",
		Help:    "bot likelihood scores of answered requests",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})
}
