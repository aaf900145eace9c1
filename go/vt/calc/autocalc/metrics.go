/*
Copyright 2024 The Vitess Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package autocalc

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"vitess.io/autocalc/go/vt/calc/backend"
)

var (
	ruleMatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autocalc_rule_matches_total",
			Help: "Calculators matched by the split rule, by outcome.",
		},
		[]string{"outcome"})
	splitStages = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "autocalc_split_stages",
			Help:    "Number of calculators produced by a split.",
			Buckets: prometheus.LinearBuckets(2, 1, 8),
		})
	publishOnce sync.Once
)

func registerIfNeeded() {
	publishOnce.Do(func() {
		prometheus.MustRegister(ruleMatches, splitStages)
	})
}

func recordOutcome(outcome string) {
	registerIfNeeded()
	ruleMatches.WithLabelValues(outcome).Inc()
}

func recordSplit(stages int) {
	recordOutcome(OutcomeSplit)
	splitStages.Observe(float64(stages))
}

func recordCovered(kind backend.Kind) {
	if kind == backend.Native {
		recordOutcome(OutcomeNativeOnly)
		return
	}
	recordOutcome(OutcomeManagedOnly)
}
