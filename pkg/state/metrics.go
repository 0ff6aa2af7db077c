// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package state

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

var (
	snapshotDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "guestctl_snapshot_duration_seconds",
			Help:    "Time taken to capture one guest state document",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
	)

	restoreKeysTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestctl_restore_keys_total",
			Help: "Total number of config key apply attempts during restore",
		},
		[]string{"status"}, // success or error
	)
)
