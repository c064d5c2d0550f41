// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
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

package statement

import (
	"github.com/penny-vault/pv-statements/taxonomy"
	"github.com/rs/zerolog/log"
)

// Selection is the active (group, metric) pair of a statement view. The
// metric is always a member of the group: every transition goes through set,
// which refuses pairs that break that rule.
type Selection struct {
	taxonomy *taxonomy.Taxonomy
	group    taxonomy.GroupDescriptor
	metric   taxonomy.MetricDescriptor
}

// SelectionState is the serializable form of a Selection
type SelectionState struct {
	Group  string                    `json:"group"`
	Metric taxonomy.MetricDescriptor `json:"metric"`
}

// NewSelection starts at the taxonomy default
func NewSelection(tax *taxonomy.Taxonomy) Selection {
	g, m := tax.Default()
	return Selection{
		taxonomy: tax,
		group:    g,
		metric:   m,
	}
}

func (s *Selection) set(g taxonomy.GroupDescriptor, m taxonomy.MetricDescriptor) bool {
	if !g.HasMetric(m.Key) {
		log.Error().Str("Group", g.Name).Str("Metric", m.Key).Msg("refusing selection with metric outside of group")
		return false
	}
	s.group = g
	s.metric = m
	return true
}

// SelectGroup activates the named group and resets the metric to its first
// entry. Unknown names leave the selection untouched and return false.
func (s *Selection) SelectGroup(name string) bool {
	g, ok := s.taxonomy.GroupByName(name)
	if !ok {
		log.Debug().Str("Statement", s.taxonomy.Statement().String()).Str("Group", name).Msg("ignoring unknown group")
		return false
	}
	return s.set(g, g.Metrics[0])
}

// SelectMetric activates key if it belongs to the active group. Keys from
// other groups are rejected and return false.
func (s *Selection) SelectMetric(key string) bool {
	m, ok := s.group.MetricByKey(key)
	if !ok {
		log.Debug().Str("Statement", s.taxonomy.Statement().String()).Str("Group", s.group.Name).Str("Metric", key).Msg("ignoring metric outside of active group")
		return false
	}
	return s.set(s.group, m)
}

// Reset returns to the taxonomy default
func (s *Selection) Reset() {
	g, m := s.taxonomy.Default()
	s.set(g, m)
}

func (s Selection) Taxonomy() *taxonomy.Taxonomy {
	return s.taxonomy
}

func (s Selection) Group() taxonomy.GroupDescriptor {
	return s.group
}

func (s Selection) Metric() taxonomy.MetricDescriptor {
	return s.metric
}

// Valid reports if the metric belongs to the group
func (s Selection) Valid() bool {
	return s.group.HasMetric(s.metric.Key)
}

func (s Selection) State() SelectionState {
	return SelectionState{
		Group:  s.group.Name,
		Metric: s.metric,
	}
}
