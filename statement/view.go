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

// Token identifies one rebind request. Tokens increase monotonically per view.
type Token uint64

// View binds a taxonomy, a record set and a selection and keeps the projected
// series of the active metric current. A View is not safe for concurrent use.
type View struct {
	taxonomy  *taxonomy.Taxonomy
	records   RecordSet
	selection Selection
	series    Series

	issued Token
	bound  Token
}

// ViewState is a snapshot of everything a presentation layer needs to draw
// one statement
type ViewState struct {
	Statement taxonomy.StatementType      `json:"statement"`
	Groups    []taxonomy.GroupDescriptor  `json:"groups"`
	Selection SelectionState              `json:"selection"`
	Metrics   []taxonomy.MetricDescriptor `json:"metrics"`
	Series    Series                      `json:"series"`
	Records   int                         `json:"records"`
}

// NewView creates a view over rs positioned at the taxonomy default
func NewView(tax *taxonomy.Taxonomy, rs RecordSet) *View {
	v := &View{
		taxonomy:  tax,
		selection: NewSelection(tax),
	}
	v.records = copyRecords(rs)
	v.recompute()
	return v
}

func copyRecords(rs RecordSet) RecordSet {
	out := make(RecordSet, len(rs))
	copy(out, rs)
	return out
}

func (v *View) recompute() {
	if !v.selection.Valid() {
		log.Error().Str("Statement", v.taxonomy.Statement().String()).Str("Group", v.selection.Group().Name).Str("Metric", v.selection.Metric().Key).Msg("selection out of sync with group; resetting")
		v.selection.Reset()
	}
	v.series = Project(v.records, v.selection.Metric().Key)
}

func (v *View) Taxonomy() *taxonomy.Taxonomy {
	return v.taxonomy
}

// Records returns the bound record set
func (v *View) Records() RecordSet {
	return copyRecords(v.records)
}

// RecordCount returns the number of bound records
func (v *View) RecordCount() int {
	return len(v.records)
}

func (v *View) Selection() Selection {
	return v.selection
}

// CurrentGroups returns every group of the bound taxonomy
func (v *View) CurrentGroups() []taxonomy.GroupDescriptor {
	return v.taxonomy.Groups()
}

// CurrentMetricsForActiveGroup returns the metrics the user may pick from
func (v *View) CurrentMetricsForActiveGroup() []taxonomy.MetricDescriptor {
	metrics := v.selection.Group().Metrics
	out := make([]taxonomy.MetricDescriptor, len(metrics))
	copy(out, metrics)
	return out
}

// CurrentSeries returns the projection of the active metric
func (v *View) CurrentSeries() Series {
	return v.series.Copy()
}

// SelectGroup forwards to the selection and recomputes the series
func (v *View) SelectGroup(name string) bool {
	if !v.selection.SelectGroup(name) {
		return false
	}
	v.recompute()
	return true
}

// SelectMetric forwards to the selection and recomputes the series
func (v *View) SelectMetric(key string) bool {
	if !v.selection.SelectMetric(key) {
		return false
	}
	v.recompute()
	return true
}

// BeginRebind reserves a token for a record set that is about to be fetched.
// Only the most recently issued token can later bind.
func (v *View) BeginRebind() Token {
	v.issued++
	return v.issued
}

// RebindWithToken binds rs if token is the newest token issued by
// BeginRebind; results for superseded requests are discarded. On success the
// selection is reset to the taxonomy default.
func (v *View) RebindWithToken(token Token, rs RecordSet) bool {
	if token != v.issued {
		log.Debug().Str("Statement", v.taxonomy.Statement().String()).Uint64("Token", uint64(token)).Uint64("Newest", uint64(v.issued)).Msg("discarding stale record set")
		return false
	}
	v.bound = token
	v.records = copyRecords(rs)
	v.selection.Reset()
	v.recompute()
	return true
}

// Rebind binds rs immediately and supersedes any outstanding token
func (v *View) Rebind(rs RecordSet) {
	v.RebindWithToken(v.BeginRebind(), rs)
}

// Bound returns the token of the record set currently bound; 0 means the
// record set given to NewView.
func (v *View) Bound() Token {
	return v.bound
}

// State snapshots the view
func (v *View) State() ViewState {
	return ViewState{
		Statement: v.taxonomy.Statement(),
		Groups:    v.CurrentGroups(),
		Selection: v.selection.State(),
		Metrics:   v.CurrentMetricsForActiveGroup(),
		Series:    v.CurrentSeries(),
		Records:   v.RecordCount(),
	}
}
