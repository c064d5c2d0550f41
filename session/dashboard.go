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

// Package session keeps the per-user dashboard state of the HTTP API: which
// ticker is shown and, for each statement, the bound record set and the
// metric the user is looking at.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/penny-vault/pv-statements/data"
	"github.com/penny-vault/pv-statements/statement"
	"github.com/penny-vault/pv-statements/taxonomy"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Dashboard is one user's view of a company. Network fetches run without the
// lock held; their results re-enter through per-view rebind tokens so that
// only the most recently requested ticker is ever shown.
type Dashboard struct {
	mu sync.Mutex

	id       string
	provider data.Provider
	now      func() time.Time

	ticker      string
	boundTicker string
	company     statement.Company
	views       map[taxonomy.StatementType]*statement.View
	unavailable map[taxonomy.StatementType]bool
	generation  uint64
	loaded      uint64

	created    time.Time
	lastAccess time.Time
}

// Summary describes the dashboard independent of any statement
type Summary struct {
	ID          string                         `json:"id"`
	Ticker      string                         `json:"ticker"`
	Company     statement.Company              `json:"company"`
	Records     map[taxonomy.StatementType]int `json:"records"`
	Unavailable []taxonomy.StatementType       `json:"unavailable"`
	Loading     bool                           `json:"loading"`
	Created     time.Time                      `json:"created"`
	LastAccess  time.Time                      `json:"lastAccess"`
}

type fetchResult struct {
	records statement.RecordSet
	err     error
}

// NewDashboard creates an empty dashboard; every statement starts bound to an
// empty record set at its taxonomy default.
func NewDashboard(id string, provider data.Provider) *Dashboard {
	return newDashboard(id, provider, time.Now)
}

func newDashboard(id string, provider data.Provider, now func() time.Time) *Dashboard {
	d := &Dashboard{
		id:          id,
		provider:    provider,
		now:         now,
		views:       make(map[taxonomy.StatementType]*statement.View, len(taxonomy.StatementTypes)),
		unavailable: make(map[taxonomy.StatementType]bool),
		created:     now(),
	}
	d.lastAccess = d.created

	for _, statementType := range taxonomy.StatementTypes {
		tax, err := taxonomy.For(statementType)
		if err != nil {
			log.Panic().Err(err).Str("Statement", statementType.String()).Msg("built-in taxonomy missing")
		}
		d.views[statementType] = statement.NewView(tax, statement.RecordSet{})
	}

	return d
}

func (d *Dashboard) ID() string {
	return d.id
}

// Ticker returns the most recently requested ticker
func (d *Dashboard) Ticker() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ticker
}

func (d *Dashboard) Company() statement.Company {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.company
}

// LastAccess returns when the dashboard was last read or modified
func (d *Dashboard) LastAccess() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastAccess
}

// Touch marks the dashboard as in use
func (d *Dashboard) Touch() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastAccess = d.now()
}

// Load fetches every statement and the company profile of ticker and binds
// them. When another Load starts before this one finishes, the later request
// wins and the results of this one are discarded; applied reports whether
// this load's results are the ones now shown. A statement that cannot be
// fetched is bound to an empty record set.
func (d *Dashboard) Load(ctx context.Context, ticker string) (applied bool, err error) {
	normalized, err := data.NormalizeTicker(ticker)
	if err != nil {
		return false, err
	}

	subLog := log.With().Str("SessionID", d.id).Str("Ticker", normalized).Logger()

	d.mu.Lock()
	d.generation++
	generation := d.generation
	d.ticker = normalized
	d.lastAccess = d.now()
	tokens := make(map[taxonomy.StatementType]statement.Token, len(d.views))
	for statementType, view := range d.views {
		tokens[statementType] = view.BeginRebind()
	}
	d.mu.Unlock()

	var mu sync.Mutex
	results := make(map[taxonomy.StatementType]fetchResult, len(taxonomy.StatementTypes))
	var company statement.Company

	eg, egCtx := errgroup.WithContext(ctx)
	for _, statementType := range taxonomy.StatementTypes {
		statementType := statementType
		eg.Go(func() error {
			rs, err := d.provider.Statement(egCtx, normalized, statementType)
			mu.Lock()
			results[statementType] = fetchResult{records: rs, err: err}
			mu.Unlock()
			return nil
		})
	}
	eg.Go(func() error {
		profile, err := d.provider.Company(egCtx, normalized)
		if err != nil {
			subLog.Warn().Err(err).Msg("could not fetch company profile")
			return nil
		}
		mu.Lock()
		company = profile
		mu.Unlock()
		return nil
	})

	// every fetch reports its own failure; Wait only synchronizes
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		d.mu.Lock()
		defer d.mu.Unlock()
		// the views keep the last bound record sets; their outstanding tokens
		// stay issued so no older load can bind behind the cancelled one
		if generation == d.generation {
			d.ticker = d.boundTicker
			d.loaded = generation
		}
		subLog.Info().Err(err).Str("Shown", d.ticker).Msg("dashboard load cancelled")
		return false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for statementType, view := range d.views {
		result := results[statementType]
		rs := result.records
		if result.err != nil {
			subLog.Warn().Err(result.err).Str("Statement", statementType.String()).Msg("statement unavailable; binding empty record set")
			rs = statement.RecordSet{}
		}
		if view.RebindWithToken(tokens[statementType], rs) {
			applied = true
			d.unavailable[statementType] = result.err != nil
			subLog.Debug().Str("Statement", statementType.String()).Uint64("Token", uint64(view.Bound())).Ints("Years", rs.Years()).Msg("bound record set")
		}
	}

	if generation == d.generation {
		d.company = company
		d.boundTicker = normalized
		d.loaded = generation
		d.lastAccess = d.now()
	} else {
		subLog.Debug().Uint64("Generation", generation).Uint64("Newest", d.generation).Msg("superseded by a newer load")
	}

	return applied, nil
}

// Loading is true while the newest requested ticker has not been bound yet
func (d *Dashboard) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loaded != d.generation
}

func (d *Dashboard) view(statementType taxonomy.StatementType) (*statement.View, error) {
	view, ok := d.views[statementType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", taxonomy.ErrUnknownStatement, statementType)
	}
	d.lastAccess = d.now()
	return view, nil
}

// State returns the full view state of one statement
func (d *Dashboard) State(statementType taxonomy.StatementType) (statement.ViewState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	view, err := d.view(statementType)
	if err != nil {
		return statement.ViewState{}, err
	}
	return view.State(), nil
}

func (d *Dashboard) Groups(statementType taxonomy.StatementType) ([]taxonomy.GroupDescriptor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	view, err := d.view(statementType)
	if err != nil {
		return nil, err
	}
	return view.CurrentGroups(), nil
}

func (d *Dashboard) Metrics(statementType taxonomy.StatementType) ([]taxonomy.MetricDescriptor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	view, err := d.view(statementType)
	if err != nil {
		return nil, err
	}
	return view.CurrentMetricsForActiveGroup(), nil
}

func (d *Dashboard) Series(statementType taxonomy.StatementType) (statement.Series, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	view, err := d.view(statementType)
	if err != nil {
		return statement.Series{}, err
	}
	return view.CurrentSeries(), nil
}

// SelectGroup changes the active group of one statement. Unknown group names
// leave the selection untouched; the returned state is current either way.
func (d *Dashboard) SelectGroup(statementType taxonomy.StatementType, name string) (statement.ViewState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	view, err := d.view(statementType)
	if err != nil {
		return statement.ViewState{}, err
	}
	view.SelectGroup(name)
	return view.State(), nil
}

// SelectMetric changes the active metric within the active group
func (d *Dashboard) SelectMetric(statementType taxonomy.StatementType, key string) (statement.ViewState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	view, err := d.view(statementType)
	if err != nil {
		return statement.ViewState{}, err
	}
	view.SelectMetric(key)
	return view.State(), nil
}

// Summary snapshots the dashboard
func (d *Dashboard) Summary() Summary {
	d.mu.Lock()
	defer d.mu.Unlock()

	summary := Summary{
		ID:          d.id,
		Ticker:      d.ticker,
		Company:     d.company,
		Records:     make(map[taxonomy.StatementType]int, len(d.views)),
		Unavailable: make([]taxonomy.StatementType, 0, len(d.views)),
		Loading:     d.loaded != d.generation,
		Created:     d.created,
		LastAccess:  d.lastAccess,
	}

	for _, statementType := range taxonomy.StatementTypes {
		summary.Records[statementType] = d.views[statementType].RecordCount()
		if d.unavailable[statementType] {
			summary.Unavailable = append(summary.Unavailable, statementType)
		}
	}

	return summary
}
