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

// Package taxonomy declares, for each financial statement, the groups of
// metrics a user can chart and the remote field key behind each metric.
package taxonomy

import (
	"fmt"
	"strings"
)

// StatementType identifies one of the three financial statements
type StatementType string

const (
	BalanceSheet    StatementType = "balance-sheet"
	IncomeStatement StatementType = "income-statement"
	CashFlow        StatementType = "cash-flow"
)

// StatementTypes lists every statement in dashboard order
var StatementTypes = []StatementType{
	BalanceSheet,
	IncomeStatement,
	CashFlow,
}

func (s StatementType) String() string {
	return string(s)
}

// Title returns the human readable statement name
func (s StatementType) Title() string {
	switch s {
	case BalanceSheet:
		return "Balance Sheet"
	case IncomeStatement:
		return "Income Statement"
	case CashFlow:
		return "Cash Flow"
	default:
		return string(s)
	}
}

// ParseStatementType accepts the canonical dashed name as well as the camel
// case field names used by the remote service (balanceSheet, incomeStatement,
// cashFlow).
func ParseStatementType(s string) (StatementType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	switch normalized {
	case "balance-sheet", "balancesheet":
		return BalanceSheet, nil
	case "income-statement", "incomestatement":
		return IncomeStatement, nil
	case "cash-flow", "cashflow":
		return CashFlow, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatement, s)
	}
}

// MetricDescriptor is a single chartable field
type MetricDescriptor struct {
	Label string `json:"label"`
	Key   string `json:"key"`
}

// GroupDescriptor is a named cluster of metrics
type GroupDescriptor struct {
	Name    string             `json:"name"`
	Metrics []MetricDescriptor `json:"metrics"`
}

// MetricByKey returns the metric in this group with the given field key
func (g GroupDescriptor) MetricByKey(key string) (MetricDescriptor, bool) {
	for _, m := range g.Metrics {
		if m.Key == key {
			return m, true
		}
	}
	return MetricDescriptor{}, false
}

// HasMetric reports if key belongs to the group
func (g GroupDescriptor) HasMetric(key string) bool {
	_, ok := g.MetricByKey(key)
	return ok
}

// Taxonomy is the ordered list of groups for one statement. It is never
// mutated after construction; accessors hand out copies.
type Taxonomy struct {
	statement StatementType
	groups    []GroupDescriptor
}

// New validates groups and builds a taxonomy. Every group needs a unique name
// and at least one metric; metric keys must be unique within their group but
// may repeat across groups.
func New(statement StatementType, groups ...GroupDescriptor) (*Taxonomy, error) {
	if len(groups) == 0 {
		return nil, ErrNoGroups
	}

	seenGroups := make(map[string]bool, len(groups))
	copied := make([]GroupDescriptor, 0, len(groups))
	for _, g := range groups {
		if g.Name == "" {
			return nil, ErrEmptyGroupName
		}
		if seenGroups[g.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateGroup, g.Name)
		}
		seenGroups[g.Name] = true

		if len(g.Metrics) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyGroup, g.Name)
		}

		seenKeys := make(map[string]bool, len(g.Metrics))
		for _, m := range g.Metrics {
			if m.Key == "" {
				return nil, fmt.Errorf("%w: group %q", ErrEmptyMetricKey, g.Name)
			}
			if seenKeys[m.Key] {
				return nil, fmt.Errorf("%w: %q in group %q", ErrDuplicateMetric, m.Key, g.Name)
			}
			seenKeys[m.Key] = true
		}

		metrics := make([]MetricDescriptor, len(g.Metrics))
		copy(metrics, g.Metrics)
		copied = append(copied, GroupDescriptor{Name: g.Name, Metrics: metrics})
	}

	return &Taxonomy{
		statement: statement,
		groups:    copied,
	}, nil
}

// MustNew is like New but panics on invalid input. Used for the built-in
// taxonomies.
func MustNew(statement StatementType, groups ...GroupDescriptor) *Taxonomy {
	t, err := New(statement, groups...)
	if err != nil {
		panic(err)
	}
	return t
}

// Statement returns which statement this taxonomy describes
func (t *Taxonomy) Statement() StatementType {
	return t.statement
}

// Groups returns the groups in declaration order
func (t *Taxonomy) Groups() []GroupDescriptor {
	out := make([]GroupDescriptor, len(t.groups))
	for idx, g := range t.groups {
		metrics := make([]MetricDescriptor, len(g.Metrics))
		copy(metrics, g.Metrics)
		out[idx] = GroupDescriptor{Name: g.Name, Metrics: metrics}
	}
	return out
}

// GroupNames returns the group names in declaration order
func (t *Taxonomy) GroupNames() []string {
	names := make([]string, len(t.groups))
	for idx, g := range t.groups {
		names[idx] = g.Name
	}
	return names
}

// GroupByName looks up a group; the comparison is exact
func (t *Taxonomy) GroupByName(name string) (GroupDescriptor, bool) {
	for _, g := range t.groups {
		if g.Name == name {
			return copyGroup(g), true
		}
	}
	return GroupDescriptor{}, false
}

// Default returns the first group and its first metric
func (t *Taxonomy) Default() (GroupDescriptor, MetricDescriptor) {
	g := copyGroup(t.groups[0])
	return g, g.Metrics[0]
}

// Keys returns every distinct metric key in the taxonomy in declaration order
func (t *Taxonomy) Keys() []string {
	seen := make(map[string]bool)
	keys := make([]string, 0)
	for _, g := range t.groups {
		for _, m := range g.Metrics {
			if !seen[m.Key] {
				seen[m.Key] = true
				keys = append(keys, m.Key)
			}
		}
	}
	return keys
}

func copyGroup(g GroupDescriptor) GroupDescriptor {
	metrics := make([]MetricDescriptor, len(g.Metrics))
	copy(metrics, g.Metrics)
	return GroupDescriptor{Name: g.Name, Metrics: metrics}
}

// For returns the built-in taxonomy for a statement
func For(statement StatementType) (*Taxonomy, error) {
	switch statement {
	case BalanceSheet:
		return BalanceSheetTaxonomy, nil
	case IncomeStatement:
		return IncomeStatementTaxonomy, nil
	case CashFlow:
		return CashFlowTaxonomy, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatement, statement)
	}
}
