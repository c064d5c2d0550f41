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

// Package chart renders a statement series for a terminal: a year/value
// table and a line chart of the numeric points.
package chart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pv-statements/statement"
)

const NoData = "<NO DATA>"

// Table prints an ASCII formatted table of the series
func Table(series statement.Series, label string) string {
	if series.Len() == 0 {
		return NoData
	}

	if label == "" {
		label = series.Metric
	}

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Year", label})
	table.SetFooter([]string{"Num Rows", fmt.Sprintf("%d", series.Len())})
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for idx, year := range series.Years {
		table.Append([]string{strconv.Itoa(year), FormatValue(series.Values[idx])})
	}

	table.Render()
	return s.String()
}

// FormatValue renders a raw series value; missing values print as "-"
func FormatValue(v any) string {
	if v == nil {
		return "-"
	}
	if f, ok := statement.Numeric(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

// Plot draws the numeric points of the series as a line chart. Values that
// are not numbers are skipped.
func Plot(series statement.Series, caption string, height, width int) string {
	years, values := series.Points()
	if len(values) == 0 {
		return NoData
	}

	opts := []asciigraph.Option{
		asciigraph.Caption(fmt.Sprintf("%s (%d-%d)", caption, years[0], years[len(years)-1])),
	}
	if height > 0 {
		opts = append(opts, asciigraph.Height(height))
	}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}

	return asciigraph.Plot(values, opts...)
}
