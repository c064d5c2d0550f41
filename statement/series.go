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
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Series is a chart ready projection of one metric. Years and Values are
// index aligned and Years is non-decreasing.
type Series struct {
	Metric string `json:"metric"`
	Years  []int  `json:"years"`
	Values []any  `json:"values"`
}

// Project sorts a copy of rs by calendar year (stable, so duplicate years keep
// their relative order) and extracts metricKey from every record. Records are
// never dropped or synthesized; a record without the field yields nil and
// values are not coerced.
func Project(rs RecordSet, metricKey string) Series {
	sorted := make(RecordSet, len(rs))
	copy(sorted, rs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CalendarYear < sorted[j].CalendarYear
	})

	series := Series{
		Metric: metricKey,
		Years:  make([]int, len(sorted)),
		Values: make([]any, len(sorted)),
	}

	for idx, record := range sorted {
		series.Years[idx] = record.CalendarYear
		series.Values[idx] = record.Value(metricKey)
	}

	return series
}

// Len returns the number of points in the series
func (s Series) Len() int {
	return len(s.Years)
}

// Copy returns a series that shares no slices with s
func (s Series) Copy() Series {
	years := make([]int, len(s.Years))
	copy(years, s.Years)
	values := make([]any, len(s.Values))
	copy(values, s.Values)
	return Series{
		Metric: s.Metric,
		Years:  years,
		Values: values,
	}
}

// Points returns the numeric points of the series for sinks that can only
// plot numbers. Nulls and non-numeric values are skipped.
func (s Series) Points() ([]int, []float64) {
	years := make([]int, 0, len(s.Years))
	values := make([]float64, 0, len(s.Values))
	for idx, v := range s.Values {
		if f, ok := Numeric(v); ok {
			years = append(years, s.Years[idx])
			values = append(values, f)
		}
	}
	return years, values
}

// Numeric converts a raw field value to float64 when it holds a number
func Numeric(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
