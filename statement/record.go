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

// Package statement projects yearly statement records into chart series and
// tracks which metric of a taxonomy a user is looking at.
package statement

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

const CalendarYearKey = "calendarYear"

// YearlyRecord is one fiscal year of a statement as delivered by the remote
// service. Fields holds every field exactly as received; CalendarYear is the
// parsed year used for ordering.
type YearlyRecord struct {
	CalendarYear int
	Fields       map[string]any
}

// NewRecord builds a record for year with the given field values
func NewRecord(year int, fields map[string]any) YearlyRecord {
	f := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		f[k] = v
	}
	if _, ok := f[CalendarYearKey]; !ok {
		f[CalendarYearKey] = year
	}
	return YearlyRecord{
		CalendarYear: year,
		Fields:       f,
	}
}

// Value returns the raw value stored under key, or nil when the record does
// not carry the field.
func (r YearlyRecord) Value(key string) any {
	if r.Fields == nil {
		return nil
	}
	return r.Fields[key]
}

// UnmarshalJSON never fails on well formed JSON: anything that is not an
// object becomes an empty record and an unreadable calendarYear becomes 0.
func (r *YearlyRecord) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields, ok := raw.(map[string]any)
	if !ok {
		*r = YearlyRecord{Fields: map[string]any{}}
		return nil
	}

	*r = YearlyRecord{
		CalendarYear: parseYear(fields[CalendarYearKey]),
		Fields:       fields,
	}
	return nil
}

func (r YearlyRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	if _, ok := out[CalendarYearKey]; !ok {
		out[CalendarYearKey] = r.CalendarYear
	}
	return json.Marshal(out)
}

// parseYear reads the year from a number, a numeric string ("2023") or a
// date string ("2023-09-30").
func parseYear(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		if f, err := t.Float64(); err == nil {
			return int(f)
		}
	case string:
		s := strings.TrimSpace(t)
		if year, err := strconv.Atoi(s); err == nil {
			return year
		}
		if len(s) >= 4 {
			if year, err := strconv.Atoi(s[:4]); err == nil {
				return year
			}
		}
	}
	return 0
}

// RecordSet is every yearly record of one statement for one company. Order
// is not significant and calendarYear is not required to be unique.
type RecordSet []YearlyRecord

// UnmarshalJSON treats any non-array value (the remote service answers {}
// when its upstream fails) as an empty record set.
func (rs *RecordSet) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		*rs = RecordSet{}
		return nil
	}

	records := make([]YearlyRecord, 0)
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return err
	}
	*rs = records
	return nil
}

// Years returns the calendar years of the records in their current order
func (rs RecordSet) Years() []int {
	years := make([]int, len(rs))
	for idx, r := range rs {
		years[idx] = r.CalendarYear
	}
	return years
}

// Company is the remote company profile object. Only companyName is relied
// upon; the rest of the profile is passed through to clients.
type Company map[string]any

// UnmarshalJSON decodes objects; null or any other shape yields a nil Company
func (c *Company) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if m, ok := raw.(map[string]any); ok {
		*c = m
	} else {
		*c = nil
	}
	return nil
}

// Name returns companyName when it is a string
func (c Company) Name() string {
	if c == nil {
		return ""
	}
	if s, ok := c["companyName"].(string); ok {
		return s
	}
	return ""
}

// Description returns the profile description when present
func (c Company) Description() string {
	if c == nil {
		return ""
	}
	if s, ok := c["description"].(string); ok {
		return s
	}
	return ""
}

// CompanyPayload is everything fetched for one ticker when deciding whether a
// dashboard can be shown.
type CompanyPayload struct {
	CompanyName     Company   `json:"companyName"`
	BalanceSheet    RecordSet `json:"balanceSheet"`
	IncomeStatement RecordSet `json:"incomeStatement"`
	CashFlow        RecordSet `json:"cashFlow"`
}
