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
	"fmt"
	"math"
	"net/url"

	"github.com/goccy/go-json"
)

const (
	ErrorRoute = "/error"
)

// Completeness records which parts of a CompanyPayload are usable
type Completeness struct {
	BalanceSheet    bool `json:"balanceSheet"`
	IncomeStatement bool `json:"incomeStatement"`
	CashFlow        bool `json:"cashFlow"`
	CompanyName     bool `json:"companyName"`
}

// Check evaluates all four conditions; none of them short-circuits another
func Check(payload CompanyPayload) Completeness {
	return Completeness{
		BalanceSheet:    len(payload.BalanceSheet) > 0,
		IncomeStatement: len(payload.IncomeStatement) > 0,
		CashFlow:        len(payload.CashFlow) > 0,
		CompanyName:     payload.CompanyName != nil && truthy(payload.CompanyName["companyName"]),
	}
}

// Complete is true when every part is present
func (c Completeness) Complete() bool {
	return c.BalanceSheet && c.IncomeStatement && c.CashFlow && c.CompanyName
}

// Missing names the parts that failed the check
func (c Completeness) Missing() []string {
	missing := make([]string, 0, 4)
	if !c.BalanceSheet {
		missing = append(missing, "balanceSheet")
	}
	if !c.CashFlow {
		missing = append(missing, "cashFlow")
	}
	if !c.CompanyName {
		missing = append(missing, "companyName")
	}
	if !c.IncomeStatement {
		missing = append(missing, "incomeStatement")
	}
	return missing
}

// IsComplete decides if a dashboard may be shown for payload
func IsComplete(payload CompanyPayload) bool {
	return Check(payload).Complete()
}

// Route maps a gate decision to the front-end location to navigate to
func Route(ticker string, complete bool) string {
	if !complete {
		return ErrorRoute
	}
	return fmt.Sprintf("/company/%s", url.PathEscape(ticker))
}

// truthy follows the loose truthiness the remote payload was designed around:
// empty strings, zero, false and null are absent, everything else is present.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}
