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

// Package data fetches financial statements and company profiles from the
// remote financial data service.
package data

import (
	"context"

	"github.com/penny-vault/pv-statements/statement"
	"github.com/penny-vault/pv-statements/taxonomy"
)

// Provider interface for retrieving statements of a company
type Provider interface {
	// FinancialData returns the company profile and all three statements in
	// one payload; used to decide if a dashboard can be shown
	FinancialData(ctx context.Context, ticker string) (statement.CompanyPayload, error)

	// Statement returns every yearly record of one statement
	Statement(ctx context.Context, ticker string, statementType taxonomy.StatementType) (statement.RecordSet, error)

	// Company returns the company profile
	Company(ctx context.Context, ticker string) (statement.Company, error)

	RedFlags(ctx context.Context, ticker string) (string, error)
	PositiveIndicators(ctx context.Context, ticker string) (string, error)
}
