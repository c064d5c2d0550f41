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

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/penny-vault/pv-statements/data"
	"github.com/penny-vault/pv-statements/observability/opentelemetry"
	"github.com/penny-vault/pv-statements/statement"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type searchResponse struct {
	Ticker   string   `json:"ticker"`
	Complete bool     `json:"complete"`
	Missing  []string `json:"missing"`
	Route    string   `json:"route"`
}

// Search runs the completeness gate for a ticker. Any failure to fetch the
// company's data counts as incomplete; only malformed tickers are rejected.
func (api *API) Search(c *fiber.Ctx) error {
	ticker, err := data.NormalizeTicker(c.Params("ticker"))
	if err != nil {
		return fiberError(err)
	}

	ctx, span := otel.Tracer(opentelemetry.Name).Start(c.UserContext(), "Search",
		trace.WithAttributes(opentelemetry.SpanAttributesFromFiber(c)...))
	defer span.End()

	subLog := log.With().Str("Ticker", ticker).Str("Endpoint", "Search").Logger()

	var completeness statement.Completeness
	payload, err := api.Provider.FinancialData(ctx, ticker)
	if err != nil {
		subLog.Info().Err(err).Msg("could not fetch financial data; treating as incomplete")
	} else {
		completeness = statement.Check(payload)
	}

	complete := completeness.Complete()
	span.SetAttributes(attribute.Bool("Complete", complete))
	if !complete {
		subLog.Info().Strs("Missing", completeness.Missing()).Msg("company data incomplete")
	}

	return c.JSON(searchResponse{
		Ticker:   ticker,
		Complete: complete,
		Missing:  completeness.Missing(),
		Route:    statement.Route(ticker, complete),
	})
}
