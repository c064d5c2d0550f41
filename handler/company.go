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
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/penny-vault/pv-statements/data"
	"github.com/rs/zerolog/log"
)

type textPanelResponse struct {
	Ticker string `json:"ticker"`
	Text   string `json:"text"`
}

// GetCompany returns the company profile
func (api *API) GetCompany(c *fiber.Ctx) error {
	ticker, err := data.NormalizeTicker(c.Params("ticker"))
	if err != nil {
		return fiberError(err)
	}

	company, err := api.Provider.Company(c.UserContext(), ticker)
	if err != nil {
		log.Warn().Err(err).Str("Ticker", ticker).Msg("could not fetch company profile")
		return fiberError(err)
	}

	return c.JSON(company)
}

// GetRedFlags returns the red flags text of a company
func (api *API) GetRedFlags(c *fiber.Ctx) error {
	return api.textPanel(c, "RedFlags", api.Provider.RedFlags)
}

// GetPositiveIndicators returns the positive indicators text of a company
func (api *API) GetPositiveIndicators(c *fiber.Ctx) error {
	return api.textPanel(c, "PositiveIndicators", api.Provider.PositiveIndicators)
}

func (api *API) textPanel(c *fiber.Ctx, panel string, fetch func(context.Context, string) (string, error)) error {
	ticker, err := data.NormalizeTicker(c.Params("ticker"))
	if err != nil {
		return fiberError(err)
	}

	text, err := fetch(c.UserContext(), ticker)
	if err != nil {
		log.Warn().Err(err).Str("Ticker", ticker).Str("Panel", panel).Msg("could not fetch text panel")
		return fiberError(err)
	}

	return c.JSON(textPanelResponse{
		Ticker: ticker,
		Text:   text,
	})
}
