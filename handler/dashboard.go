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
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goccy/go-json"
	"github.com/penny-vault/pv-statements/session"
	"github.com/penny-vault/pv-statements/taxonomy"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"
)

type selectGroupRequest struct {
	Name string `json:"name"`
}

type selectMetricRequest struct {
	Key string `json:"key"`
}

// CreateDashboard starts a dashboard session for a ticker
func (api *API) CreateDashboard(c *fiber.Ctx) error {
	d, err := api.Sessions.Create(c.UserContext(), c.Params("ticker"))
	if err != nil {
		log.Warn().Err(err).Str("Ticker", c.Params("ticker")).Msg("could not create dashboard")
		return fiberError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(d.Summary())
}

// GetDashboard returns the summary of a dashboard session
func (api *API) GetDashboard(c *fiber.Ctx) error {
	d, err := api.Sessions.Get(c.Params("id"))
	if err != nil {
		return fiberError(err)
	}
	return c.JSON(d.Summary())
}

// ChangeTicker rebinds a dashboard to another ticker. When a newer request
// for the same dashboard wins the race the summary reflects that request.
func (api *API) ChangeTicker(c *fiber.Ctx) error {
	d, err := api.Sessions.Get(c.Params("id"))
	if err != nil {
		return fiberError(err)
	}

	applied, err := d.Load(c.UserContext(), c.Params("ticker"))
	if err != nil {
		log.Warn().Err(err).Str("SessionID", d.ID()).Str("Ticker", c.Params("ticker")).Msg("could not change dashboard ticker")
		return fiberError(err)
	}
	if !applied {
		log.Debug().Str("SessionID", d.ID()).Str("Ticker", c.Params("ticker")).Msg("ticker change superseded")
	}

	return c.JSON(d.Summary())
}

// DeleteDashboard discards a dashboard session
func (api *API) DeleteDashboard(c *fiber.Ctx) error {
	if !api.Sessions.Delete(c.Params("id")) {
		return fiberError(session.ErrSessionNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (api *API) dashboardStatement(c *fiber.Ctx) (*session.Dashboard, taxonomy.StatementType, error) {
	tax, err := parseStatement(c)
	if err != nil {
		return nil, "", err
	}

	d, err := api.Sessions.Get(c.Params("id"))
	if err != nil {
		return nil, "", fiberError(err)
	}

	return d, tax.Statement(), nil
}

// GetView returns groups, selection, metrics and series of one statement
func (api *API) GetView(c *fiber.Ctx) error {
	d, statementType, err := api.dashboardStatement(c)
	if err != nil {
		return err
	}

	state, err := d.State(statementType)
	if err != nil {
		return fiberError(err)
	}
	return c.JSON(state)
}

func (api *API) GetGroups(c *fiber.Ctx) error {
	d, statementType, err := api.dashboardStatement(c)
	if err != nil {
		return err
	}

	groups, err := d.Groups(statementType)
	if err != nil {
		return fiberError(err)
	}
	return c.JSON(groups)
}

func (api *API) GetMetrics(c *fiber.Ctx) error {
	d, statementType, err := api.dashboardStatement(c)
	if err != nil {
		return err
	}

	metrics, err := d.Metrics(statementType)
	if err != nil {
		return fiberError(err)
	}
	return c.JSON(metrics)
}

// GetSeries returns the chart series of the active metric. Responses carry an
// ETag so that a polling chart only redraws when the series changed.
func (api *API) GetSeries(c *fiber.Ctx) error {
	d, statementType, err := api.dashboardStatement(c)
	if err != nil {
		return err
	}

	series, err := d.Series(statementType)
	if err != nil {
		return fiberError(err)
	}

	body, err := json.Marshal(series)
	if err != nil {
		log.Error().Err(err).Str("SessionID", d.ID()).Str("Statement", statementType.String()).Msg("could not marshal series")
		return fiber.ErrInternalServerError
	}

	etag := seriesETag(body)
	c.Set(fiber.HeaderETag, etag)
	if c.Get(fiber.HeaderIfNoneMatch) == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func seriesETag(body []byte) string {
	sum := blake3.Sum256(body)
	return fmt.Sprintf("\"%x\"", sum[:16])
}

// SelectGroup changes the active group of a statement. Unknown groups are
// ignored and the unchanged state is returned.
func (api *API) SelectGroup(c *fiber.Ctx) error {
	d, statementType, err := api.dashboardStatement(c)
	if err != nil {
		return err
	}

	req := selectGroupRequest{}
	if err := c.BodyParser(&req); err != nil {
		log.Warn().Err(err).Str("SessionID", d.ID()).Msg("could not parse select group request")
		return fiber.ErrBadRequest
	}

	state, err := d.SelectGroup(statementType, req.Name)
	if err != nil {
		return fiberError(err)
	}
	return c.JSON(state)
}

// SelectMetric changes the active metric of a statement. Metrics outside
// the active group are ignored and the unchanged state is returned.
func (api *API) SelectMetric(c *fiber.Ctx) error {
	d, statementType, err := api.dashboardStatement(c)
	if err != nil {
		return err
	}

	req := selectMetricRequest{}
	if err := c.BodyParser(&req); err != nil {
		log.Warn().Err(err).Str("SessionID", d.ID()).Msg("could not parse select metric request")
		return fiber.ErrBadRequest
	}

	state, err := d.SelectMetric(statementType, req.Key)
	if err != nil {
		return fiberError(err)
	}
	return c.JSON(state)
}
