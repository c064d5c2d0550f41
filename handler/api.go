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

// Package handler implements the HTTP API the dashboard front-end talks to.
package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/penny-vault/pv-statements/data"
	"github.com/penny-vault/pv-statements/session"
	"github.com/penny-vault/pv-statements/taxonomy"
	"github.com/rs/zerolog/log"
)

// API holds the collaborators shared by every handler
type API struct {
	Provider data.Provider
	Sessions *session.Store
}

// New creates the API handlers
func New(provider data.Provider, sessions *session.Store) *API {
	return &API{
		Provider: provider,
		Sessions: sessions,
	}
}

type PingResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"API is alive"`
	Time    string `json:"time" example:"2021-06-19T08:09:10.115924-05:00"`
}

func Ping(c *fiber.Ctx) error {
	var response PingResponse
	now, err := time.Now().MarshalText()
	if err != nil {
		log.Error().Err(err).Msg("error while getting time in ping")
		response = PingResponse{
			Status:  "error",
			Message: err.Error(),
			Time:    string(now),
		}
	} else {
		response = PingResponse{
			Status:  "success",
			Message: "API is alive",
			Time:    string(now),
		}
	}
	return c.JSON(response)
}

// fiberError maps package errors to HTTP errors
func fiberError(err error) error {
	switch {
	case errors.Is(err, data.ErrInvalidTicker), errors.Is(err, taxonomy.ErrUnknownStatement):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, data.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, data.ErrRemoteStatus), errors.Is(err, data.ErrUnsupportedFormat):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.ErrGatewayTimeout
	case errors.Is(err, context.Canceled):
		return fiber.ErrRequestTimeout
	default:
		return fiber.ErrInternalServerError
	}
}
