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
	"github.com/penny-vault/pv-statements/taxonomy"
	"github.com/rs/zerolog/log"
)

type taxonomyResponse struct {
	Statement taxonomy.StatementType     `json:"statement"`
	Title     string                     `json:"title"`
	Groups    []taxonomy.GroupDescriptor `json:"groups"`
}

// GetTaxonomy returns the groups and metrics of one statement
func GetTaxonomy(c *fiber.Ctx) error {
	tax, err := parseStatement(c)
	if err != nil {
		return err
	}

	return c.JSON(taxonomyResponse{
		Statement: tax.Statement(),
		Title:     tax.Statement().Title(),
		Groups:    tax.Groups(),
	})
}

// ListTaxonomies returns every statement taxonomy in dashboard order
func ListTaxonomies(c *fiber.Ctx) error {
	resp := make([]taxonomyResponse, 0, len(taxonomy.StatementTypes))
	for _, statementType := range taxonomy.StatementTypes {
		tax, err := taxonomy.For(statementType)
		if err != nil {
			log.Error().Err(err).Str("Statement", statementType.String()).Msg("built-in taxonomy missing")
			return fiber.ErrInternalServerError
		}
		resp = append(resp, taxonomyResponse{
			Statement: statementType,
			Title:     statementType.Title(),
			Groups:    tax.Groups(),
		})
	}
	return c.JSON(resp)
}

func parseStatement(c *fiber.Ctx) (*taxonomy.Taxonomy, error) {
	statementType, err := taxonomy.ParseStatementType(c.Params("statement"))
	if err != nil {
		log.Debug().Str("Statement", c.Params("statement")).Msg("unknown statement requested")
		return nil, fiberError(err)
	}
	tax, err := taxonomy.For(statementType)
	if err != nil {
		return nil, fiberError(err)
	}
	return tax, nil
}
