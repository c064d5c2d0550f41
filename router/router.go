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

package router

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/penny-vault/pv-statements/common"
	"github.com/penny-vault/pv-statements/handler"
	"github.com/penny-vault/pv-statements/middleware"
	"github.com/spf13/viper"
)

// NewApp creates a fiber application with middleware and every route of api
func NewApp(api *handler.API) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               common.ProgramName,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})

	// Configure CORS
	origins := viper.GetString("server.cors_origins")
	if origins == "" {
		origins = "*"
	}
	corsConfig := cors.Config{
		AllowOrigins:  origins,
		AllowHeaders:  "*",
		AllowMethods:  "GET,POST,HEAD,PUT,DELETE,PATCH",
		ExposeHeaders: "ETag",
	}
	app.Use(cors.New(corsConfig))

	// Setup logging middleware
	app.Use(middleware.NewLogger())

	SetupRoutes(app, api)
	return app
}

// SetupRoutes setup router api
func SetupRoutes(app *fiber.App, api *handler.API) {
	v1 := app.Group("/v1")
	v1.Get("/ping", handler.Ping)

	// Taxonomy
	v1.Get("/taxonomy", handler.ListTaxonomies)
	v1.Get("/taxonomy/:statement", handler.GetTaxonomy)

	// Completeness gate
	v1.Get("/search/:ticker", api.Search)

	// Company text panels
	company := v1.Group("/company")
	company.Get("/:ticker", api.GetCompany)
	company.Get("/:ticker/redflags", api.GetRedFlags)
	company.Get("/:ticker/positive-indicators", api.GetPositiveIndicators)

	// Dashboard sessions
	dashboard := v1.Group("/dashboard")
	dashboard.Post("/:ticker", api.CreateDashboard)
	dashboard.Get("/:id", api.GetDashboard)
	dashboard.Delete("/:id", api.DeleteDashboard)
	dashboard.Put("/:id/ticker/:ticker", api.ChangeTicker)
	dashboard.Get("/:id/:statement", api.GetView)
	dashboard.Get("/:id/:statement/groups", api.GetGroups)
	dashboard.Get("/:id/:statement/metrics", api.GetMetrics)
	dashboard.Get("/:id/:statement/series", api.GetSeries)
	dashboard.Put("/:id/:statement/group", api.SelectGroup)
	dashboard.Put("/:id/:statement/metric", api.SelectMetric)
}
