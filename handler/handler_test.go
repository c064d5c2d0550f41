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

package handler_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pv-statements/data"
	"github.com/penny-vault/pv-statements/handler"
	"github.com/penny-vault/pv-statements/router"
	"github.com/penny-vault/pv-statements/session"
	"github.com/penny-vault/pv-statements/statement"
	"github.com/penny-vault/pv-statements/taxonomy"
)

const remoteURL = "http://remote.test"

const balanceSheetAAPL = `{"balanceSheet": [
	{"calendarYear": "2021", "cashAndCashEquivalents": 34940000000, "totalLiabilities": 287912000000},
	{"calendarYear": "2019", "cashAndCashEquivalents": 48844000000, "totalLiabilities": 248028000000},
	{"calendarYear": "2020", "cashAndCashEquivalents": 38016000000, "totalLiabilities": 258549000000}
]}`

const incomeStatementAAPL = `{"incomeStatement": [
	{"calendarYear": "2020", "revenue": 274515000000, "eps": 3.31},
	{"calendarYear": "2021", "revenue": 365817000000, "eps": 5.67}
]}`

const cashFlowAAPL = `{"cashFlow": [
	{"calendarYear": "2021", "operatingCashFlow": 104038000000}
]}`

const msftBalanceSheet = `{"balanceSheet": [
	{"calendarYear": "2022", "cashAndCashEquivalents": 13931000000}
]}`

func request(app *fiber.App, method, target string, body any) *http.Response {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		Expect(err).To(BeNil())
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	Expect(err).To(BeNil())
	return resp
}

func decode(resp *http.Response, out any) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	Expect(err).To(BeNil())
	Expect(json.Unmarshal(body, out)).To(Succeed())
}

var _ = Describe("API", func() {
	var (
		app       *fiber.App
		transport *httpmock.MockTransport
	)

	BeforeEach(func() {
		transport = httpmock.NewMockTransport()
		remote := data.NewRemoteWithClient(remoteURL, &http.Client{Transport: transport})
		store, err := session.NewStore(16, remote)
		Expect(err).To(BeNil())
		app = router.NewApp(handler.New(remote, store))

		transport.RegisterResponder("GET", remoteURL+"/balanceSheetDB/AAPL", httpmock.NewStringResponder(200, balanceSheetAAPL))
		transport.RegisterResponder("GET", remoteURL+"/incomeStatementDB/AAPL", httpmock.NewStringResponder(200, incomeStatementAAPL))
		transport.RegisterResponder("GET", remoteURL+"/cashFlowDB/AAPL", httpmock.NewStringResponder(200, cashFlowAAPL))
		transport.RegisterResponder("GET", remoteURL+"/companyDB/AAPL",
			httpmock.NewStringResponder(200, `{"company": {"companyName": "Apple Inc."}}`))
	})

	It("answers pings", func() {
		resp := request(app, "GET", "/v1/ping", nil)
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

		var ping handler.PingResponse
		decode(resp, &ping)
		Expect(ping.Status).To(Equal("success"))
	})

	Context("taxonomy", func() {
		It("returns the groups of a statement", func() {
			resp := request(app, "GET", "/v1/taxonomy/income-statement", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body struct {
				Statement string                     `json:"statement"`
				Title     string                     `json:"title"`
				Groups    []taxonomy.GroupDescriptor `json:"groups"`
			}
			decode(resp, &body)
			Expect(body.Statement).To(Equal("income-statement"))
			Expect(body.Title).To(Equal("Income Statement"))
			Expect(body.Groups).To(Equal(taxonomy.IncomeStatementTaxonomy.Groups()))
		})

		It("lists every statement", func() {
			resp := request(app, "GET", "/v1/taxonomy", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body []map[string]any
			decode(resp, &body)
			Expect(body).To(HaveLen(3))
		})

		It("rejects unknown statements", func() {
			resp := request(app, "GET", "/v1/taxonomy/equity", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Context("search", func() {
		type searchBody struct {
			Ticker   string   `json:"ticker"`
			Complete bool     `json:"complete"`
			Missing  []string `json:"missing"`
			Route    string   `json:"route"`
		}

		It("routes complete companies to their dashboard", func() {
			transport.RegisterResponder("GET", remoteURL+"/financialData/AAPL", httpmock.NewStringResponder(200,
				`{"companyName": {"companyName": "Apple Inc."}, "balanceSheet": [{"calendarYear": "2021"}],
				  "incomeStatement": [{"calendarYear": "2021"}], "cashFlow": [{"calendarYear": "2021"}]}`))

			resp := request(app, "GET", "/v1/search/aapl", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body searchBody
			decode(resp, &body)
			Expect(body.Ticker).To(Equal("AAPL"))
			Expect(body.Complete).To(BeTrue())
			Expect(body.Missing).To(BeEmpty())
			Expect(body.Route).To(Equal("/company/AAPL"))
		})

		It("routes incomplete companies to the error page", func() {
			transport.RegisterResponder("GET", remoteURL+"/financialData/AAPL", httpmock.NewStringResponder(200,
				`{"companyName": {"companyName": "Apple Inc."}, "balanceSheet": [],
				  "incomeStatement": [{"calendarYear": "2021"}], "cashFlow": [{"calendarYear": "2021"}]}`))

			resp := request(app, "GET", "/v1/search/AAPL", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body searchBody
			decode(resp, &body)
			Expect(body.Complete).To(BeFalse())
			Expect(body.Missing).To(Equal([]string{"balanceSheet"}))
			Expect(body.Route).To(Equal(statement.ErrorRoute))
		})

		It("treats fetch failures as incomplete", func() {
			transport.RegisterResponder("GET", remoteURL+"/financialData/ZZZ", httpmock.NewStringResponder(500, `oops`))

			resp := request(app, "GET", "/v1/search/ZZZ", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body searchBody
			decode(resp, &body)
			Expect(body.Complete).To(BeFalse())
			Expect(body.Route).To(Equal(statement.ErrorRoute))
		})
	})

	Context("company panels", func() {
		It("passes red flags through", func() {
			transport.RegisterResponder("GET", remoteURL+"/redflags/AAPL",
				httpmock.NewStringResponder(200, `{"redflags": "Debt increased."}`))

			resp := request(app, "GET", "/v1/company/AAPL/redflags", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body map[string]string
			decode(resp, &body)
			Expect(body["text"]).To(Equal("Debt increased."))
		})

		It("passes positive indicators through", func() {
			transport.RegisterResponder("GET", remoteURL+"/positiveindicators/AAPL",
				httpmock.NewStringResponder(200, `{"positive_indicators": "Margins expanded."}`))

			resp := request(app, "GET", "/v1/company/AAPL/positive-indicators", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body map[string]string
			decode(resp, &body)
			Expect(body["text"]).To(Equal("Margins expanded."))
		})

		It("reports unknown companies", func() {
			transport.RegisterResponder("GET", remoteURL+"/companyDB/NOPE", httpmock.NewStringResponder(404, `{}`))

			resp := request(app, "GET", "/v1/company/NOPE", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})
	})

	Context("dashboards", func() {
		var id string

		BeforeEach(func() {
			resp := request(app, "POST", "/v1/dashboard/aapl", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))

			var summary session.Summary
			decode(resp, &summary)
			Expect(summary.Ticker).To(Equal("AAPL"))
			Expect(summary.Company.Name()).To(Equal("Apple Inc."))
			Expect(summary.Records[taxonomy.BalanceSheet]).To(Equal(3))
			id = summary.ID
		})

		It("returns the default view of a statement", func() {
			resp := request(app, "GET", "/v1/dashboard/"+id+"/balance-sheet", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var state statement.ViewState
			decode(resp, &state)
			Expect(state.Selection.Group).To(Equal("Assets"))
			Expect(state.Selection.Metric.Key).To(Equal("cashAndCashEquivalents"))
			Expect(state.Series.Years).To(Equal([]int{2019, 2020, 2021}))
			Expect(state.Series.Values).To(Equal([]any{48844000000.0, 38016000000.0, 34940000000.0}))
		})

		It("lists groups and metrics", func() {
			resp := request(app, "GET", "/v1/dashboard/"+id+"/balance-sheet/groups", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			var groups []taxonomy.GroupDescriptor
			decode(resp, &groups)
			Expect(groups).To(HaveLen(3))

			resp = request(app, "GET", "/v1/dashboard/"+id+"/balance-sheet/metrics", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			var metrics []taxonomy.MetricDescriptor
			decode(resp, &metrics)
			Expect(metrics[0].Key).To(Equal("cashAndCashEquivalents"))
		})

		It("changes the group and resets the metric", func() {
			resp := request(app, "PUT", "/v1/dashboard/"+id+"/balance-sheet/group", map[string]string{"name": "Liabilities"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var state statement.ViewState
			decode(resp, &state)
			Expect(state.Selection.Group).To(Equal("Liabilities"))
			Expect(state.Selection.Metric.Key).To(Equal("accountPayables"))
			Expect(state.Series.Values).To(Equal([]any{nil, nil, nil}))
		})

		It("ignores unknown groups", func() {
			resp := request(app, "PUT", "/v1/dashboard/"+id+"/income-statement/group", map[string]string{"name": "Liabilities"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var state statement.ViewState
			decode(resp, &state)
			Expect(state.Selection.Group).To(Equal("Revenue & Gross Profit"))
			Expect(state.Selection.Metric.Key).To(Equal("revenue"))
			Expect(state.Series.Values).To(Equal([]any{274515000000.0, 365817000000.0}))
		})

		It("changes the metric within the active group", func() {
			resp := request(app, "PUT", "/v1/dashboard/"+id+"/balance-sheet/group", map[string]string{"name": "Liabilities"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			resp = request(app, "PUT", "/v1/dashboard/"+id+"/balance-sheet/metric", map[string]string{"key": "totalLiabilities"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var state statement.ViewState
			decode(resp, &state)
			Expect(state.Selection.Metric.Key).To(Equal("totalLiabilities"))
			Expect(state.Series.Values).To(Equal([]any{248028000000.0, 258549000000.0, 287912000000.0}))
		})

		It("rejects malformed selection bodies", func() {
			req := httptest.NewRequest("PUT", "/v1/dashboard/"+id+"/balance-sheet/metric", bytes.NewReader([]byte("{")))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			resp, err := app.Test(req, -1)
			Expect(err).To(BeNil())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("serves the series with an ETag", func() {
			resp := request(app, "GET", "/v1/dashboard/"+id+"/income-statement/series", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			etag := resp.Header.Get(fiber.HeaderETag)
			Expect(etag).ToNot(BeEmpty())

			var series statement.Series
			decode(resp, &series)
			Expect(series.Metric).To(Equal("revenue"))
			Expect(series.Years).To(Equal([]int{2020, 2021}))

			req := httptest.NewRequest("GET", "/v1/dashboard/"+id+"/income-statement/series", nil)
			req.Header.Set(fiber.HeaderIfNoneMatch, etag)
			resp, err := app.Test(req, -1)
			Expect(err).To(BeNil())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotModified))

			resp = request(app, "PUT", "/v1/dashboard/"+id+"/income-statement/metric", map[string]string{"key": "grossProfit"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			req = httptest.NewRequest("GET", "/v1/dashboard/"+id+"/income-statement/series", nil)
			req.Header.Set(fiber.HeaderIfNoneMatch, etag)
			resp, err = app.Test(req, -1)
			Expect(err).To(BeNil())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get(fiber.HeaderETag)).ToNot(Equal(etag))
		})

		It("rebinds the dashboard to another ticker", func() {
			transport.RegisterResponder("GET", remoteURL+"/balanceSheetDB/MSFT", httpmock.NewStringResponder(200, msftBalanceSheet))
			transport.RegisterResponder("GET", remoteURL+"/incomeStatementDB/MSFT", httpmock.NewStringResponder(404, `{}`))
			transport.RegisterResponder("GET", remoteURL+"/cashFlowDB/MSFT", httpmock.NewStringResponder(200, `{"cashFlow": {}}`))
			transport.RegisterResponder("GET", remoteURL+"/companyDB/MSFT",
				httpmock.NewStringResponder(200, `{"company": {"companyName": "Microsoft Corporation"}}`))

			resp := request(app, "PUT", "/v1/dashboard/"+id+"/balance-sheet/group", map[string]string{"name": "Equity"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			resp = request(app, "PUT", "/v1/dashboard/"+id+"/ticker/msft", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var summary session.Summary
			decode(resp, &summary)
			Expect(summary.Ticker).To(Equal("MSFT"))
			Expect(summary.Company.Name()).To(Equal("Microsoft Corporation"))
			Expect(summary.Unavailable).To(Equal([]taxonomy.StatementType{taxonomy.IncomeStatement}))
			Expect(summary.Records[taxonomy.CashFlow]).To(Equal(0))

			resp = request(app, "GET", "/v1/dashboard/"+id+"/balance-sheet", nil)
			var state statement.ViewState
			decode(resp, &state)
			Expect(state.Selection.Group).To(Equal("Assets"))
			Expect(state.Series.Years).To(Equal([]int{2022}))
		})

		It("deletes dashboards", func() {
			resp := request(app, "DELETE", "/v1/dashboard/"+id, nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusNoContent))

			resp = request(app, "GET", "/v1/dashboard/"+id+"/balance-sheet", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))

			resp = request(app, "DELETE", "/v1/dashboard/"+id, nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})

		It("rejects unknown statements and sessions", func() {
			resp := request(app, "GET", "/v1/dashboard/"+id+"/equity", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			resp = request(app, "GET", "/v1/dashboard/does-not-exist/cash-flow", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})

		It("rejects invalid tickers", func() {
			resp := request(app, "POST", "/v1/dashboard/-bad", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})
})
