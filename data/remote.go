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

package data

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/pv-statements/observability/opentelemetry"
	"github.com/penny-vault/pv-statements/statement"
	"github.com/penny-vault/pv-statements/taxonomy"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Remote reads statements from the remote financial data service
type Remote struct {
	baseURL string
	client  *http.Client
}

type balanceSheetResponse struct {
	BalanceSheet statement.RecordSet `json:"balanceSheet"`
}

type incomeStatementResponse struct {
	IncomeStatement statement.RecordSet `json:"incomeStatement"`
}

type cashFlowResponse struct {
	CashFlow statement.RecordSet `json:"cashFlow"`
}

type companyResponse struct {
	Company statement.Company `json:"company"`
}

type redFlagsResponse struct {
	RedFlags string `json:"redflags"`
}

type positiveIndicatorsResponse struct {
	PositiveIndicators string `json:"positive_indicators"`
}

var DefaultRemoteURL = "http://127.0.0.1:5000"

// NewRemote creates a remote data provider
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	return NewRemoteWithClient(baseURL, &http.Client{
		Timeout: timeout,
	})
}

// NewRemoteWithClient creates a remote data provider that issues requests
// through client
func NewRemoteWithClient(baseURL string, client *http.Client) *Remote {
	if baseURL == "" {
		baseURL = DefaultRemoteURL
	}
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// BaseURL returns the root URL of the remote service
func (r *Remote) BaseURL() string {
	return r.baseURL
}

// get requests {baseURL}/{endpoint}/{ticker} and decodes the JSON body into out
func (r *Remote) get(ctx context.Context, endpoint, ticker string, out any) error {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, fmt.Sprintf("remote.%s", endpoint))
	defer span.End()

	subLog := log.With().Str("Endpoint", endpoint).Str("Ticker", ticker).Logger()

	normalized, err := NormalizeTicker(ticker)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid ticker")
		subLog.Warn().Err(err).Msg("refusing to query remote service")
		return err
	}

	reqURL := fmt.Sprintf("%s/%s/%s", r.baseURL, endpoint, url.PathEscape(normalized))
	span.SetAttributes(
		attribute.String("Url", reqURL),
		attribute.String("Ticker", normalized),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		span.RecordError(err)
		msg := "could not build remote request"
		span.SetStatus(codes.Error, msg)
		subLog.Error().Err(err).Msg(msg)
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		span.RecordError(err)
		msg := "remote http request failed"
		span.SetStatus(codes.Error, msg)
		subLog.Error().Err(err).Msg(msg)
		return err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("StatusCode", resp.StatusCode))

	if resp.StatusCode == http.StatusNotFound {
		msg := "remote service does not know ticker"
		span.SetStatus(codes.Error, msg)
		subLog.Info().Int("HTTPResponseStatusCode", resp.StatusCode).Msg(msg)
		return fmt.Errorf("%w: %s", ErrNotFound, normalized)
	}

	if resp.StatusCode >= 400 {
		msg := "remote service returned invalid response code"
		span.SetStatus(codes.Error, msg)
		subLog.Error().Int("HTTPResponseStatusCode", resp.StatusCode).Msg(msg)
		return fmt.Errorf("%w: %d", ErrRemoteStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		msg := "could not read remote body"
		span.SetStatus(codes.Error, msg)
		subLog.Error().Err(err).Msg(msg)
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		span.RecordError(err)
		msg := "could not unmarshal json"
		span.SetStatus(codes.Error, msg)
		subLog.Error().Err(err).Bytes("Body", truncate(body, 512)).Msg(msg)
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, err.Error())
	}

	subLog.Debug().Int("Bytes", len(body)).Msg("fetched from remote service")
	return nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

// Provider functions

func (r *Remote) FinancialData(ctx context.Context, ticker string) (statement.CompanyPayload, error) {
	payload := statement.CompanyPayload{}
	if err := r.get(ctx, "financialData", ticker, &payload); err != nil {
		return statement.CompanyPayload{}, err
	}
	return payload, nil
}

func (r *Remote) BalanceSheet(ctx context.Context, ticker string) (statement.RecordSet, error) {
	resp := balanceSheetResponse{}
	if err := r.get(ctx, "balanceSheetDB", ticker, &resp); err != nil {
		return nil, err
	}
	return resp.BalanceSheet, nil
}

func (r *Remote) IncomeStatement(ctx context.Context, ticker string) (statement.RecordSet, error) {
	resp := incomeStatementResponse{}
	if err := r.get(ctx, "incomeStatementDB", ticker, &resp); err != nil {
		return nil, err
	}
	return resp.IncomeStatement, nil
}

func (r *Remote) CashFlow(ctx context.Context, ticker string) (statement.RecordSet, error) {
	resp := cashFlowResponse{}
	if err := r.get(ctx, "cashFlowDB", ticker, &resp); err != nil {
		return nil, err
	}
	return resp.CashFlow, nil
}

// Statement dispatches to the endpoint of statementType
func (r *Remote) Statement(ctx context.Context, ticker string, statementType taxonomy.StatementType) (statement.RecordSet, error) {
	switch statementType {
	case taxonomy.BalanceSheet:
		return r.BalanceSheet(ctx, ticker)
	case taxonomy.IncomeStatement:
		return r.IncomeStatement(ctx, ticker)
	case taxonomy.CashFlow:
		return r.CashFlow(ctx, ticker)
	default:
		return nil, fmt.Errorf("%w: %q", taxonomy.ErrUnknownStatement, statementType)
	}
}

func (r *Remote) Company(ctx context.Context, ticker string) (statement.Company, error) {
	resp := companyResponse{}
	if err := r.get(ctx, "companyDB", ticker, &resp); err != nil {
		return nil, err
	}
	return resp.Company, nil
}

func (r *Remote) RedFlags(ctx context.Context, ticker string) (string, error) {
	resp := redFlagsResponse{}
	if err := r.get(ctx, "redflags", ticker, &resp); err != nil {
		return "", err
	}
	return resp.RedFlags, nil
}

func (r *Remote) PositiveIndicators(ctx context.Context, ticker string) (string, error) {
	resp := positiveIndicatorsResponse{}
	if err := r.get(ctx, "positiveindicators", ticker, &resp); err != nil {
		return "", err
	}
	return resp.PositiveIndicators, nil
}

var _ Provider = (*Remote)(nil)
