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

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pv-statements/data"
	"github.com/penny-vault/pv-statements/statement"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var ErrIncomplete = errors.New("company data incomplete")

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check TICKER",
	Short: "Check whether a company has enough data for a dashboard",
	Long: `Fetch the company profile and all three statements of TICKER and report
which of them are missing. Exits with status 1 when the data is incomplete.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker, err := data.NormalizeTicker(args[0])
		if err != nil {
			return err
		}

		remote := newRemote()

		var completeness statement.Completeness
		payload, err := remote.FinancialData(context.Background(), ticker)
		if err != nil {
			log.Warn().Err(err).Str("Ticker", ticker).Msg("could not fetch financial data")
		} else {
			completeness = statement.Check(payload)
		}

		out := cmd.OutOrStdout()
		if name := payload.CompanyName.Name(); name != "" {
			fmt.Fprintf(out, "%s (%s)\n", name, ticker)
			if description := payload.CompanyName.Description(); description != "" {
				fmt.Fprintf(out, "%s\n", description)
			}
			fmt.Fprintln(out)
		}

		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Part", "Present"})
		table.SetBorder(false)
		table.Append([]string{"Company Name", fmt.Sprintf("%t", completeness.CompanyName)})
		table.Append([]string{"Balance Sheet", fmt.Sprintf("%t", completeness.BalanceSheet)})
		table.Append([]string{"Income Statement", fmt.Sprintf("%t", completeness.IncomeStatement)})
		table.Append([]string{"Cash Flow", fmt.Sprintf("%t", completeness.CashFlow)})
		table.Render()

		complete := completeness.Complete()
		fmt.Fprintf(out, "\n%s complete: %t -> %s\n", ticker, complete, statement.Route(ticker, complete))
		if !complete {
			return fmt.Errorf("%w: missing %v", ErrIncomplete, completeness.Missing())
		}
		return nil
	},
}
