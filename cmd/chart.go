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
	"fmt"

	"github.com/penny-vault/pv-statements/chart"
	"github.com/penny-vault/pv-statements/statement"
	"github.com/penny-vault/pv-statements/taxonomy"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	chartStatement string
	chartGroup     string
	chartMetric    string
	chartHeight    int
	chartWidth     int
)

func init() {
	chartCmd.Flags().StringVarP(&chartStatement, "statement", "s", taxonomy.BalanceSheet.String(), "Statement to chart: balance-sheet, income-statement or cash-flow")
	chartCmd.Flags().StringVarP(&chartGroup, "group", "g", "", "Metric group, defaults to the first group of the statement")
	chartCmd.Flags().StringVarP(&chartMetric, "metric", "m", "", "Metric key within the group, defaults to the first metric of the group")
	chartCmd.Flags().IntVar(&chartHeight, "height", 12, "Chart height in lines")
	chartCmd.Flags().IntVar(&chartWidth, "width", 0, "Chart width in columns, 0 to use one column per year")

	rootCmd.AddCommand(chartCmd)
}

var chartCmd = &cobra.Command{
	Use:   "chart TICKER",
	Short: "Chart one metric of a company in the terminal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		statementType, err := taxonomy.ParseStatementType(chartStatement)
		if err != nil {
			log.Fatal().Err(err).Msg("unknown statement")
		}

		tax, err := taxonomy.For(statementType)
		if err != nil {
			log.Fatal().Err(err).Msg("unknown statement")
		}

		remote := newRemote()
		rs, err := remote.Statement(context.Background(), args[0], statementType)
		if err != nil {
			log.Error().Err(err).Str("Ticker", args[0]).Str("Statement", statementType.String()).Msg("statement unavailable; charting an empty record set")
			rs = statement.RecordSet{}
		}

		view := statement.NewView(tax, rs)
		if chartGroup != "" && !view.SelectGroup(chartGroup) {
			log.Warn().Str("Group", chartGroup).Strs("Groups", tax.GroupNames()).Msg("unknown group; keeping the default")
		}
		if chartMetric != "" && !view.SelectMetric(chartMetric) {
			subLog := log.With().Str("Metric", chartMetric).Str("Group", view.Selection().Group().Name).Logger()
			if containsKey(tax.Keys(), chartMetric) {
				subLog.Warn().Msg("metric belongs to another group; select that group with --group")
			} else {
				subLog.Warn().Msg("unknown metric; keeping the current metric")
			}
		}

		selection := view.Selection()
		series := view.CurrentSeries()
		caption := fmt.Sprintf("%s: %s / %s", statementType.Title(), selection.Group().Name, selection.Metric().Label)

		fmt.Println(chart.Table(series, selection.Metric().Label))
		fmt.Println()
		fmt.Println(chart.Plot(series, caption, chartHeight, chartWidth))
	},
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
