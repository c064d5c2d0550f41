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
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pv-statements/taxonomy"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(taxonomyCmd)
}

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy [STATEMENT]",
	Short: "Print the metric groups of a statement",
	Long:  `Print the metric groups and metric keys of one statement, or of every statement when none is given`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		statementTypes := taxonomy.StatementTypes
		if len(args) == 1 {
			statementType, err := taxonomy.ParseStatementType(args[0])
			if err != nil {
				log.Fatal().Err(err).Msg("unknown statement")
			}
			statementTypes = []taxonomy.StatementType{statementType}
		}

		for _, statementType := range statementTypes {
			tax, err := taxonomy.For(statementType)
			if err != nil {
				log.Fatal().Err(err).Msg("unknown statement")
			}

			fmt.Println(statementType.Title())
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Group", "Metric", "Key"})
			table.SetBorder(false)
			table.SetAutoMergeCells(true)
			for _, group := range tax.Groups() {
				for _, metric := range group.Metrics {
					table.Append([]string{group.Name, metric.Label, metric.Key})
				}
			}
			table.Render()
			fmt.Println()
		}
	},
}
