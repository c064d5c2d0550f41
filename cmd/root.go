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
	"io"
	"os"
	"time"

	"github.com/penny-vault/pv-statements/common"
	"github.com/penny-vault/pv-statements/data"
	"github.com/rs/zerolog/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logCloser io.Closer

func init() {
	// Remote financial data service
	viper.BindEnv("remote.url", "PVS_REMOTE_URL")
	rootCmd.PersistentFlags().String("remote-url", data.DefaultRemoteURL, "Base URL of the remote financial data service")
	viper.BindPFlag("remote.url", rootCmd.PersistentFlags().Lookup("remote-url"))

	viper.BindEnv("remote.timeout", "PVS_REMOTE_TIMEOUT")
	rootCmd.PersistentFlags().Duration("remote-timeout", 30*time.Second, "Timeout of a single request to the remote service")
	viper.BindPFlag("remote.timeout", rootCmd.PersistentFlags().Lookup("remote-timeout"))

	// Logging configuration
	viper.BindEnv("log.level", "PVS_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "PVS_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "PVS_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	viper.BindEnv("log.pretty", "PVS_LOG_PRETTY")
	rootCmd.PersistentFlags().Bool("log-pretty", true, "Pretty print log messages")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	// OpenTelemetry
	viper.BindEnv("otlp.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
	rootCmd.PersistentFlags().String("otlp-endpoint", "", "OTLP collector to send traces to, if blank tracing is disabled")
	viper.BindPFlag("otlp.endpoint", rootCmd.PersistentFlags().Lookup("otlp-endpoint"))

	viper.BindEnv("otlp.http", "PVS_OTLP_HTTP")
	rootCmd.PersistentFlags().Bool("otlp-http", false, "Use HTTP(s) instead of gRPC for the OTLP connection")
	viper.BindPFlag("otlp.http", rootCmd.PersistentFlags().Lookup("otlp-http"))

	viper.BindEnv("otlp.insecure", "PVS_OTLP_INSECURE")
	rootCmd.PersistentFlags().Bool("otlp-insecure", false, "Disable TLS for the OTLP connection")
	viper.BindPFlag("otlp.insecure", rootCmd.PersistentFlags().Lookup("otlp-insecure"))
}

var rootCmd = &cobra.Command{
	Use:     common.ProgramName,
	Version: common.CurrentVersion.String(),
	Short:   "Explore the financial statements of public companies",
	Long: `Browse yearly balance sheet, income statement and cash flow metrics of a
company, served from a remote financial data service, as chart-ready series.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logCloser = common.SetupLogging()
	},
}

// closeLog releases the log output opened by SetupLogging
func closeLog() {
	if logCloser == nil {
		return
	}
	if err := logCloser.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	logCloser = nil
}

// newRemote creates the remote data provider from the current configuration
func newRemote() *data.Remote {
	remote := data.NewRemote(viper.GetString("remote.url"), viper.GetDuration("remote.timeout"))
	log.Info().Str("RemoteURL", remote.BaseURL()).Msg("using remote financial data service")
	return remote
}

func Execute() {
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}
