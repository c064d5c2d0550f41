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
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/penny-vault/pv-statements/handler"
	"github.com/penny-vault/pv-statements/observability/opentelemetry"
	"github.com/penny-vault/pv-statements/router"
	"github.com/penny-vault/pv-statements/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Profile bool

func init() {
	viper.BindEnv("server.port", "PORT")
	serveCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	viper.BindEnv("server.cors_origins", "PVS_CORS_ORIGINS")
	serveCmd.Flags().String("cors-origins", "http://localhost:3000, http://localhost:8080", "Comma separated list of origins allowed to call the API")
	viper.BindPFlag("server.cors_origins", serveCmd.Flags().Lookup("cors-origins"))

	viper.BindEnv("session.max", "PVS_SESSION_MAX")
	serveCmd.Flags().Int("session-max", session.DefaultMaxSessions, "Maximum number of dashboard sessions kept in memory")
	viper.BindPFlag("session.max", serveCmd.Flags().Lookup("session-max"))

	viper.BindEnv("session.idle", "PVS_SESSION_IDLE")
	serveCmd.Flags().Duration("session-idle", 30*time.Minute, "Discard dashboard sessions unused for this long")
	viper.BindPFlag("session.idle", serveCmd.Flags().Lookup("session-idle"))

	serveCmd.Flags().BoolVar(&Profile, "cpu-profile", false, "Run pprof and save in profile.out")

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the statements API server",
	Long:  `Run HTTP server that serves statement taxonomies, dashboard sessions and chart series`,
	Run: func(cmd *cobra.Command, args []string) {
		if Profile {
			f, err := os.Create("profile.out")
			if err != nil {
				log.Fatal().Err(err).Msg("could not create profile output file")
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				log.Fatal().Err(err).Msg("could not start cpu profile")
			}
			defer pprof.StopCPUProfile()
		}

		// Configure tracing
		if opentelemetry.Enabled() {
			shutdown, err := opentelemetry.Setup()
			if err != nil {
				log.Fatal().Err(err).Msg("could not setup OpenTelemetry")
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("could not flush traces")
				}
			}()
		}

		remote := newRemote()

		sessions, err := session.NewStore(viper.GetInt("session.max"), remote)
		if err != nil {
			log.Fatal().Err(err).Int("SessionMax", viper.GetInt("session.max")).Msg("could not create session store")
		}

		// Create new Fiber instance
		app := router.NewApp(handler.New(remote, sessions))

		// shutdown cleanly on interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			sig := <-c // block until signal is read
			fmt.Printf("Received signal: '%s'; shutting down...\n", sig.String())
			if err := app.Shutdown(); err != nil {
				log.Fatal().Err(err).Msg("could not shutdown server")
			}
		}()

		// Discard idle dashboards
		idle := viper.GetDuration("session.idle")
		scheduler := gocron.NewScheduler(time.UTC)
		if _, err := scheduler.Every(1).Minute().Do(sessions.Sweep, idle); err != nil {
			log.Fatal().Err(err).Msg("could not schedule session sweep")
		}
		scheduler.StartAsync()
		defer scheduler.Stop()

		log.Info().Int("Port", viper.GetInt("server.port")).Dur("SessionIdle", idle).Msg("starting server")
		if err := app.Listen(fmt.Sprintf(":%d", viper.GetInt("server.port"))); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	},
}
