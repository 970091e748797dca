// Copyright 2025 The eolscout Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// The eolscout command answers end-of-life questions from the terminal and
// runs the chat API server.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/eolscout/eolscout"
	"github.com/eolscout/eolscout/cache"
	"github.com/eolscout/eolscout/cache/bolt"
	"github.com/eolscout/eolscout/config"
	"github.com/eolscout/eolscout/inventory"
	"github.com/eolscout/eolscout/log"
	"github.com/eolscout/eolscout/lookup"
	"github.com/eolscout/eolscout/provider/list"
	"github.com/eolscout/eolscout/provider/websearch"
	"github.com/eolscout/eolscout/server"
	"github.com/eolscout/eolscout/telemetry"
)

// Exit codes for the lookup command, so scripts can branch on support
// status without parsing markdown.
const (
	exitSupported = 0
	exitAtRisk    = 2
	exitUnknown   = 3
)

var (
	configPath string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "eolscout",
		Short:         "End-of-life lookups for operating systems and software",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zl, err := log.NewZapLogger(verbose)
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			log.SetLogger(zl)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config YAML")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(lookupCmd(), chatCmd(), inventoryCmd(), reportCmd(), serveCmd(), purgeCmd())

	if err := root.Execute(); err != nil {
		var ec exitCodeError
		if errors.As(err, &ec) {
			os.Exit(ec.code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// exitCodeError carries a specific process exit code through cobra.
type exitCodeError struct{ code int }

func (e exitCodeError) Error() string { return fmt.Sprintf("exit code %d", e.code) }

func buildScout(cfg *config.Config) (*eolscout.Scout, error) {
	var searcher websearch.Searcher
	if key := cfg.Providers.BingAPIKey; key != "" {
		searcher = websearch.NewBingClient(key)
	}
	var store cache.Store
	if cfg.Cache.Path != "" {
		bs, err := bolt.Open(cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
		store = bs
	}
	var backend inventory.Backend
	if cfg.Inventory.ExportPath != "" {
		backend = inventory.NewFileBackend(cfg.Inventory.ExportPath)
	}
	return eolscout.New(eolscout.Options{
		Providers:         list.All(searcher),
		DisabledProviders: cfg.Providers.Disabled,
		Store:             store,
		CacheTTL:          cfg.Cache.TTL.Std(),
		CacheNegativeTTL:  cfg.Cache.NegativeTTL.Std(),
		Backend:           backend,
		InventoryRowLimit: cfg.Inventory.RowLimit,
		Recorder:          telemetry.NewRecorder(0, nil),
		RequestDeadline:   cfg.RequestDeadline.Std(),
		ProviderTimeout:   cfg.ProviderTimeout.Std(),
		PoolSize:          cfg.PoolSize,
		HeartbeatWindow:   cfg.Inventory.HeartbeatWindow.Std(),
	}), nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// lookupCmd resolves one product given as arguments, e.g.
// "eolscout lookup windows server 2019" or "eolscout lookup postgresql 12".
func lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <product...>",
		Short: "Look up the EOL status of one product",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			scout, err := buildScout(cfg)
			if err != nil {
				return err
			}
			question := "What is the EOL of " + strings.Join(args, " ") + "?"
			resp, err := scout.Run(cmd.Context(), "cli", question)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), resp.Markdown)
			return exitFor(resp)
		},
	}
}

// exitFor maps the lookup outcome onto the documented exit codes.
func exitFor(resp *eolscout.Response) error {
	worst := exitUnknown
	for _, it := range resp.Items {
		if it.Err != nil {
			continue
		}
		switch it.Result.Status {
		case lookup.StatusEndOfLife, lookup.StatusApproachingEOL:
			return exitCodeError{code: exitAtRisk}
		case lookup.StatusActive:
			worst = exitSupported
		}
	}
	if worst == exitSupported {
		return nil
	}
	return exitCodeError{code: worst}
}

// chatCmd runs one free-form chat message through the full pipeline.
func chatCmd() *cobra.Command {
	var session string
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask a free-form EOL or inventory question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			scout, err := buildScout(cfg)
			if err != nil {
				return err
			}
			resp, err := scout.Run(cmd.Context(), session, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), resp.Markdown)
			return nil
		},
	}
	cmd.Flags().StringVar(&session, "session", "cli", "session id for telemetry")
	return cmd
}

// inventoryCmd lists the OS or software inventory from the configured
// export, without any EOL lookups.
func inventoryCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:       "inventory {os|software}",
		Short:     "List the collected OS or software inventory",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"os", "software"},
		RunE: func(cmd *cobra.Command, args []string) error {
			message := "show the os inventory"
			if args[0] == "software" {
				message = "show the software inventory"
			}
			return runCanned(cmd, days, message)
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "override the heartbeat window in days")
	return cmd
}

// reportCmd runs a grounded EOL review: collect inventory, look up every
// asset, render the risk report.
func reportCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Review the whole inventory for end-of-life risk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanned(cmd, days, "which systems in our environment are end of life?")
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "override the heartbeat window in days")
	return cmd
}

// runCanned executes a fixed message through the pipeline, optionally
// overriding the heartbeat window.
func runCanned(cmd *cobra.Command, days int, message string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if days > 0 {
		cfg.Inventory.HeartbeatWindow = config.Duration(time.Duration(days) * 24 * time.Hour)
	}
	scout, err := buildScout(cfg)
	if err != nil {
		return err
	}
	resp, err := scout.Run(cmd.Context(), "cli", message)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), resp.Markdown)
	return nil
}

// serveCmd runs the HTTP API.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			scout, err := buildScout(cfg)
			if err != nil {
				return err
			}
			srv := server.New(scout, prometheus.DefaultRegisterer)
			httpServer := &http.Server{
				Addr:              cfg.Listen,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			log.Infof("listening on %s", cfg.Listen)
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

// purgeCmd drops the persistent lookup cache.
func purgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Drop all cached lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			scout, err := buildScout(cfg)
			if err != nil {
				return err
			}
			n, err := scout.Purge()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d cached entries\n", n)
			return nil
		},
	}
}
