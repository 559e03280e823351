// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the dryad-fetch CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dryad-fetch/internal/dryad"
	"github.com/pdiddy/dryad-fetch/internal/fetcher"
	"github.com/pdiddy/dryad-fetch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout    = 60 * time.Second
	defaultDelay      = 1 * time.Second
	defaultUserAgent  = "dryad-fetch/0.1"
	defaultParentDir  = "downloads"
	defaultTokenCache = ".token_cache.json"
)

// rootCmd is the base command; identifiers are given as bare positional
// arguments, e.g. `dryad-fetch 8gtht76m1 2bvq83bk2`.
var rootCmd = &cobra.Command{
	Use:   "dryad-fetch [identifiers...]",
	Short: "Download datasets from the Dryad data repository",
	Long: `dryad-fetch downloads research datasets from the Dryad repository API.
Each identifier is the suffix of a Dryad DOI (doi:10.5061/dryad.<identifier>).
The tool authenticates once with the client credentials from the env file,
resolves each identifier to its latest version, and downloads that version's
files into a subdirectory per identifier under the parent directory.`,
	Args: cobra.ArbitraryArgs,
	RunE: runFetch,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("env-file", ".env", "key=value file with CLIENT_ID, CLIENT_SECRET, PARENT_DIRECTORY")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	rootCmd.PersistentFlags().String("token-cache", defaultTokenCache, "token cache file; empty disables caching")
	rootCmd.PersistentFlags().String("parent-dir", "", "base directory for downloads (overrides PARENT_DIRECTORY)")
	rootCmd.PersistentFlags().Duration("delay", 0, "delay between consecutive file downloads (default 1s)")
}

func initConfig() {
	envFile, _ := rootCmd.PersistentFlags().GetString("env-file")
	viper.SetConfigFile(envFile)
	viper.SetConfigType("dotenv")

	viper.AutomaticEnv()

	// A missing env file is fine when the variables come from the environment.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using env file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the fetch configuration from the env file, environment
// variables, and command flags. Flags win over file values.
func loadConfig(cmd *cobra.Command) types.FetchConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	parentDir, _ := cmd.Flags().GetString("parent-dir")
	if parentDir == "" {
		parentDir = viper.GetString("PARENT_DIRECTORY")
	}
	if parentDir == "" {
		parentDir = defaultParentDir
	}

	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}

	tokenCache, _ := cmd.Flags().GetString("token-cache")

	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Credentials: types.Credentials{
			ClientID:     viper.GetString("CLIENT_ID"),
			ClientSecret: viper.GetString("CLIENT_SECRET"),
		},
		ParentDir:      parentDir,
		DownloadDelay:  delay,
		TokenCachePath: tokenCache,
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more Dryad dataset identifiers (DOI suffixes)")
	}

	cfg := loadConfig(cmd)
	client := dryad.New(&http.Client{Timeout: cfg.Timeout}, cfg.HTTPConfig)

	token, err := client.Token(cfg.Credentials, cfg.TokenCachePath)
	if err != nil {
		return err
	}

	result := fetcher.FetchBatch(client, args, token, cfg, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d dataset(s) failed", result.Failed)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
