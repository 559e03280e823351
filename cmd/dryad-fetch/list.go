package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dryad-fetch/internal/dryad"
)

var listCmd = &cobra.Command{
	Use:   "list <identifier>",
	Short: "List a dataset's files without downloading them",
	Long: `List resolves a Dryad identifier to its latest version and prints the
version's file inventory (size, name, download URL).`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	identifier := args[0]

	cfg := loadConfig(cmd)
	client := dryad.New(&http.Client{Timeout: cfg.Timeout}, cfg.HTTPConfig)

	token, err := client.Token(cfg.Credentials, cfg.TokenCachePath)
	if err != nil {
		return err
	}

	versionHref, err := client.LatestVersionHref(identifier, token)
	if err != nil {
		return err
	}

	files, err := client.ListFiles(versionHref, token)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s (%d files)\n", dryad.DOI(identifier), len(files))
	for _, f := range files {
		fmt.Fprintf(os.Stdout, "%12d  %-40s  %s\n", f.Size, f.Path, client.DownloadURL(f))
	}
	return nil
}
