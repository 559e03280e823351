package main

import (
	"testing"
	"time"
)

// The fetch configuration flags are shared by every subcommand, so they must
// be registered as persistent flags on the root command.
func TestSharedFlagsArePersistent(t *testing.T) {
	for _, name := range []string{"env-file", "timeout", "token-cache", "parent-dir", "delay"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("flag %q is not persistent on the root command", name)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := loadConfig(listCmd)

	if cfg.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, defaultTimeout)
	}
	if cfg.DownloadDelay != 1*time.Second {
		t.Errorf("DownloadDelay = %v, want 1s", cfg.DownloadDelay)
	}
	if cfg.ParentDir != defaultParentDir {
		t.Errorf("ParentDir = %q, want %q", cfg.ParentDir, defaultParentDir)
	}
	if cfg.UserAgent != defaultUserAgent {
		t.Errorf("UserAgent = %q, want %q", cfg.UserAgent, defaultUserAgent)
	}
}
