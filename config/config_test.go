package config

import (
	"testing"

	"github.com/dkotrba/weatherpipe/chmi"
)

func TestLoadDefaultArchivePath(t *testing.T) {
	t.Setenv("CHMI_ARCHIVE_PATH", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ArchivePath != chmi.DefaultArchivePath {
		t.Fatalf("ArchivePath = %q, want %q", cfg.ArchivePath, chmi.DefaultArchivePath)
	}
}

func TestLoadArchivePathFromEnv(t *testing.T) {
	t.Setenv("CHMI_ARCHIVE_PATH", "/tmp/archive.xlsx")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ArchivePath != "/tmp/archive.xlsx" {
		t.Fatalf("ArchivePath = %q, want /tmp/archive.xlsx", cfg.ArchivePath)
	}
}
