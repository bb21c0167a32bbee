package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
directory: /srv/notes
editor: nano
compression_level: 9
workers: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Config{Directory: "/srv/notes", Editor: "nano", CompressionLevel: 9, Workers: 2}
	if *cfg != want {
		t.Errorf("Load() = %+v, want %+v", *cfg, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() of missing file error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() = %+v, want defaults", *cfg)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadFile() should require the file to exist")
	}
}

func TestLoad_PartialAndInvalid(t *testing.T) {
	cfg, err := Load(writeConfig(t, "workers: 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Directory != "." || cfg.Workers != 3 {
		t.Errorf("partial file should keep defaults: %+v", *cfg)
	}

	if _, err := Load(writeConfig(t, "workers: [not, a, number]\n")); err == nil {
		t.Error("Load() should reject malformed YAML")
	}
}

func TestLoad_ExpandsDirectory(t *testing.T) {
	t.Setenv("CRYPTDOC_TEST_ROOT", "/data")
	cfg, err := Load(writeConfig(t, "directory: ${CRYPTDOC_TEST_ROOT}/docs\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Directory != "/data/docs" {
		t.Errorf("Directory = %q, want /data/docs", cfg.Directory)
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := &Config{Directory: "/from/file", CompressionLevel: 1, Workers: 8}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	if err := flags.Parse([]string{"--dir", "/from/flag", "--workers", "2"}); err != nil {
		t.Fatal(err)
	}

	if err := cfg.ApplyFlags(flags); err != nil {
		t.Fatalf("ApplyFlags() error = %v", err)
	}
	if cfg.Directory != "/from/flag" {
		t.Errorf("Directory = %q, want flag value", cfg.Directory)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	if cfg.CompressionLevel != 1 {
		t.Errorf("CompressionLevel = %d, unset flag should keep file value", cfg.CompressionLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", *Default(), false},
		{"empty directory", Config{}, true},
		{"level too high", Config{Directory: ".", CompressionLevel: 12}, true},
		{"negative workers", Config{Directory: ".", Workers: -1}, true},
		{"huffman only", Config{Directory: ".", CompressionLevel: -2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEditorCommand(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")

	cfg := Default()
	if got := cfg.EditorCommand(); got != "vi" {
		t.Errorf("EditorCommand() = %q, want vi", got)
	}

	t.Setenv("EDITOR", "ed")
	if got := cfg.EditorCommand(); got != "ed" {
		t.Errorf("EditorCommand() = %q, want ed", got)
	}

	t.Setenv("VISUAL", "code --wait")
	if got := cfg.EditorCommand(); got != "code --wait" {
		t.Errorf("EditorCommand() = %q, want $VISUAL", got)
	}

	cfg.Editor = "nano"
	if got := cfg.EditorCommand(); got != "nano" {
		t.Errorf("EditorCommand() = %q, want configured editor", got)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &Config{Directory: "/notes", Editor: "vim", CompressionLevel: 6, Workers: 4}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Errorf("LoadFile() = %+v, want %+v", *loaded, *cfg)
	}
}

func TestCodecAndParallel(t *testing.T) {
	cfg := &Config{Directory: ".", CompressionLevel: 9, Workers: 3}

	codec, err := cfg.Codec()
	if err != nil || codec == nil {
		t.Fatalf("Codec() = %v, %v", codec, err)
	}
	if p := cfg.Parallel(); p.MaxWorkers != 3 {
		t.Errorf("Parallel().MaxWorkers = %d, want 3", p.MaxWorkers)
	}
}
