package cryptdoc

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name:    "zero config",
			config:  &Config{},
			wantErr: false,
		},
		{
			name:    "default config",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name:    "best compression",
			config:  &Config{CompressionLevel: gzip.BestCompression},
			wantErr: false,
		},
		{
			name:    "huffman only",
			config:  &Config{CompressionLevel: gzip.HuffmanOnly},
			wantErr: false,
		},
		{
			name:    "level too high",
			config:  &Config{CompressionLevel: 10},
			wantErr: true,
		},
		{
			name:    "level too low",
			config:  &Config{CompressionLevel: -5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_Config(t *testing.T) {
	if _, err := New(nil); err != nil {
		t.Errorf("New(nil) error = %v", err)
	}
	if _, err := New(&Config{CompressionLevel: 42}); err == nil {
		t.Error("New() should reject an invalid compression level")
	} else if !IsValidationError(err) {
		t.Errorf("New() error should be a ValidationError, got %T", err)
	}

	r := bytes.NewReader(make([]byte, SaltSize))
	c, err := New(&Config{Rand: r})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.rand != r {
		t.Error("New() should keep the injected random source")
	}
	if c.level != gzip.DefaultCompression {
		t.Errorf("New() level = %d, want default", c.level)
	}
}

func TestParallelConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ParallelConfig
		wantErr bool
	}{
		{
			name:    "default",
			config:  DefaultParallelConfig(),
			wantErr: false,
		},
		{
			name:    "zero value",
			config:  ParallelConfig{},
			wantErr: false,
		},
		{
			name:    "negative workers",
			config:  ParallelConfig{MaxWorkers: -1},
			wantErr: true,
		},
		{
			name:    "too many workers",
			config:  ParallelConfig{MaxWorkers: 1025},
			wantErr: true,
		},
		{
			name:    "negative threshold",
			config:  ParallelConfig{MinDocsForParallel: -1},
			wantErr: true,
		},
		{
			name:    "threshold too high",
			config:  ParallelConfig{MinDocsForParallel: 1001},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("ParallelConfig.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
