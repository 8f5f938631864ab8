package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/fldmerge/docio"
)

type initCLI struct {
	LogLevel string `default:"warn"`
	Workers  int    `default:"3"`
	Pretty   bool
	Tags     []string     `sep:","`
	Format   docio.Format `default:"yaml"`
	Init     Init         `cmd:""`
}

type initConfig struct {
	LogLevel string   `yaml:"log-level"`
	Workers  int      `yaml:"workers"`
	Pretty   bool     `yaml:"pretty"`
	Tags     []string `yaml:"tags"`
	Format   string   `yaml:"format"`
}

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		force   bool
		exists  bool
		want    initConfig
		wantErr error
	}{
		{
			name: "defaults",
			want: initConfig{LogLevel: "warn", Workers: 3, Format: "yaml"},
		},
		{
			name: "flag_values",
			args: []string{"--workers=8", "--tags=a,b", "--format=json", "--pretty"},
			want: initConfig{
				LogLevel: "warn",
				Workers:  8,
				Pretty:   true,
				Tags:     []string{"a", "b"},
				Format:   "json",
			},
		},
		{
			name:   "overwrite_with_force",
			force:  true,
			exists: true,
			want:   initConfig{LogLevel: "warn", Workers: 3, Format: "yaml"},
		},
		{
			name:    "exists_without_force",
			exists:  true,
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			var cli initCLI

			parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
			if err != nil {
				t.Fatal(err)
			}

			ktx, err := parser.Parse(append([]string{"init"}, tt.args...))
			if err != nil {
				t.Fatal(err)
			}

			err = (&Init{Force: tt.force}).Run(WithContext(t.Context(), ktx))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			if strings.Contains(string(content), "help") {
				t.Errorf("config contains help flag:\n%s", content)
			}

			var got initConfig
			if err := yaml.Unmarshal(content, &got); err != nil {
				t.Fatalf("generated config is not valid YAML: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"bool", true, true},
		{"int", 7, 7},
		{"float", 1.5, 1.5},
		{"string", "info", "info"},
		{"empty_string", "", nil},
		{"slice", []string{"a"}, []string{"a"}},
		{"empty_slice", []string{}, nil},
		{"empty_map", map[string]string{}, nil},
		{"text_marshaler", docio.FormatJSON, "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, flagValue(tt.in)); diff != "" {
				t.Errorf("flagValue(%v) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}
