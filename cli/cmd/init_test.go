package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create new config"},
		{name: "overwrite existing with force", force: true, exists: true},
		{name: "fail without force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing: content\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			var cli struct {
				LogLevel  string   `default:"info"`
				Define    []string `short:"D"`
				MaxDepth  int      `default:"64"`
				Verbose   bool
				PprofMode string `name:"pprof-mode"`
			}

			parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
			if err != nil {
				t.Fatal(err)
			}

			ktx, err := parser.Parse([]string{"-D", "a=1px", "--verbose", "--pprof-mode=cpu"})
			if err != nil {
				t.Fatal(err)
			}

			err = (&Init{Force: tt.force}).Run(WithContext(t.Context(), ktx))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("config is not YAML: %v\n%s", err, data)
			}

			want := map[string]any{
				"log-level": "info",
				"define":    []any{"a=1px"},
				"max-depth": uint64(64),
				"verbose":   true,
			}

			if len(got) != len(want) {
				t.Errorf("config = %v, want %v", got, want)
			}

			for k, v := range want {
				if g, ok := got[k]; !ok || !yamlEqual(g, v) {
					t.Errorf("config[%q] = %#v, want %#v", k, g, v)
				}
			}
		})
	}
}

func yamlEqual(a, b any) bool {
	ab, err := yaml.Marshal(a)
	if err != nil {
		return false
	}

	bb, err := yaml.Marshal(b)
	if err != nil {
		return false
	}

	return string(ab) == string(bb)
}
