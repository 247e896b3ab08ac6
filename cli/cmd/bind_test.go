package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ardnew/scss/lang/diag"
)

func TestBindRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		bind    Bind
		want    string
		wantErr error
	}{
		{
			name: "positional and named",
			bind: Bind{Signature: "($a, $b: 2, $rest...)", Call: "(1, $b: 5)"},
			want: "$a: 1\n$b: 5\n$rest: ()\n",
		},
		{
			name: "default from global",
			bind: Bind{
				Session:   Session{Define: []string{"base=3px"}},
				Signature: "$size: $base * 2",
			},
			want: "$size: 6px\n",
		},
		{
			name:    "missing argument",
			bind:    Bind{Signature: "($a)", Call: "()"},
			wantErr: diag.ErrBinding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			err := tt.bind.Run(WithOutput(t.Context(), &buf))

			if tt.wantErr == nil && err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}
