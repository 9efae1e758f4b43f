package shared

import (
	"errors"
	"testing"
)

func TestBrowserCommand(t *testing.T) {
	orig := getRuntime
	t.Cleanup(func() { getRuntime = orig })

	tc := []struct {
		goos    string
		want    string
		wantErr bool
	}{
		{goos: "darwin", want: "open"},
		{goos: "linux", want: "xdg-open"},
		{goos: "windows", want: "rundll32"},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			getRuntime = func() string { return tt.goos }

			cmd, err := browserCommand("https://example.com")
			if tt.wantErr {
				if !errors.Is(err, ErrNotImplemented) {
					t.Errorf("expected ErrNotImplemented, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("browserCommand() error = %v", err)
			}
			if cmd.Args[0] != tt.want {
				t.Errorf("browserCommand() = %s, want %s", cmd.Args[0], tt.want)
			}
			if cmd.Args[len(cmd.Args)-1] != "https://example.com" {
				t.Errorf("url should be the last argument, got %v", cmd.Args)
			}
		})
	}
}
