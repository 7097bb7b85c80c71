package browser

import (
	"context"
	"testing"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		goos    string
		want    string
		wantErr bool
	}{
		{"darwin", "open", false},
		{"linux", "xdg-open", false},
		{"windows", "rundll32", false},
		{"plan9", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.goos, func(t *testing.T) {
			name, args, err := Command(tc.goos, "https://soporte.example.com")
			if (err != nil) != tc.wantErr {
				t.Fatalf("Command() error = %v, wantErr %v", err, tc.wantErr)
			}
			if name != tc.want {
				t.Errorf("Command() name = %q, want %q", name, tc.want)
			}
			if !tc.wantErr && args[len(args)-1] != "https://soporte.example.com" {
				t.Errorf("Command() args = %v, want URL last", args)
			}
		})
	}
}

func TestOpenRejectsNonHTTP(t *testing.T) {
	for _, target := range []string{"file:///etc/passwd", "javascript:alert(1)", "", "https://"} {
		if err := Open(context.Background(), target); err == nil {
			t.Errorf("Open(%q) = nil, want error", target)
		}
	}
}
