package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveSwitch(t *testing.T) {
	// A regular file, so auto resolves to off.
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	cases := []struct {
		value   string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"off", false, false},
		{"auto", false, false},
		{"", false, false},
		{" ON ", true, false},
		{"always", false, true},
	}
	for _, tc := range cases {
		got, err := resolveSwitch("color", tc.value, f)
		if tc.wantErr {
			if err == nil {
				t.Errorf("resolveSwitch(%q): expected an error", tc.value)
			}
			continue
		}
		if err != nil {
			t.Errorf("resolveSwitch(%q): %v", tc.value, err)
			continue
		}
		if got != tc.want {
			t.Errorf("resolveSwitch(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}
