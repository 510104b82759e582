//go:build !android

package utils

import "testing"

func TestStorageDefault(t *testing.T) {
	if err := EnsureStorageDir(); err != nil {
		t.Errorf("EnsureStorageDir() error: %v", err)
	}
	if got := StoragePath(); got != "" {
		t.Errorf("StoragePath() = %q, want empty", got)
	}
}
