package utils

import (
	"strings"
	"sync"
	"testing"
)

func TestGenerateRunID(t *testing.T) {
	id1 := GenerateRunID()
	id2 := GenerateRunID()

	if !strings.HasPrefix(id1, "run-") {
		t.Errorf("GenerateRunID should start with 'run-': %s", id1)
	}
	if id1 == id2 {
		t.Error("GenerateRunID should return unique IDs")
	}
	// run-YYYYMMDD-HHMMSS-xxxxxxxx
	if parts := strings.Split(id1, "-"); len(parts) != 4 || len(parts[3]) != 8 {
		t.Errorf("unexpected run id layout: %s", id1)
	}
}

func TestGenerateRunIDConcurrent(t *testing.T) {
	const n = 200
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- GenerateRunID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate run id %s", id)
		}
		seen[id] = true
	}
}

func TestValidateRunID(t *testing.T) {
	if err := ValidateRunID("run-1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, bad := range []string{"a/b", "a?b", "a b", "a#b"} {
		if err := ValidateRunID(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
