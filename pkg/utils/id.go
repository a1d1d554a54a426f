package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateRunID generates a run ID with a timestamp prefix and a random suffix
func GenerateRunID() string {
	timestamp := time.Now().UTC().Format("20060102-150405")
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("run-%s-%s", timestamp, suffix)
}

// ValidateRunID rejects IDs that would break URL routing.
func ValidateRunID(id string) error {
	if strings.ContainsAny(id, "/?# ") {
		return fmt.Errorf("run id %q cannot contain '/', '?', '#' or spaces", id)
	}
	return nil
}
