package common

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestMetadataGeneratedAtSerialization(t *testing.T) {
	t.Run("zero time is omitted", func(t *testing.T) {
		body, err := json.Marshal(Metadata{Version: "complete-network-v1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(string(body), "generated_at") {
			t.Errorf("zero generated_at should be omitted, got %s", body)
		}
	})

	t.Run("stamped time round-trips", func(t *testing.T) {
		stamped := time.Date(2026, 8, 29, 12, 30, 0, 0, time.UTC)
		body, err := json.Marshal(Metadata{GeneratedAt: stamped})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded Metadata
		if err := json.Unmarshal(body, &decoded); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !decoded.GeneratedAt.Equal(stamped) {
			t.Errorf("generated_at = %v, want %v", decoded.GeneratedAt, stamped)
		}
	})
}
