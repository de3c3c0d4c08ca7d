package broker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/unitedtribes/culturegraph/pkg/common"
)

func TestFetchParsesAllSubstructures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.Write([]byte(`{
			"connections": {
				"direct_connections": [
					{
						"entity": "Patti Smith",
						"connection_count": 2,
						"top_connections": [
							{"target": "Lou Reed", "relationship_type": "influenced", "confidence": 0.9},
							{"entity_b": "Television", "type": "collaboration"}
						]
					}
				],
				"influence_networks": [
					{"source": "Bob Dylan", "target": "Patti Smith", "relationship_type": "influenced"}
				],
				"collaborative_clusters": [
					{"entity_a": "Miles Davis", "entity_b": "John Coltrane", "type": "collaboration", "evidence": "Kind of Blue"}
				]
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(NewClientParams{BaseURL: server.URL})
	raws, err := client.Fetch(context.Background(), Query{Query: "Patti Smith", Type: "musician"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []common.RawRelationship{
		{Source: "Patti Smith", Target: "Lou Reed", Type: "influenced", Confidence: 0.9},
		{Source: "Patti Smith", Target: "Television", Type: "collaboration"},
		{Source: "Bob Dylan", Target: "Patti Smith", Type: "influenced"},
		{Source: "Miles Davis", Target: "John Coltrane", Type: "collaboration", Evidence: "Kind of Blue"},
	}
	if len(raws) != len(want) {
		t.Fatalf("got %d relationships, want %d: %+v", len(raws), len(want), raws)
	}
	for i := range want {
		if raws[i] != want[i] {
			t.Errorf("relationship %d = %+v, want %+v", i, raws[i], want[i])
		}
	}
}

func TestFetchRepairsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Unquoted keys and a trailing comma.
		w.Write([]byte(`{connections: {influence_networks: [{source: "A", target: "B",}]}}`))
	}))
	defer server.Close()

	client := NewClient(NewClientParams{BaseURL: server.URL})
	raws, err := client.Fetch(context.Background(), Query{Query: "A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raws) != 1 || raws[0].Source != "A" || raws[0].Target != "B" {
		t.Errorf("unexpected relationships: %+v", raws)
	}
}

func TestFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(NewClientParams{BaseURL: server.URL})
	if _, err := client.Fetch(context.Background(), Query{Query: "A"}); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestFetchAllSkipsFailedQueries(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"connections": {"influence_networks": [{"source": "A", "target": "B"}]}}`))
	}))
	defer server.Close()

	client := NewClient(NewClientParams{
		BaseURL:    server.URL,
		BatchSize:  1,
		BatchDelay: time.Millisecond,
	})
	raws, err := client.FetchAll(context.Background(), []Query{{Query: "fails"}, {Query: "works"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("got %d relationships, want 1 (failed query skipped)", len(raws))
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2 (no retries)", calls.Load())
	}
}

func TestFetchAllCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"connections": {}}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(NewClientParams{
		BaseURL:    server.URL,
		BatchSize:  1,
		BatchDelay: time.Minute,
	})
	if _, err := client.FetchAll(ctx, []Query{{Query: "a"}, {Query: "b"}}); err == nil {
		t.Error("expected context error")
	}
}
