package store

import (
	"context"
	"errors"
	"time"

	"github.com/unitedtribes/culturegraph/pkg/common"
)

// ErrGraphNotFound is returned when a named graph has no stored build.
var ErrGraphNotFound = errors.New("graph not found")

// Build records one persisted aggregation run for a named graph.
type Build struct {
	ID            string           `json:"id"`
	GraphName     string           `json:"graph_name"`
	Version       string           `json:"version"`
	TotalInput    int              `json:"total_input"`
	Relationships int              `json:"relationships"`
	Entities      int              `json:"entities"`
	Dropped       common.DropStats `json:"dropped"`
	CreatedAt     time.Time        `json:"created_at"`
}

// GraphStorage persists aggregated graphs by name. A save replaces the
// graph's previous rows in one transaction, so readers always see a
// complete build.
type GraphStorage interface {
	SaveGraph(ctx context.Context, name string, result common.Result) (*Build, error)
	LoadGraph(ctx context.Context, name string) (*common.Result, error)
	GetTopEntities(ctx context.Context, name string, limit int) ([]common.Entity, error)
	GetLatestBuild(ctx context.Context, name string) (*Build, error)
	DeleteGraph(ctx context.Context, name string) error
}
