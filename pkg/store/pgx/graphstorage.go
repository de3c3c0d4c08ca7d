package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/unitedtribes/culturegraph/internal/util"
	"github.com/unitedtribes/culturegraph/pkg/common"
	"github.com/unitedtribes/culturegraph/pkg/logger"
	"github.com/unitedtribes/culturegraph/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// GraphDBStorage implements store.GraphStorage on PostgreSQL.
type GraphDBStorage struct {
	conn pgxIConn
}

// NewGraphDBStorageWithConnection creates a GraphDBStorage using an existing
// database connection or pool.
func NewGraphDBStorageWithConnection(conn pgxIConn) *GraphDBStorage {
	return &GraphDBStorage{conn: conn}
}

// SaveGraph replaces the stored rows for name with the given aggregation
// result and records a build. Runs in a single transaction.
func (s *GraphDBStorage) SaveGraph(ctx context.Context, name string, result common.Result) (*store.Build, error) {
	buildID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate build id: %w", err)
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"graph_relationships", "graph_entities"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE graph_name = $1`, table), name); err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	batch := &pgxv5.Batch{}
	for i, rel := range result.Relationships {
		// Evidence carries scraped article excerpts, which can contain
		// byte sequences Postgres text columns reject.
		batch.Queue(insertRelationshipSQL,
			name, i, rel.Source, rel.Target, rel.Type, rel.Confidence,
			util.SanitizePostgresText(rel.Evidence),
			string(rel.SourceCategory), string(rel.TargetCategory))
	}

	ranks := make(map[string]int, len(result.TopEntities))
	categories := make(map[string]common.Category, len(result.TopEntities))
	for i, entity := range result.TopEntities {
		ranks[entity.Name] = i
		categories[entity.Name] = entity.Category
	}
	for entityName, connections := range result.EntityConnections {
		rank, ok := ranks[entityName]
		if !ok {
			rank = -1
		}
		batch.Queue(insertEntitySQL,
			name, entityName, string(categories[entityName]), connections, rank)
	}

	batch.Queue(insertBuildSQL,
		buildID, name, result.Metadata.Version, result.Metadata.TotalInput,
		result.Metadata.Relationships, result.Metadata.Entities,
		result.Metadata.Dropped.BadName, result.Metadata.Dropped.SelfLoop,
		result.Metadata.Dropped.Duplicate)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("failed to write graph rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit graph: %w", err)
	}

	logger.Info("[Store] Saved graph",
		"graph", name, "build", buildID,
		"relationships", len(result.Relationships), "entities", len(result.EntityConnections))

	return s.GetLatestBuild(ctx, name)
}

// LoadGraph reconstructs the latest stored aggregation result for name.
func (s *GraphDBStorage) LoadGraph(ctx context.Context, name string) (*common.Result, error) {
	build, err := s.GetLatestBuild(ctx, name)
	if err != nil {
		return nil, err
	}

	result := &common.Result{
		Relationships:     make([]common.Relationship, 0),
		EntityConnections: make(map[string]int),
		TopEntities:       make([]common.Entity, 0),
		Metadata: common.Metadata{
			Version:       build.Version,
			TotalInput:    build.TotalInput,
			Relationships: build.Relationships,
			Entities:      build.Entities,
			Dropped:       build.Dropped,
			GeneratedAt:   build.CreatedAt,
		},
	}

	rows, err := s.conn.Query(ctx, selectRelationshipsSQL, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load relationships: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rel common.Relationship
		var sourceCat, targetCat string
		if err := rows.Scan(&rel.Source, &rel.Target, &rel.Type, &rel.Confidence, &rel.Evidence, &sourceCat, &targetCat); err != nil {
			return nil, fmt.Errorf("failed to scan relationship: %w", err)
		}
		rel.SourceCategory = common.Category(sourceCat)
		rel.TargetCategory = common.Category(targetCat)
		result.Relationships = append(result.Relationships, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read relationships: %w", err)
	}

	entityRows, err := s.conn.Query(ctx, selectEntitiesSQL, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load entities: %w", err)
	}
	defer entityRows.Close()
	for entityRows.Next() {
		var entity common.Entity
		var category string
		var rank int
		if err := entityRows.Scan(&entity.Name, &category, &entity.Connections, &rank); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entity.Category = common.Category(category)

		result.EntityConnections[entity.Name] = entity.Connections
		if rank >= 0 {
			result.TopEntities = append(result.TopEntities, entity)
		}
	}
	if err := entityRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entities: %w", err)
	}

	return result, nil
}

// GetTopEntities returns the ranked entities of the latest build, truncated
// to limit when limit > 0.
func (s *GraphDBStorage) GetTopEntities(ctx context.Context, name string, limit int) ([]common.Entity, error) {
	if _, err := s.GetLatestBuild(ctx, name); err != nil {
		return nil, err
	}

	sql := selectTopEntitiesSQL
	args := []any{name}
	if limit > 0 {
		sql += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load top entities: %w", err)
	}
	defer rows.Close()

	entities := make([]common.Entity, 0)
	for rows.Next() {
		var entity common.Entity
		var category string
		if err := rows.Scan(&entity.Name, &category, &entity.Connections); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entity.Category = common.Category(category)
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read top entities: %w", err)
	}

	return entities, nil
}

// GetLatestBuild returns the most recent build record for name.
func (s *GraphDBStorage) GetLatestBuild(ctx context.Context, name string) (*store.Build, error) {
	build := &store.Build{}
	err := s.conn.QueryRow(ctx, selectLatestBuildSQL, name).Scan(
		&build.ID, &build.GraphName, &build.Version, &build.TotalInput,
		&build.Relationships, &build.Entities,
		&build.Dropped.BadName, &build.Dropped.SelfLoop, &build.Dropped.Duplicate,
		&build.CreatedAt)
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return nil, store.ErrGraphNotFound
		}
		return nil, fmt.Errorf("failed to load build: %w", err)
	}

	return build, nil
}

// DeleteGraph removes all stored rows and builds for name.
func (s *GraphDBStorage) DeleteGraph(ctx context.Context, name string) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"graph_relationships", "graph_entities", "graph_builds"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE graph_name = $1`, table), name); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

const insertRelationshipSQL = `
INSERT INTO graph_relationships
  (graph_name, position, source, target, relationship_type, confidence, evidence, source_category, target_category)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

const insertEntitySQL = `
INSERT INTO graph_entities (graph_name, name, category, connections, rank)
VALUES ($1, $2, $3, $4, $5);
`

const insertBuildSQL = `
INSERT INTO graph_builds
  (id, graph_name, version, total_input, relationship_count, entity_count,
   dropped_bad_name, dropped_self_loop, dropped_duplicate)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

const selectRelationshipsSQL = `
SELECT source, target, relationship_type, confidence, evidence, source_category, target_category
FROM graph_relationships
WHERE graph_name = $1
ORDER BY position;
`

const selectEntitiesSQL = `
SELECT name, category, connections, rank
FROM graph_entities
WHERE graph_name = $1
ORDER BY CASE WHEN rank < 0 THEN 1 ELSE 0 END, rank, name;
`

const selectTopEntitiesSQL = `
SELECT name, category, connections
FROM graph_entities
WHERE graph_name = $1 AND rank >= 0
ORDER BY rank
`

const selectLatestBuildSQL = `
SELECT id, graph_name, version, total_input, relationship_count, entity_count,
       dropped_bad_name, dropped_self_loop, dropped_duplicate, created_at
FROM graph_builds
WHERE graph_name = $1
ORDER BY created_at DESC, id DESC
LIMIT 1;
`
