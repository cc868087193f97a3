// Package store persists classified admissions to PostgreSQL using
// pgx/v5 and a hand-rolled sqlc-style query layer (store/db). It writes
// the results of each SaveBatch call in one transaction.
package store

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"thaidrggrouper/drg"
	"thaidrggrouper/store/db"
)

//go:embed sql/schema.sql
var schema string

// Store wraps a connection pool bound to one PostgreSQL database holding
// the grouper_runs/grouper_results tables.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to connStr and returns a Store. Callers own the
// lifetime of the returned Store and must call Close.
func Open(ctx context.Context, connStr string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// InitSchema creates the grouper_runs/grouper_results tables if they do
// not already exist. Safe to call on every process start.
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("store: init schema: %w", err)
	}
	return nil
}

// Run identifies one batch of grouped admissions persisted together.
type Run struct {
	ID      int64
	RunUUID uuid.UUID
}

// StartRun records the start of a new grouping run and returns its
// identity. The returned Run's RunUUID can be handed to callers (e.g. a
// CLI) as a stable external reference to the run.
func (s *Store) StartRun(ctx context.Context, version, sourcePath string) (Run, error) {
	id := uuid.New()
	q := db.New(s.pool)
	runID, err := q.InsertRun(ctx, db.InsertRunParams{
		RunUUID:    id,
		Version:    version,
		SourcePath: sourcePath,
	})
	if err != nil {
		return Run{}, fmt.Errorf("store: start run: %w", err)
	}
	return Run{ID: runID, RunUUID: id}, nil
}

// SaveBatch writes results to one run inside a single transaction,
// starting at sequence number startSeq (callers track the running
// offset across repeated SaveBatch calls for one run). It rolls back
// entirely on any per-row failure: a partially written batch would make
// ListResultsByRun's seq gaps ambiguous between "classifier produced no
// result" and "write failed midway".
func (s *Store) SaveBatch(ctx context.Context, run Run, startSeq int64, results []drg.GrouperResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// The array columns are NOT NULL; a nil slice would be sent as NULL.
	orEmpty := func(s []string) []string {
		if s == nil {
			return []string{}
		}
		return s
	}

	q := db.New(tx)
	for i, r := range results {
		err := q.InsertResult(ctx, db.InsertResultParams{
			RunID: run.ID, Seq: startSeq + int64(i),
			Version: r.Version, PDx: r.PDx, SDx: orEmpty(r.SDx), Procedures: orEmpty(r.Procedures),
			Age: int32(r.Age), Sex: r.Sex, LOS: int32(r.LOS),
			MDC: r.MDC, MDCName: r.MDCName, DC: r.DC, DRG: r.DRG, DRGName: r.DRGName,
			RW: r.RW, RW0D: r.RW0D, AdjRW: r.AdjRW, WTLOS: r.WTLOS, OT: int32(r.OT),
			PCL: int32(r.PCL), CCList: orEmpty(r.CCList), MCCList: orEmpty(r.MCCList),
			HasORProcedure: r.HasORProcedure, IsSurgical: r.IsSurgical, LOSStatus: r.LOSStatus,
			IsValid: r.IsValid, Errors: orEmpty(r.Errors), Warnings: orEmpty(r.Warnings),
		})
		if err != nil {
			return fmt.Errorf("store: insert result %d (seq %d): %w", i, startSeq+int64(i), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// LoadRun reads back every result recorded for a run, in write order.
func (s *Store) LoadRun(ctx context.Context, runID int64) ([]drg.GrouperResult, error) {
	q := db.New(s.pool)
	rows, err := q.ListResultsByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("store: load run %d: %w", runID, err)
	}

	out := make([]drg.GrouperResult, len(rows))
	for i, row := range rows {
		out[i] = drg.GrouperResult{
			Version: row.Version, PDx: row.PDx, SDx: row.SDx, Procedures: row.Procedures,
			Age: int(row.Age), Sex: row.Sex, LOS: int(row.LOS),
			MDC: row.MDC, MDCName: row.MDCName, DC: row.DC, DRG: row.DRG, DRGName: row.DRGName,
			RW: row.RW, RW0D: row.RW0D, AdjRW: row.AdjRW, WTLOS: row.WTLOS, OT: int(row.OT),
			PCL: int(row.PCL), CCList: row.CCList, MCCList: row.MCCList,
			HasORProcedure: row.HasORProcedure, IsSurgical: row.IsSurgical, LOSStatus: row.LOSStatus,
			IsValid: row.IsValid, Errors: row.Errors, Warnings: row.Warnings,
		}
	}
	return out, nil
}

// InvalidCount reports how many results in a run failed grouping.
func (s *Store) InvalidCount(ctx context.Context, runID int64) (int64, error) {
	q := db.New(s.pool)
	n, err := q.CountInvalidByRun(ctx, runID)
	if err != nil {
		return 0, fmt.Errorf("store: count invalid for run %d: %w", runID, err)
	}
	return n, nil
}
