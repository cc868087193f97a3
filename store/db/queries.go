// Package db is a small, hand-written sqlc-style query layer: a DBTX
// interface any of *pgxpool.Pool, pgx.Tx, or pgx.Conn satisfies, and one
// method per statement the store package issues. It exists so store.go
// never builds SQL strings inline.
package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx's pool/conn/tx surface every query below
// needs. Passing a pgx.Tx lets callers batch several queries into one
// transaction; passing a *pgxpool.Pool runs each query on its own
// connection.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries wraps a DBTX with the statements the store package needs.
type Queries struct {
	db DBTX
}

// New returns a Queries bound to db (a pool, a connection, or a
// transaction).
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// InsertRunParams are the columns of one grouper_runs row.
type InsertRunParams struct {
	RunUUID    uuid.UUID
	Version    string
	SourcePath string
}

// InsertRun records the start of a grouping run and returns its id.
func (q *Queries) InsertRun(ctx context.Context, arg InsertRunParams) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx,
		`INSERT INTO grouper_runs (run_uuid, version, source_path) VALUES ($1, $2, $3) RETURNING id`,
		arg.RunUUID, arg.Version, nullIfEmpty(arg.SourcePath),
	).Scan(&id)
	return id, err
}

// InsertResultParams are the columns of one grouper_results row.
type InsertResultParams struct {
	RunID          int64
	Seq            int64
	Version        string
	PDx            string
	SDx            []string
	Procedures     []string
	Age            int32
	Sex            string
	LOS            int32
	MDC            string
	MDCName        string
	DC             string
	DRG            string
	DRGName        string
	RW             float64
	RW0D           float64
	AdjRW          float64
	WTLOS          float64
	OT             int32
	PCL            int32
	CCList         []string
	MCCList        []string
	HasORProcedure bool
	IsSurgical     bool
	LOSStatus      string
	IsValid        bool
	Errors         []string
	Warnings       []string
}

// InsertResult writes one classified admission.
func (q *Queries) InsertResult(ctx context.Context, arg InsertResultParams) error {
	_, err := q.db.Exec(ctx, insertResultSQL,
		arg.RunID, arg.Seq, arg.Version, arg.PDx, arg.SDx, arg.Procedures,
		arg.Age, arg.Sex, arg.LOS,
		arg.MDC, arg.MDCName, arg.DC, arg.DRG, arg.DRGName,
		arg.RW, arg.RW0D, arg.AdjRW, arg.WTLOS, arg.OT,
		arg.PCL, arg.CCList, arg.MCCList, arg.HasORProcedure, arg.IsSurgical, arg.LOSStatus,
		arg.IsValid, arg.Errors, arg.Warnings,
	)
	return err
}

const insertResultSQL = `
INSERT INTO grouper_results (
	run_id, seq, version, pdx, sdx, procedures,
	age, sex, los,
	mdc, mdc_name, dc, drg, drg_name,
	rw, rw0d, adjrw, wtlos, ot,
	pcl, cc_list, mcc_list, has_or_procedure, is_surgical, los_status,
	is_valid, errors, warnings
) VALUES (
	$1, $2, $3, $4, $5, $6,
	$7, $8, $9,
	$10, $11, $12, $13, $14,
	$15, $16, $17, $18, $19,
	$20, $21, $22, $23, $24, $25,
	$26, $27, $28
)`

// ResultRow is one row scanned back out of grouper_results.
type ResultRow struct {
	Seq            int64
	Version        string
	PDx            string
	SDx            []string
	Procedures     []string
	Age            int32
	Sex            string
	LOS            int32
	MDC            string
	MDCName        string
	DC             string
	DRG            string
	DRGName        string
	RW             float64
	RW0D           float64
	AdjRW          float64
	WTLOS          float64
	OT             int32
	PCL            int32
	CCList         []string
	MCCList        []string
	HasORProcedure bool
	IsSurgical     bool
	LOSStatus      string
	IsValid        bool
	Errors         []string
	Warnings       []string
}

// ListResultsByRun returns every result recorded for one run, ordered by
// the sequence number they were written in.
func (q *Queries) ListResultsByRun(ctx context.Context, runID int64) ([]ResultRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT seq, version, pdx, sdx, procedures, age, sex, los,
		       mdc, mdc_name, dc, drg, drg_name,
		       rw, rw0d, adjrw, wtlos, ot,
		       pcl, cc_list, mcc_list, has_or_procedure, is_surgical, los_status,
		       is_valid, errors, warnings
		FROM grouper_results
		WHERE run_id = $1
		ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResultRow
	for rows.Next() {
		var r ResultRow
		if err := rows.Scan(
			&r.Seq, &r.Version, &r.PDx, &r.SDx, &r.Procedures, &r.Age, &r.Sex, &r.LOS,
			&r.MDC, &r.MDCName, &r.DC, &r.DRG, &r.DRGName,
			&r.RW, &r.RW0D, &r.AdjRW, &r.WTLOS, &r.OT,
			&r.PCL, &r.CCList, &r.MCCList, &r.HasORProcedure, &r.IsSurgical, &r.LOSStatus,
			&r.IsValid, &r.Errors, &r.Warnings,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountInvalidByRun reports how many results in a run failed grouping
// (is_valid = false), for a quick post-run sanity check.
func (q *Queries) CountInvalidByRun(ctx context.Context, runID int64) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx,
		`SELECT count(*) FROM grouper_results WHERE run_id = $1 AND NOT is_valid`, runID,
	).Scan(&n)
	return n, err
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
