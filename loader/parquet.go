package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"thaidrggrouper/drg"
)

// resultRow is the Parquet projection of drg.GrouperResult. Slice fields
// (sdx, procedures, cc_list, mcc_list, errors, warnings) are written as
// repeated string columns; everything else maps straight across.
//
// Column order puts the fields most queries filter or join on first
// (drg, mdc, pdx, is_valid), ahead of descriptive metadata columns.
type resultRow struct {
	DRG        string  `parquet:"drg"`
	MDC        string  `parquet:"mdc"`
	DC         string  `parquet:"dc"`
	PDx        string  `parquet:"pdx"`
	IsValid    bool    `parquet:"is_valid"`
	Version    string  `parquet:"version"`
	SDx        []string `parquet:"sdx,optional"`
	Procedures []string `parquet:"procedures,optional"`
	Age        int      `parquet:"age"`
	Sex        string   `parquet:"sex"`
	LOS        int      `parquet:"los"`
	MDCName    string   `parquet:"mdc_name,optional"`
	DRGName    string   `parquet:"drg_name,optional"`
	RW         float64  `parquet:"rw"`
	RW0D       float64  `parquet:"rw0d"`
	AdjRW      float64  `parquet:"adjrw"`
	WTLOS      float64  `parquet:"wtlos"`
	OT         int      `parquet:"ot"`
	PCL        int      `parquet:"pcl"`
	CCList     []string `parquet:"cc_list,optional"`
	MCCList    []string `parquet:"mcc_list,optional"`
	HasOR      bool     `parquet:"has_or_procedure"`
	IsSurgical bool     `parquet:"is_surgical"`
	LOSStatus  string   `parquet:"los_status"`
	Errors     []string `parquet:"errors,optional"`
	Warnings   []string `parquet:"warnings,optional"`
}

func toResultRow(r drg.GrouperResult) resultRow {
	return resultRow{
		DRG: r.DRG, MDC: r.MDC, DC: r.DC, PDx: r.PDx, IsValid: r.IsValid,
		Version: r.Version, SDx: r.SDx, Procedures: r.Procedures,
		Age: r.Age, Sex: r.Sex, LOS: r.LOS,
		MDCName: r.MDCName, DRGName: r.DRGName,
		RW: r.RW, RW0D: r.RW0D, AdjRW: r.AdjRW, WTLOS: r.WTLOS, OT: r.OT,
		PCL: r.PCL, CCList: r.CCList, MCCList: r.MCCList,
		HasOR: r.HasORProcedure, IsSurgical: r.IsSurgical, LOSStatus: r.LOSStatus,
		Errors: r.Errors, Warnings: r.Warnings,
	}
}

func fromResultRow(row resultRow) drg.GrouperResult {
	return drg.GrouperResult{
		Version: row.Version,
		PDx:     row.PDx, SDx: row.SDx, Procedures: row.Procedures,
		Age: row.Age, Sex: row.Sex, LOS: row.LOS,
		MDC: row.MDC, MDCName: row.MDCName, DC: row.DC,
		DRG: row.DRG, DRGName: row.DRGName,
		RW: row.RW, RW0D: row.RW0D, AdjRW: row.AdjRW, WTLOS: row.WTLOS, OT: row.OT,
		PCL: row.PCL, CCList: row.CCList, MCCList: row.MCCList,
		HasORProcedure: row.HasOR, IsSurgical: row.IsSurgical, LOSStatus: row.LOSStatus,
		IsValid: row.IsValid, Errors: row.Errors, Warnings: row.Warnings,
	}
}

// ResultWriter writes batches of GrouperResult to a Parquet file with a
// Zstd-compressed, statistics-enabled layout: small files, fast
// predicate pushdown on drg/mdc/pdx/is_valid for downstream analytical
// queries over a run's output.
type ResultWriter struct {
	file   *os.File
	writer *parquet.GenericWriter[resultRow]
	count  int
}

// NewResultWriter creates a Parquet writer for a batch of grouped
// admissions.
func NewResultWriter(filename string) (*ResultWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("loader: create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[resultRow](file,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.PageBufferSize(8*1024),
		parquet.WriteBufferSize(64*1024*1024),
		parquet.DataPageStatistics(true),
		parquet.CreatedBy("thaidrggrouper", "1.0", ""),
	)

	return &ResultWriter{file: file, writer: writer}, nil
}

// Write appends a batch of results. Callers should batch (e.g. 10K at a
// time) to amortize write overhead.
func (w *ResultWriter) Write(results []drg.GrouperResult) (int, error) {
	rows := make([]resultRow, len(results))
	for i, r := range results {
		rows[i] = toResultRow(r)
	}
	n, err := w.writer.Write(rows)
	w.count += n
	if err != nil {
		return n, fmt.Errorf("loader: write parquet rows: %w", err)
	}
	return n, nil
}

// Close flushes the final row group and closes the file.
func (w *ResultWriter) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("loader: close parquet writer: %w", err)
	}
	return w.file.Close()
}

// Count returns the total number of rows written.
func (w *ResultWriter) Count() int {
	return w.count
}

// ReadResults reads every GrouperResult back out of a Parquet file
// written by ResultWriter. Intended for batch sizes that comfortably
// fit in memory (audit/reporting runs); the whole file is read in one
// call rather than streamed.
func ReadResults(filename string) ([]drg.GrouperResult, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", filename, err)
	}
	defer file.Close()

	fi, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("loader: stat %s: %w", filename, err)
	}

	reader := parquet.NewGenericReader[resultRow](file, parquet.SchemaOf(resultRow{}))
	defer reader.Close()

	rows := make([]resultRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("loader: read %s (%d bytes): %w", filename, fi.Size(), err)
	}
	rows = rows[:n]

	out := make([]drg.GrouperResult, len(rows))
	for i, row := range rows {
		out[i] = fromResultRow(row)
	}
	return out, nil
}
