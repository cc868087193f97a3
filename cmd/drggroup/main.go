// Command drggroup classifies a batch of inpatient admissions against a
// Thai DRG reference catalog and writes the results to Parquet and/or
// PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"thaidrggrouper/drg"
	"thaidrggrouper/loader"
	"thaidrggrouper/store"
)

func main() {
	tablesDir := flag.String("tables", "", "Directory of reference table CSVs (icd10.csv, procedures.csv, drg.csv, mdc.csv, ccex.csv)")
	version := flag.String("version", "local", "Catalog version label recorded with each run")
	inputFile := flag.String("file", "", "Admissions CSV to classify (pdx, sdx, procedures, age, sex, los)")
	outputFile := flag.String("out", "", "Output Parquet file for classified results")
	pgConn := flag.String("pg", "", "PostgreSQL connection string to also persist results to")
	batchSize := flag.Int("batch", 5000, "Batch size for Parquet writes and PostgreSQL transactions")
	flag.Parse()

	if *tablesDir == "" || *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: drggroup -tables <dir> -file admissions.csv [-out results.parquet] [-pg 'postgres://...'] [-version 6.3]\n")
		os.Exit(1)
	}

	if *outputFile == "" && *pgConn == "" {
		base := strings.TrimSuffix(filepath.Base(*inputFile), filepath.Ext(*inputFile))
		*outputFile = base + ".results.parquet"
	}

	if err := run(*tablesDir, *version, *inputFile, *outputFile, *pgConn, *batchSize); err != nil {
		log.Fatal(err)
	}
}

func run(tablesDir, version, inputFile, outputFile, pgConn string, batchSize int) error {
	start := time.Now()

	fmt.Printf("Tables:  %s\n", tablesDir)
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Input:   %s\n", inputFile)

	tables, err := loader.LoadTables(tablesDir, nil, nil)
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	stats := tables.Stats()
	fmt.Printf("Catalog: %d ICD-10, %d procedures, %d DRGs, %d MDCs, %d CC exclusions\n",
		stats.ICD10Count, stats.ProcedureCount, stats.DRGCount, stats.MDCCount, stats.CCExCount)

	admissions, err := loader.LoadAdmissionsCSV(inputFile)
	if err != nil {
		return fmt.Errorf("load admissions: %w", err)
	}
	fmt.Printf("Admissions: %d\n\n", len(admissions))

	engine := drg.NewEngine(version, tables)

	var writer *loader.ResultWriter
	if outputFile != "" {
		writer, err = loader.NewResultWriter(outputFile)
		if err != nil {
			return fmt.Errorf("create parquet writer: %w", err)
		}
	}

	ctx := context.Background()
	var st *store.Store
	var dbRun store.Run
	if pgConn != "" {
		st, err = store.Open(ctx, pgConn)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer st.Close()
		if err := st.InitSchema(ctx); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
		dbRun, err = st.StartRun(ctx, version, inputFile)
		if err != nil {
			return fmt.Errorf("start run: %w", err)
		}
		fmt.Printf("Postgres run: %s\n", dbRun.RunUUID)
	}

	var totalWritten int64
	var invalidCount int64
	batch := make([]drg.GrouperResult, 0, batchSize)
	lastLog := time.Now()

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if writer != nil {
			if _, err := writer.Write(batch); err != nil {
				return fmt.Errorf("write parquet batch: %w", err)
			}
		}
		if st != nil {
			if err := st.SaveBatch(ctx, dbRun, totalWritten, batch); err != nil {
				return fmt.Errorf("save postgres batch: %w", err)
			}
		}
		totalWritten += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	for _, a := range admissions {
		r := engine.Group(a)
		if !r.IsValid {
			invalidCount++
		}
		batch = append(batch, r)

		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}

		if time.Since(lastLog) >= 5*time.Second {
			fmt.Printf("  progress: %d/%d admissions classified\n", totalWritten+int64(len(batch)), len(admissions))
			lastLog = time.Now()
		}
	}
	if err := flush(); err != nil {
		return err
	}

	if writer != nil {
		if err := writer.Close(); err != nil {
			return fmt.Errorf("close parquet writer: %w", err)
		}
	}

	elapsed := time.Since(start)
	fmt.Println()
	fmt.Printf("Done in %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  Admissions:   %d\n", len(admissions))
	fmt.Printf("  Invalid:      %d\n", invalidCount)
	if writer != nil {
		fmt.Printf("  Parquet rows: %d (%s)\n", writer.Count(), outputFile)
	}
	if st != nil {
		fmt.Printf("  Postgres run: %s\n", dbRun.RunUUID)
	}
	fmt.Printf("  Throughput:   %.0f admissions/s\n", float64(len(admissions))/elapsed.Seconds())

	return nil
}
