// Package loader reads the Thai DRG reference catalog (ICD-10, procedure,
// DRG, MDC and CC-exclusion tables) from CSV into the drg package's row
// types, and reads/writes batches of classified admissions as Parquet.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"thaidrggrouper/drg"
)

// csvTable is a minimal header-indexed CSV reader shared by every
// LoadXxxCSV function below: read the header row once, build a
// lowercase column→index map, then pull values out of each data row by
// name instead of by position.
type csvTable struct {
	rows   *csv.Reader
	colIdx map[string]int
	rowNum int64
}

func openCSVTable(path string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", path, err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("loader: read header of %s: %w", path, err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\xef\xbb\xbf"))
		colIdx[strings.ToLower(h)] = i
	}

	return &csvTable{rows: r, colIdx: colIdx, rowNum: 1}, nil
}

func (t *csvTable) next() ([]string, error) {
	row, err := t.rows.Read()
	if err != nil {
		return nil, err
	}
	t.rowNum++
	return row, nil
}

func valAt(row []string, idx map[string]int, col string) string {
	if i, ok := idx[col]; ok && i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func optStr(row []string, idx map[string]int, col string) string {
	return valAt(row, idx, col)
}

func optFloat(row []string, idx map[string]int, col string) float64 {
	s := valAt(row, idx, col)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func optInt(row []string, idx map[string]int, col string) int {
	s := valAt(row, idx, col)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func optBool(row []string, idx map[string]int, col string) bool {
	s := strings.ToLower(valAt(row, idx, col))
	return s == "1" || s == "true" || s == "yes" || s == "y"
}

// LoadICD10CSV reads the principal/secondary diagnosis catalog. Expected
// columns: code, mdc, dc_medical, dc_surgical, pdx_valid, sdx_valid,
// age_low, age_high, sex_required, cc_row, exclusion_group.
func LoadICD10CSV(path string) ([]drg.ICD10Row, error) {
	t, err := openCSVTable(path)
	if err != nil {
		return nil, err
	}

	var out []drg.ICD10Row
	for {
		row, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loader: read icd10 row %d: %w", t.rowNum, err)
		}

		code := valAt(row, t.colIdx, "code")
		if code == "" {
			continue
		}

		out = append(out, drg.ICD10Row{
			Code: code,
			Entry: drg.ICD10Entry{
				MDC:            optStr(row, t.colIdx, "mdc"),
				DCMedical:      optStr(row, t.colIdx, "dc_medical"),
				DCSurgical:     optStr(row, t.colIdx, "dc_surgical"),
				PDxValid:       optBool(row, t.colIdx, "pdx_valid"),
				SDxValid:       optBool(row, t.colIdx, "sdx_valid"),
				AgeLow:         optInt(row, t.colIdx, "age_low"),
				AgeHigh:        optInt(row, t.colIdx, "age_high"),
				SexRequired:    drg.ParseSex(optStr(row, t.colIdx, "sex_required")),
				CCRow:          optInt(row, t.colIdx, "cc_row"),
				ExclusionGroup: optStr(row, t.colIdx, "exclusion_group"),
			},
		})
	}
	return out, nil
}

// LoadProcedureCSV reads the procedure catalog. Expected columns: code,
// is_or, dc_override.
func LoadProcedureCSV(path string) ([]drg.ProcedureRow, error) {
	t, err := openCSVTable(path)
	if err != nil {
		return nil, err
	}

	var out []drg.ProcedureRow
	for {
		row, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loader: read procedure row %d: %w", t.rowNum, err)
		}

		code := valAt(row, t.colIdx, "code")
		if code == "" {
			continue
		}

		out = append(out, drg.ProcedureRow{
			Code: code,
			Entry: drg.ProcedureEntry{
				IsOR:       optBool(row, t.colIdx, "is_or"),
				DCOverride: optStr(row, t.colIdx, "dc_override"),
			},
		})
	}
	return out, nil
}

// LoadDRGCSV reads the DRG weight catalog. Expected columns: code, name,
// mdc, rw, rw0d, wtlos, ot.
func LoadDRGCSV(path string) ([]drg.DRGRow, error) {
	t, err := openCSVTable(path)
	if err != nil {
		return nil, err
	}

	var out []drg.DRGRow
	for {
		row, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loader: read drg row %d: %w", t.rowNum, err)
		}

		code := valAt(row, t.colIdx, "code")
		if code == "" {
			continue
		}

		out = append(out, drg.DRGRow{
			Entry: drg.DRGEntry{
				Code:  code,
				Name:  optStr(row, t.colIdx, "name"),
				MDC:   optStr(row, t.colIdx, "mdc"),
				RW:    optFloat(row, t.colIdx, "rw"),
				RW0D:  optFloat(row, t.colIdx, "rw0d"),
				WTLOS: optFloat(row, t.colIdx, "wtlos"),
				OT:    optInt(row, t.colIdx, "ot"),
			},
		})
	}
	return out, nil
}

// LoadMDCCSV reads the Major Diagnostic Category name table. Expected
// columns: code, name.
func LoadMDCCSV(path string) ([]drg.MDCRow, error) {
	t, err := openCSVTable(path)
	if err != nil {
		return nil, err
	}

	var out []drg.MDCRow
	for {
		row, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loader: read mdc row %d: %w", t.rowNum, err)
		}

		code := valAt(row, t.colIdx, "code")
		if code == "" {
			continue
		}

		out = append(out, drg.MDCRow{
			Code: code,
			Name: optStr(row, t.colIdx, "name"),
		})
	}
	return out, nil
}

// LoadCCExclusionCSV reads the CC/MCC exclusion pairs. Expected columns:
// exclusion_group, sdx.
func LoadCCExclusionCSV(path string) ([]drg.CCExclusionRow, error) {
	t, err := openCSVTable(path)
	if err != nil {
		return nil, err
	}

	var out []drg.CCExclusionRow
	for {
		row, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loader: read ccex row %d: %w", t.rowNum, err)
		}

		group := valAt(row, t.colIdx, "exclusion_group")
		sdx := valAt(row, t.colIdx, "sdx")
		if group == "" || sdx == "" {
			continue
		}

		out = append(out, drg.CCExclusionRow{Group: group, SDx: sdx})
	}
	return out, nil
}

// LoadAdmissionsCSV reads a batch of admissions to classify. Expected
// columns: pdx, sdx, procedures, age, sex, los. sdx and procedures are
// pipe-separated lists of codes.
func LoadAdmissionsCSV(path string) ([]drg.Admission, error) {
	t, err := openCSVTable(path)
	if err != nil {
		return nil, err
	}

	var out []drg.Admission
	for {
		row, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loader: read admission row %d: %w", t.rowNum, err)
		}

		out = append(out, drg.Admission{
			PDx:        valAt(row, t.colIdx, "pdx"),
			SDx:        splitList(valAt(row, t.colIdx, "sdx")),
			Procedures: splitList(valAt(row, t.colIdx, "procedures")),
			Age:        optInt(row, t.colIdx, "age"),
			Sex:        valAt(row, t.colIdx, "sex"),
			LOS:        optInt(row, t.colIdx, "los"),
		})
	}
	return out, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadTables reads every reference table file under dir (icd10.csv,
// procedures.csv, drg.csv, mdc.csv, ccex.csv) and assembles them into a
// drg.Tables. Pre-MDC and PCL rules are not loaded from CSV — they are
// few enough, and specific enough to a catalog version, that callers
// supply them directly (see drg.DefaultPCLRules and
// drg.NewPrefixPreMDCRule).
func LoadTables(dir string, preMDC []drg.PreMDCRule, pclRules []drg.PCLRule) (*drg.Tables, error) {
	icd10, err := LoadICD10CSV(dir + "/icd10.csv")
	if err != nil {
		return nil, err
	}
	procedures, err := LoadProcedureCSV(dir + "/procedures.csv")
	if err != nil {
		return nil, err
	}
	drgRows, err := LoadDRGCSV(dir + "/drg.csv")
	if err != nil {
		return nil, err
	}
	mdc, err := LoadMDCCSV(dir + "/mdc.csv")
	if err != nil {
		return nil, err
	}
	ccex, err := LoadCCExclusionCSV(dir + "/ccex.csv")
	if err != nil {
		return nil, err
	}

	tables, err := drg.NewTables(icd10, procedures, drgRows, mdc, ccex, preMDC, pclRules)
	if err != nil {
		return nil, fmt.Errorf("loader: assemble tables from %s: %w", dir, err)
	}
	return tables, nil
}
