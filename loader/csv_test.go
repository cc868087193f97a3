package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadICD10CSV(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "icd10.csv", `code,mdc,dc_medical,dc_surgical,pdx_valid,sdx_valid,age_low,age_high,sex_required,cc_row,exclusion_group
J189,04,0450,,true,true,0,124,,0,
I10,05,0550,,true,true,0,124,,1,
N70,13,1350,,true,false,0,124,F,1,N70
`)

	rows, err := LoadICD10CSV(path)
	if err != nil {
		t.Fatalf("LoadICD10CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	var found bool
	for _, r := range rows {
		if r.Code != "N70" {
			continue
		}
		found = true
		if r.Entry.SexRequired.String() != "F" {
			t.Errorf("SexRequired = %q, want F", r.Entry.SexRequired.String())
		}
		if r.Entry.ExclusionGroup != "N70" {
			t.Errorf("ExclusionGroup = %q, want N70", r.Entry.ExclusionGroup)
		}
		if r.Entry.SDxValid {
			t.Errorf("SDxValid = true, want false")
		}
	}
	if !found {
		t.Fatal("N70 row not found")
	}
}

func TestLoadProcedureCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "procedures.csv", `code,is_or,dc_override
7936,true,
9999,false,9901
`)

	rows, err := LoadProcedureCSV(path)
	if err != nil {
		t.Fatalf("LoadProcedureCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if !rows[0].Entry.IsOR {
		t.Errorf("row 0 IsOR = false, want true")
	}
	if rows[1].Entry.DCOverride != "9901" {
		t.Errorf("row 1 DCOverride = %q, want 9901", rows[1].Entry.DCOverride)
	}
}

func TestLoadDRGCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "drg.csv", `code,name,mdc,rw,rw0d,wtlos,ot
04500,Pneumonia w/o CC/MCC,04,1.0,0.5,5.0,10
`)

	rows, err := LoadDRGCSV(path)
	if err != nil {
		t.Fatalf("LoadDRGCSV: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	e := rows[0].Entry
	if e.Code != "04500" || e.RW != 1.0 || e.OT != 10 {
		t.Errorf("entry = %+v, want code=04500 rw=1.0 ot=10", e)
	}
}

func TestLoadMDCCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "mdc.csv", `code,name
04,Diseases of the Respiratory System
`)

	rows, err := LoadMDCCSV(path)
	if err != nil {
		t.Fatalf("LoadMDCCSV: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Diseases of the Respiratory System" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestLoadCCExclusionCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "ccex.csv", `exclusion_group,sdx
E11,E118
E11,E117
`)

	rows, err := LoadCCExclusionCSV(path)
	if err != nil {
		t.Fatalf("LoadCCExclusionCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
}

func TestLoadTables_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "icd10.csv", `code,mdc,dc_medical,dc_surgical,pdx_valid,sdx_valid,age_low,age_high,sex_required,cc_row,exclusion_group
J189,04,0450,,true,true,0,124,,0,
I10,05,0550,,true,true,0,124,,1,
`)
	writeCSV(t, dir, "procedures.csv", `code,is_or,dc_override
7936,true,
`)
	writeCSV(t, dir, "drg.csv", `code,name,mdc,rw,rw0d,wtlos,ot
04500,Pneumonia w/o CC/MCC,04,1.0,0.5,5.0,10
`)
	writeCSV(t, dir, "mdc.csv", `code,name
04,Diseases of the Respiratory System
`)
	writeCSV(t, dir, "ccex.csv", `exclusion_group,sdx
`)

	tables, err := LoadTables(dir, nil, nil)
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}

	stats := tables.Stats()
	if stats.ICD10Count != 2 || stats.ProcedureCount != 1 || stats.DRGCount != 1 || stats.MDCCount != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
