package drg

// newTestTables builds a small, self-consistent reference data set used
// across the unit and property tests in this package: a pneumonia PDx
// (medical, MDC 04), a fracture PDx with an OR procedure (surgical, MDC
// 08), a set of CC/MCC secondary diagnoses, a diabetes exclusion group,
// and one pre-MDC category to exercise Stage A's fallback path.
func newTestTables(t testingT) *Tables {
	icd10 := []ICD10Row{
		{Code: "J189", Entry: ICD10Entry{MDC: "04", DCMedical: "0450", PDxValid: true, SDxValid: true, AgeLow: 0, AgeHigh: 124, SexRequired: SexAny}},
		{Code: "I10", Entry: ICD10Entry{MDC: "05", DCMedical: "0550", PDxValid: true, SDxValid: true, CCRow: 1, AgeLow: 0, AgeHigh: 124}},
		{Code: "E119", Entry: ICD10Entry{MDC: "10", DCMedical: "1050", PDxValid: true, SDxValid: true, CCRow: 1, AgeLow: 0, AgeHigh: 124}},
		{Code: "E118", Entry: ICD10Entry{MDC: "10", DCMedical: "1050", PDxValid: true, SDxValid: true, CCRow: 1}},
		{Code: "E117", Entry: ICD10Entry{MDC: "10", DCMedical: "1050", PDxValid: true, SDxValid: true, CCRow: 1}},
		{Code: "N179", Entry: ICD10Entry{MDC: "11", DCMedical: "1150", PDxValid: true, SDxValid: true, CCRow: 1}},
		{Code: "J960", Entry: ICD10Entry{MDC: "04", DCMedical: "0450", PDxValid: true, SDxValid: true, CCRow: 3}},
		{Code: "R570", Entry: ICD10Entry{MDC: "04", DCMedical: "0450", PDxValid: true, SDxValid: true, CCRow: 3}},
		{Code: "S82201D", Entry: ICD10Entry{MDC: "08", DCMedical: "0850", DCSurgical: "0801", PDxValid: true, SDxValid: true, AgeLow: 0, AgeHigh: 124}},
		{Code: "S72001D", Entry: ICD10Entry{MDC: "08", DCMedical: "0850", DCSurgical: "0801", PDxValid: true, SDxValid: true}},
		{Code: "P220", Entry: ICD10Entry{MDC: "15", DCMedical: "1550", PDxValid: true, SDxValid: true, AgeLow: 0, AgeHigh: 0}},
		{Code: "Z940", Entry: ICD10Entry{PDxValid: true, SDxValid: false}}, // pre-MDC category: no MDC in the table
	}

	procedures := []ProcedureRow{
		{Code: "7936", Entry: ProcedureEntry{IsOR: true}},
		{Code: "3606", Entry: ProcedureEntry{IsOR: true}},
		{Code: "9999", Entry: ProcedureEntry{IsOR: false, DCOverride: "9901"}},
	}

	mdc := []MDCRow{
		{Code: "04", Name: "Diseases of the Respiratory System"},
		{Code: "05", Name: "Diseases of the Circulatory System"},
		{Code: "08", Name: "Diseases of the Musculoskeletal System"},
		{Code: "10", Name: "Endocrine, Nutritional and Metabolic Diseases"},
		{Code: "11", Name: "Diseases of the Kidney and Urinary Tract"},
		{Code: "15", Name: "Newborns"},
		{Code: "99", Name: "Pre-MDC Categories"},
	}

	ccex := []CCExclusionRow{
		{Group: "E11", SDx: "E118"},
		{Group: "E11", SDx: "E117"},
	}

	preMDC := []PreMDCRule{
		NewPrefixPreMDCRule("transplant-status", []string{"Z94"}, "99", "9901"),
	}

	var drg []DRGRow
	addDRG := func(code, name, mdcCode string, rw, rw0d, wtlos float64, ot int) {
		drg = append(drg, DRGRow{Entry: DRGEntry{Code: code, Name: name, MDC: mdcCode, RW: rw, RW0D: rw0d, WTLOS: wtlos, OT: ot}})
	}

	// DC 0450 (medical, MDC 04): tiers 0-4.
	addDRG("04500", "Pneumonia w/o CC/MCC", "04", 1.0, 0.5, 5.0, 10)
	addDRG("04501", "Pneumonia w/ CC", "04", 1.3, 0.6, 6.0, 12)
	addDRG("04502", "Pneumonia w/ multiple CC", "04", 1.6, 0.7, 7.0, 14)
	addDRG("04503", "Pneumonia w/ MCC", "04", 2.0, 0.9, 8.0, 16)
	addDRG("04504", "Pneumonia w/ multiple MCC", "04", 2.5, 1.1, 9.0, 18)

	// DC 0801 (surgical, MDC 08): only tier 0 and catch-all 9.
	addDRG("08010", "Fracture repair w/o CC/MCC", "08", 2.0, 1.0, 6.0, 14)
	addDRG("08019", "Fracture repair, other", "08", 2.2, 1.1, 6.0, 14)

	// DC 0850 (medical, MDC 08): tier 0 only, for DC-fallback coverage.
	addDRG("08500", "Fracture, nonoperative", "08", 1.2, 0.6, 5.0, 10)

	// DC 1050 (medical, MDC 10): tier 0 only, for the diabetes exclusion cases.
	addDRG("10500", "Diabetes w/o CC/MCC", "10", 0.9, 0.4, 4.0, 8)

	// DC 9901 (pre-MDC), catch-all tier only.
	addDRG("99019", "Pre-MDC transplant status", "99", 3.0, 1.5, 10.0, 20)

	// Sentinels, zero-weight by catalog convention.
	addDRG(SentinelUngroupablePDx, "Ungroupable", "", 0, 0, 0, 0)
	addDRG(SentinelInvalidAge, "Invalid age", "", 0, 0, 0, 0)
	addDRG(SentinelInvalidSex, "Invalid sex", "", 0, 0, 0, 0)

	tables, err := NewTables(icd10, procedures, drg, mdc, ccex, preMDC, nil)
	if err != nil {
		t.Fatalf("NewTables: %v", err)
	}
	return tables
}

// testingT is the subset of *testing.T used by fixture helpers, so they
// can be called from both tests and (if ever needed) benchmarks.
type testingT interface {
	Fatalf(format string, args ...any)
}
