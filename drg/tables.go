package drg

import "fmt"

// ICD10Row, ProcedureRow, DRGRow, MDCRow, and CCExclusionRow are the raw,
// already-parsed records a loader hands to the table constructors below.
// The on-disk format that produces them (CSV, fixed-width, Parquet, ...)
// is opaque to this package — see the loader package for a concrete CSV
// implementation.
type ICD10Row struct {
	Code  string
	Entry ICD10Entry
}

type ProcedureRow struct {
	Code  string
	Entry ProcedureEntry
}

type DRGRow struct {
	Entry DRGEntry
}

type MDCRow struct {
	Code string
	Name string
}

// CCExclusionRow encodes "given a principal diagnosis in exclusion group
// Group, secondary diagnosis SDx must never count as a complication."
type CCExclusionRow struct {
	Group string
	SDx   string
}

// Tables bundles the five immutable reference dictionaries plus the two
// rule tables (pre-MDC overrides, PCL cutoffs) the classifier consults.
// A Tables value is safe for concurrent read-only use once returned from
// NewTables; nothing in this package mutates it afterwards.
type Tables struct {
	ICD10      map[string]ICD10Entry
	Procedures map[string]ProcedureEntry
	DRG        map[string]DRGEntry
	MDCNames   map[string]string
	CCEx       *CCExclusionSet
	Sentinels  map[string]DRGEntry

	PreMDC   []PreMDCRule
	PCLRules []PCLRule

	drgByDC map[string][10]*DRGEntry // dc -> pcl digit (0-9) -> entry, built at load time
}

// NewTables builds an immutable Tables value from already-parsed rows,
// rejecting duplicate keys within any single table with a construction
// error. preMDC and pclRules may be nil, in which case DefaultPreMDCRules
// and DefaultPCLRules are used.
func NewTables(
	icd10 []ICD10Row,
	procedures []ProcedureRow,
	drg []DRGRow,
	mdc []MDCRow,
	ccex []CCExclusionRow,
	preMDC []PreMDCRule,
	pclRules []PCLRule,
) (*Tables, error) {
	icd10Map := make(map[string]ICD10Entry, len(icd10))
	for _, row := range icd10 {
		code := Normalize(row.Code)
		if code == "" {
			return nil, fmt.Errorf("drg: icd10 row has empty code")
		}
		if _, dup := icd10Map[code]; dup {
			return nil, fmt.Errorf("drg: duplicate icd10 code %q", code)
		}
		icd10Map[code] = row.Entry
	}

	procMap := make(map[string]ProcedureEntry, len(procedures))
	for _, row := range procedures {
		code := Normalize(row.Code)
		if code == "" {
			return nil, fmt.Errorf("drg: procedure row has empty code")
		}
		if _, dup := procMap[code]; dup {
			return nil, fmt.Errorf("drg: duplicate procedure code %q", code)
		}
		procMap[code] = row.Entry
	}

	drgMap := make(map[string]DRGEntry, len(drg))
	sentinels := make(map[string]DRGEntry)
	for _, row := range drg {
		code := row.Entry.Code
		if len(code) != 5 {
			return nil, fmt.Errorf("drg: drg code %q is not 5 digits", code)
		}
		if _, dup := drgMap[code]; dup {
			return nil, fmt.Errorf("drg: duplicate drg code %q", code)
		}
		drgMap[code] = row.Entry
		if IsSentinelCode(code) {
			sentinels[code] = row.Entry
		}
	}

	mdcMap := make(map[string]string, len(mdc))
	for _, row := range mdc {
		code := Normalize(row.Code)
		if _, dup := mdcMap[code]; dup {
			return nil, fmt.Errorf("drg: duplicate mdc code %q", code)
		}
		mdcMap[code] = row.Name
	}

	ccex2, err := NewCCExclusionSet(ccex)
	if err != nil {
		return nil, err
	}

	if preMDC == nil {
		preMDC = DefaultPreMDCRules
	}
	if pclRules == nil {
		pclRules = DefaultPCLRules
	}

	t := &Tables{
		ICD10:      icd10Map,
		Procedures: procMap,
		DRG:        drgMap,
		MDCNames:   mdcMap,
		CCEx:       ccex2,
		Sentinels:  sentinels,
		PreMDC:     preMDC,
		PCLRules:   pclRules,
	}
	t.buildDRGIndex()
	return t, nil
}

// buildDRGIndex derives the {dc, pcl_digit} -> DRGEntry index used by
// Stage F so that "demote the PCL digit until something matches" is a
// direct index lookup rather than repeated string concatenation.
func (t *Tables) buildDRGIndex() {
	t.drgByDC = make(map[string][10]*DRGEntry)
	for code := range t.DRG {
		entry := t.DRG[code]
		if len(code) != 5 {
			continue
		}
		dc := code[:4]
		digit := code[4] - '0'
		if digit > 9 {
			continue
		}
		row := t.drgByDC[dc]
		e := entry
		row[digit] = &e
		t.drgByDC[dc] = row
	}
}

// lookupDRG implements Stage F: form dc+pclDigit for pclDigit descending
// from start to 0, then try the catch-all digit 9.
func (t *Tables) lookupDRG(dc string, start int) (DRGEntry, bool) {
	row, ok := t.drgByDC[dc]
	if !ok {
		return DRGEntry{}, false
	}
	for digit := start; digit >= 0; digit-- {
		if e := row[digit]; e != nil {
			return *e, true
		}
	}
	if e := row[9]; e != nil {
		return *e, true
	}
	return DRGEntry{}, false
}

// Stats reports non-zero counts of loaded records for diagnostics.
type Stats struct {
	ICD10Count     int
	ProcedureCount int
	DRGCount       int
	MDCCount       int
	CCExCount      int
}

func (t *Tables) Stats() Stats {
	return Stats{
		ICD10Count:     len(t.ICD10),
		ProcedureCount: len(t.Procedures),
		DRGCount:       len(t.DRG),
		MDCCount:       len(t.MDCNames),
		CCExCount:      t.CCEx.Len(),
	}
}

// CCExclusionSet is a set-membership predicate over (exclusion group,
// secondary-diagnosis code) pairs. Stage D consults it through Contains
// only; exclusion logic is never inlined into the CC-detection loop.
type CCExclusionSet struct {
	pairs map[string]struct{}
}

// NewCCExclusionSet builds an exclusion set from rows, rejecting exact
// duplicate (group, sdx) pairs with a construction error.
func NewCCExclusionSet(rows []CCExclusionRow) (*CCExclusionSet, error) {
	s := &CCExclusionSet{pairs: make(map[string]struct{}, len(rows))}
	for _, row := range rows {
		key := ccexKey(Normalize(row.Group), Normalize(row.SDx))
		if _, dup := s.pairs[key]; dup {
			return nil, fmt.Errorf("drg: duplicate ccex pair (%q, %q)", row.Group, row.SDx)
		}
		s.pairs[key] = struct{}{}
	}
	return s, nil
}

func ccexKey(group, sdx string) string {
	return group + "\x00" + sdx
}

// Contains reports whether sdx is excluded from counting as a
// complication when the principal diagnosis belongs to group.
func (s *CCExclusionSet) Contains(group, sdx string) bool {
	_, ok := s.pairs[ccexKey(group, sdx)]
	return ok
}

// Len returns the number of loaded exclusion pairs.
func (s *CCExclusionSet) Len() int {
	return len(s.pairs)
}
