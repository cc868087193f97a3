package drg

// Engine groups admissions against one fixed set of reference tables. It
// is stateless per call: Group reads only its argument and the tables,
// and is safe to call concurrently from multiple goroutines on the same
// Engine.
type Engine struct {
	version string
	tables  *Tables
}

// NewEngine binds a Version label to an already-built Tables value. It
// performs no I/O and cannot fail: all validation happened in NewTables.
func NewEngine(version string, tables *Tables) *Engine {
	return &Engine{version: version, tables: tables}
}

// Version returns the label this engine was constructed with (e.g.
// "6.3"). The engine does not otherwise branch on its own version string;
// all version-specific behavior lives in the Tables it was built from.
func (e *Engine) Version() string {
	return e.version
}

// Stats reports non-zero counts of loaded records, for diagnostics.
func (e *Engine) Stats() Stats {
	return e.tables.Stats()
}

// Group classifies one admission end to end: Validator -> Classifier ->
// Weight Calculator -> result assembly. It never panics or returns an
// error for request-level problems; those are represented as a sentinel
// DRG with IsValid=false and a populated Errors slice.
func (e *Engine) Group(a Admission) GrouperResult {
	t := e.tables

	vOut := t.validate(a)
	if vOut.sentinel != "" {
		entry := t.sentinelEntry(vOut.sentinel, "sentinel")
		w := sentinelWeights(entry)
		echo := validated{
			PDx:        Normalize(a.PDx),
			SDx:        normalizeEcho(a.SDx),
			Procedures: normalizeEcho(a.Procedures),
			Age:        a.Age,
			Sex:        ParseSex(a.Sex),
			LOS:        a.LOS,
		}
		return e.assemble(a, echo, classified{sentinel: vOut.sentinel}, entry, w, vOut.errs, vOut.warnings)
	}
	v := vOut.ok
	warnings := vOut.warnings

	c := t.classify(v)
	if c.sentinel != "" {
		entry := t.sentinelEntry(c.sentinel, "sentinel")
		w := sentinelWeights(entry)
		return e.assemble(a, v, c, entry, w, c.errs, warnings)
	}

	entry, sentinel, errs := t.selectDRG(c)
	if sentinel != "" {
		sEntry := t.sentinelEntry(sentinel, "sentinel")
		w := sentinelWeights(sEntry)
		c.sentinel = sentinel
		return e.assemble(a, v, c, sEntry, w, errs, warnings)
	}

	w := computeWeights(entry, v.LOS)
	return e.assemble(a, v, c, entry, w, nil, warnings)
}

// assemble builds the final GrouperResult. It is the single place that
// decides is_valid (errors is empty) and stamps mdc_name/drg_name from
// the loaded tables.
func (e *Engine) assemble(raw Admission, v validated, c classified, entry DRGEntry, w weights, errs, warnings []string) GrouperResult {
	t := e.tables

	mdcName := t.MDCNames[c.MDC]

	sdx := v.SDx
	procedures := v.Procedures

	return GrouperResult{
		Version: e.version,

		PDx:        v.PDx,
		SDx:        sdx,
		Procedures: procedures,
		Age:        raw.Age,
		Sex:        v.Sex.String(),
		LOS:        v.LOS,

		MDC:     c.MDC,
		MDCName: mdcName,
		DC:      c.DC,
		DRG:     entry.Code,
		DRGName: entry.Name,

		RW:    w.RW,
		RW0D:  w.RW0D,
		AdjRW: w.AdjRW,
		WTLOS: w.WTLOS,
		OT:    w.OT,

		PCL:            c.PCL,
		CCList:         c.CCList,
		MCCList:        c.MCCList,
		HasORProcedure: c.HasOR,
		IsSurgical:     c.IsSurgical,
		LOSStatus:      w.LOSStatus,

		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}
