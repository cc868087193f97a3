package drg

import "fmt"

// classified is the outcome of Stages A-E: MDC/DC assignment, the
// OR-procedure scan, and CC/MCC detection with PCL. A non-empty sentinel
// means classification failed and Stage F (DRG selection) is skipped.
type classified struct {
	MDC        string
	DC         string
	HasOR      bool
	IsSurgical bool
	CCList     []string
	MCCList    []string
	PCL        int

	sentinel string
	errs     []string
}

// classify runs Stages A through E (MDC assignment, OR-procedure scan,
// DC assignment, CC/MCC detection, PCL computation) against an already
// validated admission.
func (t *Tables) classify(v validated) classified {
	entry := t.ICD10[v.PDx] // guaranteed present and pdx_valid by validate

	// Stage A - MDC assignment, with pre-MDC override fallback.
	mdc := entry.MDC
	var preDC string
	if mdc == "" {
		matched := false
		for _, rule := range t.PreMDC {
			if rule.Match(v.PDx) {
				mdc = rule.MDC
				preDC = rule.DC
				matched = true
				break
			}
		}
		if !matched {
			return classified{sentinel: SentinelUngroupablePDx, errs: []string{fmt.Sprintf("no MDC resolvable for PDx %q", v.PDx)}}
		}
	}

	// Stage B - OR-procedure scan.
	hasOR := false
	for _, p := range v.Procedures {
		if pe, ok := t.Procedures[p]; ok && pe.IsOR {
			hasOR = true
			break
		}
	}
	isSurgical := hasOR

	// Stage C - DC assignment. Priority: explicit procedure override,
	// then the entry's surgical/medical side (falling back to the other
	// side if null), then the pre-MDC rule's DC, then failure.
	dc := ""
	for _, p := range v.Procedures {
		if pe, ok := t.Procedures[p]; ok && pe.DCOverride != "" {
			dc = pe.DCOverride
			break
		}
	}
	if dc == "" {
		if isSurgical {
			dc = entry.DCSurgical
			if dc == "" {
				dc = entry.DCMedical
			}
		} else {
			dc = entry.DCMedical
			if dc == "" {
				dc = entry.DCSurgical
			}
		}
	}
	if dc == "" {
		dc = preDC
	}
	if dc == "" {
		return classified{
			MDC: mdc, HasOR: hasOR, IsSurgical: isSurgical,
			sentinel: SentinelUngroupablePDx,
			errs:     []string{fmt.Sprintf("no Disease Cluster resolvable for PDx %q", v.PDx)},
		}
	}

	// Stage D - CC/MCC detection with exclusion.
	group := t.pdxExclusionGroup(v.PDx)
	seen := make(map[string]bool, len(v.SDx))
	var ccList, mccList []string
	for _, s := range v.SDx {
		if seen[s] {
			continue
		}
		seen[s] = true

		e, ok := t.ICD10[s]
		if !ok || e.CCRow == 0 {
			continue
		}
		if t.CCEx.Contains(group, s) {
			continue
		}
		switch {
		case e.CCRow == 3:
			mccList = append(mccList, s)
		case e.CCRow == 1 || e.CCRow == 2:
			ccList = append(ccList, s)
		}
	}

	// Stage E - PCL computation.
	pcl := computePCL(t.PCLRules, len(ccList), len(mccList))

	return classified{
		MDC: mdc, DC: dc, HasOR: hasOR, IsSurgical: isSurgical,
		CCList: ccList, MCCList: mccList, PCL: pcl,
	}
}

// pdxExclusionGroup resolves the exclusion group a principal diagnosis
// belongs to for Stage D. A loader may assign an explicit group via
// ICD10Entry.ExclusionGroup; absent that, the group defaults to the
// code's 3-character ICD-10 category, the conventional granularity at
// which the Thai DRG ccex table keys its rows.
func (t *Tables) pdxExclusionGroup(pdx string) string {
	if e, ok := t.ICD10[pdx]; ok && e.ExclusionGroup != "" {
		return e.ExclusionGroup
	}
	if len(pdx) > 3 {
		return pdx[:3]
	}
	return pdx
}

// selectDRG runs Stage F against a classification result that did not
// already fail.
func (t *Tables) selectDRG(c classified) (DRGEntry, string, []string) {
	entry, ok := t.lookupDRG(c.DC, c.PCL)
	if !ok {
		return DRGEntry{}, SentinelUngroupablePDx, []string{fmt.Sprintf("no DRG found for DC %q at or below PCL %d", c.DC, c.PCL)}
	}
	return entry, "", nil
}
