package drg

import "strings"

// PreMDCRule is one entry of the ordered pre-MDC override table consulted
// in Stage A when a principal diagnosis carries no MDC in the ICD-10
// table (pre-MDC categories such as transplants). Rules are evaluated
// top-to-bottom; the first match wins.
type PreMDCRule struct {
	Name  string
	Match func(pdxCanonical string) bool
	MDC   string
	DC    string
}

// NewPrefixPreMDCRule builds a PreMDCRule that matches when the
// canonicalized PDx starts with any of prefixes. This is the common case:
// pre-MDC categories in the Thai DRG catalog (transplants, tracheostomy,
// ECMO) are identified by a short list of code prefixes. Only the PDx is
// matched against them; procedure codes are not consulted.
func NewPrefixPreMDCRule(name string, prefixes []string, mdc, dc string) PreMDCRule {
	ps := make([]string, len(prefixes))
	for i, p := range prefixes {
		ps[i] = Normalize(p)
	}
	return PreMDCRule{
		Name: name,
		Match: func(pdx string) bool {
			for _, p := range ps {
				if strings.HasPrefix(pdx, p) {
					return true
				}
			}
			return false
		},
		MDC: mdc,
		DC:  dc,
	}
}

// DefaultPreMDCRules is empty: the Thai DRG 6.x pre-MDC category list is
// version-specific catalog data, not an engine constant. A loader
// populates this table from the reference data it reads; NewTables falls
// back to DefaultPreMDCRules only when a loader supplies no rules at all,
// which simply means "there are no pre-MDC categories in this version's
// data" rather than loading a hidden default catalog.
var DefaultPreMDCRules = []PreMDCRule{}

// PCLRule is one entry of the ordered table that maps (CC count, MCC
// count) to a Patient Complexity Level. Rules are evaluated top-to-bottom;
// the first match wins. Exposing the cutoffs as data (rather than as
// hard-coded branches) lets a loader override them per Thai DRG version
// without touching the classifier.
type PCLRule struct {
	Name  string
	Match func(ccCount, mccCount int) bool
	PCL   int
}

// DefaultPCLRules implements the Patient Complexity Level table, valid
// for the 6.x version family covered by this engine:
//
//	m >= 2          -> PCL 4
//	m == 1          -> PCL 3
//	c >= 2, m == 0  -> PCL 2
//	c == 1, m == 0  -> PCL 1
//	c == 0, m == 0  -> PCL 0
var DefaultPCLRules = []PCLRule{
	{Name: "multiple-mcc", Match: func(c, m int) bool { return m >= 2 }, PCL: 4},
	{Name: "single-mcc", Match: func(c, m int) bool { return m == 1 }, PCL: 3},
	{Name: "multiple-cc", Match: func(c, m int) bool { return m == 0 && c >= 2 }, PCL: 2},
	{Name: "single-cc", Match: func(c, m int) bool { return m == 0 && c == 1 }, PCL: 1},
	{Name: "none", Match: func(c, m int) bool { return true }, PCL: 0},
}

// computePCL evaluates rules top-to-bottom and returns the first match's
// PCL, or 0 if no rule matches (DefaultPCLRules always matches via its
// catch-all "none" entry, but a caller-supplied table might not).
func computePCL(rules []PCLRule, ccCount, mccCount int) int {
	for _, r := range rules {
		if r.Match(ccCount, mccCount) {
			return r.PCL
		}
	}
	return 0
}
