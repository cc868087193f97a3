package drg

// weights holds the resolved economic weights and LOS classification for
// one Group call.
type weights struct {
	RW        float64
	RW0D      float64
	AdjRW     float64
	WTLOS     float64
	OT        int
	LOSStatus string
}

// computeWeights derives the economic weights for one Group call:
// RW/RW0D/WTLOS/OT come straight from the catalog; AdjRW is derived from
// LOS by a piecewise formula.
func computeWeights(entry DRGEntry, los int) weights {
	w := weights{RW: entry.RW, RW0D: entry.RW0D, WTLOS: entry.WTLOS, OT: entry.OT}

	switch {
	case los == 0:
		w.LOSStatus = LOSDayCase
		w.AdjRW = entry.RW0D
	case los > entry.OT && entry.WTLOS > 0:
		w.LOSStatus = LOSLongStay
		w.AdjRW = entry.RW + float64(los-entry.OT)*(entry.RW/entry.WTLOS)*0.5
	default:
		w.LOSStatus = LOSNormal
		w.AdjRW = entry.RW
	}

	return w
}

// sentinelWeights fills the fixed weights for a sentinel DRG: the weight
// calculator is still invoked, but reports the sentinel catalog's own
// weights (typically all zero) rather than running the piecewise LOS
// formula.
func sentinelWeights(entry DRGEntry) weights {
	return weights{
		RW:        entry.RW,
		RW0D:      entry.RW0D,
		AdjRW:     entry.RW,
		WTLOS:     entry.WTLOS,
		OT:        entry.OT,
		LOSStatus: LOSError,
	}
}
