package drg

import "encoding/json"

// ToJSON renders the result using encoding/json as a structured textual
// round trip. Numeric weights are plain JSON numbers with full float64
// precision; callers that need a fixed number of fractional digits for
// display should format RW/RW0D/AdjRW themselves (e.g.
// strconv.FormatFloat with 'f', 4).
func (r GrouperResult) ToJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToMap renders the result as a plain map, a to_dict()-style convenience
// for callers that want field access without a JSON round trip.
func (r GrouperResult) ToMap() map[string]any {
	return map[string]any{
		"version":          r.Version,
		"pdx":              r.PDx,
		"sdx":              r.SDx,
		"procedures":       r.Procedures,
		"age":              r.Age,
		"sex":              r.Sex,
		"los":              r.LOS,
		"mdc":              r.MDC,
		"mdc_name":         r.MDCName,
		"dc":               r.DC,
		"drg":              r.DRG,
		"drg_name":         r.DRGName,
		"rw":               r.RW,
		"rw0d":             r.RW0D,
		"adjrw":            r.AdjRW,
		"wtlos":            r.WTLOS,
		"ot":               r.OT,
		"pcl":              r.PCL,
		"cc_list":          r.CCList,
		"mcc_list":         r.MCCList,
		"has_or_procedure": r.HasORProcedure,
		"is_surgical":      r.IsSurgical,
		"los_status":       r.LOSStatus,
		"is_valid":         r.IsValid,
		"errors":           r.Errors,
		"warnings":         r.Warnings,
	}
}
