// Package drg implements the Thai DRG (Diagnosis-Related Group) grouping
// engine: a table-driven classifier that assigns an inpatient admission to
// a DRG code, Major Diagnostic Category, Disease Cluster, Patient
// Complexity Level, and a set of economic weights.
//
// The engine is pure: it performs no I/O and holds no mutable state beyond
// the immutable reference tables supplied at construction. Multiple
// Group calls may run concurrently on the same Engine without
// synchronization.
package drg

import "strings"

// Normalize canonicalizes an ICD-10 or procedure code: trims surrounding
// whitespace, strips every '.', and uppercases ASCII letters. It is
// idempotent and is applied before every table lookup in the engine.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ".", "")
	return strings.ToUpper(s)
}

// normalizeEcho normalizes a slice of codes for echoing back on a result,
// dropping only codes that normalize to empty. Unlike the validator, it
// does not check table membership or emit warnings — it is used when
// validation short-circuited before the sdx/procedures lists were
// checked, so the result can still echo what the caller sent.
func normalizeEcho(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if n := Normalize(c); n != "" {
			out = append(out, n)
		}
	}
	return out
}
