package drg

import "strings"

// Sentinel DRG codes. The Thai DRG reference reserves the five-digit
// prefix "265" as its sentinel namespace. This engine hard-codes three
// sentinels and otherwise treats any catalog entry whose code has that
// prefix as a recognized sentinel for diagnostic purposes
// (Tables.Sentinels, IsSentinelCode). Group returns only
// SentinelUngroupablePDx and SentinelInvalidAge: the validator reports
// sex problems as warnings, so SentinelInvalidSex is never returned.
const (
	SentinelUngroupablePDx = "26509" // ungroupable PDx, unresolved DC, or no matching DRG
	SentinelInvalidAge     = "26539" // age outside [0, 124]
	SentinelInvalidSex     = "26549" // sex required by PDx but missing/invalid
)

// sentinelNamespace is the five-digit prefix the Thai DRG catalog reserves
// for sentinel (non-groupable) DRG codes.
const sentinelNamespace = "265"

// IsSentinelCode reports whether code falls in the Thai DRG sentinel
// namespace.
func IsSentinelCode(code string) bool {
	return len(code) == 5 && strings.HasPrefix(code, sentinelNamespace)
}

// sentinelEntry returns the DRG catalog's own row for a sentinel code if
// the loaded catalog defines one (so its weights, typically all zero, are
// authoritative), or a synthetic zero-weight entry otherwise.
func (t *Tables) sentinelEntry(code, name string) DRGEntry {
	if e, ok := t.Sentinels[code]; ok {
		return e
	}
	if e, ok := t.DRG[code]; ok {
		return e
	}
	return DRGEntry{Code: code, Name: name}
}
