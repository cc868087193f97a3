package drg

import "fmt"

// validated is the normalized, structurally-sound form of an Admission
// that the classifier consumes. It is produced by validate and never
// constructed directly.
type validated struct {
	PDx        string
	SDx        []string
	Procedures []string
	Age        int
	Sex        Sex
	LOS        int

	warnings []string
}

// validateOutcome is either a validated admission ready for
// classification, or a sentinel that short-circuits the pipeline.
type validateOutcome struct {
	ok       validated
	sentinel string
	errs     []string
	warnings []string
}

// validate runs the structural admission checks in order: age range,
// sex recognition, PDx presence, and PDx catalog membership. Age and PDx
// failures short-circuit with a sentinel; everything else is a warning.
func (t *Tables) validate(a Admission) validateOutcome {
	var warnings []string

	if a.Age < 0 || a.Age > 124 {
		return validateOutcome{
			sentinel: SentinelInvalidAge,
			errs:     []string{fmt.Sprintf("age %d out of range [0, 124]", a.Age)},
		}
	}

	sex := ParseSex(a.Sex)
	if a.Sex == "" {
		warnings = append(warnings, "sex not provided; treated as unconstrained")
	} else if sex == SexAny {
		warnings = append(warnings, fmt.Sprintf("sex %q not recognized; treated as unconstrained", a.Sex))
	}

	pdx := Normalize(a.PDx)
	if pdx == "" {
		return validateOutcome{
			sentinel: SentinelUngroupablePDx,
			errs:     []string{"PDx is empty"},
			warnings: warnings,
		}
	}

	entry, ok := t.ICD10[pdx]
	if !ok || !entry.PDxValid {
		return validateOutcome{
			sentinel: SentinelUngroupablePDx,
			errs:     []string{fmt.Sprintf("Invalid PDx %q: not a recognized principal diagnosis", pdx)},
			warnings: warnings,
		}
	}

	if entry.SexRequired != SexAny && sex != SexAny && entry.SexRequired != sex {
		warnings = append(warnings, fmt.Sprintf("PDx %q expects sex %s, got %s", pdx, entry.SexRequired, sex))
	}
	if entry.AgeHigh > 0 && (a.Age < entry.AgeLow || a.Age > entry.AgeHigh) {
		warnings = append(warnings, fmt.Sprintf("PDx %q expects age in [%d, %d], got %d", pdx, entry.AgeLow, entry.AgeHigh, a.Age))
	}

	sdx := make([]string, 0, len(a.SDx))
	for _, raw := range a.SDx {
		n := Normalize(raw)
		if n == "" {
			continue
		}
		if e, ok := t.ICD10[n]; !ok || !e.SDxValid {
			warnings = append(warnings, fmt.Sprintf("unrecognized secondary diagnosis %q dropped", n))
			continue
		}
		sdx = append(sdx, n)
	}

	procedures := make([]string, 0, len(a.Procedures))
	for _, raw := range a.Procedures {
		n := Normalize(raw)
		if n == "" {
			continue
		}
		if _, ok := t.Procedures[n]; !ok {
			warnings = append(warnings, fmt.Sprintf("unrecognized procedure %q dropped", n))
			continue
		}
		procedures = append(procedures, n)
	}

	los := a.LOS
	if los < 0 {
		warnings = append(warnings, fmt.Sprintf("negative LOS %d treated as 0", los))
		los = 0
	}

	return validateOutcome{
		ok: validated{
			PDx:        pdx,
			SDx:        sdx,
			Procedures: procedures,
			Age:        a.Age,
			Sex:        sex,
			LOS:        los,
		},
		warnings: warnings,
	}
}
