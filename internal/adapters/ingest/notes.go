package ingest

import (
	"delivery-status-service/internal/domain"
	"regexp"
	"strconv"
	"strings"
)

var (
	truckNoteRe   = regexp.MustCompile(`(?i)can only be on truck\s+(\d+)`)
	delayedNoteRe = regexp.MustCompile(`(?i)delayed on flight\W*will not arrive to depot until\s+(\d{1,2}:\d{2}\s*[ap]m)`)
	groupNoteRe   = regexp.MustCompile(`(?i)must be delivered with\s+(\d+(?:\s*,\s*\d+)*)`)
	wrongAddrRe   = regexp.MustCompile(`(?i)wrong address listed`)
	correctionRe  = regexp.MustCompile(`(?i)corrected at\s+(\d{1,2}:\d{2}\s*[ap]m)\s+to\s+(.+)$`)
)

// parsedNote holds the structured fields recognized in a free-text note.
// Corrections are kept as raw text until the street is resolved.
type parsedNote struct {
	truck          int
	availableAt    *domain.TimeOfDay
	groupWith      []int
	correctionAt   *domain.TimeOfDay
	correctionText string
}

func parseNote(pkgID int, note string) (parsedNote, error) {
	var out parsedNote
	note = strings.TrimSpace(note)
	if note == "" {
		return out, nil
	}

	if m := truckNoteRe.FindStringSubmatch(note); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return out, domain.NewValidationError("notes", "package %d: bad truck number %q", pkgID, m[1])
		}
		out.truck = n
	}

	if m := delayedNoteRe.FindStringSubmatch(note); m != nil {
		t, err := domain.ParseTimeOfDay(m[1])
		if err != nil {
			return out, domain.NewValidationError("notes", "package %d: delayed until %q: %v", pkgID, m[1], err)
		}
		out.availableAt = &t
	}

	if m := groupNoteRe.FindStringSubmatch(note); m != nil {
		for _, f := range strings.Split(m[1], ",") {
			id, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return out, domain.NewValidationError("notes", "package %d: bad group member %q", pkgID, f)
			}
			out.groupWith = append(out.groupWith, id)
		}
	}

	if wrongAddrRe.MatchString(note) {
		m := correctionRe.FindStringSubmatch(note)
		if m == nil {
			return out, domain.NewValidationError("notes", "package %d: wrong address listed without a correction", pkgID)
		}
		t, err := domain.ParseTimeOfDay(m[1])
		if err != nil {
			return out, domain.NewValidationError("notes", "package %d: corrected at %q: %v", pkgID, m[1], err)
		}
		out.correctionAt = &t
		out.correctionText = strings.TrimSpace(m[2])
	}

	return out, nil
}

// correctionStreet returns the street part of "<street>, <city>, <state> <zip>".
func correctionStreet(text string) string {
	street, _, _ := strings.Cut(text, ",")
	return strings.TrimSpace(street)
}
