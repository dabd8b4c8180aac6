// Package idgen derives registration and player identifiers. Both are
// deterministic for a fixed registrations snapshot; neither is globally
// unique on its own. Two clients generating against equally stale
// snapshots will mint the same registration ID, and the remote store
// does not assign sequences, so duplicate IDs are possible under
// concurrent submission. That behavior is kept deliberately; a
// server-assigned sequence would be a contract change.
package idgen

import (
	"fmt"
	"strings"
	"time"

	"mssd-catur/internal/domain"
)

// injectable for tests
var nowFunc = time.Now

// RegistrationID returns "MSSD-{categoryCode}-{seq}". The category code
// is 01 for the under-12 band and 02 for everything else: under-15 and
// under-18 share a code even though their player IDs stay distinct.
// The sequence counts snapshot registrations holding at least one
// student with the exact same category string.
func RegistrationID(category string, registrations domain.RegistrationsMap) string {
	count := 0
	for _, reg := range registrations {
		for _, s := range reg.Students {
			if s.Category == category {
				count++
				break
			}
		}
	}

	code := "02"
	if strings.Contains(category, "12") {
		code = "01"
	}

	return fmt.Sprintf("MSSD-%s-%02d", code, count+1)
}

// PlayerID encodes year, age band, gender, school sequence and student
// position into a 10-digit string: YY + ageCode + genderCode + schoolNo
// + playerSeq. The player sequence is positional within the current
// student list, not unique across registrations.
func PlayerID(gender, schoolName string, studentIndex int, category, regID string) string {
	year := nowFunc().Year() % 100

	ageCode := "15"
	switch {
	case strings.Contains(category, "12"):
		ageCode = "12"
	case strings.Contains(category, "15"):
		ageCode = "15"
	case strings.Contains(category, "18"):
		ageCode = "18"
	}

	genderCode := "02"
	if gender == domain.GenderMale {
		genderCode = "01"
	}

	return fmt.Sprintf("%02d%s%s%s%02d", year, ageCode, genderCode, schoolNo(regID), studentIndex+1)
}

// schoolNo is the trailing segment of the registration ID, zero-padded
// to two digits, or "00" while no registration ID exists yet.
func schoolNo(regID string) string {
	if regID == "" {
		return "00"
	}
	parts := strings.Split(regID, "-")
	no := parts[len(parts)-1]
	if len(no) == 1 {
		no = "0" + no
	}
	return no
}
