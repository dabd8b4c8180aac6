package service

import (
	"strings"

	"mssd-catur/internal/domain"
)

// ComputeStats folds a registrations snapshot into the dashboard
// aggregation: overall totals plus per-band gender and race breakdowns,
// with primary and secondary school counts tracked separately.
func ComputeStats(regs domain.RegistrationsMap) domain.Stats {
	var stats domain.Stats
	schools := map[string]struct{}{}
	primarySchools := map[string]struct{}{}
	secondarySchools := map[string]struct{}{}

	for _, reg := range regs {
		stats.TotalRegistrations++
		stats.TotalTeachers += len(reg.Teachers)
		stats.TotalStudents += len(reg.Students)
		schools[reg.SchoolName] = struct{}{}

		hasU12, hasSecondary := false, false
		for _, s := range reg.Students {
			male := s.Gender == domain.GenderMale
			switch {
			case strings.Contains(s.Category, "12"):
				hasU12 = true
				if male {
					stats.Primary.U12Male++
				} else {
					stats.Primary.U12Fem++
				}
				stats.Primary.Race.Add(s.Race)
			case strings.Contains(s.Category, "15"):
				hasSecondary = true
				if male {
					stats.Secondary.U15Male++
				} else {
					stats.Secondary.U15Fem++
				}
				stats.Secondary.RaceU15.Add(s.Race)
			case strings.Contains(s.Category, "18"):
				hasSecondary = true
				if male {
					stats.Secondary.U18Male++
				} else {
					stats.Secondary.U18Fem++
				}
				stats.Secondary.RaceU18.Add(s.Race)
			}
		}

		if hasU12 {
			primarySchools[reg.SchoolName] = struct{}{}
		}
		if hasSecondary {
			secondarySchools[reg.SchoolName] = struct{}{}
		}
	}

	stats.TotalSchools = len(schools)
	stats.Primary.Schools = len(primarySchools)
	stats.Secondary.Schools = len(secondarySchools)
	return stats
}
