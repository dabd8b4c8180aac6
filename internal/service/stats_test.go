package service

import (
	"testing"

	"mssd-catur/internal/domain"
)

func reg(school string, teachers int, students ...domain.Student) domain.Registration {
	r := domain.Registration{SchoolName: school, Students: students}
	for i := 0; i < teachers; i++ {
		r.Teachers = append(r.Teachers, domain.Teacher{Name: "GURU"})
	}
	return r
}

func TestComputeStats(t *testing.T) {
	regs := domain.RegistrationsMap{
		"MSSD-01-01": reg("SK SATU", 2,
			domain.Student{Gender: domain.GenderMale, Race: "Melayu", Category: domain.CategoryU12},
			domain.Student{Gender: domain.GenderFemale, Race: "Cina", Category: domain.CategoryU12},
		),
		"MSSD-02-01": reg("SMK DUA", 1,
			domain.Student{Gender: domain.GenderMale, Race: "India", Category: domain.CategoryU15},
			domain.Student{Gender: domain.GenderFemale, Race: "Orang Asli", Category: domain.CategoryU18},
		),
		// same school appearing twice still counts once
		"MSSD-02-02": reg("SMK DUA", 1,
			domain.Student{Gender: domain.GenderMale, Race: "Melayu", Category: domain.CategoryU18},
		),
	}

	stats := ComputeStats(regs)

	if stats.TotalRegistrations != 3 || stats.TotalStudents != 5 || stats.TotalTeachers != 4 {
		t.Errorf("totals: %+v", stats)
	}
	if stats.TotalSchools != 2 {
		t.Errorf("schools = %d, want 2", stats.TotalSchools)
	}
	if stats.Primary.Schools != 1 || stats.Secondary.Schools != 1 {
		t.Errorf("band schools: primary=%d secondary=%d", stats.Primary.Schools, stats.Secondary.Schools)
	}
	if stats.Primary.U12Male != 1 || stats.Primary.U12Fem != 1 {
		t.Errorf("U12: %+v", stats.Primary)
	}
	if stats.Secondary.U15Male != 1 || stats.Secondary.U18Fem != 1 || stats.Secondary.U18Male != 1 {
		t.Errorf("secondary bands: %+v", stats.Secondary)
	}
	if stats.Primary.Race.Melayu != 1 || stats.Primary.Race.Cina != 1 {
		t.Errorf("primary race: %+v", stats.Primary.Race)
	}
	// unknown race folds into Lain-lain
	if stats.Secondary.RaceU18.LainLain != 1 {
		t.Errorf("U18 race: %+v", stats.Secondary.RaceU18)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(domain.RegistrationsMap{})
	if stats.TotalRegistrations != 0 || stats.TotalSchools != 0 {
		t.Errorf("empty snapshot: %+v", stats)
	}
}
