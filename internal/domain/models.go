package domain

import (
	"time"
)

// Teacher positions and student genders use the Malay labels the
// spreadsheet stores verbatim.
const (
	PositionKetua     = "Ketua"
	PositionPengiring = "Pengiring"

	GenderMale   = "Lelaki"
	GenderFemale = "Perempuan"
)

const (
	CategoryU12 = "Bawah 12 Tahun"
	CategoryU15 = "Bawah 15 Tahun"
	CategoryU18 = "Bawah 18 Tahun"
)

const StatusActive = "AKTIF"

type Teacher struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Position string `json:"position" validate:"required,oneof=Ketua Pengiring"`
	Order    int    `json:"order,omitempty"`
}

type Student struct {
	Name            string `json:"name" validate:"required"`
	IC              string `json:"ic" validate:"required"`
	Gender          string `json:"gender" validate:"omitempty,oneof=Lelaki Perempuan"`
	Race            string `json:"race"`
	Category        string `json:"category" validate:"required"`
	PlayerID        string `json:"playerId"`
	CategoryDisplay string `json:"categoryDisplay,omitempty"`
}

// Registration is one school's enrollment record. The first teacher is
// the head teacher; the last four digits of their phone number act as
// the update password on the remote side.
type Registration struct {
	SchoolName string    `json:"schoolName" validate:"required"`
	SchoolType string    `json:"schoolType" validate:"required"`
	Teachers   []Teacher `json:"teachers" validate:"required,min=1,dive"`
	Students   []Student `json:"students" validate:"required,min=1,dive"`
	CreatedAt  string    `json:"createdAt"`
	UpdatedAt  string    `json:"updatedAt"`
	Status     string    `json:"status"`
}

// HeadTeacher returns the first teacher, or nil for an empty list.
func (r *Registration) HeadTeacher() *Teacher {
	if len(r.Teachers) == 0 {
		return nil
	}
	return &r.Teachers[0]
}

// RegistrationsMap keys registrations by their generated registration ID.
type RegistrationsMap map[string]Registration

type ScheduleItem struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
}

type ScheduleDay struct {
	Date  string         `json:"date"`
	Items []ScheduleItem `json:"items"`
}

type Schedules struct {
	Primary   []ScheduleDay `json:"primary"`
	Secondary []ScheduleDay `json:"secondary"`
}

type EventLinks struct {
	Rules   string `json:"rules"`
	Results string `json:"results"`
	Photos  string `json:"photos"`
}

type EventDocuments struct {
	Invitation string `json:"invitation"`
	Meeting    string `json:"meeting"`
	Arbiter    string `json:"arbiter"`
}

type EventConfig struct {
	EventName  string         `json:"eventName"`
	EventVenue string         `json:"eventVenue"`
	AdminPhone string         `json:"adminPhone"`
	Schedules  Schedules      `json:"schedules"`
	Links      EventLinks     `json:"links"`
	Documents  EventDocuments `json:"documents"`
}

// Credentials point the app at one spreadsheet-backed deployment.
type Credentials struct {
	SpreadsheetID string `json:"spreadsheetId"`
	ScriptURL     string `json:"scriptUrl"`
}

func (c Credentials) Empty() bool {
	return c.SpreadsheetID == "" && c.ScriptURL == ""
}

// Draft holds a partially filled registration form so a reload does not
// discard it.
type Draft struct {
	ID         string    `json:"id"`
	SchoolName string    `json:"schoolName"`
	SchoolType string    `json:"schoolType"`
	Teachers   []Teacher `json:"teachers"`
	Students   []Student `json:"students"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RaceCounts breaks a band down by the race options offered on the form.
type RaceCounts struct {
	Melayu     int `json:"melayu"`
	Cina       int `json:"cina"`
	India      int `json:"india"`
	Bumiputera int `json:"bumiputera"`
	LainLain   int `json:"lainLain"`
}

func (c *RaceCounts) Add(race string) {
	switch race {
	case "Melayu":
		c.Melayu++
	case "Cina":
		c.Cina++
	case "India":
		c.India++
	case "Bumiputera":
		c.Bumiputera++
	default:
		c.LainLain++
	}
}

type PrimaryStats struct {
	Schools int        `json:"schools"`
	U12Male int        `json:"u12Male"`
	U12Fem  int        `json:"u12Female"`
	Race    RaceCounts `json:"race"`
}

type SecondaryStats struct {
	Schools int        `json:"schools"`
	U15Male int        `json:"u15Male"`
	U15Fem  int        `json:"u15Female"`
	U18Male int        `json:"u18Male"`
	U18Fem  int        `json:"u18Female"`
	RaceU15 RaceCounts `json:"raceU15"`
	RaceU18 RaceCounts `json:"raceU18"`
}

// Stats is the dashboard aggregation over the known registrations.
type Stats struct {
	TotalRegistrations int            `json:"totalRegistrations"`
	TotalStudents      int            `json:"totalStudents"`
	TotalTeachers      int            `json:"totalTeachers"`
	TotalSchools       int            `json:"totalSchools"`
	Primary            PrimaryStats   `json:"primary"`
	Secondary          SecondaryStats `json:"secondary"`
}
