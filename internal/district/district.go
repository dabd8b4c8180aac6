// Package district maps a deployment hostname (or explicit override) to
// a district key and carries each district's baked-in defaults. One
// deployment serves several tournament instances; the key namespaces
// everything persisted locally so districts never share credentials.
package district

import (
	"sort"
	"strings"

	"mssd-catur/internal/domain"
)

const DefaultKey = "default"

// District bundles the defaults for one tournament instance.
type District struct {
	Key         string             `json:"key"`
	Credentials domain.Credentials `json:"credentials"`
	Config      domain.EventConfig `json:"config"`
}

var defaultSchedules = domain.Schedules{
	Primary: []domain.ScheduleDay{
		{
			Date: "HARI PERTAMA",
			Items: []domain.ScheduleItem{
				{Time: "8.00 pagi", Activity: "Pendaftaran"},
				{Time: "9.00 pagi", Activity: "Pusingan 1"},
				{Time: "11.00 pagi", Activity: "Pusingan 2"},
			},
		},
	},
	Secondary: []domain.ScheduleDay{
		{
			Date: "HARI PERTAMA",
			Items: []domain.ScheduleItem{
				{Time: "8.00 pagi", Activity: "Pendaftaran"},
				{Time: "9.00 pagi", Activity: "Pusingan 1"},
			},
		},
	},
}

func baseConfig() domain.EventConfig {
	return domain.EventConfig{
		EventName:  "KEJOHANAN CATUR MSSD",
		EventVenue: "Dewan Sekolah",
		AdminPhone: "60123456789",
		Schedules:  defaultSchedules,
		Links: domain.EventLinks{
			Rules:   "#",
			Results: "https://chess-results.com",
			Photos:  "#",
		},
		Documents: domain.EventDocuments{
			Invitation: "#",
			Meeting:    "#",
			Arbiter:    "#",
		},
	}
}

func withEvent(name, venue, adminPhone string) domain.EventConfig {
	cfg := baseConfig()
	cfg.EventName = name
	cfg.EventVenue = venue
	cfg.AdminPhone = adminPhone
	return cfg
}

// districts keys must match the first hostname label of the deployment,
// e.g. "mssdmuar" for mssdmuar.pendaftarancatur.com.
var districts = map[string]District{
	"mssdmuar": {
		Key: "mssdmuar",
		Credentials: domain.Credentials{
			ScriptURL:     "https://script.google.com/macros/s/AKfycbwWNUtbfV4VKvsmbGyD4RWNUEVFdKwkk8bOsXuPdBkfgJ_-QFySGx0uJmfsBW5087mlPQ/exec",
			SpreadsheetID: "1FJnBiWM5cuH0a1Yw0CxAR9zy_LiD1lVtQg9ijXRrPS4",
		},
		Config: withEvent("KEJOHANAN CATUR MSSD MUAR 2025", "Dewan SMK Tun Dr Ismail", "60182046224"),
	},
	"mssdpasirgudang": {
		Key: "mssdpasirgudang",
		Credentials: domain.Credentials{
			ScriptURL:     "REPLACE_WITH_PG_SCRIPT_URL",
			SpreadsheetID: "REPLACE_WITH_PG_SHEET_ID",
		},
		Config: withEvent("KEJOHANAN CATUR MSSD PASIR GUDANG 2025", "Dewan SMK Pasir Gudang", "60123456789"),
	},
	DefaultKey: {
		Key: DefaultKey,
		Credentials: domain.Credentials{
			ScriptURL:     "https://script.google.com/macros/s/AKfycbwWNUtbfV4VKvsmbGyD4RWNUEVFdKwkk8bOsXuPdBkfgJ_-QFySGx0uJmfsBW5087mlPQ/exec",
			SpreadsheetID: "1FJnBiWM5cuH0a1Yw0CxAR9zy_LiD1lVtQg9ijXRrPS4",
		},
		Config: withEvent("KEJOHANAN CATUR MSSD 2025", "Dewan Sekolah", "60182046224"),
	},
}

// Resolve picks the district key: an explicit override wins when it
// names a known district, localhost maps to the default, otherwise the
// hostname's first label (skipping www) is tried.
func Resolve(hostname, override string) string {
	if override != "" {
		if _, ok := districts[strings.ToLower(override)]; ok {
			return strings.ToLower(override)
		}
	}

	host := hostname
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}
	if strings.Contains(host, "localhost") || strings.Contains(host, "127.0.0.1") {
		return DefaultKey
	}

	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		sub := strings.ToLower(parts[0])
		if sub == "www" && len(parts) > 2 {
			if _, ok := districts[strings.ToLower(parts[1])]; ok {
				return strings.ToLower(parts[1])
			}
		}
		if _, ok := districts[sub]; ok {
			return sub
		}
	}

	return DefaultKey
}

// Get returns the district's baked defaults, falling back to the
// default district for unknown keys.
func Get(key string) District {
	if d, ok := districts[key]; ok {
		return d
	}
	return districts[DefaultKey]
}

// All lists the configured districts for the superadmin surface, with
// the default entry last.
func All() []District {
	out := make([]District, 0, len(districts))
	for key, d := range districts {
		if key == DefaultKey {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	out = append(out, districts[DefaultKey])
	return out
}

// MergeConfig lays saved fields over the district defaults. A saved
// config without schedules keeps the default schedule instead of
// dropping it.
func MergeConfig(base domain.EventConfig, saved *domain.EventConfig) domain.EventConfig {
	if saved == nil {
		return base
	}
	merged := *saved
	if merged.EventName == "" {
		merged.EventName = base.EventName
	}
	if merged.EventVenue == "" {
		merged.EventVenue = base.EventVenue
	}
	if merged.AdminPhone == "" {
		merged.AdminPhone = base.AdminPhone
	}
	if len(merged.Schedules.Primary) == 0 && len(merged.Schedules.Secondary) == 0 {
		merged.Schedules = base.Schedules
	}
	if merged.Links == (domain.EventLinks{}) {
		merged.Links = base.Links
	}
	if merged.Documents == (domain.EventDocuments{}) {
		merged.Documents = base.Documents
	}
	return merged
}
