package format

import (
	"testing"
)

func TestSchoolName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sekolah kebangsaan taman desa", "SK TAMAN DESA"},
		{"Sekolah Menengah Kebangsaan Tun Dr Ismail", "SMK TUN DR ISMAIL"},
		{"sekolah menengah kebangsaan agama bukit", "SMKA BUKIT"},
		{"Sekolah Jenis Kebangsaan (Cina) Chee Wen", "SJKC CHEE WEN"},
		{"Sekolah Jenis Kebangsaan (Tamil) Ladang", "SJKT LADANG"},
		{"sekolah jenis kebangsaan bandar", "SJK BANDAR"},
		{"SMK Sudah Pendek", "SMK SUDAH PENDEK"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SchoolName(tt.in); got != tt.want {
			t.Errorf("SchoolName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// The agama pattern must win over the generic SMK pattern even though
// both match the same prefix.
func TestSchoolNameAbbreviationOrder(t *testing.T) {
	got := SchoolName("sekolah menengah kebangsaan agama bukit")
	if got != "SMKA BUKIT" {
		t.Fatalf("got %q, want %q", got, "SMKA BUKIT")
	}
}

func TestPhoneNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"60123456789", "601-234 56789"},
		{"0123456789", "012-345 6789"},
		{"012-345 6789", "012-345 6789"},
		{"12345", "12345"},
		{"abc123", "123"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := PhoneNumber(tt.in); got != tt.want {
			t.Errorf("PhoneNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIC(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"991231011234", "991231-01-1234"},
		{"991231-01-1234", "991231-01-1234"},
		{"12345", "12345"},
		{"9912310112345", "991231-01-1234"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := IC(tt.in); got != tt.want {
			t.Errorf("IC(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"guru@sekolah.edu.my", true},
		{"a@b.c", true},
		{"no-at-sign", false},
		{"@missing.local", false},
		{"missing-domain@", false},
		{"two@@ats.com", false},
		{"nodot@domain", false},
		{"dot-at-end@domain.", false},
	}
	for _, tt := range tests {
		if got := IsValidEmail(tt.in); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsValidMalaysianPhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0123456789", true},
		{"01234567890", true},
		{"012-345 6789", true},
		{"60123456789", true},
		{"601234567890", true},
		{"12345", false},
		{"0212345678", false},
		{"012345678", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidMalaysianPhone(tt.in); got != tt.want {
			t.Errorf("IsValidMalaysianPhone(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGenderFromIC(t *testing.T) {
	tests := []struct {
		in     string
		gender string
		ok     bool
	}{
		{"991231011235", "Lelaki", true},
		{"991231011236", "Perempuan", true},
		{"991231-01-1235", "Lelaki", true},
		{"99123101123", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		gender, ok := GenderFromIC(tt.in)
		if gender != tt.gender || ok != tt.ok {
			t.Errorf("GenderFromIC(%q) = (%q, %v), want (%q, %v)", tt.in, gender, ok, tt.gender, tt.ok)
		}
	}
}
