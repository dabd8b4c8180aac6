package notify

import (
	"net/url"
	"strings"
	"testing"

	"mssd-catur/internal/domain"
)

func sampleRegistration() domain.Registration {
	return domain.Registration{
		SchoolName: "SK CONTOH",
		Teachers: []domain.Teacher{
			{Name: "CIKGU AMINAH", Phone: "012-345 6789", Position: domain.PositionKetua},
		},
		Students: []domain.Student{
			{Name: "ALI", Gender: domain.GenderMale, Category: domain.CategoryU12},
			{Name: "SITI", Gender: domain.GenderFemale, Category: domain.CategoryU12},
			{Name: "RAVI", Gender: domain.GenderMale, Category: domain.CategoryU18},
		},
	}
}

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("MSSD-01-01", sampleRegistration(), KindCreate, "60182046224")

	if !strings.HasPrefix(link, "https://wa.me/60182046224?text=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	msg := parsed.Query().Get("text")

	for _, want := range []string{
		"NOTIFIKASI PENDAFTARAN BERJAYA",
		"SK CONTOH",
		"MSSD-01-01",
		"CIKGU AMINAH",
		"3 orang",
		"L12 - 1 orang",
		"P12 - 1 orang",
		"L18 - 1 orang",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "L15") {
		t.Error("empty band should be omitted from breakdown")
	}
}

func TestWhatsAppLinkUpdate(t *testing.T) {
	link := WhatsAppLink("MSSD-01-01", sampleRegistration(), KindUpdate, "6018-204 6224")

	if !strings.Contains(link, "wa.me/60182046224") {
		t.Errorf("admin phone not stripped to digits: %s", link)
	}
	parsed, _ := url.Parse(link)
	if !strings.Contains(parsed.Query().Get("text"), "KEMASKINI") {
		t.Error("update link should carry the update title")
	}
}

func TestWhatsAppLinkNoAdminPhone(t *testing.T) {
	if link := WhatsAppLink("MSSD-01-01", sampleRegistration(), KindCreate, ""); link != "" {
		t.Errorf("expected empty link, got %s", link)
	}
}
