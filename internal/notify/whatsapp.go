// Package notify builds the wa.me deep link that lets a teacher send
// the admin a prefilled confirmation message. The link is handed back
// to the caller for manual dispatch; nothing is sent from here.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"mssd-catur/internal/domain"
	"mssd-catur/internal/format"
)

type Kind int

const (
	KindCreate Kind = iota
	KindUpdate
)

// bandKey folds a student into the L12/P12/.../P18 breakdown used in
// the message body.
func bandKey(s domain.Student) string {
	g := "P"
	if s.Gender == domain.GenderMale {
		g = "L"
	}
	age := "18"
	switch {
	case strings.Contains(s.Category, "12"):
		age = "12"
	case strings.Contains(s.Category, "15"):
		age = "15"
	}
	return g + age
}

// WhatsAppLink returns the https://wa.me URL carrying the Malay
// notification message, or "" when no admin phone is configured.
func WhatsAppLink(regID string, reg domain.Registration, kind Kind, adminPhone string) string {
	if adminPhone == "" {
		return ""
	}

	counts := map[string]int{}
	for _, s := range reg.Students {
		counts[bandKey(s)]++
	}
	var breakdown []string
	for _, key := range []string{"L12", "P12", "L15", "P15", "L18", "P18"} {
		if counts[key] > 0 {
			breakdown = append(breakdown, fmt.Sprintf("%s - %d orang", key, counts[key]))
		}
	}

	title := "📢 NOTIFIKASI PENDAFTARAN BERJAYA"
	action := "telah berjaya mendaftar pasukan sekolah"
	if kind == KindUpdate {
		title = "📢 NOTIFIKASI KEMASKINI PENDAFTARAN"
		action = "telah berjaya mengemaskini pendaftaran"
	}

	head := reg.HeadTeacher()
	headName, headPhone := "", ""
	if head != nil {
		headName, headPhone = head.Name, head.Phone
	}

	lines := []string{
		title,
		"",
		"Assalamualaikum & Salam Sejahtera 👋",
		"",
		fmt.Sprintf("Saya %s untuk PERTANDINGAN CATUR MSSD ✅", action),
		"",
		fmt.Sprintf("🏫 Nama Sekolah: %s", reg.SchoolName),
		fmt.Sprintf("🆔 ID Pendaftaran: %s", regID),
		fmt.Sprintf("👩‍🏫 Nama Guru (Ketua): %s", headName),
		fmt.Sprintf("📞 No. Telefon Guru: %s", headPhone),
		fmt.Sprintf("👥 Jumlah Pelajar: %d orang (%s)", len(reg.Students), strings.Join(breakdown, ", ")),
		"",
		"Terima kasih atas sokongan dan penyertaan anda. 🙏",
		"Sebarang maklumat lanjut akan dimaklumkan melalui WhatsApp rasmi MSSD Catur. 📱",
		"",
		`♟️ "Satukan Pemain, Gilap Bakat, Ukir Kejayaan" 🏆`,
	}

	target := format.Digits(adminPhone)
	return "https://wa.me/" + target + "?text=" + url.QueryEscape(strings.Join(lines, "\n"))
}
