package api

import (
	"net/url"
	"strconv"
)

// Role is a user's access level.
type Role string

// Known roles.
const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// CompanyStatus is whether a company may issue new letters.
type CompanyStatus string

// Company statuses.
const (
	CompanyActive   CompanyStatus = "aktif"
	CompanyInactive CompanyStatus = "tidak_aktif"
)

// Letter is a numbered letter (surat).
type Letter struct {
	ID              int64  `json:"id"`
	ReferenceNumber string `json:"nomor_surat"`
	CompanyID       int64  `json:"perusahaan_id"`
	CategoryID      int64  `json:"kategori_id"`
	Subject         string `json:"perihal"`
	Recipient       string `json:"tujuan"`
	Date            string `json:"tanggal"`
	CreatedBy       int64  `json:"created_by"`
	CreatedAt       string `json:"created_at"`
	EvidenceFile    string `json:"bukti_file,omitempty"`
	CompanyName     string `json:"perusahaan_nama,omitempty"`
	CompanyCode     string `json:"perusahaan_kode,omitempty"`
	CategoryName    string `json:"kategori_nama,omitempty"`
	CategoryCode    string `json:"kategori_kode,omitempty"`
	CreatedByName   string `json:"created_by_name,omitempty"`
}

// NewLetter is the payload for creating a letter. The server assigns the
// reference number.
type NewLetter struct {
	CompanyID  int64  `json:"perusahaan_id"`
	CategoryID int64  `json:"kategori_id"`
	Subject    string `json:"perihal"`
	Recipient  string `json:"tujuan"`
	Date       string `json:"tanggal"`
}

// LetterPatch is a partial letter update. Nil fields are left unchanged.
type LetterPatch struct {
	Subject    *string `json:"perihal,omitempty"`
	Recipient  *string `json:"tujuan,omitempty"`
	Date       *string `json:"tanggal,omitempty"`
	CompanyID  *int64  `json:"perusahaan_id,omitempty"`
	CategoryID *int64  `json:"kategori_id,omitempty"`
}

// Apply returns l with the patch's set fields copied over.
func (p LetterPatch) Apply(l Letter) Letter {
	if p.Subject != nil {
		l.Subject = *p.Subject
	}
	if p.Recipient != nil {
		l.Recipient = *p.Recipient
	}
	if p.Date != nil {
		l.Date = *p.Date
	}
	if p.CompanyID != nil {
		l.CompanyID = *p.CompanyID
	}
	if p.CategoryID != nil {
		l.CategoryID = *p.CategoryID
	}
	return l
}

// Empty reports whether the patch sets nothing.
func (p LetterPatch) Empty() bool {
	return p.Subject == nil && p.Recipient == nil && p.Date == nil &&
		p.CompanyID == nil && p.CategoryID == nil
}

// LetterFilter narrows a letter listing. Zero fields are not sent.
type LetterFilter struct {
	Search     string `json:"search,omitempty"`
	CompanyID  int64  `json:"perusahaan,omitempty"`
	CategoryID int64  `json:"kategori,omitempty"`
	Year       int    `json:"tahun,omitempty"`
	Month      int    `json:"bulan,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// Values encodes the filter as query parameters.
func (f LetterFilter) Values() url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	setID(v, "perusahaan", f.CompanyID)
	setID(v, "kategori", f.CategoryID)
	setInt(v, "tahun", f.Year)
	setInt(v, "bulan", f.Month)
	setInt(v, "limit", f.Limit)
	setInt(v, "offset", f.Offset)
	return v
}

// Company is an organisation letters are issued for (perusahaan).
type Company struct {
	ID        int64         `json:"id"`
	Name      string        `json:"nama"`
	Code      string        `json:"kode"`
	Status    CompanyStatus `json:"status"`
	CreatedAt string        `json:"created_at"`
}

// CompanyInput is the payload for creating or updating a company. Empty
// fields are omitted, so it doubles as a partial update.
type CompanyInput struct {
	Name   string        `json:"nama,omitempty"`
	Code   string        `json:"kode,omitempty"`
	Status CompanyStatus `json:"status,omitempty"`
}

// Category is a letter classification (kategori) contributing its code to
// reference numbers.
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"nama"`
	Code      string `json:"kode"`
	CreatedAt string `json:"created_at"`
}

// CategoryInput is the payload for creating or updating a category.
type CategoryInput struct {
	Name string `json:"nama,omitempty"`
	Code string `json:"kode,omitempty"`
}

// User is an account on the system.
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	CompanyID   *int64 `json:"perusahaan_id,omitempty"`
	CompanyName string `json:"perusahaan_nama,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// IsSuperAdmin reports whether u has the super_admin role.
func (u User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// UserInput is the payload for creating or updating a user. Empty fields are
// omitted.
type UserInput struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
	Role      Role   `json:"role,omitempty"`
	CompanyID *int64 `json:"perusahaan_id,omitempty"`
}

// ProfileInput updates the signed-in user's own profile.
type ProfileInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PasswordChange is the payload of /auth/change-password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Settings are the system-wide settings.
type Settings struct {
	AppName      string `json:"app_name"`
	Logo         string `json:"logo,omitempty"`
	DarkMode     bool   `json:"dark_mode"`
	NumberFormat string `json:"nomor_format"`
}

// SettingsPatch is a partial settings update.
type SettingsPatch struct {
	AppName      *string `json:"app_name,omitempty"`
	Logo         *string `json:"logo,omitempty"`
	DarkMode     *bool   `json:"dark_mode,omitempty"`
	NumberFormat *string `json:"nomor_format,omitempty"`
}

// NamedCount is a label with a letter count, used by stats and reports.
type NamedCount struct {
	Name  string `json:"nama"`
	Count int    `json:"jumlah"`
}

// MonthlyCount is one month of the twelve-month chart.
type MonthlyCount struct {
	Name  string `json:"name"`
	Count int    `json:"jumlah"`
}

// DashboardStats is the payload of /surat/stats.
type DashboardStats struct {
	TotalLetters     int            `json:"totalSurat"`
	LettersThisMonth int            `json:"suratBulanIni"`
	TotalCompanies   int            `json:"totalPerusahaan"`
	Monthly          []MonthlyCount `json:"statistik12Bulan"`
	PerCompany       []NamedCount   `json:"suratPerPerusahaan"`
	Recent           []Letter       `json:"suratTerbaru"`
}

// ReportParams filters a report. Zero fields are not sent.
type ReportParams struct {
	CompanyID  int64
	CategoryID int64
	Year       int
	Month      int
}

// Values encodes the params as query parameters.
func (p ReportParams) Values() url.Values {
	v := url.Values{}
	setID(v, "perusahaan", p.CompanyID)
	setID(v, "kategori", p.CategoryID)
	setInt(v, "tahun", p.Year)
	setInt(v, "bulan", p.Month)
	return v
}

// Report is the payload of /laporan.
type Report struct {
	Letters []Letter      `json:"surat"`
	Summary ReportSummary `json:"summary"`
}

// ReportSummary totals a report by company and category.
type ReportSummary struct {
	Total      int          `json:"total"`
	ByCompany  []NamedCount `json:"byPerusahaan"`
	ByCategory []NamedCount `json:"byKategori"`
}

// ExportFormat selects the server-rendered report document.
type ExportFormat string

// Export formats.
const (
	ExportPDF   ExportFormat = "pdf"
	ExportExcel ExportFormat = "excel"
)

// Extension returns the file extension for the format.
func (f ExportFormat) Extension() string {
	if f == ExportExcel {
		return "xlsx"
	}
	return "pdf"
}

func setID(v url.Values, key string, id int64) {
	if id > 0 {
		v.Set(key, strconv.FormatInt(id, 10))
	}
}

func setInt(v url.Values, key string, n int) {
	if n > 0 {
		v.Set(key, strconv.Itoa(n))
	}
}
