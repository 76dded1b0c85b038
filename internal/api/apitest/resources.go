package apitest

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/numbering"
)

type userIDKey struct{}

func withUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey{}).(int64)
	return id
}

// visibleTo reports whether u may see letters of companyID. Admins are
// limited to their own company.
func visibleTo(u api.User, companyID int64) bool {
	if u.IsSuperAdmin() || u.CompanyID == nil {
		return true
	}
	return *u.CompanyID == companyID
}

func letterYear(l api.Letter) int64 {
	if len(l.Date) < 4 {
		return 0
	}
	y, _ := strconv.ParseInt(l.Date[:4], 10, 64)
	return y
}

func letterMonth(l api.Letter) int64 {
	if len(l.Date) < 7 {
		return 0
	}
	m, _ := strconv.ParseInt(l.Date[5:7], 10, 64)
	return m
}

func (s *Server) listLetters(w http.ResponseWriter, r *http.Request) {
	if s.BeforeList != nil {
		s.BeforeList(r)
	}
	u := s.currentUser(r)
	search := strings.ToLower(r.URL.Query().Get("search"))
	company := queryInt(r, "perusahaan")
	category := queryInt(r, "kategori")
	year := queryInt(r, "tahun")
	month := queryInt(r, "bulan")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.Letter{}
	for _, l := range s.letters {
		switch {
		case !visibleTo(u, l.CompanyID):
		case company > 0 && l.CompanyID != company:
		case category > 0 && l.CategoryID != category:
		case year > 0 && letterYear(l) != year:
		case month > 0 && letterMonth(l) != month:
		case search != "" &&
			!strings.Contains(strings.ToLower(l.ReferenceNumber), search) &&
			!strings.Contains(strings.ToLower(l.Subject), search) &&
			!strings.Contains(strings.ToLower(l.Recipient), search):
		default:
			out = append(out, l)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out, "total": len(out)})
}

func (s *Server) findLetterLocked(id int64) int {
	for i, l := range s.letters {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) getLetter(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	u := s.currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.findLetterLocked(id); i >= 0 && visibleTo(u, s.letters[i].CompanyID) {
		ok(w, s.letters[i])
		return
	}
	fail(w, http.StatusNotFound, "Surat tidak ditemukan")
}

func (s *Server) createLetter(w http.ResponseWriter, r *http.Request) {
	var in api.NewLetter
	if !decode(w, r, &in) {
		return
	}
	u := s.currentUser(r)
	if in.Subject == "" || in.Recipient == "" || in.Date == "" {
		fail(w, http.StatusBadRequest, "Perihal, tujuan dan tanggal wajib diisi")
		return
	}
	if !visibleTo(u, in.CompanyID) {
		fail(w, http.StatusForbidden, "Akses ditolak")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.addLetterLocked(in, u.ID)
	if err != "" {
		fail(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": l, "message": "Surat berhasil dibuat"})
}

// addLetterLocked numbers and stores a letter. The sequence restarts every
// year.
func (s *Server) addLetterLocked(in api.NewLetter, createdBy int64) (api.Letter, string) {
	var company *api.Company
	for i := range s.companies {
		if s.companies[i].ID == in.CompanyID {
			company = &s.companies[i]
		}
	}
	var category *api.Category
	for i := range s.categories {
		if s.categories[i].ID == in.CategoryID {
			category = &s.categories[i]
		}
	}
	if company == nil || category == nil {
		return api.Letter{}, "Perusahaan atau kategori tidak ditemukan"
	}

	l := api.Letter{
		ID:           s.nextID,
		CompanyID:    in.CompanyID,
		CategoryID:   in.CategoryID,
		Subject:      in.Subject,
		Recipient:    in.Recipient,
		Date:         in.Date,
		CreatedBy:    createdBy,
		CreatedAt:    now(),
		CompanyName:  company.Name,
		CompanyCode:  company.Code,
		CategoryName: category.Name,
		CategoryCode: category.Code,
	}
	s.nextID++

	year, month := letterYear(l), letterMonth(l)
	sequence := 1
	for _, existing := range s.letters {
		if letterYear(existing) == year {
			sequence++
		}
	}

	tmpl, err := numbering.ParseTemplate(s.settings.NumberFormat)
	if err != nil {
		tmpl = numbering.MustParseTemplate(numbering.DefaultFormat)
	}
	l.ReferenceNumber = tmpl.Render(numbering.Fields{
		Sequence:     sequence,
		CategoryCode: category.Code,
		CompanyCode:  company.Code,
		Month:        int(month),
		Year:         int(year),
	})
	s.letters = append(s.letters, l)
	return l, ""
}

func (s *Server) updateLetter(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	var patch api.LetterPatch
	if !decode(w, r, &patch) {
		return
	}
	u := s.currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findLetterLocked(id)
	if i < 0 || !visibleTo(u, s.letters[i].CompanyID) {
		fail(w, http.StatusNotFound, "Surat tidak ditemukan")
		return
	}
	s.letters[i] = patch.Apply(s.letters[i])
	ok(w, s.letters[i])
}

func (s *Server) deleteLetter(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	u := s.currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findLetterLocked(id)
	if i < 0 || !visibleTo(u, s.letters[i].CompanyID) {
		fail(w, http.StatusNotFound, "Surat tidak ditemukan")
		return
	}
	s.letters = append(s.letters[:i], s.letters[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Surat berhasil dihapus"})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	u := s.currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	var st api.DashboardStats
	perCompany := map[string]int{}
	for _, l := range s.letters {
		if !visibleTo(u, l.CompanyID) {
			continue
		}
		st.TotalLetters++
		perCompany[l.CompanyName]++
	}
	for _, name := range sortedKeys(perCompany) {
		st.PerCompany = append(st.PerCompany, api.NamedCount{Name: name, Count: perCompany[name]})
	}
	st.TotalCompanies = len(s.companies)
	for i := len(s.letters) - 1; i >= 0 && len(st.Recent) < 5; i-- {
		if visibleTo(u, s.letters[i].CompanyID) {
			st.Recent = append(st.Recent, s.letters[i])
		}
	}
	ok(w, st)
}

func (s *Server) years(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[int64]bool{}
	years := []int{}
	for _, l := range s.letters {
		if y := letterYear(l); y > 0 && !seen[y] {
			seen[y] = true
			years = append(years, int(y))
		}
	}
	ok(w, years)
}

func (s *Server) countByCompany(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int{}
	for _, l := range s.letters {
		counts[l.CompanyName]++
	}
	ok(w, namedCounts(counts))
}

func (s *Server) countByCategory(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int{}
	for _, l := range s.letters {
		counts[l.CategoryName]++
	}
	ok(w, namedCounts(counts))
}

func namedCounts(counts map[string]int) []api.NamedCount {
	out := []api.NamedCount{}
	for _, name := range sortedKeys(counts) {
		out = append(out, api.NamedCount{Name: name, Count: counts[name]})
	}
	return out
}

func (s *Server) listCompanies(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.Company{}
	for _, c := range s.companies {
		if !activeOnly || c.Status == api.CompanyActive {
			out = append(out, c)
		}
	}
	ok(w, out)
}

func (s *Server) getCompany(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.companies {
		if c.ID == id {
			ok(w, c)
			return
		}
	}
	fail(w, http.StatusNotFound, "Perusahaan tidak ditemukan")
}

func (s *Server) createCompany(w http.ResponseWriter, r *http.Request) {
	var in api.CompanyInput
	if !decode(w, r, &in) {
		return
	}
	if in.Name == "" || in.Code == "" {
		fail(w, http.StatusBadRequest, "Nama dan kode wajib diisi")
		return
	}
	if in.Status == "" {
		in.Status = api.CompanyActive
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := api.Company{ID: s.nextID, Name: in.Name, Code: in.Code, Status: in.Status, CreatedAt: now()}
	s.nextID++
	s.companies = append(s.companies, c)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": c})
}

func (s *Server) updateCompany(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	var in api.CompanyInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.companies {
		if s.companies[i].ID != id {
			continue
		}
		c := &s.companies[i]
		if in.Name != "" {
			c.Name = in.Name
		}
		if in.Code != "" {
			c.Code = in.Code
		}
		if in.Status != "" {
			c.Status = in.Status
		}
		ok(w, *c)
		return
	}
	fail(w, http.StatusNotFound, "Perusahaan tidak ditemukan")
}

func (s *Server) deleteCompany(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.letters {
		if l.CompanyID == id {
			fail(w, http.StatusConflict, "Perusahaan masih memiliki surat")
			return
		}
	}
	for i, c := range s.companies {
		if c.ID == id {
			s.companies = append(s.companies[:i], s.companies[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Perusahaan dihapus"})
			return
		}
	}
	fail(w, http.StatusNotFound, "Perusahaan tidak ditemukan")
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok(w, append([]api.Category{}, s.categories...))
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.ID == id {
			ok(w, c)
			return
		}
	}
	fail(w, http.StatusNotFound, "Kategori tidak ditemukan")
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var in api.CategoryInput
	if !decode(w, r, &in) {
		return
	}
	if in.Name == "" || in.Code == "" {
		fail(w, http.StatusBadRequest, "Nama dan kode wajib diisi")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := api.Category{ID: s.nextID, Name: in.Name, Code: in.Code, CreatedAt: now()}
	s.nextID++
	s.categories = append(s.categories, c)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": c})
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	var in api.CategoryInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID != id {
			continue
		}
		if in.Name != "" {
			s.categories[i].Name = in.Name
		}
		if in.Code != "" {
			s.categories[i].Code = in.Code
		}
		ok(w, s.categories[i])
		return
	}
	fail(w, http.StatusNotFound, "Kategori tidak ditemukan")
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.categories {
		if c.ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Kategori dihapus"})
			return
		}
	}
	fail(w, http.StatusNotFound, "Kategori tidak ditemukan")
}

func (s *Server) listUsers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.user)
	}
	ok(w, out)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.ID == id {
			ok(w, a.user)
			return
		}
	}
	fail(w, http.StatusNotFound, "User tidak ditemukan")
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var in api.UserInput
	if !decode(w, r, &in) {
		return
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		fail(w, http.StatusBadRequest, "Nama, email dan password wajib diisi")
		return
	}
	if in.Role == "" {
		in.Role = api.RoleAdmin
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := api.User{ID: s.nextID, Name: in.Name, Email: in.Email, Role: in.Role, CompanyID: in.CompanyID, CreatedAt: now()}
	s.nextID++
	s.accounts = append(s.accounts, account{user: u, password: in.Password})
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": u})
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	var in api.UserInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		a := &s.accounts[i]
		if a.user.ID != id {
			continue
		}
		if in.Name != "" {
			a.user.Name = in.Name
		}
		if in.Email != "" {
			a.user.Email = in.Email
		}
		if in.Role != "" {
			a.user.Role = in.Role
		}
		if in.CompanyID != nil {
			a.user.CompanyID = in.CompanyID
		}
		if in.Password != "" {
			a.password = in.Password
		}
		ok(w, a.user)
		return
	}
	fail(w, http.StatusNotFound, "User tidak ditemukan")
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	if id == userIDFrom(r.Context()) {
		fail(w, http.StatusBadRequest, "Tidak dapat menghapus akun sendiri")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.accounts {
		if a.user.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "User dihapus"})
			return
		}
	}
	fail(w, http.StatusNotFound, "User tidak ditemukan")
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	var in struct {
		NewPassword string `json:"newPassword"`
	}
	if !decode(w, r, &in) {
		return
	}
	if len(in.NewPassword) < 6 { //nolint:mnd // server minimum
		fail(w, http.StatusBadRequest, "Password minimal 6 karakter")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].user.ID == id {
			s.accounts[i].password = in.NewPassword
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Password direset"})
			return
		}
	}
	fail(w, http.StatusNotFound, "User tidak ditemukan")
}

func (s *Server) reportLetters(r *http.Request) []api.Letter {
	u := s.currentUser(r)
	company := queryInt(r, "perusahaan")
	category := queryInt(r, "kategori")
	year := queryInt(r, "tahun")
	month := queryInt(r, "bulan")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.Letter{}
	for _, l := range s.letters {
		switch {
		case !visibleTo(u, l.CompanyID):
		case company > 0 && l.CompanyID != company:
		case category > 0 && l.CategoryID != category:
		case year > 0 && letterYear(l) != year:
		case month > 0 && letterMonth(l) != month:
		default:
			out = append(out, l)
		}
	}
	return out
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	letters := s.reportLetters(r)
	byCompany := map[string]int{}
	byCategory := map[string]int{}
	for _, l := range letters {
		byCompany[l.CompanyName]++
		byCategory[l.CategoryName]++
	}
	ok(w, api.Report{
		Letters: letters,
		Summary: api.ReportSummary{
			Total:      len(letters),
			ByCompany:  namedCounts(byCompany),
			ByCategory: namedCounts(byCategory),
		},
	})
}

func (s *Server) exportReport(w http.ResponseWriter, r *http.Request) {
	letters := s.reportLetters(r)
	switch chi.URLParam(r, "format") {
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4\n% " + strconv.Itoa(len(letters)) + " surat\n"))
	case "excel":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write([]byte("PK\x03\x04" + strconv.Itoa(len(letters))))
	default:
		fail(w, http.StatusBadRequest, "Format tidak didukung")
	}
}

func (s *Server) getSettings(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok(w, s.settings)
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var patch api.SettingsPatch
	if !decode(w, r, &patch) {
		return
	}
	if patch.NumberFormat != nil {
		if _, err := numbering.ParseTemplate(*patch.NumberFormat); err != nil {
			fail(w, http.StatusBadRequest, "Format nomor tidak valid")
			return
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if patch.AppName != nil {
		s.settings.AppName = *patch.AppName
	}
	if patch.Logo != nil {
		s.settings.Logo = *patch.Logo
	}
	if patch.DarkMode != nil {
		s.settings.DarkMode = *patch.DarkMode
	}
	if patch.NumberFormat != nil {
		s.settings.NumberFormat = *patch.NumberFormat
	}
	ok(w, s.settings)
}

func (s *Server) resetSettings(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = api.Settings{AppName: "Suratku", NumberFormat: numbering.DefaultFormat}
	ok(w, s.settings)
}
