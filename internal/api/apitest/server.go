// Package apitest provides an in-memory fake of the letter numbering API for
// tests. It speaks the same envelope as the real server, issues signed JWTs
// at login and enforces the admin/super_admin split.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/numbering"
)

// Fixture credentials seeded by NewServer.
const (
	SuperAdminEmail = "super@suratku.test"
	AdminEmail      = "admin@suratku.test"
	Password        = "rahasia123"
)

// TokenTTL is the lifetime of tokens issued by the fake.
const TokenTTL = 24 * time.Hour

var signingKey = []byte("apitest-signing-key") //nolint:gochecknoglobals // Test-only key.

type account struct {
	user     api.User
	password string
}

// Server is a fake API backed by an httptest.Server.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	letters    []api.Letter
	companies  []api.Company
	categories []api.Category
	accounts   []account
	settings   api.Settings
	tokens     map[string]int64
	nextID     int64
	requests   []*http.Request
	failures   map[string]failure

	// Version is reported by /health.
	Version string
	// BeforeList, when set, runs before GET /surat answers. Tests use it to
	// hold a listing open.
	BeforeList func(r *http.Request)
}

type failure struct {
	status  int
	message string
}

// NewServer starts a seeded fake and closes it when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		tokens:   make(map[string]int64),
		failures: make(map[string]failure),
		nextID:   100,
		Version:  "1.4.0",
		settings: api.Settings{AppName: "Suratku", NumberFormat: numbering.DefaultFormat},
	}
	s.seed()
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// BaseURL returns the API root, suitable for api.New.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// Fail makes the next request to "METHOD /path" answer with status and
// message.
func (s *Server) Fail(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, message: message}
}

// Requests returns the requests received so far.
func (s *Server) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

// Letters returns a copy of the stored letters.
func (s *Server) Letters() []api.Letter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Letter(nil), s.letters...)
}

// AddLetters appends n generated letters for company and category in
// the given year and month.
func (s *Server) AddLetters(n int, companyID, categoryID int64, year, month int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for range n {
		s.addLetterLocked(api.NewLetter{
			CompanyID:  companyID,
			CategoryID: categoryID,
			Subject:    fmt.Sprintf("Perihal %d", s.nextID),
			Recipient:  "PT Mitra",
			Date:       fmt.Sprintf("%04d-%02d-%02d", year, month, 1+int(s.nextID%28)),
		}, 1)
	}
}

// TokenFor issues a token for the seeded account with email.
func (s *Server) TokenFor(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.Email == email {
			return s.issueLocked(a.user.ID, time.Now().Add(TokenTTL))
		}
	}
	return ""
}

// ExpiredTokenFor issues an already expired token that the fake still
// accepts, to exercise client-side expiry.
func (s *Server) ExpiredTokenFor(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.Email == email {
			return s.issueLocked(a.user.ID, time.Now().Add(-time.Hour))
		}
	}
	return ""
}

func (s *Server) seed() {
	created := "2025-01-02T03:04:05Z"
	s.companies = []api.Company{
		{ID: 1, Name: "PT Eka Prima", Code: "EP", Status: api.CompanyActive, CreatedAt: created},
		{ID: 2, Name: "PT Anugerah Omega Sentosa", Code: "AOS", Status: api.CompanyActive, CreatedAt: created},
		{ID: 3, Name: "PT Sinar Pagi", Code: "SP", Status: api.CompanyInactive, CreatedAt: created},
	}
	s.categories = []api.Category{
		{ID: 1, Name: "Surat Perintah", Code: "SP", CreatedAt: created},
		{ID: 2, Name: "Surat Pengantar", Code: "PC", CreatedAt: created},
		{ID: 3, Name: "Lain-lain", Code: "LL", CreatedAt: created},
	}
	companyID := int64(2)
	s.accounts = []account{
		{
			user:     api.User{ID: 1, Name: "Super Admin", Email: SuperAdminEmail, Role: api.RoleSuperAdmin, CreatedAt: created},
			password: Password,
		},
		{
			user: api.User{
				ID: 2, Name: "Admin AOS", Email: AdminEmail, Role: api.RoleAdmin,
				CompanyID: &companyID, CompanyName: "PT Anugerah Omega Sentosa", CreatedAt: created,
			},
			password: Password,
		},
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Post("/auth/login", s.login)
		r.Post("/auth/register", s.register)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Post("/auth/logout", s.logout)
			r.Get("/auth/profile", s.profile)
			r.Put("/auth/profile", s.updateProfile)
			r.Put("/auth/change-password", s.changePassword)

			r.Get("/surat", s.listLetters)
			r.Post("/surat", s.createLetter)
			r.Get("/surat/stats", s.stats)
			r.Get("/surat/years", s.years)
			r.Get("/surat/count/perusahaan", s.countByCompany)
			r.Get("/surat/count/kategori", s.countByCategory)
			r.Get("/surat/{id}", s.getLetter)
			r.Put("/surat/{id}", s.updateLetter)
			r.Delete("/surat/{id}", s.deleteLetter)

			r.Get("/perusahaan", s.listCompanies)
			r.Get("/perusahaan/{id}", s.getCompany)
			r.Get("/kategori", s.listCategories)
			r.Get("/kategori/{id}", s.getCategory)
			r.Post("/kategori", s.createCategory)
			r.Put("/kategori/{id}", s.updateCategory)
			r.Delete("/kategori/{id}", s.deleteCategory)

			r.Get("/laporan", s.report)
			r.Get("/laporan/export/{format}", s.exportReport)
			r.Get("/settings", s.getSettings)

			r.Group(func(r chi.Router) {
				r.Use(s.requireSuperAdmin)

				r.Post("/perusahaan", s.createCompany)
				r.Put("/perusahaan/{id}", s.updateCompany)
				r.Delete("/perusahaan/{id}", s.deleteCompany)

				r.Get("/users", s.listUsers)
				r.Post("/users", s.createUser)
				r.Get("/users/{id}", s.getUser)
				r.Put("/users/{id}", s.updateUser)
				r.Delete("/users/{id}", s.deleteUser)
				r.Put("/users/{id}/reset-password", s.resetPassword)

				r.Put("/settings", s.updateSettings)
				r.Post("/settings/reset", s.resetSettings)
			})
		})
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")

		s.mu.Lock()
		s.requests = append(s.requests, r.Clone(r.Context()))
		f, failing := s.failures[key]
		delete(s.failures, key)
		s.mu.Unlock()

		if failing {
			fail(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		id, ok := s.tokens[token]
		s.mu.Unlock()
		if token == "" || !ok {
			fail(w, http.StatusUnauthorized, "Token tidak valid")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), id)))
	})
}

func (s *Server) requireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.currentUser(r).IsSuperAdmin() {
			fail(w, http.StatusForbidden, "Akses ditolak")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) issueLocked(userID int64, expires time.Time) string {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expires),
		ID:        strconv.FormatInt(s.nextID, 10),
	}
	s.nextID++
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	s.tokens[token] = userID
	return token
}

func (s *Server) currentUser(r *http.Request) api.User {
	id := userIDFrom(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.ID == id {
			return a.user
		}
	}
	return api.User{}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   s.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if !decode(w, r, &creds) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.Email == creds.Email && a.password == creds.Password {
			token := s.issueLocked(a.user.ID, time.Now().Add(TokenTTL))
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": token, "user": a.user})
			return
		}
	}
	fail(w, http.StatusUnauthorized, "Email atau password salah")
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var reg api.Registration
	if !decode(w, r, &reg) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.Email == reg.Email {
			fail(w, http.StatusBadRequest, "Email sudah terdaftar")
			return
		}
	}
	u := api.User{ID: s.nextID, Name: reg.Name, Email: reg.Email, Role: api.RoleAdmin, CreatedAt: now()}
	s.nextID++
	s.accounts = append(s.accounts, account{user: u, password: reg.Password})
	token := s.issueLocked(u.ID, time.Now().Add(TokenTTL))
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "token": token, "user": u})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logout berhasil"})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	ok(w, s.currentUser(r))
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in api.ProfileInput
	if !decode(w, r, &in) {
		return
	}
	id := userIDFrom(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].user.ID == id {
			s.accounts[i].user.Name = in.Name
			s.accounts[i].user.Email = in.Email
			ok(w, s.accounts[i].user)
			return
		}
	}
	fail(w, http.StatusNotFound, "User tidak ditemukan")
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var in api.PasswordChange
	if !decode(w, r, &in) {
		return
	}
	if in.NewPassword != in.ConfirmPassword {
		fail(w, http.StatusBadRequest, "Konfirmasi password tidak cocok")
		return
	}
	id := userIDFrom(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].user.ID != id {
			continue
		}
		if s.accounts[i].password != in.CurrentPassword {
			fail(w, http.StatusBadRequest, "Password saat ini salah")
			return
		}
		s.accounts[i].password = in.NewPassword
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Password berhasil diubah"})
		return
	}
	fail(w, http.StatusNotFound, "User tidak ditemukan")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		fail(w, http.StatusBadRequest, "Body tidak valid")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		fail(w, http.StatusBadRequest, "ID tidak valid")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string) int64 {
	v, _ := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	return v
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
