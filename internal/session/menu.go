package session

import (
	"slices"

	"github.com/suratku/suratku/internal/api"
)

// MenuItem is one navigation entry and the command that opens it.
type MenuItem struct {
	ID      string     `json:"id"`
	Label   string     `json:"label"`
	Command string     `json:"command"`
	Roles   []api.Role `json:"-"`
}

//nolint:gochecknoglobals // Fixed navigation table.
var menuItems = []MenuItem{
	{ID: "dashboard", Label: "Dashboard", Command: "suratku dashboard", Roles: []api.Role{api.RoleAdmin, api.RoleSuperAdmin}},
	{ID: "tambah-surat", Label: "Tambah Surat", Command: "suratku letters create", Roles: []api.Role{api.RoleAdmin, api.RoleSuperAdmin}},
	{ID: "kategori-surat", Label: "Kategori Surat", Command: "suratku categories list", Roles: []api.Role{api.RoleAdmin, api.RoleSuperAdmin}},
	{ID: "data-surat", Label: "Data Surat", Command: "suratku letters browse", Roles: []api.Role{api.RoleAdmin, api.RoleSuperAdmin}},
	{ID: "laporan", Label: "Laporan Surat", Command: "suratku report show", Roles: []api.Role{api.RoleAdmin, api.RoleSuperAdmin}},
	{ID: "manajemen-pengguna", Label: "Manajemen Pengguna", Command: "suratku users list", Roles: []api.Role{api.RoleSuperAdmin}},
	{ID: "data-perusahaan", Label: "Data Perusahaan", Command: "suratku companies list", Roles: []api.Role{api.RoleSuperAdmin}},
	{ID: "pengaturan", Label: "Pengaturan Sistem", Command: "suratku settings get", Roles: []api.Role{api.RoleSuperAdmin}},
}

// Menu returns the navigation entries shown to role. Super admins see every
// entry open to super admins; anyone else sees the entries open to admins.
func Menu(role api.Role) []MenuItem {
	superAdmin := role == api.RoleSuperAdmin
	var out []MenuItem
	for _, item := range menuItems {
		switch {
		case superAdmin && slices.Contains(item.Roles, api.RoleSuperAdmin):
			out = append(out, item)
		case !superAdmin && slices.Contains(item.Roles, api.RoleAdmin):
			out = append(out, item)
		}
	}
	return out
}
