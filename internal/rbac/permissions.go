// Package rbac builds and refreshes the casbin enforcer from user groups.
// Policies are (group, permission-slug) pairs; the middleware enforces the
// slug each operation declares in its metadata.
package rbac

import (
	"sort"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Permission slugs checked by the resource layer. Group documents hold a
// subset of these.
const (
	PermListTables  = "list-tables"
	PermReadTable   = "read-table"
	PermCreateTable = "create-table"
	PermUpdateTable = "update-table"
	PermTrashTable  = "trash-table"

	PermListFields  = "list-fields"
	PermReadField   = "read-field"
	PermCreateField = "create-field"
	PermUpdateField = "update-field"
	PermTrashField  = "trash-field"

	PermListRows  = "list-rows"
	PermReadRow   = "read-row"
	PermCreateRow = "create-row"
	PermUpdateRow = "update-row"
	PermTrashRow  = "trash-row"
	PermReactRow  = "react-row"

	PermListGroups  = "list-user-groups"
	PermReadGroup   = "read-user-group"
	PermCreateGroup = "create-user-group"
	PermUpdateGroup = "update-user-group"

	PermListPermissions = "list-permissions"

	PermListMenus  = "list-menus"
	PermReadMenu   = "read-menu"
	PermCreateMenu = "create-menu"
	PermUpdateMenu = "update-menu"
	PermTrashMenu  = "trash-menu"

	PermReadSetting   = "read-setting"
	PermUpdateSetting = "update-setting"

	PermCreateStorage = "create-storage"
	PermDeleteStorage = "delete-storage"
)

// All returns every known permission slug in stable order; /permissions and
// the seed command enumerate it.
func All() []string {
	slugs := []string{
		PermListTables, PermReadTable, PermCreateTable, PermUpdateTable, PermTrashTable,
		PermListFields, PermReadField, PermCreateField, PermUpdateField, PermTrashField,
		PermListRows, PermReadRow, PermCreateRow, PermUpdateRow, PermTrashRow, PermReactRow,
		PermListGroups, PermReadGroup, PermCreateGroup, PermUpdateGroup,
		PermListPermissions,
		PermListMenus, PermReadMenu, PermCreateMenu, PermUpdateMenu, PermTrashMenu,
		PermReadSetting, PermUpdateSetting,
		PermCreateStorage, PermDeleteStorage,
	}
	sort.Strings(slugs)
	return slugs
}

// NewEnforcer builds the two-term casbin model used for slug checks.
func NewEnforcer() (*casbin.Enforcer, error) {
	m := model.NewModel()
	m.AddDef("r", "r", "sub, obj")
	m.AddDef("p", "p", "sub, obj")
	m.AddDef("g", "g", "_, _")
	m.AddDef("e", "e", "some(where (p.eft == allow))")
	m.AddDef("m", "m", "g(r.sub, p.sub) && r.obj == p.obj")
	return casbin.NewEnforcer(m)
}
