package model

// Role represents user roles in the system. The admin surface
// (import/export/clear-all) is gated on RoleAdmin server-side.
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // ADMIN, OPERATOR
	Name        string `gorm:"type:varchar(100)" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// Role codes as constants
const (
	RoleAdmin    = "ADMIN"
	RoleOperator = "OPERATOR"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full access including bulk import/export and data reset",
	},
	{
		Code:        RoleOperator,
		Name:        "Operator",
		Description: "Catalog and scanning access",
	},
}
