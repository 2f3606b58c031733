package domain

// HolderRole describes what a staff member does at the institute.
type HolderRole string

const (
	RoleAdmin   HolderRole = "ADMIN"
	RoleManager HolderRole = "MANAGER"
	RoleStaff   HolderRole = "STAFF"
)

// Holder is a staff member capable of holding institute cash float.
// A holder's current balance is never stored on this struct; it is always
// derived from the newest ledger entry in the holder's chain.
type Holder struct {
	HolderID     string     `json:"holderID"` // Primary Key (UUID)
	Name         string     `json:"name"`
	Role         HolderRole `json:"role"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"` // bcrypt hash, never serialized
	IsActive     bool       `json:"isActive"` // false = soft-retired
	AuditFields
}
