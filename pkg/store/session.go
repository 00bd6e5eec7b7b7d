package store

// StaffSession is the cached identity of an authenticated support agent or
// master admin for the lifetime of their JWT.
type StaffSession struct {
	UserId      string `json:"user_id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"` // "support" | "master"
}

const (
	RoleSupport = "support"
	RoleMaster  = "master"
)
