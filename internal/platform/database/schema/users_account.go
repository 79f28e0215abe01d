package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Email       string
	Username    string
	FirstName   string
	LastName    string
	Bio         string
	Role        string
	IsStaff     string
	IsSuperuser string
	LastLoginAt string
	DateJoined  string
	UpdatedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Email:       "email",
	Username:    "username",
	FirstName:   "firstname",
	LastName:    "lastname",
	Bio:         "bio",
	Role:        "role",
	IsStaff:     "isstaff",
	IsSuperuser: "issuperuser",
	LastLoginAt: "lastloginat",
	DateJoined:  "datejoined",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Username, t.FirstName, t.LastName, t.Bio, t.Role,
		t.IsStaff, t.IsSuperuser, t.LastLoginAt, t.DateJoined, t.UpdatedAt,
	}
}
