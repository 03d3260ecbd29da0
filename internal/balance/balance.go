package balance

// DefaultAllocationDays is granted for every eligible leave type when no
// allocation rule matches the user's (role, seniority).
const DefaultAllocationDays = 12

// Grant is one allocation resolved against a leave type.
type Grant struct {
	LeaveTypeID       int64
	LeaveTypeName     string
	GenderRestriction string
	Days              int
}

// Allocation is one raw allocation rule row.
type Allocation struct {
	LeaveTypeID int64
	Role        string
	Seniority   string
	Days        int
}

// TypeInfo is the slice of a leave type the engine needs for eligibility.
type TypeInfo struct {
	ID                int64
	Name              string
	GenderRestriction string
}

// UserAttrs are the user attributes balances are derived from.
type UserAttrs struct {
	UserID    int64
	Role      string
	Seniority string
	Gender    string
}

// Balance is a user's grant state for one leave type.
type Balance struct {
	LeaveTypeID   int64  `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name"`
	TotalDays     int    `json:"total_days"`
	UsedDays      int    `json:"used_days"`
	AvailableDays int    `json:"available_days"`
}

type Repository interface {
	// AllocationsFor returns allocation rows for (role, seniority) joined
	// with their leave type.
	AllocationsFor(role, seniority string) ([]Grant, error)
	AllocationsForType(leaveTypeID int64) ([]Allocation, error)
	AllTypes() ([]TypeInfo, error)
	TypeByID(leaveTypeID int64) (*TypeInfo, error)

	BalancesForUser(userID int64) ([]Balance, error)
	HasBalance(userID, leaveTypeID int64) (bool, error)
	Insert(userID, leaveTypeID int64, totalDays int) error
	UpdateTotal(userID, leaveTypeID int64, totalDays int) error
	Delete(userID, leaveTypeID int64) error
	DeleteAllForUser(userID int64) error
	DeleteAllForType(leaveTypeID int64) error

	// ConsumeDays adds days to used_days only if the result stays within
	// total_days; it reports whether the update applied.
	ConsumeDays(userID, leaveTypeID int64, days int) (bool, error)
	// RestoreDays subtracts days from used_days, clamping at zero.
	RestoreDays(userID, leaveTypeID int64, days int) error
	Available(userID, leaveTypeID int64) (total, used int, err error)

	UsersMatching(role, seniority string) ([]UserAttrs, error)
}
