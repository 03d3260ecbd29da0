package internal

// Roles, seniority levels and genders are stored as plain strings; these
// are the only accepted values.
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHR       = "hr"

	SeniorityJunior = "junior"
	SeniorityMid    = "mid"
	SenioritySenior = "senior"
	SeniorityLead   = "lead"

	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleManager, RoleHR:
		return true
	}
	return false
}

func IsValidSeniority(seniority string) bool {
	switch seniority {
	case SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityLead:
		return true
	}
	return false
}

func IsValidGender(gender string) bool {
	switch gender {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}
