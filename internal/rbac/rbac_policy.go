package rbac

// DefaultPolicies maps each role to the resource/action pairs it may use.
var DefaultPolicies = [][]string{
	{"staff", "request", "read"},
	{"staff", "request", "create"},

	{"approver", "request", "read"},
	{"approver", "request", "create"},
	{"approver", "request", "approve"},
	{"approver", "request", "assign"},
	{"approver", "user", "read"},

	{"technician", "request", "read"},
	{"technician", "request", "progress"},

	{"admin", "request", "*"},
	{"admin", "user", "*"},
}
