package domain

// Role represents an organizational role
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleCEO            Role = "ceo"
	RoleDeputyDirector Role = "deputy_director"
	RolePartner        Role = "partner"
	RoleManager1       Role = "manager_1"
	RoleManager2       Role = "manager_2"
	RoleManager3       Role = "manager_3"
	RoleSeniorAuditor  Role = "senior_auditor"
	RoleTaxSpecialist  Role = "tax_specialist"
	RoleAssistant      Role = "assistant"
	RoleProcurement    Role = "procurement"
	RoleAccountant     Role = "accountant"
	RoleHR             Role = "hr"
)

// AllRoles lists every known role
var AllRoles = []Role{
	RoleAdmin, RoleCEO, RoleDeputyDirector, RolePartner,
	RoleManager1, RoleManager2, RoleManager3,
	RoleSeniorAuditor, RoleTaxSpecialist, RoleAssistant,
	RoleProcurement, RoleAccountant, RoleHR,
}

// RoleFamily groups roles that share workflow semantics, e.g. manager_1/2/3
type RoleFamily string

const (
	FamilyExecutive  RoleFamily = "executive"
	FamilyPartner    RoleFamily = "partner"
	FamilyManager    RoleFamily = "manager"
	FamilySpecialist RoleFamily = "specialist"
	FamilyStaff      RoleFamily = "staff"
	FamilyUnknown    RoleFamily = "unknown"
)

var roleFamilies = map[Role]RoleFamily{
	RoleAdmin:          FamilyExecutive,
	RoleCEO:            FamilyExecutive,
	RoleDeputyDirector: FamilyExecutive,
	RolePartner:        FamilyPartner,
	RoleManager1:       FamilyManager,
	RoleManager2:       FamilyManager,
	RoleManager3:       FamilyManager,
	RoleSeniorAuditor:  FamilySpecialist,
	RoleTaxSpecialist:  FamilySpecialist,
	RoleAssistant:      FamilyStaff,
	RoleProcurement:    FamilyStaff,
	RoleAccountant:     FamilyStaff,
	RoleHR:             FamilyStaff,
}

// familyRank orders families in the engagement hierarchy
var familyRank = map[RoleFamily]int{
	FamilyUnknown:    0,
	FamilyStaff:      1,
	FamilySpecialist: 2,
	FamilyManager:    3,
	FamilyPartner:    4,
	FamilyExecutive:  5,
}

// IsValid checks if the Role is a known enum value
func (r Role) IsValid() bool {
	_, ok := roleFamilies[r]
	return ok
}

// Family returns the role family, FamilyUnknown for unknown roles
func (r Role) Family() RoleFamily {
	if f, ok := roleFamilies[r]; ok {
		return f
	}
	return FamilyUnknown
}

// Rank returns the hierarchical rank of the role's family
func (r Role) Rank() int {
	return familyRank[r.Family()]
}

// IsManagement reports whether the role is manager level or above
func (r Role) IsManagement() bool {
	switch r.Family() {
	case FamilyManager, FamilyPartner, FamilyExecutive:
		return true
	}
	return false
}

// ParseRole converts a raw role string, falling back to RoleAssistant
func ParseRole(s string) Role {
	r := Role(s)
	if r.IsValid() {
		return r
	}
	return RoleAssistant
}

// Permission is a workflow capability granted by a role
type Permission string

const (
	PermissionCreateProject   Permission = "projects:create"
	PermissionApproveProject  Permission = "projects:approve"
	PermissionAssignTeam      Permission = "projects:assign_team"
	PermissionCancelProject   Permission = "projects:cancel"
	PermissionApprovePayment  Permission = "projects:approve_payment"
	PermissionManageTemplates Permission = "templates:manage"
	PermissionManageStaff     Permission = "staff:manage"
	PermissionViewAllProjects Permission = "projects:view_all"
	PermissionForceSync       Permission = "system:sync"
)

var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionCreateProject, PermissionApproveProject, PermissionAssignTeam, PermissionCancelProject,
		PermissionManageTemplates, PermissionManageStaff, PermissionViewAllProjects, PermissionForceSync,
	},
	RoleCEO: {
		PermissionCreateProject, PermissionApproveProject, PermissionAssignTeam, PermissionCancelProject,
		PermissionApprovePayment, PermissionManageTemplates, PermissionViewAllProjects, PermissionForceSync,
	},
	RoleDeputyDirector: {
		PermissionCreateProject, PermissionApproveProject, PermissionAssignTeam, PermissionCancelProject,
		PermissionViewAllProjects,
	},
	RolePartner:       {PermissionViewAllProjects},
	RoleManager1:      {},
	RoleManager2:      {},
	RoleManager3:      {},
	RoleSeniorAuditor: {},
	RoleTaxSpecialist: {},
	RoleAssistant:     {},
	RoleProcurement:   {PermissionCreateProject, PermissionViewAllProjects},
	RoleAccountant:    {PermissionApprovePayment, PermissionViewAllProjects},
	RoleHR:            {PermissionManageStaff},
}

// Permissions returns the permission set of the role (empty for unknown roles)
func (r Role) Permissions() []Permission {
	return rolePermissions[r]
}

// Can reports whether the role grants the permission
func (r Role) Can(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}
