package workflow

import (
	"strings"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
)

// ProcedureRule assigns a default responsible role to a methodology element
type ProcedureRule struct {
	Name  string
	Match func(el domain.StageElement) bool
	Role  func(el domain.StageElement) domain.Role
}

func fixed(role domain.Role) func(domain.StageElement) domain.Role {
	return func(domain.StageElement) domain.Role { return role }
}

func titleContains(keywords ...string) func(domain.StageElement) bool {
	return func(el domain.StageElement) bool {
		title := strings.ToLower(el.Title)
		for _, kw := range keywords {
			if strings.Contains(title, kw) {
				return true
			}
		}
		return false
	}
}

// ProcedureRoleRules are evaluated in order; the first match wins
var ProcedureRoleRules = []ProcedureRule{
	{
		Name:  "explicit binding",
		Match: func(el domain.StageElement) bool { return el.RoleBinding.IsValid() && el.RoleBinding != domain.RolePartner },
		Role:  func(el domain.StageElement) domain.Role { return el.RoleBinding },
	},
	{
		Name: "partner sign-off",
		Match: func(el domain.StageElement) bool {
			return el.RoleBinding == domain.RolePartner || (el.Type == domain.ElementTypeSignature && el.Required)
		},
		Role: fixed(domain.RolePartner),
	},
	{
		Name:  "risk and analysis",
		Match: titleContains("риск", "анализ", "risk", "analysis", "analytical"),
		Role:  fixed(domain.RoleSeniorAuditor),
	},
	{
		Name:  "planning and coordination",
		Match: titleContains("планир", "координац", "planning", "coordination"),
		Role:  fixed(domain.RoleManager1),
	},
}

// InferResponsibleRole returns the default responsible role for an element
func InferResponsibleRole(el domain.StageElement) domain.Role {
	for _, rule := range ProcedureRoleRules {
		if rule.Match(el) {
			return rule.Role(el)
		}
	}
	return domain.RoleAssistant
}
