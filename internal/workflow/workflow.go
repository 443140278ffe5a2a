// Package workflow holds the engagement state machine and the other role
// rules of the firm: who may move a project, when a task may close, when an
// evaluation must be anonymous and which role owns a procedure by default.
package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
)

var (
	ErrInvalidTransition = errors.New("action not allowed in current project status")
	ErrForbidden         = errors.New("role not permitted to perform this action")
	ErrNotAssignedLead   = errors.New("only the project's assigned partner may perform this action")
	ErrLeadershipMissing = errors.New("approval must assign a manager and a partner")
	ErrUnknownAction     = errors.New("unknown workflow action")
)

// Action is a named workflow step
type Action string

const (
	ActionSubmit         Action = "submit"
	ActionApprove        Action = "approve"
	ActionStartPlanning  Action = "start_planning"
	ActionStartWork      Action = "start_work"
	ActionMarkReady      Action = "mark_ready"
	ActionSubmitPayment  Action = "submit_payment"
	ActionApprovePayment Action = "approve_payment"
	ActionCancel         Action = "cancel"
)

// Actor is the employee performing an action
type Actor struct {
	EmployeeID string
	Name       string
	Role       domain.Role
}

// Rule guards one action. Exactly one of Permission or AssignedPartner applies.
type Rule struct {
	Action Action
	// From lists allowed source statuses; empty means any non-terminal status
	From []domain.ProjectStatus
	To   domain.ProjectStatus
	// Permission the actor's role must grant
	Permission domain.Permission
	// AssignedPartner requires the actor to be the project's partner
	AssignedPartner bool
}

// Rules is the transition table of the engagement lifecycle
var Rules = map[Action]Rule{
	ActionSubmit: {
		Action:     ActionSubmit,
		From:       []domain.ProjectStatus{domain.ProjectStatusNew},
		To:         domain.ProjectStatusPendingApproval,
		Permission: domain.PermissionCreateProject,
	},
	ActionApprove: {
		Action:     ActionApprove,
		From:       []domain.ProjectStatus{domain.ProjectStatusPendingApproval},
		To:         domain.ProjectStatusApproved,
		Permission: domain.PermissionApproveProject,
	},
	ActionStartPlanning: {
		Action:          ActionStartPlanning,
		From:            []domain.ProjectStatus{domain.ProjectStatusApproved},
		To:              domain.ProjectStatusPlanning,
		AssignedPartner: true,
	},
	ActionStartWork: {
		Action:          ActionStartWork,
		From:            []domain.ProjectStatus{domain.ProjectStatusPlanning},
		To:              domain.ProjectStatusInProgress,
		AssignedPartner: true,
	},
	ActionMarkReady: {
		Action:          ActionMarkReady,
		From:            []domain.ProjectStatus{domain.ProjectStatusInProgress},
		To:              domain.ProjectStatusReadyToComplete,
		AssignedPartner: true,
	},
	ActionSubmitPayment: {
		Action:          ActionSubmitPayment,
		From:            []domain.ProjectStatus{domain.ProjectStatusReadyToComplete},
		To:              domain.ProjectStatusPendingPaymentApproval,
		AssignedPartner: true,
	},
	ActionApprovePayment: {
		Action:     ActionApprovePayment,
		From:       []domain.ProjectStatus{domain.ProjectStatusPendingPaymentApproval},
		To:         domain.ProjectStatusCompleted,
		Permission: domain.PermissionApprovePayment,
	},
	ActionCancel: {
		Action:     ActionCancel,
		To:         domain.ProjectStatusCancelled,
		Permission: domain.PermissionCancelProject,
	},
}

func (r Rule) allowsFrom(status domain.ProjectStatus) bool {
	if status.IsTerminal() {
		return false
	}
	if len(r.From) == 0 {
		return true
	}
	for _, s := range r.From {
		if s == status {
			return true
		}
	}
	return false
}

// IsAssignedPartner reports whether the actor is a partner on the project's team.
// Admins act with partner authority.
func IsAssignedPartner(p *domain.Project, actor Actor) bool {
	if actor.Role == domain.RoleAdmin {
		return true
	}
	m := p.Member(actor.EmployeeID)
	return m != nil && m.Role.Family() == domain.FamilyPartner
}

// Check validates that actor may perform action on the project
func Check(action Action, p *domain.Project, actor Actor) (Rule, error) {
	rule, ok := Rules[action]
	if !ok {
		return Rule{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	if !rule.allowsFrom(p.Status) {
		return Rule{}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, p.Status)
	}
	if rule.AssignedPartner {
		if !IsAssignedPartner(p, actor) {
			return Rule{}, ErrNotAssignedLead
		}
	} else if !actor.Role.Can(rule.Permission) {
		return Rule{}, fmt.Errorf("%w: %s cannot %s", ErrForbidden, actor.Role, action)
	}
	return rule, nil
}

// Apply moves the project to the rule's target status and records the change
func Apply(p *domain.Project, rule Rule, actor Actor, comment string, now time.Time) {
	p.StatusHistory = append(p.StatusHistory, domain.StatusChange{
		From:      p.Status,
		To:        rule.To,
		ByID:      actor.EmployeeID,
		ByRole:    actor.Role,
		Comment:   comment,
		ChangedAt: now,
	})
	p.Status = rule.To
	p.UpdatedAt = now
}

// CheckLeadership validates that a team contains a manager and a partner
func CheckLeadership(team []domain.TeamMember) error {
	var hasManager, hasPartner bool
	for _, m := range team {
		switch m.Role.Family() {
		case domain.FamilyManager:
			hasManager = true
		case domain.FamilyPartner:
			hasPartner = true
		}
	}
	if !hasManager || !hasPartner {
		return ErrLeadershipMissing
	}
	return nil
}

// teamEditable lists the statuses in which the team may change after approval
var teamEditable = map[domain.ProjectStatus]bool{
	domain.ProjectStatusApproved:   true,
	domain.ProjectStatusPlanning:   true,
	domain.ProjectStatusInProgress: true,
}

// CheckAssignTeam validates a team change outside approval. Approvers and the
// project's own partner or manager may change the team.
func CheckAssignTeam(p *domain.Project, actor Actor) error {
	if !teamEditable[p.Status] {
		return fmt.Errorf("%w: team is fixed in status %s", ErrInvalidTransition, p.Status)
	}
	if actor.Role.Can(domain.PermissionAssignTeam) {
		return nil
	}
	m := p.Member(actor.EmployeeID)
	if m != nil && (m.Role.Family() == domain.FamilyPartner || m.Role.Family() == domain.FamilyManager) {
		return nil
	}
	return ErrForbidden
}
