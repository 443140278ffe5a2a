package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/krasavchik01/rbbb-sub002/internal/auth"
	"github.com/krasavchik01/rbbb-sub002/internal/cache"
	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/remote"
	"github.com/krasavchik01/rbbb-sub002/internal/store"
	"github.com/krasavchik01/rbbb-sub002/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Staff seeded by newTestStore
const (
	ceoID        = "emp-ceo"
	procurerID   = "emp-proc"
	partnerID    = "emp-partner"
	managerID    = "emp-manager"
	assistantID  = "emp-assistant"
	accountantID = "emp-accountant"
	outsiderID   = "emp-outsider"
)

var testStaff = []domain.Employee{
	{ID: ceoID, Name: "Chief Executive", Email: "ceo@example.com", Role: domain.RoleCEO},
	{ID: procurerID, Name: "Procurement Officer", Email: "proc@example.com", Role: domain.RoleProcurement},
	{ID: partnerID, Name: "Audit Partner", Email: "partner@example.com", Role: domain.RolePartner},
	{ID: managerID, Name: "Audit Manager", Email: "manager@example.com", Role: domain.RoleManager1},
	{ID: assistantID, Name: "Audit Assistant", Email: "assistant@example.com", Role: domain.RoleAssistant},
	{ID: accountantID, Name: "Chief Accountant", Email: "acc@example.com", Role: domain.RoleAccountant},
	{ID: outsiderID, Name: "Other Senior", Email: "senior@example.com", Role: domain.RoleSeniorAuditor},
}

// newTestStore returns an offline store seeded with testStaff
func newTestStore(t *testing.T) *store.Store {
	backend, err := cache.NewSQLiteBackend(testutil.SetupSQLiteDB(t))
	require.NoError(t, err)
	c := cache.New(backend, cache.Options{Namespace: "test"}, zap.NewNop(), nil)
	st := store.New(c, remote.NewDisconnectedClient(zap.NewNop()), zap.NewNop(),
		store.WithClock(testutil.FixedClock(time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC))))

	ctx := context.Background()
	for _, e := range testStaff {
		_, err := st.CreateEmployee(ctx, e)
		require.NoError(t, err)
	}
	return st
}

func roleOf(id string) domain.Role {
	for _, e := range testStaff {
		if e.ID == id {
			return e.Role
		}
	}
	return domain.RoleAssistant
}

// as returns a context acting as a seeded employee
func as(id string) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      id,
		DisplayName: id,
		Role:        roleOf(id),
	})
}

// auditTeam is the standard approved team: manager 60%, partner 40%, assistant 0%
func auditTeam() []domain.TeamAssignment {
	return []domain.TeamAssignment{
		{EmployeeID: managerID, Role: domain.RoleManager1, BonusPercent: 60},
		{EmployeeID: partnerID, Role: domain.RolePartner, BonusPercent: 40},
		{EmployeeID: assistantID, Role: domain.RoleAssistant},
	}
}

// seedProject stores a project directly in the given status with auditTeam
func seedProject(t *testing.T, st *store.Store, status domain.ProjectStatus) domain.Project {
	team := make([]domain.TeamMember, 0, 3)
	for _, a := range auditTeam() {
		team = append(team, domain.TeamMember{EmployeeID: a.EmployeeID, Role: a.Role, BonusPercent: a.BonusPercent})
	}
	p, err := st.CreateProject(context.Background(), domain.Project{
		Name:      "Seeded audit",
		Type:      domain.ProjectTypeAudit,
		Status:    status,
		Team:      team,
		CreatedBy: procurerID,
	})
	require.NoError(t, err)
	return p
}

func auditTemplate() domain.Template {
	return domain.Template{
		ID:       "audit-basic",
		Name:     "Basic audit",
		Category: "audit",
		Version:  1,
		PassportFields: []domain.PassportField{
			{ID: "period", Label: "Period end", Type: domain.FieldTypeDate, Required: true},
		},
		Stages: []domain.TemplateStage{
			{
				ID:   "fieldwork",
				Name: "Fieldwork",
				Elements: []domain.StageElement{
					{ID: "h-fieldwork", Type: domain.ElementTypeHeader, Title: "Fieldwork"},
					{ID: "risk", Type: domain.ElementTypeProcedure, Title: "Risk assessment", Required: true},
					{ID: "walkthrough", Type: domain.ElementTypeProcedure, Title: "Walkthrough"},
					{ID: "signoff", Type: domain.ElementTypeSignature, Title: "Opinion sign-off", Required: true},
				},
			},
		},
	}
}

func notificationsFor(st *store.Store, userID string) []domain.Notification {
	var result []domain.Notification
	for _, n := range st.GetNotifications(context.Background()) {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}

// asRole returns a context for an identity outside testStaff
func asRole(id string, role domain.Role) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{UserID: id, DisplayName: id, Role: role})
}
