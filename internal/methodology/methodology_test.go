package methodology_test

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/methodology"
	"github.com/krasavchik01/rbbb-sub002/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

var team = []domain.TeamMember{
	{EmployeeID: "emp-partner", Role: domain.RolePartner},
	{EmployeeID: "emp-manager", Role: domain.RoleManager2},
	{EmployeeID: "emp-senior", Role: domain.RoleSeniorAuditor},
	{EmployeeID: "emp-asst", Role: domain.RoleAssistant},
}

func loadFixture(t *testing.T) domain.Template {
	t.Helper()
	f, err := os.Open("testdata/templates.yaml")
	require.NoError(t, err)
	defer f.Close()

	templates, err := methodology.LoadTemplates(f)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	return templates[0]
}

func TestLoadTemplates(t *testing.T) {
	tpl := loadFixture(t)
	assert.Equal(t, "audit-ifrs", tpl.ID)
	assert.Equal(t, 3, tpl.Version)
	assert.Len(t, tpl.PassportFields, 3)
	require.Len(t, tpl.Stages, 2)
	assert.Equal(t, domain.RoleTaxSpecialist, tpl.Stages[0].Elements[3].RoleBinding)
}

func TestLoadTemplates_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown element type", "templates:\n  - id: t1\n    name: T\n    stages:\n      - id: s\n        name: S\n        elements:\n          - id: e\n            type: essay\n            title: x\n"},
		{"unknown field type", "templates:\n  - id: t1\n    name: T\n    passportFields:\n      - id: f\n        label: F\n        type: color\n    stages:\n      - id: s\n        name: S\n"},
		{"select without options", "templates:\n  - id: t1\n    name: T\n    passportFields:\n      - id: f\n        label: F\n        type: select\n    stages:\n      - id: s\n        name: S\n"},
		{"no stages", "templates:\n  - id: t1\n    name: T\n"},
		{"missing id", "templates:\n  - name: T\n    stages:\n      - id: s\n        name: S\n"},
		{"unknown key", "templates:\n  - id: t1\n    name: T\n    colour: red\n    stages:\n      - id: s\n        name: S\n"},
		{"duplicate template", "templates:\n  - id: t1\n    name: T\n    stages:\n      - id: s\n        name: S\n  - id: t1\n    name: T2\n    stages:\n      - id: s\n        name: S\n"},
		{"unknown role binding", "templates:\n  - id: t1\n    name: T\n    stages:\n      - id: s\n        name: S\n        elements:\n          - id: e\n            type: procedure\n            title: x\n            roleBinding: wizard\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := methodology.LoadTemplates(strings.NewReader(tt.yaml))
			assert.True(t, errors.Is(err, methodology.ErrInvalidTemplate), "got %v", err)
		})
	}

	t.Run("empty document", func(t *testing.T) {
		templates, err := methodology.LoadTemplates(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, templates)
	})
}

func TestInstantiate(t *testing.T) {
	tpl := loadFixture(t)

	t.Run("all elements with inferred roles", func(t *testing.T) {
		data, err := methodology.Instantiate("proj-1", tpl, nil, nil, team, now)
		require.NoError(t, err)

		assert.Equal(t, "audit-ifrs", data.TemplateID)
		assert.Equal(t, 3, data.TemplateVersion)
		assert.Equal(t, domain.CompletionCounter{Total: 5, Completed: 0}, data.Completion)

		byID := elements(data)
		assert.Equal(t, domain.RoleSeniorAuditor, byID["risk-assessment"].ResponsibleRole)
		assert.Equal(t, "emp-senior", byID["risk-assessment"].ResponsibleEmployeeID)
		assert.Equal(t, domain.RoleManager1, byID["audit-plan"].ResponsibleRole)
		assert.Equal(t, "emp-manager", byID["audit-plan"].ResponsibleEmployeeID, "falls back to the manager family")
		assert.Equal(t, domain.RoleTaxSpecialist, byID["tax-check"].ResponsibleRole)
		assert.Equal(t, "emp-senior", byID["tax-check"].ResponsibleEmployeeID, "falls back to the specialist family")
		assert.Equal(t, domain.RolePartner, byID["partner-signoff"].ResponsibleRole)
		assert.Equal(t, domain.RoleAssistant, byID["inventory"].ResponsibleRole)
		assert.Empty(t, byID["h-planning"].ResponsibleRole)
	})

	t.Run("selection keeps headers", func(t *testing.T) {
		data, err := methodology.Instantiate("proj-1", tpl, []string{"risk-assessment"}, nil, team, now)
		require.NoError(t, err)
		byID := elements(data)
		assert.Contains(t, byID, "h-planning")
		assert.Contains(t, byID, "risk-assessment")
		assert.NotContains(t, byID, "inventory")
		assert.Equal(t, 1, data.Completion.Total)
	})

	t.Run("explicit assignment wins", func(t *testing.T) {
		data, err := methodology.Instantiate("proj-1", tpl, nil, map[string]domain.ProcedureAssignment{
			"inventory": {Role: domain.RoleSeniorAuditor, EmployeeID: "emp-asst"},
		}, team, now)
		require.NoError(t, err)
		el := elements(data)["inventory"]
		assert.Equal(t, domain.RoleSeniorAuditor, el.ResponsibleRole)
		assert.Equal(t, "emp-asst", el.ResponsibleEmployeeID)
	})

	t.Run("unknown element", func(t *testing.T) {
		_, err := methodology.Instantiate("proj-1", tpl, []string{"nope"}, nil, team, now)
		assert.True(t, errors.Is(err, methodology.ErrUnknownElement))
	})

	t.Run("assignee off team", func(t *testing.T) {
		_, err := methodology.Instantiate("proj-1", tpl, nil, map[string]domain.ProcedureAssignment{
			"inventory": {EmployeeID: "stranger"},
		}, team, now)
		assert.True(t, errors.Is(err, methodology.ErrNotOnTeam))
	})
}

func TestSetElementDone(t *testing.T) {
	tpl := loadFixture(t)
	data, err := methodology.Instantiate("proj-1", tpl, nil, nil, team, now)
	require.NoError(t, err)

	asst := workflow.Actor{EmployeeID: "emp-asst", Role: domain.RoleAssistant}
	manager := workflow.Actor{EmployeeID: "emp-manager", Role: domain.RoleManager2}

	require.NoError(t, methodology.SetElementDone(&data, "inventory", true, asst, now))
	assert.Equal(t, 1, data.Completion.Completed)
	assert.Equal(t, 20.0, data.Completion.Percent())
	el := elements(data)["inventory"]
	assert.Equal(t, "emp-asst", el.CompletedBy)
	require.NotNil(t, el.CompletedAt)

	err = methodology.SetElementDone(&data, "risk-assessment", true, asst, now)
	assert.True(t, errors.Is(err, methodology.ErrNotResponsible))

	require.NoError(t, methodology.SetElementDone(&data, "risk-assessment", true, manager, now))
	assert.Equal(t, 2, data.Completion.Completed)
	assert.Equal(t, []string{"audit-plan", "partner-signoff"}, methodology.PendingRequired(data))

	require.NoError(t, methodology.SetElementDone(&data, "inventory", false, asst, now))
	assert.Equal(t, 1, data.Completion.Completed)
	assert.Nil(t, elements(data)["inventory"].CompletedAt)

	assert.True(t, errors.Is(methodology.SetElementDone(&data, "h-planning", true, manager, now), methodology.ErrNotCountable))
	assert.True(t, errors.Is(methodology.SetElementDone(&data, "ghost", true, manager, now), methodology.ErrUnknownElement))
}

func TestValidatePassport(t *testing.T) {
	tpl := loadFixture(t)

	assert.NoError(t, methodology.ValidatePassport(tpl, map[string]string{
		"period": "2025-12-31", "materiality": "15000.50", "framework": "IFRS",
	}))

	err := methodology.ValidatePassport(tpl, map[string]string{
		"period": "31.12.2025", "framework": "GAAP",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, methodology.ErrInvalidPassport))

	var perr *methodology.PassportError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, []string{"materiality"}, perr.Missing)
	assert.Equal(t, []string{"period", "framework"}, perr.Invalid)
}

func TestCompletionPercentFloors(t *testing.T) {
	assert.Equal(t, 33.0, domain.CompletionCounter{Total: 3, Completed: 1}.Percent())
	assert.Equal(t, 0.0, domain.CompletionCounter{}.Percent())
}

func elements(data domain.ProjectData) map[string]domain.ElementState {
	out := map[string]domain.ElementState{}
	for _, st := range data.Stages {
		for _, el := range st.Elements {
			out[el.ElementID] = el
		}
	}
	return out
}
