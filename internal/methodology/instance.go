package methodology

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/workflow"
)

var (
	ErrUnknownElement  = errors.New("element not in methodology")
	ErrNotCountable    = errors.New("headers cannot be completed")
	ErrNotResponsible  = errors.New("only the responsible employee or management may complete this element")
	ErrNotOnTeam       = errors.New("assigned employee is not on the project team")
	ErrInvalidPassport = errors.New("passport is incomplete or invalid")
)

// PassportError lists the passport fields that failed validation
type PassportError struct {
	Missing []string
	Invalid []string
}

func (e *PassportError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid: "+strings.Join(e.Invalid, ", "))
	}
	return ErrInvalidPassport.Error() + " (" + strings.Join(parts, "; ") + ")"
}

func (e *PassportError) Unwrap() error {
	return ErrInvalidPassport
}

// ValidatePassport checks required fields and typed values
func ValidatePassport(tpl domain.Template, values map[string]string) error {
	perr := &PassportError{}
	for _, f := range tpl.PassportFields {
		v := strings.TrimSpace(values[f.ID])
		if v == "" {
			if f.Required {
				perr.Missing = append(perr.Missing, f.ID)
			}
			continue
		}
		if !validFieldValue(f, v) {
			perr.Invalid = append(perr.Invalid, f.ID)
		}
	}
	if len(perr.Missing) == 0 && len(perr.Invalid) == 0 {
		return nil
	}
	return perr
}

func validFieldValue(f domain.PassportField, v string) bool {
	switch f.Type {
	case domain.FieldTypeNumber:
		_, err := strconv.ParseFloat(v, 64)
		return err == nil
	case domain.FieldTypeDate:
		_, err := time.Parse("2006-01-02", v)
		return err == nil
	case domain.FieldTypeSelect:
		for _, o := range f.Options {
			if o == v {
				return true
			}
		}
		return false
	}
	return true
}

// responsibleEmployee picks the team member holding role, then any member of the same family
func responsibleEmployee(team []domain.TeamMember, role domain.Role) string {
	for _, m := range team {
		if m.Role == role {
			return m.EmployeeID
		}
	}
	for _, m := range team {
		if m.Role.Family() == role.Family() {
			return m.EmployeeID
		}
	}
	return ""
}

func onTeam(team []domain.TeamMember, employeeID string) bool {
	for _, m := range team {
		if m.EmployeeID == employeeID {
			return true
		}
	}
	return false
}

// Instantiate builds a project's methodology data from the partner's
// selection. An empty selection keeps every element; headers are always kept.
func Instantiate(
	projectID string,
	tpl domain.Template,
	selection []string,
	assignments map[string]domain.ProcedureAssignment,
	team []domain.TeamMember,
	now time.Time,
) (domain.ProjectData, error) {
	known := make(map[string]bool)
	for _, st := range tpl.Stages {
		for _, el := range st.Elements {
			known[el.ID] = true
		}
	}

	selected := make(map[string]bool, len(selection))
	for _, id := range selection {
		if !known[id] {
			return domain.ProjectData{}, fmt.Errorf("%w: %s", ErrUnknownElement, id)
		}
		selected[id] = true
	}
	for id, a := range assignments {
		if !known[id] {
			return domain.ProjectData{}, fmt.Errorf("%w: %s", ErrUnknownElement, id)
		}
		if a.EmployeeID != "" && !onTeam(team, a.EmployeeID) {
			return domain.ProjectData{}, fmt.Errorf("%w: %s", ErrNotOnTeam, a.EmployeeID)
		}
	}

	data := domain.ProjectData{
		ProjectID:       projectID,
		TemplateID:      tpl.ID,
		TemplateVersion: tpl.Version,
		Passport:        map[string]string{},
		Stages:          make([]domain.StageState, 0, len(tpl.Stages)),
		UpdatedAt:       now,
	}

	for _, st := range tpl.Stages {
		state := domain.StageState{StageID: st.ID, Name: st.Name, Elements: []domain.ElementState{}}
		for _, el := range st.Elements {
			isHeader := el.Type == domain.ElementTypeHeader
			if len(selected) > 0 && !selected[el.ID] && !isHeader {
				continue
			}
			es := domain.ElementState{
				ElementID: el.ID,
				Type:      el.Type,
				Title:     el.Title,
				Required:  el.Required,
			}
			if !isHeader {
				a := assignments[el.ID]
				es.ResponsibleRole = workflow.InferResponsibleRole(el)
				if a.Role.IsValid() {
					es.ResponsibleRole = a.Role
				}
				es.ResponsibleEmployeeID = a.EmployeeID
				if es.ResponsibleEmployeeID == "" {
					es.ResponsibleEmployeeID = responsibleEmployee(team, es.ResponsibleRole)
				}
			}
			state.Elements = append(state.Elements, es)
		}
		data.Stages = append(data.Stages, state)
	}

	data.Completion = Count(data)
	return data, nil
}

// Count counts the countable (non-header) elements of the data
func Count(data domain.ProjectData) domain.CompletionCounter {
	var c domain.CompletionCounter
	for _, st := range data.Stages {
		for _, el := range st.Elements {
			if el.Type == domain.ElementTypeHeader {
				continue
			}
			c.Total++
			if el.Done {
				c.Completed++
			}
		}
	}
	return c
}

func canComplete(el domain.ElementState, actor workflow.Actor) bool {
	switch {
	case el.ResponsibleEmployeeID != "" && el.ResponsibleEmployeeID == actor.EmployeeID:
		return true
	case el.ResponsibleRole == actor.Role:
		return true
	default:
		return actor.Role.IsManagement()
	}
}

// SetElementDone marks an element done or not done and refreshes the counter
func SetElementDone(data *domain.ProjectData, elementID string, done bool, actor workflow.Actor, now time.Time) error {
	for si := range data.Stages {
		for ei := range data.Stages[si].Elements {
			el := &data.Stages[si].Elements[ei]
			if el.ElementID != elementID {
				continue
			}
			if el.Type == domain.ElementTypeHeader {
				return ErrNotCountable
			}
			if !canComplete(*el, actor) {
				return ErrNotResponsible
			}
			el.Done = done
			if done {
				completedAt := now
				el.CompletedBy = actor.EmployeeID
				el.CompletedAt = &completedAt
			} else {
				el.CompletedBy = ""
				el.CompletedAt = nil
			}
			data.Completion = Count(*data)
			data.UpdatedAt = now
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownElement, elementID)
}

// PendingRequired lists required elements that are not done, sorted by id
func PendingRequired(data domain.ProjectData) []string {
	var pending []string
	for _, st := range data.Stages {
		for _, el := range st.Elements {
			if el.Type != domain.ElementTypeHeader && el.Required && !el.Done {
				pending = append(pending, el.ElementID)
			}
		}
	}
	sort.Strings(pending)
	return pending
}
