// Package mapper translates between domain objects, remote rows and API DTOs.
// Every function is total: unknown enum values and undecodable JSON columns
// fall back to defaults instead of failing.
package mapper

import (
	"encoding/json"
	"time"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/remote"
	"gorm.io/datatypes"
)

const timestampLayout = "2006-01-02T15:04:05Z07:00"

func toJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(raw)
}

// fromJSON decodes a JSON column, returning fallback when it is empty or invalid
func fromJSON[T any](col datatypes.JSON, fallback T) T {
	if len(col) == 0 {
		return fallback
	}
	var v T
	if err := json.Unmarshal(col, &v); err != nil {
		return fallback
	}
	return v
}

// fromJSONList decodes a JSON array column, never returning nil
func fromJSONList[T any](col datatypes.JSON) []T {
	items := fromJSON[[]T](col, nil)
	if items == nil {
		return []T{}
	}
	return items
}

// ParseProjectStatus defaults unknown values to new
func ParseProjectStatus(s string) domain.ProjectStatus {
	status := domain.ProjectStatus(s)
	if status.IsValid() {
		return status
	}
	return domain.ProjectStatusNew
}

// ParseProjectType defaults unknown values to other
func ParseProjectType(s string) domain.ProjectType {
	t := domain.ProjectType(s)
	if t.IsValid() {
		return t
	}
	return domain.ProjectTypeOther
}

// ParseTaskStatus defaults unknown values to todo
func ParseTaskStatus(s string) domain.TaskStatus {
	status := domain.TaskStatus(s)
	if status.IsValid() {
		return status
	}
	return domain.TaskStatusTodo
}

// ParseTaskPriority defaults unknown values to medium
func ParseTaskPriority(s string) domain.TaskPriority {
	p := domain.TaskPriority(s)
	if p.IsValid() {
		return p
	}
	return domain.TaskPriorityMedium
}

// ParseNotificationType defaults unknown values to info
func ParseNotificationType(s string) domain.NotificationType {
	t := domain.NotificationType(s)
	if t.IsValid() {
		return t
	}
	return domain.NotificationTypeInfo
}

func parseBonusType(s string) domain.BonusType {
	if domain.BonusType(s) == domain.BonusTypeManual {
		return domain.BonusTypeManual
	}
	return domain.BonusTypeProjectCompletion
}

// ============================================================================
// Employees & companies
// ============================================================================

func EmployeeToRow(e domain.Employee) remote.EmployeeRow {
	return remote.EmployeeRow{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Role:       string(e.Role),
		Department: e.Department,
		Position:   e.Position,
		CompanyID:  e.CompanyID,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func EmployeeFromRow(r remote.EmployeeRow) domain.Employee {
	return domain.Employee{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Role:       domain.ParseRole(r.Role),
		Department: r.Department,
		Position:   r.Position,
		CompanyID:  r.CompanyID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func CompanyToRow(c domain.Company) remote.CompanyRow {
	return remote.CompanyRow{
		ID:        c.ID,
		ShortName: c.ShortName,
		FullName:  c.FullName,
		TaxID:     c.TaxID,
		ParentID:  c.ParentID,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func CompanyFromRow(r remote.CompanyRow) domain.Company {
	return domain.Company{
		ID:        r.ID,
		ShortName: r.ShortName,
		FullName:  r.FullName,
		TaxID:     r.TaxID,
		ParentID:  r.ParentID,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ============================================================================
// Projects
// ============================================================================

func ProjectToRow(p domain.Project) remote.ProjectRow {
	return remote.ProjectRow{
		ID:                 p.ID,
		Name:               p.Name,
		Type:               string(p.Type),
		CompanyID:          p.CompanyID,
		Status:             string(p.Status),
		Client:             toJSON(p.Client),
		Contract:           toJSON(p.Contract),
		Team:               toJSON(nonNil(p.Team)),
		CompletionPercent:  p.CompletionPercent,
		Finances:           toJSON(p.Finances),
		Files:              toJSON(nonNil(p.Files)),
		Stages:             toJSON(nonNil(p.Stages)),
		AdditionalServices: toJSON(nonNil(p.AdditionalServices)),
		Amendments:         toJSON(nonNil(p.Amendments)),
		StatusHistory:      toJSON(nonNil(p.StatusHistory)),
		TemplateID:         p.TemplateID,
		CreatedBy:          p.CreatedBy,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func ProjectFromRow(r remote.ProjectRow) domain.Project {
	team := fromJSONList[domain.TeamMember](r.Team)
	for i := range team {
		team[i].Role = domain.ParseRole(string(team[i].Role))
	}
	return domain.Project{
		ID:                 r.ID,
		Name:               r.Name,
		Type:               ParseProjectType(r.Type),
		CompanyID:          r.CompanyID,
		Status:             ParseProjectStatus(r.Status),
		Client:             fromJSON(r.Client, domain.ClientInfo{}),
		Contract:           fromJSON(r.Contract, domain.ContractInfo{}),
		Team:               team,
		CompletionPercent:  r.CompletionPercent,
		Finances:           fromJSON(r.Finances, domain.Finances{}),
		Files:              fromJSONList[string](r.Files),
		Stages:             fromJSONList[domain.ProjectStage](r.Stages),
		AdditionalServices: fromJSONList[string](r.AdditionalServices),
		Amendments:         fromJSONList[domain.Amendment](r.Amendments),
		StatusHistory:      fromJSONList[domain.StatusChange](r.StatusHistory),
		TemplateID:         r.TemplateID,
		CreatedBy:          r.CreatedBy,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// ============================================================================
// Tasks, timesheets, bonuses
// ============================================================================

func TaskToRow(t domain.Task) remote.TaskRow {
	return remote.TaskRow{
		ID:             t.ID,
		ProjectID:      t.ProjectID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		AssigneeIDs:    toJSON(nonNil(t.AssigneeIDs)),
		EstimatedHours: t.EstimatedHours,
		SpentHours:     t.SpentHours,
		Checklist:      toJSON(nonNil(t.Checklist)),
		Comments:       toJSON(nonNil(t.Comments)),
		Attachments:    toJSON(nonNil(t.Attachments)),
		Labels:         toJSON(nonNil(t.Labels)),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func TaskFromRow(r remote.TaskRow) domain.Task {
	return domain.Task{
		ID:             r.ID,
		ProjectID:      r.ProjectID,
		Title:          r.Title,
		Description:    r.Description,
		Status:         ParseTaskStatus(r.Status),
		Priority:       ParseTaskPriority(r.Priority),
		AssigneeIDs:    fromJSONList[string](r.AssigneeIDs),
		EstimatedHours: r.EstimatedHours,
		SpentHours:     r.SpentHours,
		Checklist:      fromJSONList[domain.ChecklistItem](r.Checklist),
		Comments:       fromJSONList[domain.TaskComment](r.Comments),
		Attachments:    fromJSONList[string](r.Attachments),
		Labels:         fromJSONList[string](r.Labels),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func TimesheetToRow(e domain.TimesheetEntry) remote.TimesheetRow {
	return remote.TimesheetRow{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		ProjectID:   e.ProjectID,
		Date:        e.Date,
		Hours:       e.Hours,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

func TimesheetFromRow(r remote.TimesheetRow) domain.TimesheetEntry {
	return domain.TimesheetEntry{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		ProjectID:   r.ProjectID,
		Date:        r.Date,
		Hours:       r.Hours,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

func BonusToRow(b domain.Bonus) remote.BonusRow {
	return remote.BonusRow{
		ID:         b.ID,
		EmployeeID: b.EmployeeID,
		ProjectID:  b.ProjectID,
		Amount:     b.Amount,
		Percentage: b.Percentage,
		Type:       string(b.Type),
		CreatedAt:  b.CreatedAt,
	}
}

func BonusFromRow(r remote.BonusRow) domain.Bonus {
	return domain.Bonus{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		ProjectID:  r.ProjectID,
		Amount:     r.Amount,
		Percentage: r.Percentage,
		Type:       parseBonusType(r.Type),
		CreatedAt:  r.CreatedAt,
	}
}

// ============================================================================
// Notifications
// ============================================================================

func NotificationToRow(n domain.Notification) remote.NotificationRow {
	return remote.NotificationRow{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.Read,
		ActionURL: n.ActionURL,
		CreatedAt: n.CreatedAt,
	}
}

func NotificationFromRow(r remote.NotificationRow) domain.Notification {
	return domain.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		Type:      ParseNotificationType(r.Type),
		Title:     r.Title,
		Message:   r.Message,
		Read:      r.IsRead,
		ActionURL: r.ActionURL,
		CreatedAt: r.CreatedAt,
	}
}

// ============================================================================
// Methodology
// ============================================================================

func TemplateToRow(t domain.Template) remote.TemplateRow {
	return remote.TemplateRow{
		ID:             t.ID,
		Name:           t.Name,
		Category:       t.Category,
		Version:        t.Version,
		PassportFields: toJSON(nonNil(t.PassportFields)),
		Stages:         toJSON(nonNil(t.Stages)),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func TemplateFromRow(r remote.TemplateRow) domain.Template {
	return domain.Template{
		ID:             r.ID,
		Name:           r.Name,
		Category:       r.Category,
		Version:        r.Version,
		PassportFields: fromJSONList[domain.PassportField](r.PassportFields),
		Stages:         fromJSONList[domain.TemplateStage](r.Stages),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func ProjectDataToRow(d domain.ProjectData) remote.ProjectDataRow {
	passport := d.Passport
	if passport == nil {
		passport = map[string]string{}
	}
	return remote.ProjectDataRow{
		ID:                  d.ProjectID,
		ProjectID:           d.ProjectID,
		TemplateID:          d.TemplateID,
		TemplateVersion:     d.TemplateVersion,
		Passport:            toJSON(passport),
		Stages:              toJSON(nonNil(d.Stages)),
		CompletionTotal:     d.Completion.Total,
		CompletionCompleted: d.Completion.Completed,
		UpdatedAt:           d.UpdatedAt,
	}
}

func ProjectDataFromRow(r remote.ProjectDataRow) domain.ProjectData {
	projectID := r.ProjectID
	if projectID == "" {
		projectID = r.ID
	}
	passport := fromJSON[map[string]string](r.Passport, nil)
	if passport == nil {
		passport = map[string]string{}
	}
	return domain.ProjectData{
		ProjectID:       projectID,
		TemplateID:      r.TemplateID,
		TemplateVersion: r.TemplateVersion,
		Passport:        passport,
		Stages:          fromJSONList[domain.StageState](r.Stages),
		Completion: domain.CompletionCounter{
			Total:     r.CompletionTotal,
			Completed: r.CompletionCompleted,
		},
		UpdatedAt: r.UpdatedAt,
	}
}

// ============================================================================
// Files & evaluations
// ============================================================================

func ProjectFileToRow(f domain.ProjectFile) remote.ProjectFileRow {
	return remote.ProjectFileRow{
		ID:          f.ID,
		ProjectID:   f.ProjectID,
		Name:        f.Name,
		ContentType: f.ContentType,
		Size:        f.Size,
		StoragePath: f.StoragePath,
		UploadedBy:  f.UploadedBy,
		CreatedAt:   f.CreatedAt,
	}
}

func ProjectFileFromRow(r remote.ProjectFileRow) domain.ProjectFile {
	return domain.ProjectFile{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Name:        r.Name,
		ContentType: r.ContentType,
		Size:        r.Size,
		StoragePath: r.StoragePath,
		UploadedBy:  r.UploadedBy,
		CreatedAt:   r.CreatedAt,
	}
}

func EvaluationToRow(e domain.Evaluation) remote.EvaluationRow {
	return remote.EvaluationRow{
		ID:                  e.ID,
		ProjectID:           e.ProjectID,
		EvaluatedEmployeeID: e.EvaluatedEmployeeID,
		EvaluatedRole:       string(e.EvaluatedRole),
		EvaluatorID:         e.EvaluatorID,
		EvaluatorName:       e.EvaluatorName,
		EvaluatorRole:       string(e.EvaluatorRole),
		Rating:              e.Rating,
		Comment:             e.Comment,
		IsAnonymous:         e.IsAnonymous,
		CreatedAt:           e.CreatedAt,
	}
}

func EvaluationFromRow(r remote.EvaluationRow) domain.Evaluation {
	return domain.Evaluation{
		ID:                  r.ID,
		ProjectID:           r.ProjectID,
		EvaluatedEmployeeID: r.EvaluatedEmployeeID,
		EvaluatedRole:       domain.ParseRole(r.EvaluatedRole),
		EvaluatorID:         r.EvaluatorID,
		EvaluatorName:       r.EvaluatorName,
		EvaluatorRole:       domain.ParseRole(r.EvaluatorRole),
		Rating:              r.Rating,
		Comment:             r.Comment,
		IsAnonymous:         r.IsAnonymous,
		CreatedAt:           r.CreatedAt,
	}
}

// ToEvaluationDTO converts an Evaluation for clients, hiding the evaluator of anonymous records
func ToEvaluationDTO(e domain.Evaluation) domain.EvaluationDTO {
	dto := domain.EvaluationDTO{
		ID:                  e.ID,
		ProjectID:           e.ProjectID,
		EvaluatedEmployeeID: e.EvaluatedEmployeeID,
		EvaluatedRole:       e.EvaluatedRole,
		Rating:              e.Rating,
		Comment:             e.Comment,
		IsAnonymous:         e.IsAnonymous,
		CreatedAt:           FormatTimestamp(e.CreatedAt),
	}
	if !e.IsAnonymous {
		dto.EvaluatorID = e.EvaluatorID
		dto.EvaluatorName = e.EvaluatorName
		dto.EvaluatorRole = e.EvaluatorRole
	}
	return dto
}

// FormatTimestamp formats t the way DTOs carry timestamps
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
