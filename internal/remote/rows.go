package remote

import (
	"time"

	"gorm.io/datatypes"
)

// Table names of the remote mirror
const (
	TableEmployees     = "employees"
	TableCompanies     = "companies"
	TableProjects      = "projects"
	TableTasks         = "tasks"
	TableTimesheets    = "timesheets"
	TableBonuses       = "bonuses"
	TableNotifications = "notifications"
	TableTemplates     = "templates"
	TableProjectData   = "project_data"
	TableProjectFiles  = "project_files"
	TableEvaluations   = "evaluations"
)

var knownTables = map[string]bool{
	TableEmployees:     true,
	TableCompanies:     true,
	TableProjects:      true,
	TableTasks:         true,
	TableTimesheets:    true,
	TableBonuses:       true,
	TableNotifications: true,
	TableTemplates:     true,
	TableProjectData:   true,
	TableProjectFiles:  true,
	TableEvaluations:   true,
}

// EmployeeRow is the snake_case row of the employees table
type EmployeeRow struct {
	ID         string `gorm:"primaryKey;size:128"`
	Name       string
	Email      string
	Role       string
	Department string
	Position   string
	CompanyID  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (EmployeeRow) TableName() string { return TableEmployees }

// CompanyRow is a row of the companies table
type CompanyRow struct {
	ID        string `gorm:"primaryKey;size:128"`
	ShortName string
	FullName  string
	TaxID     string
	ParentID  *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CompanyRow) TableName() string { return TableCompanies }

// ProjectRow is a row of the projects table. Nested structures are JSON columns.
type ProjectRow struct {
	ID                 string `gorm:"primaryKey;size:128"`
	Name               string
	Type               string
	CompanyID          string
	Status             string
	Client             datatypes.JSON
	Contract           datatypes.JSON
	Team               datatypes.JSON
	CompletionPercent  float64
	Finances           datatypes.JSON
	Files              datatypes.JSON
	Stages             datatypes.JSON
	AdditionalServices datatypes.JSON
	Amendments         datatypes.JSON
	StatusHistory      datatypes.JSON
	TemplateID         string
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (ProjectRow) TableName() string { return TableProjects }

// TaskRow is a row of the tasks table
type TaskRow struct {
	ID             string `gorm:"primaryKey;size:128"`
	ProjectID      string `gorm:"index"`
	Title          string
	Description    string
	Status         string
	Priority       string
	AssigneeIDs    datatypes.JSON `gorm:"column:assignee_ids"`
	EstimatedHours float64
	SpentHours     float64
	Checklist      datatypes.JSON
	Comments       datatypes.JSON
	Attachments    datatypes.JSON
	Labels         datatypes.JSON
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (TaskRow) TableName() string { return TableTasks }

// TimesheetRow is a row of the timesheets table
type TimesheetRow struct {
	ID          string `gorm:"primaryKey;size:128"`
	EmployeeID  string `gorm:"index"`
	ProjectID   string `gorm:"index"`
	Date        time.Time
	Hours       float64
	Description string
	CreatedAt   time.Time
}

func (TimesheetRow) TableName() string { return TableTimesheets }

// BonusRow is a row of the bonuses table
type BonusRow struct {
	ID         string `gorm:"primaryKey;size:128"`
	EmployeeID string `gorm:"index"`
	ProjectID  string `gorm:"index"`
	Amount     float64
	Percentage float64
	Type       string
	CreatedAt  time.Time
}

func (BonusRow) TableName() string { return TableBonuses }

// NotificationRow is a row of the notifications table
type NotificationRow struct {
	ID        string `gorm:"primaryKey;size:128"`
	UserID    string `gorm:"index"`
	Type      string
	Title     string
	Message   string
	IsRead    bool
	ActionURL string `gorm:"column:action_url"`
	CreatedAt time.Time
}

func (NotificationRow) TableName() string { return TableNotifications }

// TemplateRow is a row of the templates table
type TemplateRow struct {
	ID             string `gorm:"primaryKey;size:128"`
	Name           string
	Category       string
	Version        int
	PassportFields datatypes.JSON
	Stages         datatypes.JSON
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (TemplateRow) TableName() string { return TableTemplates }

// ProjectDataRow is a row of the project_data table; ID equals ProjectID
type ProjectDataRow struct {
	ID                  string `gorm:"primaryKey;size:128"`
	ProjectID           string `gorm:"uniqueIndex"`
	TemplateID          string
	TemplateVersion     int
	Passport            datatypes.JSON
	Stages              datatypes.JSON
	CompletionTotal     int
	CompletionCompleted int
	UpdatedAt           time.Time
}

func (ProjectDataRow) TableName() string { return TableProjectData }

// ProjectFileRow is a row of the project_files table
type ProjectFileRow struct {
	ID          string `gorm:"primaryKey;size:128"`
	ProjectID   string `gorm:"index"`
	Name        string
	ContentType string
	Size        int64
	StoragePath string
	UploadedBy  string
	CreatedAt   time.Time
}

func (ProjectFileRow) TableName() string { return TableProjectFiles }

// EvaluationRow is a row of the evaluations table
type EvaluationRow struct {
	ID                  string `gorm:"primaryKey;size:128"`
	ProjectID           string `gorm:"index"`
	EvaluatedEmployeeID string
	EvaluatedRole       string
	EvaluatorID         string
	EvaluatorName       string
	EvaluatorRole       string
	Rating              int
	Comment             string
	IsAnonymous         bool
	CreatedAt           time.Time
}

func (EvaluationRow) TableName() string { return TableEvaluations }

// AllRows lists one value of every row type, for schema migration in development and tests
func AllRows() []any {
	return []any{
		&EmployeeRow{}, &CompanyRow{}, &ProjectRow{}, &TaskRow{}, &TimesheetRow{},
		&BonusRow{}, &NotificationRow{}, &TemplateRow{}, &ProjectDataRow{},
		&ProjectFileRow{}, &EvaluationRow{},
	}
}
