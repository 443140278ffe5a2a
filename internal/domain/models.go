package domain

import (
	"time"
)

// Employee represents a member of staff. Role drives workflow permissions.
type Employee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Department string    `json:"department,omitempty"`
	Position   string    `json:"position,omitempty"`
	CompanyID  *string   `json:"companyId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Company represents a group company. ParentID forms a tree.
type Company struct {
	ID        string    `json:"id"`
	ShortName string    `json:"shortName"`
	FullName  string    `json:"fullName"`
	TaxID     string    `json:"taxId,omitempty"`
	ParentID  *string   `json:"parentId,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProjectType represents the kind of engagement
type ProjectType string

const (
	ProjectTypeAudit      ProjectType = "audit"
	ProjectTypeTax        ProjectType = "tax"
	ProjectTypeValuation  ProjectType = "valuation"
	ProjectTypeConsulting ProjectType = "consulting"
	ProjectTypeOther      ProjectType = "other"
)

// IsValid checks if the ProjectType is a valid enum value
func (t ProjectType) IsValid() bool {
	switch t {
	case ProjectTypeAudit, ProjectTypeTax, ProjectTypeValuation, ProjectTypeConsulting, ProjectTypeOther:
		return true
	}
	return false
}

// ProjectStatus represents the lifecycle status of an engagement
type ProjectStatus string

const (
	ProjectStatusNew                    ProjectStatus = "new"
	ProjectStatusPendingApproval        ProjectStatus = "pending_approval"
	ProjectStatusApproved               ProjectStatus = "approved"
	ProjectStatusPlanning               ProjectStatus = "planning"
	ProjectStatusInProgress             ProjectStatus = "in_progress"
	ProjectStatusReadyToComplete        ProjectStatus = "ready_to_complete"
	ProjectStatusPendingPaymentApproval ProjectStatus = "pending_payment_approval"
	ProjectStatusCompleted              ProjectStatus = "completed"
	ProjectStatusCancelled              ProjectStatus = "cancelled"
)

// IsValid checks if the ProjectStatus is a valid enum value
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusNew, ProjectStatusPendingApproval, ProjectStatusApproved, ProjectStatusPlanning,
		ProjectStatusInProgress, ProjectStatusReadyToComplete, ProjectStatusPendingPaymentApproval,
		ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s ProjectStatus) IsTerminal() bool {
	return s == ProjectStatusCompleted || s == ProjectStatusCancelled
}

// ClientInfo describes the engagement's client
type ClientInfo struct {
	Name     string   `json:"name"`
	Contacts []string `json:"contacts,omitempty"`
	Industry string   `json:"industry,omitempty"`
}

// ContractInfo describes the signed contract
type ContractInfo struct {
	Number             string     `json:"number,omitempty"`
	Date               *time.Time `json:"date,omitempty"`
	Amount             float64    `json:"amount"`
	Currency           string     `json:"currency"`
	VATRate            float64    `json:"vatRate"`
	ServicePeriodStart *time.Time `json:"servicePeriodStart,omitempty"`
	ServicePeriodEnd   *time.Time `json:"servicePeriodEnd,omitempty"`
}

// TeamMember is an employee assigned to a project with a bonus share.
// BonusManual marks BonusAmount as a manual override that recomputation keeps.
type TeamMember struct {
	EmployeeID   string  `json:"employeeId"`
	Role         Role    `json:"role"`
	BonusPercent float64 `json:"bonusPercent"`
	BonusAmount  float64 `json:"bonusAmount"`
	BonusManual  bool    `json:"bonusManual,omitempty"`
}

// Finances holds the bonus pool breakdown of a project
type Finances struct {
	ContractorPayments float64 `json:"contractorPayments"`
	PreExpensePercent  float64 `json:"preExpensePercent"`
	PreExpenseAmount   float64 `json:"preExpenseAmount"`
	BonusPercent       float64 `json:"bonusPercent"`
	BonusBase          float64 `json:"bonusBase"`
	TotalBonusAmount   float64 `json:"totalBonusAmount"`
	Overallocated      bool    `json:"overallocated,omitempty"`
}

// ProjectStage is a named phase of an engagement
type ProjectStage struct {
	Name      string     `json:"name"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Done      bool       `json:"done"`
}

// Amendment is a contract amendment
type Amendment struct {
	Number      string    `json:"number"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	AmountDelta float64   `json:"amountDelta"`
}

// StatusChange records one workflow transition
type StatusChange struct {
	From      ProjectStatus `json:"from"`
	To        ProjectStatus `json:"to"`
	ByID      string        `json:"byId"`
	ByRole    Role          `json:"byRole"`
	Comment   string        `json:"comment,omitempty"`
	ChangedAt time.Time     `json:"changedAt"`
}

// Project represents an engagement performed for a client
type Project struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Type               ProjectType    `json:"type"`
	CompanyID          string         `json:"companyId"`
	Status             ProjectStatus  `json:"status"`
	Client             ClientInfo     `json:"client"`
	Contract           ContractInfo   `json:"contract"`
	Team               []TeamMember   `json:"team"`
	CompletionPercent  float64        `json:"completionPercent"`
	Finances           Finances       `json:"finances"`
	Files              []string       `json:"files,omitempty"`
	Stages             []ProjectStage `json:"stages,omitempty"`
	AdditionalServices []string       `json:"additionalServices,omitempty"`
	Amendments         []Amendment    `json:"amendments,omitempty"`
	StatusHistory      []StatusChange `json:"statusHistory,omitempty"`
	TemplateID         string         `json:"templateId,omitempty"`
	CreatedBy          string         `json:"createdBy"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// MemberWithRole returns the first team member holding the role
func (p *Project) MemberWithRole(role Role) *TeamMember {
	for i := range p.Team {
		if p.Team[i].Role == role {
			return &p.Team[i]
		}
	}
	return nil
}

// MemberInFamily returns the first team member whose role belongs to the family
func (p *Project) MemberInFamily(family RoleFamily) *TeamMember {
	for i := range p.Team {
		if p.Team[i].Role.Family() == family {
			return &p.Team[i]
		}
	}
	return nil
}

// Member returns the team entry for an employee
func (p *Project) Member(employeeID string) *TeamMember {
	for i := range p.Team {
		if p.Team[i].EmployeeID == employeeID {
			return &p.Team[i]
		}
	}
	return nil
}

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// IsValid checks if the TaskStatus is a valid enum value
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone, TaskStatusBlocked:
		return true
	}
	return false
}

// TaskPriority represents the urgency of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// IsValid checks if the TaskPriority is a valid enum value
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// ChecklistItem is a single task checklist entry
type ChecklistItem struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Required bool   `json:"required"`
	Done     bool   `json:"done"`
}

// TaskComment is a comment left on a task
type TaskComment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task represents a unit of work within a project
type Task struct {
	ID             string          `json:"id"`
	ProjectID      string          `json:"projectId"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Status         TaskStatus      `json:"status"`
	Priority       TaskPriority    `json:"priority"`
	AssigneeIDs    []string        `json:"assigneeIds"`
	EstimatedHours float64         `json:"estimatedHours"`
	SpentHours     float64         `json:"spentHours"`
	Checklist      []ChecklistItem `json:"checklist"`
	Comments       []TaskComment   `json:"comments"`
	Attachments    []string        `json:"attachments"`
	Labels         []string        `json:"labels"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// TimesheetEntry records hours an employee spent on a project
type TimesheetEntry struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	ProjectID   string    `json:"projectId"`
	Date        time.Time `json:"date"`
	Hours       float64   `json:"hours"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BonusType classifies a bonus record
type BonusType string

const (
	BonusTypeProjectCompletion BonusType = "project_completion"
	BonusTypeManual            BonusType = "manual"
)

// Bonus is a bonus paid to an employee for a project
type Bonus struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	ProjectID  string    `json:"projectId"`
	Amount     float64   `json:"amount"`
	Percentage float64   `json:"percentage"`
	Type       BonusType `json:"type"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NotificationType represents the severity of a notification
type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
)

// IsValid checks if the NotificationType is a valid enum value
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeInfo, NotificationTypeSuccess, NotificationTypeWarning, NotificationTypeError:
		return true
	}
	return false
}

// Notification represents a user notification. Only Read is mutable.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	ActionURL string           `json:"actionUrl,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// ProjectLink returns the deep link for a project
func ProjectLink(projectID string) string {
	return "/project/" + projectID
}

// ProjectFile is a file attached to a project
type ProjectFile struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"storagePath"`
	UploadedBy  string    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Evaluation is a peer rating left after a project completes
type Evaluation struct {
	ID                  string    `json:"id"`
	ProjectID           string    `json:"projectId"`
	EvaluatedEmployeeID string    `json:"evaluatedEmployeeId"`
	EvaluatedRole       Role      `json:"evaluatedRole"`
	EvaluatorID         string    `json:"evaluatorId"`
	EvaluatorName       string    `json:"evaluatorName,omitempty"`
	EvaluatorRole       Role      `json:"evaluatorRole"`
	Rating              int       `json:"rating"`
	Comment             string    `json:"comment,omitempty"`
	IsAnonymous         bool      `json:"isAnonymous"`
	CreatedAt           time.Time `json:"createdAt"`
}
