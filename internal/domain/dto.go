package domain

import "time"

// ============================================================================
// Employees & companies
// ============================================================================

// CreateEmployeeRequest registers a member of staff
type CreateEmployeeRequest struct {
	Name       string  `json:"name" validate:"required,max=200"`
	Email      string  `json:"email" validate:"required,email"`
	Role       Role    `json:"role" validate:"required"`
	Department string  `json:"department,omitempty" validate:"max=200"`
	Position   string  `json:"position,omitempty" validate:"max=200"`
	CompanyID  *string `json:"companyId,omitempty"`
}

// UpdateEmployeeRequest edits a member of staff; nil fields are unchanged
type UpdateEmployeeRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Role       *Role   `json:"role,omitempty"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=200"`
	Position   *string `json:"position,omitempty" validate:"omitempty,max=200"`
	CompanyID  *string `json:"companyId,omitempty"`
}

// CreateCompanyRequest registers a group company
type CreateCompanyRequest struct {
	ShortName string  `json:"shortName" validate:"required,max=100"`
	FullName  string  `json:"fullName" validate:"required,max=300"`
	TaxID     string  `json:"taxId,omitempty" validate:"max=50"`
	ParentID  *string `json:"parentId,omitempty"`
}

// SetCompanyParentRequest moves a company in the group tree; null makes it a root
type SetCompanyParentRequest struct {
	ParentID *string `json:"parentId"`
}

// SetCompanyActiveRequest activates or deactivates a company
type SetCompanyActiveRequest struct {
	Active bool `json:"active"`
}

// ============================================================================
// Projects
// ============================================================================

// CreateProjectRequest is submitted by the intake role
type CreateProjectRequest struct {
	Name               string       `json:"name" validate:"required,max=200"`
	Type               ProjectType  `json:"type" validate:"required,oneof=audit tax valuation consulting other"`
	CompanyID          string       `json:"companyId" validate:"required"`
	Client             ClientInfo   `json:"client"`
	Contract           ContractInfo `json:"contract"`
	ContractorPayments float64      `json:"contractorPayments" validate:"gte=0"`
	PreExpensePercent  float64      `json:"preExpensePercent" validate:"gte=0,lte=100"`
	BonusPercent       float64      `json:"bonusPercent" validate:"gte=0,lte=100"`
	AdditionalServices []string     `json:"additionalServices,omitempty"`
}

// TeamAssignment assigns an employee to a project role with a bonus share
type TeamAssignment struct {
	EmployeeID   string  `json:"employeeId" validate:"required"`
	Role         Role    `json:"role" validate:"required"`
	BonusPercent float64 `json:"bonusPercent" validate:"gte=0,lte=100"`
}

// ApproveProjectRequest approves an engagement and assigns its leadership
type ApproveProjectRequest struct {
	Team    []TeamAssignment `json:"team" validate:"required,min=2,dive"`
	Comment string           `json:"comment,omitempty" validate:"max=1000"`
}

// AssignTeamRequest replaces the team of a running engagement
type AssignTeamRequest struct {
	Team []TeamAssignment `json:"team" validate:"required,min=1,dive"`
}

// ProcedureAssignment overrides the inferred responsible for one element
type ProcedureAssignment struct {
	Role       Role   `json:"role,omitempty"`
	EmployeeID string `json:"employeeId,omitempty"`
}

// PlanProjectRequest is the partner's procedure selection
type PlanProjectRequest struct {
	TemplateID  string                         `json:"templateId" validate:"required"`
	ElementIDs  []string                       `json:"elementIds,omitempty"`
	Assignments map[string]ProcedureAssignment `json:"assignments,omitempty"`
	Passport    map[string]string              `json:"passport,omitempty"`
}

// ProcedureDoneRequest completes or reopens one methodology element
type ProcedureDoneRequest struct {
	Done bool `json:"done"`
}

// ManualBonus sets a fixed bonus amount for one member
type ManualBonus struct {
	EmployeeID string  `json:"employeeId" validate:"required"`
	Amount     float64 `json:"amount" validate:"gte=0"`
}

// SubmitPaymentRequest submits the bonus distribution for sign-off
type SubmitPaymentRequest struct {
	Shares    map[string]float64 `json:"shares,omitempty"`
	Overrides []ManualBonus      `json:"overrides,omitempty" validate:"dive"`
	Comment   string             `json:"comment,omitempty" validate:"max=1000"`
}

// TransitionRequest carries an optional comment for simple transitions
type TransitionRequest struct {
	Comment string `json:"comment,omitempty" validate:"max=1000"`
}

// BonusLineDTO is one member's line of a bonus distribution
type BonusLineDTO struct {
	EmployeeID string  `json:"employeeId"`
	Role       Role    `json:"role"`
	Percent    float64 `json:"percent"`
	Amount     float64 `json:"amount"`
	Manual     bool    `json:"manual"`
}

// BonusDistributionDTO is the computed bonus distribution of a project
type BonusDistributionDTO struct {
	ProjectID        string         `json:"projectId"`
	PreExpenseAmount float64        `json:"preExpenseAmount"`
	BonusBase        float64        `json:"bonusBase"`
	TotalBonusAmount float64        `json:"totalBonusAmount"`
	Allocated        float64        `json:"allocated"`
	Overallocated    bool           `json:"overallocated"`
	Lines            []BonusLineDTO `json:"lines"`
}

// ============================================================================
// Tasks
// ============================================================================

// CreateTaskRequest creates a task within a project
type CreateTaskRequest struct {
	ProjectID      string          `json:"projectId" validate:"required"`
	Title          string          `json:"title" validate:"required,max=300"`
	Description    string          `json:"description,omitempty"`
	Priority       TaskPriority    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	AssigneeIDs    []string        `json:"assigneeIds,omitempty"`
	EstimatedHours float64         `json:"estimatedHours" validate:"gte=0"`
	Checklist      []ChecklistItem `json:"checklist,omitempty"`
	Labels         []string        `json:"labels,omitempty"`
}

// ChangeTaskStatusRequest moves a task to another status
type ChangeTaskStatusRequest struct {
	Status TaskStatus `json:"status" validate:"required,oneof=todo in_progress review done blocked"`
}

// ChecklistToggleRequest checks or unchecks a checklist item
type ChecklistToggleRequest struct {
	Done bool `json:"done"`
}

// AddCommentRequest adds a comment to a task
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// ============================================================================
// Timesheets
// ============================================================================

// LogTimeRequest records hours spent on a project
type LogTimeRequest struct {
	ProjectID   string    `json:"projectId" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	Hours       float64   `json:"hours" validate:"gt=0,lte=24"`
	Description string    `json:"description,omitempty" validate:"max=1000"`
}

// ============================================================================
// Evaluations
// ============================================================================

// CreateEvaluationRequest is the body of POST /api/project-evaluations
type CreateEvaluationRequest struct {
	ProjectID           string `json:"projectId" validate:"required"`
	EvaluatedEmployeeID string `json:"evaluatedEmployeeId" validate:"required"`
	Rating              int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment             string `json:"comment,omitempty" validate:"max=2000"`
	IsAnonymous         bool   `json:"isAnonymous"`
}

// EvaluationDTO is an evaluation as returned to clients; evaluator fields are
// blank for anonymous evaluations
type EvaluationDTO struct {
	ID                  string `json:"id"`
	ProjectID           string `json:"projectId"`
	EvaluatedEmployeeID string `json:"evaluatedEmployeeId"`
	EvaluatedRole       Role   `json:"evaluatedRole"`
	EvaluatorID         string `json:"evaluatorId,omitempty"`
	EvaluatorName       string `json:"evaluatorName,omitempty"`
	EvaluatorRole       Role   `json:"evaluatorRole,omitempty"`
	Rating              int    `json:"rating"`
	Comment             string `json:"comment,omitempty"`
	IsAnonymous         bool   `json:"isAnonymous"`
	CreatedAt           string `json:"createdAt"`
}

// ============================================================================
// Notifications & sync
// ============================================================================

// UnreadCountDTO represents the unread notification count
type UnreadCountDTO struct {
	Count int `json:"count"`
}

// SyncStatusDTO is the remote reachability and the last sync report
type SyncStatusDTO struct {
	Reachable  bool           `json:"reachable"`
	LastReport *SyncReportDTO `json:"lastReport,omitempty"`
}

// CollectionSyncResult reports the refresh of one collection
type CollectionSyncResult struct {
	Collection string `json:"collection"`
	Count      int    `json:"count"`
	Error      string `json:"error,omitempty"`
}

// SyncReportDTO is the outcome of a user-initiated force sync
type SyncReportDTO struct {
	Reachable   bool                   `json:"reachable"`
	Collections []CollectionSyncResult `json:"collections"`
	StartedAt   string                 `json:"startedAt"`
	Duration    string                 `json:"duration"`
}

// OK reports whether every collection refreshed
func (r *SyncReportDTO) OK() bool {
	if !r.Reachable {
		return false
	}
	for _, c := range r.Collections {
		if c.Error != "" {
			return false
		}
	}
	return true
}
