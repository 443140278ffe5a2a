package domain

import "time"

// FieldType is the input type of a passport field
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeNumber FieldType = "number"
	FieldTypeDate   FieldType = "date"
	FieldTypeSelect FieldType = "select"
	FieldTypeUser   FieldType = "user"
)

// IsValid checks if the FieldType is a valid enum value
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeSelect, FieldTypeUser:
		return true
	}
	return false
}

// ElementType is the kind of a methodology stage element
type ElementType string

const (
	ElementTypeHeader    ElementType = "header"
	ElementTypeProcedure ElementType = "procedure"
	ElementTypeQuestion  ElementType = "question"
	ElementTypeFile      ElementType = "file"
	ElementTypeSignature ElementType = "signature"
)

// IsValid checks if the ElementType is a valid enum value
func (t ElementType) IsValid() bool {
	switch t {
	case ElementTypeHeader, ElementTypeProcedure, ElementTypeQuestion, ElementTypeFile, ElementTypeSignature:
		return true
	}
	return false
}

// PassportField is a custom field of the engagement passport
type PassportField struct {
	ID       string    `json:"id" yaml:"id"`
	Label    string    `json:"label" yaml:"label"`
	Type     FieldType `json:"type" yaml:"type"`
	Required bool      `json:"required" yaml:"required"`
	Options  []string  `json:"options,omitempty" yaml:"options,omitempty"`
}

// StageElement is an ordered element of a methodology stage
type StageElement struct {
	ID          string      `json:"id" yaml:"id"`
	Type        ElementType `json:"type" yaml:"type"`
	Title       string      `json:"title" yaml:"title"`
	Required    bool        `json:"required" yaml:"required"`
	RoleBinding Role        `json:"roleBinding,omitempty" yaml:"roleBinding,omitempty"`
}

// TemplateStage is an ordered stage of a methodology
type TemplateStage struct {
	ID       string         `json:"id" yaml:"id"`
	Name     string         `json:"name" yaml:"name"`
	Elements []StageElement `json:"elements" yaml:"elements"`
}

// Template is a reusable audit methodology
type Template struct {
	ID             string          `json:"id" yaml:"id"`
	Name           string          `json:"name" yaml:"name"`
	Category       string          `json:"category" yaml:"category"`
	Version        int             `json:"version" yaml:"version"`
	PassportFields []PassportField `json:"passportFields" yaml:"passportFields"`
	Stages         []TemplateStage `json:"stages" yaml:"stages"`
	CreatedAt      time.Time       `json:"createdAt" yaml:"-"`
	UpdatedAt      time.Time       `json:"updatedAt" yaml:"-"`
}

// ElementState tracks one instantiated procedure element
type ElementState struct {
	ElementID             string      `json:"elementId"`
	Type                  ElementType `json:"type"`
	Title                 string      `json:"title"`
	Required              bool        `json:"required"`
	ResponsibleRole       Role        `json:"responsibleRole"`
	ResponsibleEmployeeID string      `json:"responsibleEmployeeId,omitempty"`
	Done                  bool        `json:"done"`
	CompletedBy           string      `json:"completedBy,omitempty"`
	CompletedAt           *time.Time  `json:"completedAt,omitempty"`
}

// StageState is the per-stage completion data of a project
type StageState struct {
	StageID  string         `json:"stageId"`
	Name     string         `json:"name"`
	Elements []ElementState `json:"elements"`
}

// CompletionCounter counts countable elements (headers excluded)
type CompletionCounter struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Percent returns the completion percentage rounded down to an integer
func (c CompletionCounter) Percent() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Completed * 100 / c.Total)
}

// ProjectData binds a template version to one project
type ProjectData struct {
	ProjectID       string            `json:"projectId"`
	TemplateID      string            `json:"templateId"`
	TemplateVersion int               `json:"templateVersion"`
	Passport        map[string]string `json:"passport"`
	Stages          []StageState      `json:"stages"`
	Completion      CompletionCounter `json:"completion"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}
