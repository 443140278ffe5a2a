// Package methodology loads audit methodology templates and tracks their
// per-project instantiation.
package methodology

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"gopkg.in/yaml.v3"
)

// ErrInvalidTemplate wraps every template validation failure
var ErrInvalidTemplate = errors.New("invalid template")

type templateFile struct {
	Templates []domain.Template `yaml:"templates"`
}

// LoadTemplates parses and validates a YAML document of the form
//
//	templates:
//	  - id: audit-ifrs
//	    name: ...
//	    stages: [...]
func LoadTemplates(r io.Reader) ([]domain.Template, error) {
	var file templateFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.Template{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	seen := make(map[string]bool, len(file.Templates))
	for i := range file.Templates {
		tpl := &file.Templates[i]
		if tpl.Version == 0 {
			tpl.Version = 1
		}
		if err := ValidateTemplate(*tpl); err != nil {
			return nil, err
		}
		if seen[tpl.ID] {
			return nil, fmt.Errorf("%w: duplicate template id %q", ErrInvalidTemplate, tpl.ID)
		}
		seen[tpl.ID] = true
	}
	if file.Templates == nil {
		return []domain.Template{}, nil
	}
	return file.Templates, nil
}

// ValidateTemplate checks ids, names and enumerated types of a template
func ValidateTemplate(tpl domain.Template) error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: template %q: %s", ErrInvalidTemplate, tpl.ID, fmt.Sprintf(format, args...))
	}

	if !domain.ValidID(tpl.ID) {
		return fail("invalid id")
	}
	if strings.TrimSpace(tpl.Name) == "" {
		return fail("name is required")
	}
	if tpl.Version < 1 {
		return fail("version must be positive")
	}

	fields := make(map[string]bool)
	for _, f := range tpl.PassportFields {
		if !domain.ValidID(f.ID) || fields[f.ID] {
			return fail("invalid or duplicate passport field id %q", f.ID)
		}
		fields[f.ID] = true
		if !f.Type.IsValid() {
			return fail("field %q has unknown type %q", f.ID, f.Type)
		}
		if f.Type == domain.FieldTypeSelect && len(f.Options) == 0 {
			return fail("select field %q has no options", f.ID)
		}
	}

	if len(tpl.Stages) == 0 {
		return fail("at least one stage is required")
	}
	stages := make(map[string]bool)
	elements := make(map[string]bool)
	for _, st := range tpl.Stages {
		if !domain.ValidID(st.ID) || stages[st.ID] {
			return fail("invalid or duplicate stage id %q", st.ID)
		}
		stages[st.ID] = true
		for _, el := range st.Elements {
			if !domain.ValidID(el.ID) || elements[el.ID] {
				return fail("invalid or duplicate element id %q", el.ID)
			}
			elements[el.ID] = true
			if !el.Type.IsValid() {
				return fail("element %q has unknown type %q", el.ID, el.Type)
			}
			if el.RoleBinding != "" && !el.RoleBinding.IsValid() {
				return fail("element %q is bound to unknown role %q", el.ID, el.RoleBinding)
			}
		}
	}
	return nil
}
