package domain

import (
	"fmt"
	"time"
)

// Document is the root aggregate of one interchange file. It exclusively owns
// its project, materials and models.
type Document struct {
	// ID is the stable, non-empty identifier.
	ID string

	// Name is the display or file name.
	Name string

	Author string

	// Software names the producing tool.
	Software string

	// FileVersion is a free-text revision label.
	FileVersion string

	Comments string

	SchemaVersion SchemaVersion

	// CreatedAt and ModifiedAt are optional UTC timestamps.
	CreatedAt  *time.Time
	ModifiedAt *time.Time

	Project *Project

	// Materials are document-level material records shared by identifier across models.
	Materials []Material

	// Models keep insertion order.
	Models []GroundModel
}

// NewDocument creates a document at the current schema version.
func NewDocument(id string) *Document {
	return &Document{ID: id, SchemaVersion: CurrentSchemaVersion}
}

// WithName sets the display name.
func (d *Document) WithName(name string) *Document {
	d.Name = name
	return d
}

// WithAuthor sets the author.
func (d *Document) WithAuthor(author string) *Document {
	d.Author = author
	return d
}

// WithSoftware sets the producing tool.
func (d *Document) WithSoftware(software string) *Document {
	d.Software = software
	return d
}

// WithFileVersion sets the revision label.
func (d *Document) WithFileVersion(v string) *Document {
	d.FileVersion = v
	return d
}

// WithComments sets the comments.
func (d *Document) WithComments(c string) *Document {
	d.Comments = c
	return d
}

// WithProject embeds a project.
func (d *Document) WithProject(p *Project) *Document {
	d.Project = p
	return d
}

// WithTimestamps sets creation and modification times, normalised to UTC.
func (d *Document) WithTimestamps(created, modified time.Time) *Document {
	c := created.UTC()
	m := modified.UTC()
	d.CreatedAt = &c
	d.ModifiedAt = &m
	return d
}

// Touch sets the modification time, and the creation time if unset.
func (d *Document) Touch(now time.Time) {
	now = now.UTC()
	if d.CreatedAt == nil {
		c := now
		d.CreatedAt = &c
	}
	d.ModifiedAt = &now
}

// AddMaterial appends a document-level material.
func (d *Document) AddMaterial(m *Material) *Document {
	d.Materials = append(d.Materials, *m)
	return d
}

// AddModel appends a ground model.
func (d *Document) AddModel(m *GroundModel) *Document {
	d.Models = append(d.Models, *m)
	return d
}

// Model returns the model with id.
func (d *Document) Model(id string) (*GroundModel, bool) {
	for i := range d.Models {
		if d.Models[i].ID == id {
			return &d.Models[i], true
		}
	}
	return nil, false
}

// Material returns the document-level material with id.
func (d *Document) Material(id string) (*Material, bool) {
	for i := range d.Materials {
		if d.Materials[i].ID == id {
			return &d.Materials[i], true
		}
	}
	return nil, false
}

// ResolveMaterial looks id up in model first, then at document level.
func (d *Document) ResolveMaterial(model *GroundModel, id string) (*Material, bool) {
	if model != nil {
		if m, ok := model.Material(id); ok {
			return m, true
		}
	}
	return d.Material(id)
}

// ExtractMaterials projects the materials in scope.
//
// With an empty modelID it returns document-level materials followed by every
// model's local materials, first occurrence of each identifier winning. With a
// modelID it returns that model's local materials followed by the document-level
// materials its components reference. The returned pointers alias the document.
func (d *Document) ExtractMaterials(modelID string) ([]*Material, error) {
	seen := make(map[string]bool)
	var out []*Material
	add := func(m *Material) {
		if seen[m.ID] {
			return
		}
		seen[m.ID] = true
		out = append(out, m)
	}

	if modelID == "" {
		for i := range d.Materials {
			add(&d.Materials[i])
		}
		for i := range d.Models {
			for j := range d.Models[i].Materials {
				add(&d.Models[i].Materials[j])
			}
		}
		return out, nil
	}

	model, ok := d.Model(modelID)
	if !ok {
		return nil, fmt.Errorf("model %q: %w", modelID, ErrNotFound)
	}
	for i := range model.Materials {
		add(&model.Materials[i])
	}
	for _, c := range model.Components {
		if _, local := model.Material(c.MaterialID); local {
			continue
		}
		if m, ok := d.Material(c.MaterialID); ok {
			add(m)
		}
	}
	return out, nil
}

// MaterialUsage counts, per material identifier, the models whose components reference it.
func (d *Document) MaterialUsage() map[string]int {
	usage := make(map[string]int)
	for _, model := range d.Models {
		seen := make(map[string]bool)
		for _, c := range model.Components {
			if c.MaterialID == "" || seen[c.MaterialID] {
				continue
			}
			seen[c.MaterialID] = true
			usage[c.MaterialID]++
		}
	}
	return usage
}
