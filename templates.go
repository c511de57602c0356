package billomat

import (
	"context"
	"time"
)

// Template is a document layout used to render invoices and other documents.
type Template struct {
	ID           int                  `json:"id"`
	Created      *time.Time           `json:"created,omitempty"`
	Type         TemplateDocumentType `json:"type,omitempty"`
	TemplateType TemplateType         `json:"template_type,omitempty"`
	Name         *string              `json:"name,omitempty"`
	Format       TemplateFormat       `json:"format,omitempty"`
	Base64File   *string              `json:"base64file,omitempty"`
	IsDefault    *bool                `json:"is_default,omitempty"`
}

func hydrateTemplate(r record) Template {
	return Template{
		ID:           r.intOr("id", 0),
		Created:      r.timePtr("created"),
		Type:         enumOf(r, "type", TemplateDocumentTypes),
		TemplateType: enumOf(r, "template_type", TemplateTypes),
		Name:         r.stringPtr("name"),
		Format:       enumOf(r, "format", TemplateFormats),
		Base64File:   r.stringPtr("base64file"),
		IsDefault:    r.boolPtr("is_default"),
	}
}

// TemplateCreate uploads or defines a template. Type is always sent.
type TemplateCreate struct {
	Type       TemplateDocumentType
	Name       *string
	Format     TemplateFormat
	Base64File *string
	IsDefault  *bool
}

func (c *TemplateCreate) payload() payload {
	p := payload{}
	p.putString("type", string(c.Type))
	p.setString("name", c.Name)
	setEnum(p, "format", c.Format)
	p.setString("base64file", c.Base64File)
	p.setBool("is_default", c.IsDefault)
	return p
}

// TemplateUpdate changes only the fields that are set.
type TemplateUpdate struct {
	Name      *string
	IsDefault *bool
}

func (u *TemplateUpdate) payload() payload {
	p := payload{}
	p.setString("name", u.Name)
	p.setBool("is_default", u.IsDefault)
	return p
}

// UpdateOptions returns an update carrying every writable field t has set.
func (t Template) UpdateOptions() *TemplateUpdate {
	return &TemplateUpdate{Name: copyPtr(t.Name), IsDefault: copyPtr(t.IsDefault)}
}

// TemplateListOptions filters GET /templates.
type TemplateListOptions struct {
	Paging

	Type  TemplateDocumentType
	Extra Query
}

func (o *TemplateListOptions) query() Query {
	q := Query{}
	if o == nil {
		return q
	}
	o.Paging.apply(q)
	queryEnum(q, "type", o.Type)
	return q.merge(o.Extra)
}

// List returns the templates matching opts.
func (s TemplatesService) List(ctx context.Context, opts *TemplateListOptions) ([]Template, error) {
	return s.res.list(ctx, opts.query())
}

// Get returns the template with id, or nil if it does not exist.
func (s TemplatesService) Get(ctx context.Context, id int) (*Template, error) {
	return s.res.get(ctx, id)
}

// Create adds a template.
func (s TemplatesService) Create(ctx context.Context, c *TemplateCreate) (*Template, error) {
	if c == nil {
		c = &TemplateCreate{}
	}
	return s.res.create(ctx, c.payload())
}

// Update changes the fields set in u.
func (s TemplatesService) Update(ctx context.Context, id int, u *TemplateUpdate) (*Template, error) {
	if u == nil {
		u = &TemplateUpdate{}
	}
	return s.res.update(ctx, id, u.payload())
}

// Delete removes the template.
func (s TemplatesService) Delete(ctx context.Context, id int) error {
	return s.res.remove(ctx, id)
}

// Thumb returns a preview image of the template. An empty format means png.
func (s TemplatesService) Thumb(ctx context.Context, id int, format TemplateThumbFormat) ([]byte, error) {
	if format == "" {
		format = ThumbPNG
	}
	return s.res.client.getRaw(ctx, s.res.itemPath(id)+"/thumb", Query{"format": string(format)})
}
