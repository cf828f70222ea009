package domain

import (
	"context"
	"time"
)

// Template categories. The catalog is seeded by an administrative process
// and read-only to API consumers.
const (
	CategoryBirthday  = "birthday"
	CategoryWedding   = "wedding"
	CategoryCorporate = "corporate"
	CategoryKids      = "kids"
	CategoryHangout   = "hangout"
)

// TemplateCategory is a category entry for the public category listing.
// swagger:model TemplateCategory
type TemplateCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TemplateCategories returns the fixed set of template categories.
func TemplateCategories() []TemplateCategory {
	return []TemplateCategory{
		{ID: CategoryBirthday, Name: "Birthday"},
		{ID: CategoryWedding, Name: "Wedding"},
		{ID: CategoryCorporate, Name: "Corporate"},
		{ID: CategoryKids, Name: "Kids"},
		{ID: CategoryHangout, Name: "Hangout"},
	}
}

// ValidCategory reports whether c is a known template category.
func ValidCategory(c string) bool {
	for _, cat := range TemplateCategories() {
		if cat.ID == c {
			return true
		}
	}
	return false
}

// Template is a visual preset an invitation is built from.
// swagger:model Template
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Emoji       string    `json:"emoji"`
	HueA        int       `json:"hue_a"`
	HueB        int       `json:"hue_b"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	VideoURL    string    `json:"video_url"`
	IsActive    bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// Theme is a color/gradient preset for invitations.
// swagger:model Theme
type Theme struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	PrimaryColor   string    `json:"primary_color"`
	SecondaryColor string    `json:"secondary_color"`
	BgGradient     string    `json:"bg_gradient"`
	IsActive       bool      `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// TemplateRepository defines the interface for template catalog storage.
// GetByID ignores the active flag: owner views keep rendering templates that
// were deactivated after an invitation referenced them.
type TemplateRepository interface {
	ListActive(ctx context.Context, category string) ([]*Template, error)
	GetActiveByID(ctx context.Context, id string) (*Template, error)
	GetByID(ctx context.Context, id string) (*Template, error)
	// Upsert inserts or replaces a catalog row. Used by seeding only.
	Upsert(ctx context.Context, t *Template) error
}

// ThemeRepository defines the interface for theme catalog storage.
type ThemeRepository interface {
	ListActive(ctx context.Context) ([]*Theme, error)
	GetActiveByID(ctx context.Context, id string) (*Theme, error)
	GetByID(ctx context.Context, id string) (*Theme, error)
	Upsert(ctx context.Context, t *Theme) error
}

// CatalogService serves the public template/theme catalog.
type CatalogService interface {
	ListTemplates(ctx context.Context, category string) ([]*Template, error)
	GetTemplate(ctx context.Context, id string) (*Template, error)
	Categories() []TemplateCategory
	ListThemes(ctx context.Context) ([]*Theme, error)
}
