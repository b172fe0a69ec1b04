package assets

// AssetLoader defines the contract for loading LaTeX styles and document templates.
type AssetLoader interface {
	// LoadStyle loads a LaTeX package by name (without .sty extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads a document template by name (without .tex extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)
}

// Lister is implemented by loaders that can enumerate their assets.
// Used for "available: ..." hints.
type Lister interface {
	ListTemplates() ([]string, error)
	ListStyles() ([]string, error)
}

// Extensions of the two asset kinds.
const (
	StyleExt    = ".sty"
	TemplateExt = ".tex"
)

// DefaultTemplateName is the name of the built-in document template.
const DefaultTemplateName = "article"

// DefaultStyleName is the name of the built-in LaTeX style.
const DefaultStyleName = "tex2pdf"
