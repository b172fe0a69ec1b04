package tex2pdf

import (
	"errors"

	"github.com/alnah/go-tex2pdf/internal/assets"
	"github.com/alnah/go-tex2pdf/internal/render"
)

// Asset name constants for the built-in template and style.
const (
	// DefaultTemplate is the name of the built-in document template.
	DefaultTemplate = assets.DefaultTemplateName

	// DefaultStyle is the name of the built-in LaTeX package.
	DefaultStyle = assets.DefaultStyleName
)

// AssetLoader defines the contract for loading LaTeX styles and document
// templates. Implementations may load from filesystem, embedded assets, etc.
//
// The library provides NewAssetLoader() for filesystem-based loading with
// fallback to embedded defaults.
type AssetLoader interface {
	// LoadStyle loads a LaTeX package by name (without .sty extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads a document template by name (without .tex extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader creates an AssetLoader for the given base path.
// If basePath is empty, returns a loader using only embedded assets.
// If basePath is set, custom assets take precedence with fallback to embedded.
//
// The basePath directory should contain:
//   - styles/{name}.sty for LaTeX packages
//   - templates/{name}.tex for document templates
//
// Returns ErrInvalidAssetPath if basePath is set but not a valid, readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{resolver: resolver}, nil
}

// NewTemplateRenderer creates the default Renderer over loader. Templates
// use [[ ]] delimiters and the escape, markdown, date, join and default
// functions.
func NewTemplateRenderer(loader AssetLoader) Renderer {
	return render.New(loader)
}

// assetLoaderAdapter wraps the internal AssetResolver and maps its errors.
type assetLoaderAdapter struct {
	resolver *assets.AssetResolver
}

func (a *assetLoaderAdapter) LoadStyle(name string) (string, error) {
	content, err := a.resolver.LoadStyle(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

func (a *assetLoaderAdapter) LoadTemplate(name string) (string, error) {
	content, err := a.resolver.LoadTemplate(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

// ListTemplates returns the available template names.
func (a *assetLoaderAdapter) ListTemplates() ([]string, error) {
	return a.resolver.ListTemplates()
}

// ListStyles returns the available style names.
func (a *assetLoaderAdapter) ListStyles() ([]string, error) {
	return a.resolver.ListStyles()
}

// convertAssetError maps internal asset errors to public errors.
// Not-found errors are shared sentinels and pass through unchanged.
func convertAssetError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, assets.ErrInvalidBasePath),
		errors.Is(err, assets.ErrPathTraversal),
		errors.Is(err, assets.ErrInvalidAssetName):
		return &wrappedAssetError{sentinel: ErrInvalidAssetPath, original: err}
	default:
		return err
	}
}

// wrappedAssetError keeps the original message while matching a public
// sentinel with errors.Is.
type wrappedAssetError struct {
	sentinel error
	original error
}

func (e *wrappedAssetError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel for errors.Is() matching.
func (e *wrappedAssetError) Unwrap() error {
	return e.sentinel
}
