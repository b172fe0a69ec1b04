package assets

import (
	"errors"
	"sort"
)

// AssetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the asset is not found in the custom location.
type AssetResolver struct {
	custom   *FilesystemLoader // nil if no custom path configured
	embedded *EmbeddedLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded assets are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadStyle loads a style, trying the custom loader first if available.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadStyle(name)
	})
}

// LoadTemplate loads a template, trying the custom loader first if available.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadTemplate(name)
	})
}

func (r *AssetResolver) loadWithFallback(loadFn func(AssetLoader) (string, error)) (string, error) {
	if r.custom == nil {
		return loadFn(r.embedded)
	}

	content, err := loadFn(r.custom)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors.
	if !isNotFoundError(err) {
		return "", err
	}

	return loadFn(r.embedded)
}

// ListTemplates returns the union of custom and embedded template names.
func (r *AssetResolver) ListTemplates() ([]string, error) {
	return r.union((*EmbeddedLoader).ListTemplates, (*FilesystemLoader).ListTemplates)
}

// ListStyles returns the union of custom and embedded style names.
func (r *AssetResolver) ListStyles() ([]string, error) {
	return r.union((*EmbeddedLoader).ListStyles, (*FilesystemLoader).ListStyles)
}

func (r *AssetResolver) union(
	embeddedFn func(*EmbeddedLoader) ([]string, error),
	customFn func(*FilesystemLoader) ([]string, error),
) ([]string, error) {
	names, err := embeddedFn(r.embedded)
	if err != nil {
		return nil, err
	}
	if r.custom == nil {
		return names, nil
	}

	custom, err := customFn(r.custom)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(names)+len(custom))
	for _, n := range names {
		seen[n] = struct{}{}
	}
	for _, n := range custom {
		if _, ok := seen[n]; !ok {
			names = append(names, n)
			seen[n] = struct{}{}
		}
	}
	sort.Strings(names)
	return names, nil
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}

// HasCustomLoader returns true if a custom asset loader is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface checks.
var (
	_ AssetLoader = (*AssetResolver)(nil)
	_ Lister      = (*AssetResolver)(nil)
)
