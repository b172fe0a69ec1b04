package pipeline

import (
	"path/filepath"
	"strings"
)

// ResolveImagePath makes a relative image path absolute against sourceDir,
// so \includegraphics finds it from inside the compile workspace.
// URLs, absolute paths, and paths escaping sourceDir are returned unchanged.
// If sourceDir is empty, the path is returned unchanged.
func ResolveImagePath(path, sourceDir string) string {
	if sourceDir == "" || !isRelativePath(path) {
		return path
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return path
	}

	absPath := filepath.Join(absSourceDir, path)
	if !isPathUnderDir(absPath, absSourceDir) {
		return path
	}

	// TeX wants forward slashes on every platform.
	return filepath.ToSlash(absPath)
}

// isRemote reports whether path is a URL that \includegraphics cannot load.
func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "data:") ||
		strings.HasPrefix(path, "//")
}

func isRelativePath(path string) bool {
	if path == "" || isRemote(path) || strings.HasPrefix(path, "file://") {
		return false
	}
	if strings.HasPrefix(path, "#") {
		return false
	}
	return !filepath.IsAbs(path)
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}
