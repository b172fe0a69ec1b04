package tex2pdf

import (
	"os"
	"strings"
)

// extractDiagnostics returns the compiler log when it exists, otherwise the
// captured stdout and stderr. It never returns an empty string.
func extractDiagnostics(ws *Workspace, inv *Invocation) string {
	if data, err := os.ReadFile(ws.LogPath); err == nil && len(data) > 0 { // #nosec G304 -- workspace path
		return string(data)
	}

	var parts []string
	for _, stream := range [][]byte{inv.Stdout, inv.Stderr} {
		if len(stream) > 0 {
			parts = append(parts, string(stream))
		}
	}
	if len(parts) == 0 {
		return noDiagnostics
	}
	return strings.Join(parts, "\n")
}
