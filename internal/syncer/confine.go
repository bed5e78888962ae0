package syncer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// confineRelPath ensures that joining root and relTarget stays underneath
// root. It rejects absolute targets, backslashes, and traversal segments.
// The target MUST be relative.
func confineRelPath(root, relTarget string) (string, error) {
	if strings.Contains(relTarget, "\\") {
		return "", fmt.Errorf("path contains backslash: %s", relTarget)
	}

	cleanRel := filepath.Clean(relTarget)
	if filepath.IsAbs(cleanRel) || strings.HasPrefix(cleanRel, "/") {
		return "", fmt.Errorf("target path must be relative: %s", relTarget)
	}

	// Clean handles "a/../b" -> "b"; a remaining leading ".." escapes root.
	if cleanRel == ".." || strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt: %s", relTarget)
	}

	return filepath.Join(root, cleanRel), nil
}
