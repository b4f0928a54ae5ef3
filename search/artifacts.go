package search

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// NewArtifactDir creates the uniquely-named per-experiment artifact
// directory under root. It is created once per experiment and the same path
// is passed unchanged to every iteration runner call.
//
// An empty root means no artifacts: the empty string is passed through and
// runners must tolerate it.
func NewArtifactDir(root string) (string, error) {
	if root == "" {
		return "", nil
	}

	dir := filepath.Join(root, "experiment_"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create artifact directory %s: %w", dir, err)
	}
	return dir, nil
}
