package scaffold

import (
	"os"
	"path/filepath"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
)

// Write renders the file set for params and writes it under dir,
// overwriting existing files. It returns the relative paths written, in
// write order. The first write failure aborts and propagates.
func Write(dir string, params Params) ([]string, error) {
	rendered, err := Render(params)
	if err != nil {
		return nil, err
	}

	var written []string
	for _, file := range Files {
		content, ok := rendered[file.Path]
		if !ok {
			continue
		}

		target := filepath.Join(dir, filepath.FromSlash(file.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, apperrors.WrapScaffold(err, "failed to create directory for "+file.Path)
		}
		if err := os.WriteFile(target, content, file.Mode); err != nil {
			return written, apperrors.WrapScaffold(err, "failed to write "+file.Path)
		}

		written = append(written, file.Path)
	}

	return written, nil
}
