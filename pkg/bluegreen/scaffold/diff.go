package scaffold

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
)

// Diff renders the file set for params and returns a unified diff against
// what is currently under dir, without writing anything. Missing files
// diff against empty content. An empty string means dir is up to date.
func Diff(dir string, params Params) (string, error) {
	rendered, err := Render(params)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, file := range Files {
		content, ok := rendered[file.Path]
		if !ok {
			continue
		}

		existing, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(file.Path)))
		if err != nil && !os.IsNotExist(err) {
			return "", apperrors.WrapScaffold(err, "failed to read "+file.Path)
		}

		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(existing)),
			B:        difflib.SplitLines(string(content)),
			FromFile: "a/" + file.Path,
			ToFile:   "b/" + file.Path,
			Context:  3,
		})
		if err != nil {
			return "", apperrors.WrapScaffold(err, "failed to diff "+file.Path)
		}

		out.WriteString(text)
	}

	return out.String(), nil
}
