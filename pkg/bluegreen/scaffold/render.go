package scaffold

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
)

//go:embed all:templates
var templateFS embed.FS

// Generated files carry their own template syntax (GitHub Actions
// expressions, Go source), so the renderer uses square-bracket delimiters.
const (
	leftDelim  = "[["
	rightDelim = "]]"
)

func templateFuncs() template.FuncMap {
	funcs := sprig.FuncMap()
	// No environment access from templates.
	delete(funcs, "env")
	delete(funcs, "expandenv")
	return funcs
}

// Render produces the full file set for params, keyed by relative path.
// Files whose rendered content is empty are skipped.
func Render(params Params) (map[string][]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	funcs := templateFuncs()
	rendered := make(map[string][]byte, len(Files))

	for _, file := range Files {
		data, err := templateFS.ReadFile("templates/" + file.Path + ".tmpl")
		if err != nil {
			return nil, apperrors.WrapScaffold(err, "missing template for "+file.Path)
		}

		tmpl, err := template.New(file.Path).Delims(leftDelim, rightDelim).Funcs(funcs).Parse(string(data))
		if err != nil {
			return nil, apperrors.WrapScaffold(err, "failed to parse template "+file.Path)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, params); err != nil {
			return nil, apperrors.WrapScaffold(err, "failed to render "+file.Path)
		}

		if strings.TrimSpace(buf.String()) == "" {
			continue
		}

		rendered[file.Path] = buf.Bytes()
	}

	return rendered, nil
}
