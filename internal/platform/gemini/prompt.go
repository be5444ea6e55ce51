package gemini

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/phrazzld/ghost-api/internal/generation"
)

//go:embed prompt.tmpl
var defaultPromptTemplate string

// loadPromptTemplate parses the template at path, or the embedded default
// when path is empty.
func loadPromptTemplate(path string) (*template.Template, error) {
	name, content := "analysis", defaultPromptTemplate

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template: %v",
				generation.ErrInvalidConfig, err)
		}
		content = string(raw)
	}

	tmpl, err := template.New(name).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	return tmpl, nil
}

// renderPrompt executes tmpl for one generation input.
func renderPrompt(tmpl *template.Template, prefix string, in generation.Input) (string, error) {
	data := promptData{
		Prefix: prefix,
		Query:  in.Query.String(),
		IsURL:  in.Query.IsURL(),
	}
	if in.Source != nil {
		data.PageTitle = in.Source.Title
		data.PageText = in.Source.Text
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: failed to execute prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	return strings.TrimSpace(buf.String()), nil
}
