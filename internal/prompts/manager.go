package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder into Go program at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

// PromptProvider builds prompts for a generation mode.
type PromptProvider interface {
	BuildPrompt(mode, variant string, data interface{}) (string, error)
	Instructions(mode string) (string, error)
	Variants(mode string) []string
}

// PromptTemplate is the on-disk shape of a prompt file.
type PromptTemplate struct {
	Instructions   string            `yaml:"instructions"`
	BasePrompt     string            `yaml:"base_prompt"`
	Variants       map[string]string `yaml:"variants"`
	OutputContract string            `yaml:"output_contract"`
}

type modePrompts struct {
	instructions string
	variants     map[string]*template.Template
}

type PromptManager struct {
	prompts map[string]*modePrompts // mode -> compiled variants
}

// NewPromptManager loads and compiles every embedded template.
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		prompts: make(map[string]*modePrompts),
	}

	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	return pm, nil
}

// BuildPrompt renders the variant of mode with data.
func (pm *PromptManager) BuildPrompt(mode, variant string, data interface{}) (string, error) {
	mp, exists := pm.prompts[mode]
	if !exists {
		return "", fmt.Errorf("template not found for mode: %s", mode)
	}

	tmpl, exists := mp.variants[variant]
	if !exists {
		return "", fmt.Errorf("variant '%s' not found for mode '%s'", variant, mode)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s/%s prompt: %w", mode, variant, err)
	}
	return buf.String(), nil
}

// Instructions returns the system instruction that accompanies mode's prompts.
func (pm *PromptManager) Instructions(mode string) (string, error) {
	mp, exists := pm.prompts[mode]
	if !exists {
		return "", fmt.Errorf("template not found for mode: %s", mode)
	}
	return mp.instructions, nil
}

// Variants lists the variant names of mode in sorted order.
func (pm *PromptManager) Variants(mode string) []string {
	mp, exists := pm.prompts[mode]
	if !exists {
		return nil
	}
	names := make([]string, 0, len(mp.variants))
	for name := range mp.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Modes lists every loaded mode.
func (pm *PromptManager) Modes() []string {
	names := make([]string, 0, len(pm.prompts))
	for name := range pm.prompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var pt PromptTemplate
		if err := yaml.Unmarshal(data, &pt); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		mp := &modePrompts{
			instructions: strings.TrimSpace(pt.Instructions),
			variants:     make(map[string]*template.Template),
		}

		for variant, body := range pt.Variants {
			parts := make([]string, 0, 3)
			for _, p := range []string{pt.BasePrompt, body, pt.OutputContract} {
				if p = strings.TrimSpace(p); p != "" {
					parts = append(parts, p)
				}
			}
			tmpl, err := template.New(name + "/" + variant).
				Option("missingkey=error").
				Parse(strings.Join(parts, "\n\n"))
			if err != nil {
				return fmt.Errorf("failed to compile %s variant %s: %w", name, variant, err)
			}
			mp.variants[variant] = tmpl
		}

		pm.prompts[name] = mp
	}

	return nil
}
