package policy

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
)

// catalogFile — формат configs/policies.yaml
type catalogFile struct {
	Policies []domain.Policy `yaml:"policies"`
}

// LoadCatalog читает каталог политик (регуляторные рамки HRSD) из yaml.
// Title, если не задан явно, выводится из CamelCase-идентификатора:
// "PerformanceManagement" → "Performance Management".
func LoadCatalog(path string) ([]domain.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("policy catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("policy catalog: malformed yaml: %w", err)
	}
	if len(file.Policies) == 0 {
		return nil, fmt.Errorf("policy catalog: no policies defined in %s", path)
	}

	for i := range file.Policies {
		p := &file.Policies[i]
		if p.ID == "" {
			return nil, fmt.Errorf("policy catalog: entry %d has no id", i)
		}
		if p.Title == "" {
			p.Title = TitleFromID(p.ID)
		}
		if p.FrameworkText == "" {
			return nil, fmt.Errorf("policy catalog: %s has no framework_text", p.ID)
		}
	}
	return file.Policies, nil
}

// TitleFromID разбивает CamelCase-ключ каталога на слова
func TitleFromID(id string) string {
	var b strings.Builder
	for i, r := range id {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
