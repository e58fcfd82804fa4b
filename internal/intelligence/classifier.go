package intelligence

import (
	"fmt"
	"os"
	"strings"

	"github.com/shenikar/incident_intelligence/internal/models"
	"gopkg.in/yaml.v3"
)

// Rule - одна строка таблицы ключевых слов
type Rule struct {
	Keyword string
	Tier    models.Priority
}

var highKeywords = []string{
	// pt-BR
	"grave", "vítima", "vitima", "morte", "morto", "óbito", "fatal", "ferido",
	"urgente", "urgência", "emergência", "emergencia", "perigo", "risco de vida",
	"colisão grave", "capotamento", "atropelamento", "engavetamento", "incêndio",
	"explosão", "desabamento", "afogamento",
	// en
	"severe", "fatality", "fatal", "killed", "injured", "danger", "urgent",
	"emergency", "head-on collision", "rollover", "fire", "explosion", "collapse",
}

var mediumKeywords = []string{
	// pt-BR
	"dano", "danificado", "quebrado", "quebra", "defeito", "avaria", "pane",
	"colisão leve", "batida", "buraco", "obstrução", "obstruída", "bloqueio",
	"bloqueada", "alagamento", "semáforo", "vazamento", "queda de árvore",
	// en
	"damage", "broken", "malfunction", "fender bender", "minor collision",
	"pothole", "obstruction", "blocked", "flooding", "leak", "fallen tree",
}

// DefaultRules возвращает встроенную таблицу ключевых слов
func DefaultRules() []Rule {
	rules := make([]Rule, 0, len(highKeywords)+len(mediumKeywords))
	for _, kw := range highKeywords {
		rules = append(rules, Rule{Keyword: kw, Tier: models.PriorityHigh})
	}
	for _, kw := range mediumKeywords {
		rules = append(rules, Rule{Keyword: kw, Tier: models.PriorityMedium})
	}
	return rules
}

// Classifier определяет приоритет инцидента по вхождению ключевых слов в текст.
// Высокий уровень проверяется раньше среднего.
type Classifier struct {
	high   []string
	medium []string
}

// NewClassifier строит классификатор по таблице правил.
// Правила с пустым ключевым словом или уровнем, отличным от high/medium, пропускаются.
func NewClassifier(rules []Rule) *Classifier {
	c := &Classifier{}
	for _, r := range rules {
		kw := strings.ToLower(strings.TrimSpace(r.Keyword))
		if kw == "" {
			continue
		}
		switch r.Tier {
		case models.PriorityHigh:
			c.high = append(c.high, kw)
		case models.PriorityMedium:
			c.medium = append(c.medium, kw)
		}
	}
	return c
}

var defaultClassifier = NewClassifier(DefaultRules())

// DefaultClassifier возвращает классификатор со встроенной таблицей
func DefaultClassifier() *Classifier {
	return defaultClassifier
}

// Classify возвращает high, medium или low для заголовка и описания
func (c *Classifier) Classify(title, description string) models.Priority {
	text := strings.ToLower(title + " " + description)

	if containsAny(text, c.high) {
		return models.PriorityHigh
	}
	if containsAny(text, c.medium) {
		return models.PriorityMedium
	}
	return models.PriorityLow
}

// Classify классифицирует текст встроенной таблицей
func Classify(title, description string) models.Priority {
	return defaultClassifier.Classify(title, description)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// rulesFile - формат YAML файла с ключевыми словами
type rulesFile struct {
	High   []string `yaml:"high"`
	Medium []string `yaml:"medium"`
}

// LoadRulesFile читает таблицу ключевых слов из YAML.
// Уровень, отсутствующий в файле, берется из встроенной таблицы.
func LoadRulesFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keywords file: %w", err)
	}

	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse keywords file: %w", err)
	}

	high, medium := f.High, f.Medium
	if len(high) == 0 {
		high = highKeywords
	}
	if len(medium) == 0 {
		medium = mediumKeywords
	}

	rules := make([]Rule, 0, len(high)+len(medium))
	for _, kw := range high {
		rules = append(rules, Rule{Keyword: kw, Tier: models.PriorityHigh})
	}
	for _, kw := range medium {
		rules = append(rules, Rule{Keyword: kw, Tier: models.PriorityMedium})
	}
	return rules, nil
}
