package intelligence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shenikar/incident_intelligence/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Tiers(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        models.Priority
	}{
		{"high keyword in title", "Acidente grave com vítimas", "", models.PriorityHigh},
		{"high keyword in description", "Ocorrência", "Motorista ferido no local", models.PriorityHigh},
		{"case insensitive", "EMERGÊNCIA NA AVENIDA", "", models.PriorityHigh},
		{"medium keyword", "Buraco na rua", "Asfalto cedeu perto da escola", models.PriorityMedium},
		{"multi-word phrase", "Colisão leve", "sem feridos graves", models.PriorityHigh},
		{"multi-word phrase medium", "Colisão leve no cruzamento", "", models.PriorityMedium},
		{"english medium", "Traffic light malfunction", "", models.PriorityMedium},
		{"no keywords", "Poste sem luz", "Rua escura desde ontem", models.PriorityLow},
		{"empty text", "", "", models.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.title, tt.description))
		})
	}
}

func TestClassify_HighTakesPrecedence(t *testing.T) {
	// "danificado" и "buraco" - средний уровень, "urgente" - высокий
	got := Classify("Semáforo danificado", "buraco enorme, urgente")
	assert.Equal(t, models.PriorityHigh, got)
}

func TestClassify_PhraseMustMatchLiterally(t *testing.T) {
	c := NewClassifier([]Rule{{Keyword: "head-on collision", Tier: models.PriorityHigh}})

	assert.Equal(t, models.PriorityHigh, c.Classify("Head-On Collision on I-5", ""))
	assert.Equal(t, models.PriorityLow, c.Classify("collision, head-on", ""))
}

func TestClassify_Deterministic(t *testing.T) {
	title, description := "Alagamento", "Rua bloqueada pela água"

	first := Classify(title, description)
	second := Classify(title, description)

	assert.Equal(t, first, second)
	assert.Equal(t, "Alagamento", title)
	assert.Equal(t, "Rua bloqueada pela água", description)
}

func TestNewClassifier_SkipsInvalidRules(t *testing.T) {
	c := NewClassifier([]Rule{
		{Keyword: "  ", Tier: models.PriorityHigh},
		{Keyword: "queda", Tier: models.PriorityLow},
		{Keyword: "FUMAÇA", Tier: models.PriorityMedium},
	})

	assert.Equal(t, models.PriorityLow, c.Classify("queda de energia", ""))
	assert.Equal(t, models.PriorityMedium, c.Classify("fumaça no túnel", ""))
	assert.Equal(t, models.PriorityLow, c.Classify("", ""))
}

func TestLoadRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := "high:\n  - deslizamento\nmedium:\n  - lixo acumulado\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	rules, err := LoadRulesFile(path)
	require.NoError(t, err)

	c := NewClassifier(rules)
	assert.Equal(t, models.PriorityHigh, c.Classify("Deslizamento de terra", ""))
	assert.Equal(t, models.PriorityMedium, c.Classify("Lixo acumulado na praça", ""))
	// встроенные слова заменены файлом
	assert.Equal(t, models.PriorityLow, c.Classify("Acidente grave", ""))
}

func TestLoadRulesFile_MissingTierFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("high:\n  - deslizamento\n"), 0o600))

	rules, err := LoadRulesFile(path)
	require.NoError(t, err)

	c := NewClassifier(rules)
	assert.Equal(t, models.PriorityMedium, c.Classify("Buraco na calçada", ""))
}

func TestLoadRulesFile_Errors(t *testing.T) {
	_, err := LoadRulesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read keywords file")

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("high: [unterminated"), 0o600))
	_, err = LoadRulesFile(path)
	assert.ErrorContains(t, err, "failed to parse keywords file")
}
