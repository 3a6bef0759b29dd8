package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRisks(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected []string
		ok       bool
	}{
		{"object", `{"risks": ["High cholesterol", "Prediabetes"]}`, []string{"High cholesterol", "Prediabetes"}, true},
		{"fenced", "```json\n{\"risks\": [\"Anemia\"]}\n```", []string{"Anemia"}, true},
		{"bare array", `[" Hypertension ", ""]`, []string{"Hypertension"}, true},
		{"empty list", `{"risks": []}`, []string{}, true},
		{"non string items", `{"risks": ["Obesity", 3, null]}`, []string{"Obesity"}, true},
		{"prose", "The patient has high cholesterol.", []string{}, false},
		{"missing key", `{"flags": ["x"]}`, []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risks, ok := ParseRisks(tt.output)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, risks)
		})
	}
}
