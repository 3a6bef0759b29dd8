package workflow

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ParseRisks reads the risk flags answered by the model, either {"risks": [...]} or a bare array,
// possibly wrapped in a markdown code fence. The boolean is false when the output is not usable.
func ParseRisks(output string) ([]string, bool) {
	raw := stripCodeFence(output)
	if !gjson.Valid(raw) {
		return []string{}, false
	}

	parsed := gjson.Parse(raw)
	list := parsed
	if parsed.IsObject() {
		list = parsed.Get("risks")
	}
	if !list.IsArray() {
		return []string{}, false
	}

	risks := []string{}
	for _, item := range list.Array() {
		if item.Type != gjson.String {
			continue
		}
		if risk := strings.TrimSpace(item.String()); risk != "" {
			risks = append(risks, risk)
		}
	}
	return risks, true
}

func stripCodeFence(output string) string {
	trimmed := strings.TrimSpace(output)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	// drop the language tag of the opening fence
	if newline := strings.IndexByte(trimmed, '\n'); newline >= 0 {
		trimmed = trimmed[newline+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
