package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

const DefaultPromptVersion = "v1"

// PromptConfig is one versioned prompt: the system instruction and the model settings used with it.
type PromptConfig struct {
	System      string  `json:"system" yaml:"system"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// PromptCatalog indexes prompts by module, then key, then version.
type PromptCatalog map[string]map[string]map[string]PromptConfig

// PromptRef names a prompt of the catalog, independently of its version.
type PromptRef struct {
	Module string
	Key    string
}

func (r PromptRef) String() string {
	return r.Module + "/" + r.Key
}

var (
	PromptOrchestratorClassification = PromptRef{Module: "orchestrator", Key: "classification"}
	PromptOrchestratorOffTopic       = PromptRef{Module: "orchestrator", Key: "off_topic_response"}
	PromptClinicalAnalysis           = PromptRef{Module: "clinical_analysis", Key: "analysis"}
	PromptRiskAssessment             = PromptRef{Module: "risk_assessment", Key: "assessment"}
	PromptQna                        = PromptRef{Module: "qna", Key: "answer"}
	PromptComplianceReview           = PromptRef{Module: "compliance", Key: "review"}
)

// RequiredPrompts lists every prompt the chat workflow reads.
var RequiredPrompts = []PromptRef{
	PromptOrchestratorClassification,
	PromptOrchestratorOffTopic,
	PromptClinicalAnalysis,
	PromptRiskAssessment,
	PromptQna,
	PromptComplianceReview,
}

// PromptVersions selects the version of each module's prompts, with a fallback for modules not listed.
type PromptVersions struct {
	Default  string
	ByModule map[string]string
}

func (v PromptVersions) For(module string) string {
	if version, ok := v.ByModule[module]; ok && version != "" {
		return version
	}
	if v.Default == "" {
		return DefaultPromptVersion
	}
	return v.Default
}

// ParsePromptVersions reads a "module=version,module=version" list.
func ParsePromptVersions(raw string, defaultVersion string) (PromptVersions, error) {
	versions := PromptVersions{Default: defaultVersion, ByModule: map[string]string{}}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		module, version, ok := strings.Cut(pair, "=")
		module, version = strings.TrimSpace(module), strings.TrimSpace(version)
		if !ok || module == "" || version == "" {
			return PromptVersions{}, errors.Newf("invalid prompt version %q, expected module=version", pair)
		}
		versions.ByModule[module] = version
	}
	return versions, nil
}

func (c PromptCatalog) Get(ref PromptRef, version string) (PromptConfig, error) {
	keys, ok := c[ref.Module]
	if !ok {
		return PromptConfig{}, errors.Wrapf(NotFoundError, "prompt module %s", ref.Module)
	}
	byVersion, ok := keys[ref.Key]
	if !ok {
		return PromptConfig{}, errors.Wrapf(NotFoundError, "prompt %s", ref)
	}
	config, ok := byVersion[version]
	if !ok {
		return PromptConfig{}, errors.Wrapf(NotFoundError, "prompt %s version %s", ref, version)
	}
	return config, nil
}

// Validate checks every entry of the catalog, then that the required prompts resolve with the given versions.
// All problems are reported at once.
func (c PromptCatalog) Validate(required []PromptRef, versions PromptVersions) error {
	var problems []string

	for module, keys := range c {
		for key, byVersion := range keys {
			for version, config := range byVersion {
				name := fmt.Sprintf("%s/%s@%s", module, key, version)
				if strings.TrimSpace(config.Model) == "" {
					problems = append(problems, name+": model is empty")
				}
				if strings.TrimSpace(config.System) == "" && module != PromptComplianceReview.Module {
					problems = append(problems, name+": system prompt is empty")
				}
				if config.Temperature < 0 || config.Temperature > 2 {
					problems = append(problems, fmt.Sprintf("%s: temperature %v is out of [0, 2]", name, config.Temperature))
				}
			}
		}
	}

	for _, ref := range required {
		if _, err := c.Get(ref, versions.For(ref.Module)); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return errors.Wrap(BadParameterError, "invalid prompt catalog:\n  "+strings.Join(problems, "\n  "))
}
