package report

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	toolName    = "sigwatch"
	toolVersion = "1.0.0"
)

// RuleInfo is the rule metadata embedded in the SARIF driver section.
type RuleInfo struct {
	ID          string
	Description string
	Severity    Severity
}

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool     `json:"tool"`
	AutomationDetails *sarifAutoID  `json:"automationDetails,omitempty"`
	Results           []sarifResult `json:"results"`
}

type sarifAutoID struct {
	GUID string `json:"guid"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from the emitted diagnostics.
// File URIs are made relative to projectRoot; absolute paths are never
// included so that reports are safe to share.
func GenerateSARIF(projectRoot string, rules []RuleInfo, diagnostics []Diagnostic) ([]byte, error) {
	sarifRules := make([]sarifRule, 0, len(rules))
	for _, r := range rules {
		sarifRules = append(sarifRules, sarifRule{
			ID:               r.ID,
			Name:             r.ID,
			ShortDescription: sarifMessage{Text: r.Description},
			DefaultConfig:    sarifRuleDefaultConfig{Level: sarifLevel(r.Severity)},
		})
	}

	results := make([]sarifResult, 0, len(diagnostics))
	for _, d := range diagnostics {
		results = append(results, sarifResult{
			RuleID:  d.Rule,
			Level:   sarifLevel(d.Severity),
			Message: sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{
						URI:       relativeURI(projectRoot, d.Location.File),
						URIBaseID: "SRCROOT",
					},
					Region: &sarifRegion{
						StartLine:   d.Location.Line,
						StartColumn: d.Location.Column,
					},
				},
			}},
		})
	}

	doc := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    toolName,
				Version: toolVersion,
				Rules:   sarifRules,
			}},
			AutomationDetails: &sarifAutoID{GUID: uuid.NewString()},
			Results:           results,
		}},
	}
	return json.MarshalIndent(doc, "", "  ")
}

func sarifLevel(s Severity) string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

func relativeURI(root, path string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}
