package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/committed/internal/report"
)

// SARIFWriter collects diagnostics and writes them as one SARIF v2.1.0 log
// on Flush.
type SARIFWriter struct {
	w       io.Writer
	version string
	msgs    []report.Message
}

func (s *SARIFWriter) Report(msg report.Message) {
	s.msgs = append(s.msgs, msg)
}

func (s *SARIFWriter) Flush() error {
	sarif := buildSARIF(s.msgs, s.version)
	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling SARIF: %w", err)
	}
	_, err = s.w.Write(data)
	if err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	_, err = fmt.Fprintln(s.w)
	return err
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	ShortDescription sarifMessage       `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig `json:"defaultConfiguration"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID           string                 `json:"ruleId"`
	RuleIndex        int                    `json:"ruleIndex"`
	Level            string                 `json:"level"`
	Message          sarifMessage           `json:"message"`
	Locations        []sarifLocation        `json:"locations,omitempty"`
	LogicalLocations []sarifLogicalLocation `json:"logicalLocations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifLogicalLocation struct {
	FullyQualifiedName string `json:"fullyQualifiedName"`
	Kind               string `json:"kind"`
}

var ruleDescriptions = map[report.Kind]string{
	report.KindEmptyCommit:           "Commit message must not be empty",
	report.KindSubjectTooLong:        "Subject line must fit the configured length",
	report.KindLineTooLong:           "Lines must fit the configured length",
	report.KindCapitalizeSubject:     "Subject must start with a capital letter",
	report.KindNoPunctuation:         "Subject must not end in punctuation",
	report.KindImperative:            "Subject must use the imperative mood",
	report.KindWip:                   "Work-in-progress commits must be cleaned up",
	report.KindFixup:                 "Fixup commits must be squashed",
	report.KindInvalidCommitFormat:   "Message must follow the configured style",
	report.KindDisallowedCommitType:  "Commit type must be in the allowed list",
	report.KindMergeCommitDisallowed: "Merge commits are disallowed",
}

func buildSARIF(msgs []report.Message, version string) sarifLog {
	rules := make([]sarifRule, 0, len(report.Kinds))
	index := make(map[report.Kind]int, len(report.Kinds))
	for _, k := range report.Kinds {
		index[k] = len(rules)
		rules = append(rules, sarifRule{
			ID:               ruleID(k),
			Name:             string(k),
			ShortDescription: sarifMessage{Text: ruleDescriptions[k]},
			DefaultConfig:    sarifDefaultConfig{Level: severityToLevel(report.SeverityError)},
		})
	}

	results := make([]sarifResult, 0, len(msgs))
	for _, m := range msgs {
		kind := m.Content.Kind()
		result := sarifResult{
			RuleID:    ruleID(kind),
			RuleIndex: index[kind],
			Level:     severityToLevel(m.Severity),
			Message:   sarifMessage{Text: m.Content.String()},
		}
		if m.Source.Kind == report.SourcePath {
			result.Locations = []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: m.Source.Value},
				},
			}}
		} else {
			result.LogicalLocations = []sarifLogicalLocation{{
				FullyQualifiedName: m.Source.Value,
				Kind:               "commit",
			}}
		}
		results = append(results, result)
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "committed",
						Version:        version,
						InformationURI: "https://github.com/dshills/committed",
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}
}

// severityToLevel maps committed severity to SARIF level.
func severityToLevel(s report.Severity) string {
	switch s {
	case report.SeverityError:
		return "error"
	default:
		return "note"
	}
}

func ruleID(k report.Kind) string {
	return "committed/" + string(k)
}
