package triage

import (
	_ "embed"
	"os"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

//go:embed knowledge.yml
var defaultKnowledgeRaw []byte

// Knowledge is the domain-knowledge table embedded into the classifier
// prompt: medication name -> common side effects. It is injected into
// the UseCase rather than compiled into the prompt so deployments can
// extend or swap it without touching classifier logic.
type Knowledge struct {
	Medications map[string][]string `yaml:"medications"`
}

// DefaultKnowledge returns the built-in medication table
func DefaultKnowledge() Knowledge {
	var k Knowledge
	// The embedded table is validated by tests; a parse failure here
	// would be a build defect.
	if err := yaml.Unmarshal(defaultKnowledgeRaw, &k); err != nil {
		panic(err)
	}
	return k
}

// LoadKnowledge reads a medication table from a YAML file
func LoadKnowledge(path string) (Knowledge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Knowledge{}, goerr.Wrap(err, "failed to read knowledge file", goerr.V("path", path))
	}

	var k Knowledge
	if err := yaml.Unmarshal(data, &k); err != nil {
		return Knowledge{}, goerr.Wrap(err, "failed to parse knowledge file", goerr.V("path", path))
	}

	if len(k.Medications) == 0 {
		return Knowledge{}, goerr.New("knowledge file has no medications", goerr.V("path", path))
	}

	return k, nil
}

// RenderTable renders the table as one bullet line per medication,
// sorted by name for a stable prompt.
func (k Knowledge) RenderTable() string {
	if len(k.Medications) == 0 {
		return "(no medication knowledge configured)"
	}

	names := make([]string, 0, len(k.Medications))
	for name := range k.Medications {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString("- ")
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(strings.Join(k.Medications[name], ", "))
		sb.WriteString("\n")
	}
	return sb.String()
}
