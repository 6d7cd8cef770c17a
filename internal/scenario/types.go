package scenario

import "github.com/ppiankov/contentgate/internal/content"

// Case is one authorization assertion within a scenario. Operation is one
// of view, save, move, copy, delete, or a permission name (none, read,
// readwrite, readwritepublish, full) for a raw write-path check.
// Destination is required for move and copy.
type Case struct {
	Principal   content.Principal `yaml:"principal"`
	Item        content.Node      `yaml:"item"`
	Destination *content.Node     `yaml:"destination,omitempty"`
	Operation   string            `yaml:"operation"`
	Expect      string            `yaml:"expect"`
}

// Scenario is a named collection of authorization test cases evaluated
// against one security configuration.
type Scenario struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// CaseResult is the outcome of evaluating one test case.
type CaseResult struct {
	Index     int    `json:"index"`
	Passed    bool   `json:"passed"`
	Principal string `json:"principal"`
	Item      string `json:"item"`
	Operation string `json:"operation"`
	Expected  string `json:"expected"`
	Actual    string `json:"actual"`
}

// RunResult is the outcome of running all cases in one scenario file.
type RunResult struct {
	File   string       `json:"file"`
	Name   string       `json:"name"`
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Cases  []CaseResult `json:"cases"`
}
