package scenario

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/contentgate/internal/config"
	"github.com/ppiankov/contentgate/internal/content"
	"github.com/ppiankov/contentgate/internal/enforce"
	"github.com/ppiankov/contentgate/internal/permission"
	"github.com/ppiankov/contentgate/internal/security"
)

// Run evaluates all cases in a scenario against the given security
// manager. Cases are independent; each gets fresh item state.
func Run(s *Scenario, sec *security.Manager) *RunResult {
	enforcer := enforce.New(sec, nil)

	result := &RunResult{
		Name:  s.Name,
		Total: len(s.Cases),
	}

	for i, c := range s.Cases {
		actual, err := evaluate(&c, sec, enforcer)
		expected := strings.ToLower(c.Expect)

		cr := CaseResult{
			Index:     i + 1,
			Principal: c.Principal.Name,
			Item:      c.Item.NodePath,
			Operation: c.Operation,
			Expected:  expected,
			Actual:    actual,
		}
		if err != nil {
			cr.Actual = fmt.Sprintf("error: %v", err)
		}

		if cr.Actual == expected {
			cr.Passed = true
			result.Passed++
		} else {
			result.Failed++
		}

		result.Cases = append(result.Cases, cr)
	}

	return result
}

// evaluate runs one case through the operation it names and maps the
// outcome to "allow" or "deny".
func evaluate(c *Case, sec *security.Manager, enforcer *enforce.Enforcer) (string, error) {
	ctx := content.WithPrincipal(context.Background(), c.Principal)
	item := c.Item // copy; SavedBy stamping stays local to the case

	var err error
	switch op := strings.ToLower(c.Operation); op {
	case "view":
		err = enforcer.AuthorizeRequest(ctx, &item, c.Principal)
	case "save":
		err = enforcer.OnItemSaving(ctx, &item)
	case "delete":
		err = enforcer.OnItemDeleting(ctx, &item)
	case "move", "copy":
		if c.Destination == nil {
			return "", fmt.Errorf("%s case requires a destination", op)
		}
		dest := *c.Destination
		if op == "move" {
			err = enforcer.OnItemMoving(ctx, &item, &dest)
		} else {
			err = enforcer.OnItemCopying(ctx, &item, &dest)
		}
	default:
		requested, perr := permission.Parse(op)
		if perr != nil {
			return "", fmt.Errorf("unknown operation %q", c.Operation)
		}
		if sec.IsGranted(ctx, c.Principal, &item, requested) {
			return "allow", nil
		}
		return "deny", nil
	}

	if err != nil {
		return "deny", nil
	}
	return "allow", nil
}

// LoadAndRun loads a scenario YAML file and the security config, then
// runs all cases.
func LoadAndRun(path, configPath string) (*RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load security config: %w", err)
	}
	sec, err := cfg.BuildManager()
	if err != nil {
		return nil, fmt.Errorf("build security manager: %w", err)
	}

	result := Run(&s, sec)
	result.File = path

	return result, nil
}
