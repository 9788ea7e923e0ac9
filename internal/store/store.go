// Package store loads the externally supplied configuration and data
// files: the rule catalog, approval and validation policies, COA
// segment tables, and transaction batches. File mechanics live here so
// the engine packages stay pure.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"fjacquet/treasury-docs/internal/approval"
	"fjacquet/treasury-docs/internal/docerror"
	"fjacquet/treasury-docs/internal/logging"
	"fjacquet/treasury-docs/internal/models"
	"fjacquet/treasury-docs/internal/rules"
	"fjacquet/treasury-docs/internal/validation"
)

// Store resolves and reads the configuration files for one run.
type Store struct {
	ConfigDir string
	logger    logging.Logger
}

// New creates a Store rooted at configDir. An empty dir searches the
// standard locations instead.
func New(configDir string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Store{ConfigDir: configDir, logger: logger}
}

// FindConfigFile looks for a configuration file in standard locations.
func (s *Store) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if s.ConfigDir != "" {
		locations = append([]string{filepath.Join(s.ConfigDir, filename)}, locations...)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "treasury-docs", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// ruleSpec is the YAML shape of one classification rule.
type ruleSpec struct {
	RuleID      string   `yaml:"rule_id"`
	Name        string   `yaml:"name"`
	Keywords    []string `yaml:"keywords"`
	GLPatterns  []string `yaml:"gl_patterns"`
	AmountMin   *string  `yaml:"amount_min"`
	AmountMax   *string  `yaml:"amount_max"`
	Category    string   `yaml:"category"`
	Subcategory string   `yaml:"subcategory"`
	Priority    int      `yaml:"priority"`
	Active      *bool    `yaml:"active"`
}

type rulesFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

// LoadRuleCatalog reads and freezes the classification rule catalog.
// Reloading between runs yields a new Catalog value; nothing mutates
// an existing one.
func (s *Store) LoadRuleCatalog(filename string) (rules.Catalog, error) {
	path, err := s.FindConfigFile(filename)
	if err != nil {
		return rules.Catalog{}, fmt.Errorf("rule catalog file not found: %s", filename)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules.Catalog{}, fmt.Errorf("could not read rule catalog: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return rules.Catalog{}, fmt.Errorf("could not parse rule catalog: %w", err)
	}

	ruleList := make([]rules.Rule, 0, len(file.Rules))
	for _, spec := range file.Rules {
		rule := rules.Rule{
			ID:          spec.RuleID,
			Name:        spec.Name,
			Keywords:    spec.Keywords,
			GLPatterns:  spec.GLPatterns,
			Category:    models.Category(spec.Category),
			Subcategory: spec.Subcategory,
			Priority:    spec.Priority,
			Active:      spec.Active == nil || *spec.Active,
		}
		if spec.AmountMin != nil || spec.AmountMax != nil {
			r, err := parseRange(spec.AmountMin, spec.AmountMax)
			if err != nil {
				return rules.Catalog{}, fmt.Errorf("rule '%s': %w", spec.RuleID, err)
			}
			rule.AmountRange = r
		}
		ruleList = append(ruleList, rule)
	}

	catalog, err := rules.NewCatalog(ruleList)
	if err != nil {
		return rules.Catalog{}, err
	}
	s.logger.Info("Rule catalog loaded",
		logging.Field{Key: "file", Value: path},
		logging.Field{Key: "rules", Value: catalog.Len()})
	return catalog, nil
}

func parseRange(minStr, maxStr *string) (*rules.AmountRange, error) {
	r := &rules.AmountRange{Min: decimal.Zero, Max: decimal.New(1, 9)}
	if minStr != nil {
		min, err := decimal.NewFromString(*minStr)
		if err != nil {
			return nil, fmt.Errorf("invalid amount_min '%s': %w", *minStr, err)
		}
		r.Min = min
	}
	if maxStr != nil {
		max, err := decimal.NewFromString(*maxStr)
		if err != nil {
			return nil, fmt.Errorf("invalid amount_max '%s': %w", *maxStr, err)
		}
		r.Max = max
	}
	return r, nil
}

// approvalFile is the YAML shape of the approval policy.
type approvalFile struct {
	Tiers []struct {
		MinAmount string `yaml:"min_amount"`
		Level     string `yaml:"level"`
	} `yaml:"tiers"`
	Chains map[string][]string `yaml:"chains"`
}

// LoadApprovalPolicy reads the approval thresholds and chains. A
// missing file falls back to the default policy, since thresholds are
// business policy with sane defaults.
func (s *Store) LoadApprovalPolicy(filename string) (approval.Policy, error) {
	path, err := s.FindConfigFile(filename)
	if err != nil {
		s.logger.Debug("Approval policy file not found, using defaults",
			logging.Field{Key: "file", Value: filename})
		return approval.DefaultPolicy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return approval.Policy{}, fmt.Errorf("could not read approval policy: %w", err)
	}

	var file approvalFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return approval.Policy{}, fmt.Errorf("could not parse approval policy: %w", err)
	}

	policy := approval.Policy{Chains: make(map[models.ApprovalLevel][]string, len(file.Chains))}
	for _, tier := range file.Tiers {
		min, err := decimal.NewFromString(tier.MinAmount)
		if err != nil {
			return approval.Policy{}, &docerror.PolicyError{
				Policy: "approval",
				Reason: fmt.Sprintf("invalid tier min_amount '%s'", tier.MinAmount),
			}
		}
		policy.Tiers = append(policy.Tiers, approval.Tier{
			MinAmount: min,
			Level:     models.ApprovalLevel(tier.Level),
		})
	}
	for level, chain := range file.Chains {
		policy.Chains[models.ApprovalLevel(level)] = chain
	}
	return policy, nil
}

// validationFile is the YAML shape of the validation policy.
type validationFile struct {
	HighValueThreshold string `yaml:"high_value_threshold"`
	Categories         map[string]struct {
		MaxAmount            string   `yaml:"max_amount"`
		AllowedGLPatterns    []string `yaml:"allowed_gl_patterns"`
		ProhibitedGLPatterns []string `yaml:"prohibited_gl_patterns"`
		ComplianceChecks     []string `yaml:"compliance_checks"`
		RequiresCounterparty bool     `yaml:"requires_counterparty"`
	} `yaml:"categories"`
}

// LoadValidationPolicy reads the validation thresholds, falling back
// to defaults when no file is present.
func (s *Store) LoadValidationPolicy(filename string) (validation.Policy, error) {
	path, err := s.FindConfigFile(filename)
	if err != nil {
		s.logger.Debug("Validation policy file not found, using defaults",
			logging.Field{Key: "file", Value: filename})
		return validation.DefaultPolicy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return validation.Policy{}, fmt.Errorf("could not read validation policy: %w", err)
	}

	var file validationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return validation.Policy{}, fmt.Errorf("could not parse validation policy: %w", err)
	}

	policy := validation.Policy{Categories: make(map[models.Category]validation.CategoryPolicy, len(file.Categories))}
	if file.HighValueThreshold != "" {
		threshold, err := decimal.NewFromString(file.HighValueThreshold)
		if err != nil {
			return validation.Policy{}, &docerror.PolicyError{
				Policy: "validation",
				Reason: fmt.Sprintf("invalid high_value_threshold '%s'", file.HighValueThreshold),
			}
		}
		policy.HighValueThreshold = threshold
	}
	for name, spec := range file.Categories {
		cp := validation.CategoryPolicy{
			AllowedGLPatterns:    spec.AllowedGLPatterns,
			ProhibitedGLPatterns: spec.ProhibitedGLPatterns,
			ComplianceChecks:     spec.ComplianceChecks,
			RequiresCounterparty: spec.RequiresCounterparty,
		}
		if spec.MaxAmount != "" {
			max, err := decimal.NewFromString(spec.MaxAmount)
			if err != nil {
				return validation.Policy{}, &docerror.PolicyError{
					Policy: "validation",
					Reason: fmt.Sprintf("invalid max_amount for category '%s'", name),
				}
			}
			cp.MaxAmount = max
		}
		policy.Categories[models.Category(name)] = cp
	}
	return policy, nil
}
