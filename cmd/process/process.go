// Package process implements the command that runs a transaction batch
// through the document pipeline.
package process

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fjacquet/treasury-docs/cmd/root"
	"fjacquet/treasury-docs/internal/approval"
	"fjacquet/treasury-docs/internal/assembler"
	"fjacquet/treasury-docs/internal/catalog"
	"fjacquet/treasury-docs/internal/classifier"
	"fjacquet/treasury-docs/internal/config"
	"fjacquet/treasury-docs/internal/grouper"
	"fjacquet/treasury-docs/internal/logging"
	"fjacquet/treasury-docs/internal/models"
	"fjacquet/treasury-docs/internal/pipeline"
	"fjacquet/treasury-docs/internal/resolver"
	"fjacquet/treasury-docs/internal/rules"
	"fjacquet/treasury-docs/internal/store"
	"fjacquet/treasury-docs/internal/validation"
)

var (
	inputFile  string
	outputFile string
	kindFlag   string

	// Cmd is the process command
	Cmd = &cobra.Command{
		Use:   "process",
		Short: "Run a transaction batch through the document pipeline",
		RunE:  run,
	}
)

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Transactions CSV file")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (stdout when empty)")
	Cmd.Flags().StringVarP(&kindFlag, "kind", "k", "", "Document kind: treasury_receipt or payment_voucher")
	_ = Cmd.MarkFlagRequired("input")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}
	if kindFlag != "" {
		cfg.Pipeline.DocumentKind = kindFlag
	}

	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	configDir, _ := cmd.Flags().GetString("config-dir")
	if configDir == "" {
		configDir = cfg.Files.ConfigDir
	}
	st := store.New(configDir, logger)

	p, err := buildPipeline(cmd.Context(), cfg, st, logger)
	if err != nil {
		return err
	}

	transactions, err := st.LoadTransactions(inputFile)
	if err != nil {
		return err
	}

	result, err := p.Run(cmd.Context(), transactions)
	if err != nil {
		return err
	}

	rendered := render(result)
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("could not write output: %w", err)
		}
		root.Log.WithField("file", outputFile).Info("Documents written")
		return nil
	}
	fmt.Println(rendered)
	return nil
}

// buildPipeline wires the stages from configuration.
func buildPipeline(ctx context.Context, cfg *config.Config, st *store.Store, logger logging.Logger) (*pipeline.Pipeline, error) {
	tables, err := st.LoadSegmentTables(cfg.Files.COADir)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.New(tables, logger)
	if err != nil {
		return nil, err
	}

	ruleCatalog, err := st.LoadRuleCatalog(cfg.Files.Rules)
	if err != nil {
		return nil, err
	}

	validationPolicy, err := st.LoadValidationPolicy(cfg.Files.ValidationPolicy)
	if err != nil {
		return nil, err
	}
	validator, err := validation.NewValidator(validationPolicy, logger)
	if err != nil {
		return nil, err
	}

	approvalPolicy, err := st.LoadApprovalPolicy(cfg.Files.ApprovalPolicy)
	if err != nil {
		return nil, err
	}
	approver, err := approval.NewResolver(approvalPolicy)
	if err != nil {
		return nil, err
	}

	grp, err := grouper.New(cfg.Pipeline.GroupKeyWidth)
	if err != nil {
		return nil, err
	}

	ruleStrategy := classifier.NewRuleStrategy(rules.NewEngine(ruleCatalog, logger))
	var cls classifier.Strategy
	if cfg.Model.Enabled {
		client, err := classifier.NewGeminiClient(ctx, cfg.Model.APIKey, cfg.Model.Name, logger)
		if err != nil {
			logger.WithError(err).Warn("Model fallback unavailable, classifying with rules only")
			cls = classifier.NewFallbackClassifier(ruleStrategy, nil, logger)
		} else {
			timeout := time.Duration(cfg.Model.TimeoutSeconds) * time.Second
			modelStrategy := classifier.NewModelStrategy(client, timeout, logger)
			cls = classifier.NewFallbackClassifier(ruleStrategy, modelStrategy, logger)
		}
	} else {
		cls = classifier.NewFallbackClassifier(ruleStrategy, nil, logger)
	}

	asm := assembler.New(models.DocumentKind(cfg.Pipeline.DocumentKind), nil)

	return pipeline.New(
		resolver.New(cat, logger),
		cls,
		validator,
		approver,
		grp,
		asm,
		cfg.Pipeline.Workers,
		logger,
	), nil
}

// render writes the documents in the plain text block format handed
// to downstream consumers.
func render(result pipeline.Result) string {
	var blocks []string

	if len(result.Skipped) > 0 {
		var b strings.Builder
		b.WriteString("SKIPPED TRANSACTIONS\n")
		for _, skipped := range result.Skipped {
			fmt.Fprintf(&b, "%s (%s): %v\n", skipped.TransactionID, skipped.Key, skipped.Err)
		}
		blocks = append(blocks, b.String())
	}

	for _, doc := range result.Documents {
		blocks = append(blocks, renderDocument(doc))
	}
	return strings.Join(blocks, "\n\n")
}

func renderDocument(doc models.OutputDocument) string {
	var b strings.Builder

	title := "TREASURY RECEIPT"
	if doc.Kind == models.DocumentPaymentVoucher {
		title = "PAYMENT VOUCHER"
	}
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n")
	fmt.Fprintf(&b, "Number: %s\n", doc.Number)
	fmt.Fprintf(&b, "Date: %s\n\n", doc.GeneratedAt.Format("2006-01-02"))

	b.WriteString("ACCOUNT DETAILS:\n")
	fmt.Fprintf(&b, "Entity: %s\n", doc.Account.Entity)
	fmt.Fprintf(&b, "Cost Center: %s\n", doc.Account.CostCenter)
	fmt.Fprintf(&b, "GL Account: %s\n", doc.Account.GLAccount)
	fmt.Fprintf(&b, "Budget Group: %s\n\n", doc.Account.BudgetGroup)

	amount, direction := doc.AmountWithDirection()
	fmt.Fprintf(&b, "Amount: %s (%s)\n", amount.StringFixed(2), direction)
	fmt.Fprintf(&b, "Category: %s - %s\n", doc.Classification.Category, doc.Classification.Subcategory)
	fmt.Fprintf(&b, "Risk Level: %s\n", doc.Classification.Risk)
	fmt.Fprintf(&b, "Validation: %s\n", validationStatus(doc))

	b.WriteString("\nAPPROVAL WORKFLOW:\n")
	for i, step := range doc.Approval.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}

	if len(doc.Flags) > 0 {
		b.WriteString("\nREVIEW FLAGS:\n")
		for _, flag := range doc.Flags {
			fmt.Fprintf(&b, "- %s\n", flag)
		}
	}
	return b.String()
}

func validationStatus(doc models.OutputDocument) string {
	if doc.Valid {
		return "Passed"
	}
	return fmt.Sprintf("Failed (%d violations)", len(doc.Violations))
}
