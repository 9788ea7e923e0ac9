package classifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/treasury-docs/internal/docerror"
	"fjacquet/treasury-docs/internal/logging"
	"fjacquet/treasury-docs/internal/models"
	"fjacquet/treasury-docs/internal/rules"
)

// stubModelClient scripts the model response for tests.
type stubModelClient struct {
	resp    ModelResponse
	err     error
	delay   time.Duration
	calls   int
	lastReq ModelRequest
}

func (s *stubModelClient) Classify(ctx context.Context, req ModelRequest) (ModelResponse, error) {
	s.calls++
	s.lastReq = req
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ModelResponse{}, ctx.Err()
		}
	}
	return s.resp, s.err
}

func ruleStrategy(t *testing.T) *RuleStrategy {
	t.Helper()
	cat, err := rules.NewCatalog([]rules.Rule{
		{
			ID:          "OP-001",
			Keywords:    []string{"office"},
			Category:    models.CategoryOperating,
			Subcategory: "Office Supplies",
			Priority:    10,
			Active:      true,
		},
	})
	require.NoError(t, err)
	return NewRuleStrategy(rules.NewEngine(cat, &logging.MockLogger{}))
}

func TestModelStrategyClassify(t *testing.T) {
	client := &stubModelClient{resp: ModelResponse{Category: "Vendor", Subcategory: "Consulting"}}
	strategy := NewModelStrategy(client, time.Second, &logging.MockLogger{})

	tx := models.Transaction{ID: "TX-0001", Amount: decimal.NewFromInt(1200), Description: "ACME consulting fee"}
	result, err := strategy.Classify(context.Background(), tx, models.ResolvedAccount{})
	require.NoError(t, err)

	assert.Equal(t, models.CategoryVendor, result.Category)
	assert.Equal(t, "Consulting", result.Subcategory)
	assert.Equal(t, models.SourceModelMatch, result.Source)
	assert.Empty(t, result.RuleID)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "ACME consulting fee", client.lastReq.Description)
}

func TestModelStrategyDefaultsSubcategory(t *testing.T) {
	client := &stubModelClient{resp: ModelResponse{Category: "Operating"}}
	strategy := NewModelStrategy(client, time.Second, &logging.MockLogger{})

	result, err := strategy.Classify(context.Background(), models.Transaction{}, models.ResolvedAccount{})
	require.NoError(t, err)
	assert.Equal(t, "General", result.Subcategory)
}

func TestModelStrategyOutOfDomainCategory(t *testing.T) {
	client := &stubModelClient{resp: ModelResponse{Category: "Cryptocurrency"}}
	strategy := NewModelStrategy(client, time.Second, &logging.MockLogger{})

	result, err := strategy.Classify(context.Background(), models.Transaction{}, models.ResolvedAccount{})
	require.Error(t, err)

	var modelErr *docerror.ModelUnavailableError
	require.ErrorAs(t, err, &modelErr)
	assert.False(t, result.IsClassified())
}

func TestModelStrategyClientError(t *testing.T) {
	client := &stubModelClient{err: errors.New("connection refused")}
	strategy := NewModelStrategy(client, time.Second, &logging.MockLogger{})

	result, err := strategy.Classify(context.Background(), models.Transaction{}, models.ResolvedAccount{})
	require.Error(t, err)

	var modelErr *docerror.ModelUnavailableError
	require.ErrorAs(t, err, &modelErr)
	assert.False(t, result.IsClassified())
}

func TestModelStrategyTimeout(t *testing.T) {
	client := &stubModelClient{delay: 200 * time.Millisecond, resp: ModelResponse{Category: "Operating"}}
	strategy := NewModelStrategy(client, 10*time.Millisecond, &logging.MockLogger{})

	_, err := strategy.Classify(context.Background(), models.Transaction{}, models.ResolvedAccount{})
	require.Error(t, err)

	var modelErr *docerror.ModelUnavailableError
	assert.ErrorAs(t, err, &modelErr)
}

func TestModelStrategyNilClient(t *testing.T) {
	strategy := NewModelStrategy(nil, time.Second, &logging.MockLogger{})

	result, err := strategy.Classify(context.Background(), models.Transaction{}, models.ResolvedAccount{})
	require.Error(t, err)
	assert.False(t, result.IsClassified())
}

func TestFallbackRuleMatchSkipsModel(t *testing.T) {
	client := &stubModelClient{resp: ModelResponse{Category: "Vendor"}}
	fc := NewFallbackClassifier(
		ruleStrategy(t),
		NewModelStrategy(client, time.Second, &logging.MockLogger{}),
		&logging.MockLogger{},
	)

	tx := models.Transaction{ID: "TX-0001", Description: "office chairs"}
	result, err := fc.Classify(context.Background(), tx, models.ResolvedAccount{})
	require.NoError(t, err)

	assert.Equal(t, models.SourceRuleMatch, result.Source)
	assert.Equal(t, "OP-001", result.RuleID)
	assert.Equal(t, 0, client.calls, "model must not run when a rule matched")
}

func TestFallbackModelFillsGap(t *testing.T) {
	client := &stubModelClient{resp: ModelResponse{Category: "Personnel", Subcategory: "Payroll"}}
	fc := NewFallbackClassifier(
		ruleStrategy(t),
		NewModelStrategy(client, time.Second, &logging.MockLogger{}),
		&logging.MockLogger{},
	)

	tx := models.Transaction{ID: "TX-0002", Description: "monthly salaries"}
	result, err := fc.Classify(context.Background(), tx, models.ResolvedAccount{})
	require.NoError(t, err)

	assert.Equal(t, models.CategoryPersonnel, result.Category)
	assert.Equal(t, models.SourceModelMatch, result.Source)
	assert.Equal(t, 1, client.calls)
}

func TestFallbackModelFailureDegradesToUnclassified(t *testing.T) {
	client := &stubModelClient{err: errors.New("quota exceeded")}
	fc := NewFallbackClassifier(
		ruleStrategy(t),
		NewModelStrategy(client, time.Second, &logging.MockLogger{}),
		&logging.MockLogger{},
	)

	tx := models.Transaction{ID: "TX-0003", Description: "unmatched wire"}
	result, err := fc.Classify(context.Background(), tx, models.ResolvedAccount{})
	require.NoError(t, err, "a model outage must not fail the batch")

	assert.Equal(t, models.Unclassified(), result)
	assert.Equal(t, 1, client.calls)
}

func TestFallbackWithoutModel(t *testing.T) {
	fc := NewFallbackClassifier(ruleStrategy(t), nil, &logging.MockLogger{})

	tx := models.Transaction{ID: "TX-0004", Description: "unmatched wire"}
	result, err := fc.Classify(context.Background(), tx, models.ResolvedAccount{})
	require.NoError(t, err)
	assert.Equal(t, models.Unclassified(), result)
}

func TestAccountSummarySkipsFutureSegments(t *testing.T) {
	ra := models.ResolvedAccount{}
	for i, kind := range models.SegmentOrder() {
		ra.Segments[i] = models.ResolvedSegment{Kind: kind, Description: string(kind), Known: true}
	}

	summary := accountSummary(ra)
	assert.Contains(t, summary, "entity=entity")
	assert.Contains(t, summary, "gl_account=gl_account")
	assert.NotContains(t, summary, "future1")
	assert.NotContains(t, summary, "future2")
}
