package models

// Category is the business category assigned to a classified transaction.
type Category string

// The fixed category domain. Model output outside this set is treated
// as a classification failure, not a new category.
const (
	CategoryOperating          Category = "Operating"
	CategoryCapital            Category = "Capital"
	CategoryVendor             Category = "Vendor"
	CategoryPersonnel          Category = "Personnel"
	CategoryAdministrative     Category = "Administrative"
	CategoryInterest           Category = "Interest"
	CategoryPrincipalRepayment Category = "Principal Repayment"
	CategoryOther              Category = "Other"
)

// ValidCategory reports whether s is a member of the category domain.
func ValidCategory(s string) bool {
	switch Category(s) {
	case CategoryOperating, CategoryCapital, CategoryVendor, CategoryPersonnel,
		CategoryAdministrative, CategoryInterest, CategoryPrincipalRepayment, CategoryOther:
		return true
	}
	return false
}

// MatchSource records how a classification was produced.
type MatchSource string

const (
	SourceRuleMatch    MatchSource = "rule_match"
	SourceModelMatch   MatchSource = "model_match"
	SourceUnclassified MatchSource = "unclassified"
)

// RiskLevel grades a classified transaction for review routing.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ClassificationResult is the immutable outcome of classifying one
// transaction. RuleID is empty unless Source is SourceRuleMatch.
type ClassificationResult struct {
	Category    Category
	Subcategory string
	Source      MatchSource
	RuleID      string
	Risk        RiskLevel
}

// IsClassified reports whether any strategy produced a category.
func (r ClassificationResult) IsClassified() bool {
	return r.Source != SourceUnclassified
}

// Unclassified is the result used when no rule matched and the model
// fallback was unavailable, disabled, or out of domain.
func Unclassified() ClassificationResult {
	return ClassificationResult{
		Category:    CategoryOther,
		Subcategory: "Unclassified",
		Source:      SourceUnclassified,
		Risk:        RiskMedium,
	}
}
