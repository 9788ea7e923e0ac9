package models

// ApprovalLevel is the tier of sign-off a document requires.
type ApprovalLevel string

const (
	ApprovalStandard  ApprovalLevel = "Standard"
	ApprovalHigh      ApprovalLevel = "High"
	ApprovalExecutive ApprovalLevel = "Executive"
)

// Approver role names used in default chains.
const (
	RoleDepartmentHead    = "Department Head"
	RoleFinanceDirector   = "Finance Director"
	RoleExecutive         = "Executive"
	RoleFinanceProcessing = "Finance Processing"
)

// ApprovalChain is the ordered list of approver roles for one level.
// It is derived purely from (category, amount); there is no persisted
// workflow state in this pipeline.
type ApprovalChain struct {
	Level ApprovalLevel
	Steps []string
}

// RequiresEscalation reports whether the chain goes beyond standard
// departmental sign-off.
func (c ApprovalChain) RequiresEscalation() bool {
	return c.Level != ApprovalStandard
}
