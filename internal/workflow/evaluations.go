package workflow

import (
	"errors"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
)

var (
	ErrEvaluationLocked = errors.New("evaluations open once the project is completed")
	ErrNotTeamMember    = errors.New("only team members can evaluate or be evaluated")
	ErrSelfEvaluation   = errors.New("employees cannot evaluate themselves")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
)

// AnonymityMandated reports whether an evaluation must be anonymous: the
// evaluated role is management level and outranks the evaluator.
func AnonymityMandated(evaluatorRole, evaluatedRole domain.Role) bool {
	return evaluatedRole.IsManagement() && evaluatedRole.Rank() > evaluatorRole.Rank()
}

// CheckEvaluation validates that evaluatorID may rate evaluatedID on the project
func CheckEvaluation(p *domain.Project, evaluatorID, evaluatedID string, rating int) error {
	if p.Status != domain.ProjectStatusCompleted {
		return ErrEvaluationLocked
	}
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	if evaluatorID == evaluatedID {
		return ErrSelfEvaluation
	}
	if p.Member(evaluatorID) == nil || p.Member(evaluatedID) == nil {
		return ErrNotTeamMember
	}
	return nil
}
