package decision

import "moderator/internal/pkg/models"

// Approval rate assumed for an author with no history. Applies only here;
// the reputation tracker's stored score stays 0 for first-time authors.
const neutralApprovalRate = 0.5

// Maps an analysis outcome and the author's standing to one of the four
// dispositions. The rules form a fixed priority table: the first match wins,
// so the hard spam/reject rules always short-circuit the registered-user
// fast path.
func Decide(score int, flags []models.Flag, author models.AuthorContext) models.Action {
    // Rule 1: confident spam beats everything, including good reputation.
    for _, flag := range flags {
        if flag.Type == models.FlagSpam && flag.Confidence > 0.7 {
            return models.ActionSpam
        }
    }

    // Rule 2: stacked critical violations.
    if countCritical(flags) >= 2 {
        return models.ActionReject
    }

    // Rules 3-4: score floors.
    if score < 30 {
        return models.ActionReject
    }
    if score < 60 {
        return models.ActionReview
    }

    rate := approvalRate(author)
    hasCritical := countCritical(flags) > 0

    // Rule 5: registered-user fast path.
    if author.IsRegistered && score >= 70 && !hasCritical {
        return models.ActionApprove
    }

    // Rule 6: strong score with a reliable history.
    if score >= 80 && rate >= 0.8 && !hasCritical {
        return models.ActionApprove
    }

    // Rule 7: decent score with a long, near-perfect history.
    if score >= 70 && rate >= 0.9 && author.TotalComments >= 10 {
        return models.ActionApprove
    }

    return models.ActionReview
}

func approvalRate(author models.AuthorContext) float64 {
    if author.TotalComments == 0 {
        return neutralApprovalRate
    }
    return float64(author.ApprovedComments) / float64(author.TotalComments)
}

func countCritical(flags []models.Flag) int {
    count := 0
    for _, flag := range flags {
        if flag.Severity == models.SeverityCritical {
            count++
        }
    }
    return count
}
