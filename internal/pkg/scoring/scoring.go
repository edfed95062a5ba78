package scoring

import "moderator/internal/pkg/models"

// Confidence reported for content that produced no flags at all.
const cleanConfidence = 0.9

// Combines a flag list into a single 0-100 moderation score (100 = clean)
// and a confidence value. The score is 100 minus the summed penalties,
// floored at zero. Confidence is the arithmetic mean of the flag confidences,
// or 0.9 when no flags were produced.
func Aggregate(flags []models.Flag) (score int, confidence float64) {
    if len(flags) == 0 {
        return 100, cleanConfidence
    }

    penalty := 0
    total := 0.0
    for _, flag := range flags {
        penalty += flag.Penalty
        total += flag.Confidence
    }

    score = 100 - penalty
    if score < 0 {
        score = 0
    }

    return score, total / float64(len(flags))
}
