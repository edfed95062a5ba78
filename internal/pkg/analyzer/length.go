package analyzer

import (
    "fmt"
    "strings"

    "moderator/internal/pkg/models"
    "moderator/internal/pkg/patterns"
)

// Rejects content that is too short or too long after trimming. Empty input
// is not an error case: it degrades to a length flag and a low score.
type lengthCheck struct {
    limits patterns.Limits
}

func (c *lengthCheck) Name() string { return "length" }

func (c *lengthCheck) Run(in Input) []models.Flag {
    length := len([]rune(strings.TrimSpace(in.Content)))

    if length < c.limits.MinContentLength {
        return []models.Flag{{
            Type:       models.FlagLength,
            Severity:   models.SeverityCritical,
            Confidence: 1.0,
            Penalty:    50,
            Reason:     fmt.Sprintf("content too short (%d chars, minimum %d)", length, c.limits.MinContentLength),
        }}
    }

    if length > c.limits.MaxContentLength {
        return []models.Flag{{
            Type:       models.FlagLength,
            Severity:   models.SeverityCritical,
            Confidence: 1.0,
            Penalty:    50,
            Reason:     fmt.Sprintf("content too long (%d chars, maximum %d)", length, c.limits.MaxContentLength),
        }}
    }

    return nil
}
