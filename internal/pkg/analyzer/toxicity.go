package analyzer

import (
    "fmt"

    "moderator/internal/pkg/models"
    "moderator/internal/pkg/patterns"
)

// Case-insensitive whole-word match against the banned word list.
type bannedWordsCheck struct {
    matcher *wordMatcher
}

func (c *bannedWordsCheck) Name() string { return "banned_words" }

func (c *bannedWordsCheck) Run(in Input) []models.Flag {
    count := c.matcher.countWhole(tokenize(in.Content))
    if count == 0 {
        return nil
    }

    return []models.Flag{{
        Type:       models.FlagOffensive,
        Severity:   models.SeverityHigh,
        Confidence: 0.9,
        Penalty:    20 * count,
        Reason:     fmt.Sprintf("%d banned words detected", count),
    }}
}

// Scores toxicity from prefix/whole-word matches against the toxic word list
// plus personal attack phrase patterns. Severity and penalty follow the
// accumulated score tiers.
type toxicityCheck struct {
    matcher *wordMatcher
    lib     *patterns.Library
}

func (c *toxicityCheck) Name() string { return "toxicity" }

func (c *toxicityCheck) Run(in Input) []models.Flag {
    words := c.matcher.countPrefix(tokenize(in.Content))

    attacks := 0
    for _, re := range c.lib.AttackPatterns() {
        if re.MatchString(in.Content) {
            attacks++
        }
    }

    score := float64(words)*0.2 + float64(attacks)*0.3
    if score == 0 {
        return nil
    }

    severity := models.SeverityLow
    penalty := 10
    switch {
    case score >= 0.6:
        severity = models.SeverityCritical
        penalty = 60
    case score >= 0.4:
        severity = models.SeverityHigh
        penalty = 40
    case score >= 0.2:
        severity = models.SeverityMedium
        penalty = 20
    }

    confidence := score
    if confidence > 1.0 {
        confidence = 1.0
    }

    return []models.Flag{{
        Type:       models.FlagToxic,
        Severity:   severity,
        Confidence: confidence,
        Penalty:    penalty,
        Reason:     fmt.Sprintf("toxic language detected (%d words, %d attack phrases)", words, attacks),
    }}
}
