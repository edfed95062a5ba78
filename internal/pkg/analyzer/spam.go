package analyzer

import (
    "fmt"
    "strings"

    "moderator/internal/pkg/models"
    "moderator/internal/pkg/patterns"
)

// Accumulates an internal 0.0-1.0 spam score from three signals: matched
// spam phrases, excessive repetition of a single word, and an excess of
// special characters. Emits one spam flag when the score reaches 0.5.
type spamCheck struct {
    lib *patterns.Library
}

func (c *spamCheck) Name() string { return "spam" }

func (c *spamCheck) Run(in Input) []models.Flag {
    score := 0.0
    var signals []string

    matched := 0
    for _, re := range c.lib.SpamPatterns() {
        if re.MatchString(in.Content) {
            matched++
            score += 0.3
        }
    }
    if matched > 0 {
        signals = append(signals, fmt.Sprintf("%d spam phrases", matched))
    }

    if c.hasExcessiveRepetition(in.Content) {
        score += 0.2
        signals = append(signals, "excessive word repetition")
    }

    if c.countSpecialChars(in.Content) > c.lib.Limits.SpecialCharLimit {
        score += 0.2
        signals = append(signals, "excessive special characters")
    }

    if score > 1.0 {
        score = 1.0
    }
    if score < 0.5 {
        return nil
    }

    return []models.Flag{{
        Type:       models.FlagSpam,
        Severity:   models.SeverityHigh,
        Confidence: score,
        Penalty:    80,
        Reason:     "spam signals: " + strings.Join(signals, ", "),
    }}
}

// True when any single word longer than 3 characters occurs more than the
// configured repeat limit.
func (c *spamCheck) hasExcessiveRepetition(content string) bool {
    counts := make(map[string]int)
    for _, tok := range tokenize(content) {
        if len(tok) <= 3 {
            continue
        }
        counts[tok]++
        if counts[tok] > c.lib.Limits.WordRepeatLimit {
            return true
        }
    }
    return false
}

func (c *spamCheck) countSpecialChars(content string) int {
    count := 0
    for _, r := range content {
        if strings.ContainsRune(c.lib.SpecialChars, r) {
            count++
        }
    }
    return count
}
