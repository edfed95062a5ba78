package analyzer

import (
    "fmt"

    "moderator/internal/pkg/models"
    "moderator/internal/pkg/patterns"
)

// Looks for embedded contact details and exclamation floods. Each detected
// pattern type yields its own flag.
type suspiciousCheck struct{}

func (c *suspiciousCheck) Name() string { return "suspicious_patterns" }

func (c *suspiciousCheck) Run(in Input) []models.Flag {
    var flags []models.Flag

    if emails := patterns.EmailPattern.FindAllString(in.Content, -1); len(emails) > 0 {
        flags = append(flags, models.Flag{
            Type:       models.FlagSuspicious,
            Severity:   models.SeverityMedium,
            Confidence: 0.7,
            Penalty:    20,
            Reason:     fmt.Sprintf("embedded email address (%d found)", len(emails)),
        })
    }

    if phones := patterns.PhonePattern.FindAllString(in.Content, -1); len(phones) > 0 {
        flags = append(flags, models.Flag{
            Type:       models.FlagSuspicious,
            Severity:   models.SeverityMedium,
            Confidence: 0.7,
            Penalty:    20,
            Reason:     fmt.Sprintf("embedded phone number (%d found)", len(phones)),
        })
    }

    if patterns.ExclamationPattern.MatchString(in.Content) {
        flags = append(flags, models.Flag{
            Type:       models.FlagSuspicious,
            Severity:   models.SeverityLow,
            Confidence: 0.5,
            Penalty:    10,
            Reason:     "repeated exclamation marks",
        })
    }

    return flags
}

// Flags content carrying more URL-like substrings than the configured max.
type linksCheck struct {
    limits patterns.Limits
}

func (c *linksCheck) Name() string { return "links" }

func (c *linksCheck) Run(in Input) []models.Flag {
    count := len(patterns.URLPattern.FindAllString(in.Content, -1))
    if count <= c.limits.MaxLinks {
        return nil
    }

    return []models.Flag{{
        Type:       models.FlagLinks,
        Severity:   models.SeverityMedium,
        Confidence: 0.8,
        Penalty:    10 * (count - c.limits.MaxLinks),
        Reason:     fmt.Sprintf("too many links (%d, maximum %d)", count, c.limits.MaxLinks),
    }}
}

// Flags shouting: a majority-uppercase text. The minimum letter count guards
// against short all-caps acronyms.
type capsCheck struct {
    limits patterns.Limits
}

func (c *capsCheck) Name() string { return "caps" }

func (c *capsCheck) Run(in Input) []models.Flag {
    upper, letters := countLetters(in.Content)
    if letters <= c.limits.MinLettersForCaps {
        return nil
    }

    ratio := float64(upper) / float64(letters)
    if ratio <= c.limits.MaxCapsRatio {
        return nil
    }

    return []models.Flag{{
        Type:       models.FlagCaps,
        Severity:   models.SeverityLow,
        Confidence: 0.6,
        Penalty:    15,
        Reason:     fmt.Sprintf("excessive capitalization (%.0f%% of letters)", ratio*100),
    }}
}
