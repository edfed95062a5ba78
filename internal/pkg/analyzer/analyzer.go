package analyzer

import (
    "strings"

    "go.uber.org/zap"

    "moderator/internal/pkg/logger"
    "moderator/internal/pkg/metrics"
    "moderator/internal/pkg/models"
    "moderator/internal/pkg/patterns"
)

// The raw material a check operates on. Checks never mutate it.
type Input struct {
    Content string
    Author  models.AuthorContext
}

// One independent moderation check. A check may emit zero or more flags.
// Checks share no mutable state, so the set can be reconfigured without
// touching the aggregator.
type Check interface {
    Name() string
    Run(in Input) []models.Flag
}

// Runs the configured checks over submitted content and collects their flags.
type Analyzer struct {
    checks []Check
    lib    *patterns.Library
    banned *wordMatcher
    toxic  *wordMatcher
}

// Creates an Analyzer with the standard check set, in the standard order.
// Length runs first but does not short-circuit the rest.
func New(lib *patterns.Library) *Analyzer {
    banned := newWordMatcher(lib.BannedWords)
    toxic := newWordMatcher(lib.ToxicWords)

    return &Analyzer{
        lib:    lib,
        banned: banned,
        toxic:  toxic,
        checks: []Check{
            &lengthCheck{limits: lib.Limits},
            &spamCheck{lib: lib},
            &bannedWordsCheck{matcher: banned},
            &toxicityCheck{matcher: toxic, lib: lib},
            &suspiciousCheck{},
            &linksCheck{limits: lib.Limits},
            &capsCheck{limits: lib.Limits},
        },
    }
}

// Runs every check over the content and returns the combined flag list plus
// raw counts for audit. Deterministic for identical input: no clock, no
// randomness, no state outside the pattern library.
func (a *Analyzer) Analyze(content string, author models.AuthorContext) ([]models.Flag, models.AnalysisDetails) {
    in := Input{Content: content, Author: author}

    var flags []models.Flag
    for _, check := range a.checks {
        flags = append(flags, a.runCheck(check, in)...)
    }

    return flags, a.details(content)
}

// Executes a single check, isolating failures. A check that panics produces
// no flags; the pipeline must always reach a disposition.
func (a *Analyzer) runCheck(check Check, in Input) (flags []models.Flag) {
    defer func() {
        if r := recover(); r != nil {
            metrics.CheckFailures.WithLabelValues(check.Name()).Inc()
            logger.Log.Warn("Analyzer check failed, continuing without its flags",
                zap.String("check", check.Name()),
                zap.Any("panic", r))
            flags = nil
        }
    }()
    return check.Run(in)
}

func (a *Analyzer) details(content string) models.AnalysisDetails {
    tokens := tokenize(content)
    upper, letters := countLetters(content)

    capsPercent := 0.0
    if letters > 0 {
        capsPercent = float64(upper) / float64(letters) * 100
    }

    return models.AnalysisDetails{
        WordCount:       len(strings.Fields(content)),
        CharCount:       len([]rune(content)),
        LinkCount:       len(patterns.URLPattern.FindAllString(content, -1)),
        CapsPercent:     capsPercent,
        BannedWordCount: a.banned.countWhole(tokens),
        ToxicWordCount:  a.toxic.countPrefix(tokens),
    }
}
