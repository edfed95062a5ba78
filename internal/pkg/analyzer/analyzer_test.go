package analyzer

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"moderator/internal/pkg/logger"
	"moderator/internal/pkg/models"
	"moderator/internal/pkg/patterns"
)

func init() {
	logger.Log = zap.NewNop() // Set up a no-op logger to avoid nil pointer dereferences in tests.
}

func newTestAnalyzer() *Analyzer {
	return New(patterns.Default())
}

func flagsOfType(flags []models.Flag, t models.FlagType) []models.Flag {
	var out []models.Flag
	for _, f := range flags {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

// Clean conversational content should produce no flags.
func TestAnalyzeCleanContent(t *testing.T) {
	an := newTestAnalyzer()
	flags, details := an.Analyze("I really enjoyed this article, thanks for writing it.", models.AuthorContext{})
	if len(flags) != 0 {
		t.Errorf("Expected no flags for clean content, got %+v", flags)
	}
	if details.WordCount != 9 {
		t.Errorf("Expected word count 9, got %d", details.WordCount)
	}
}

// One-character content must degrade to a critical length flag, not an error.
func TestLengthCheckTooShort(t *testing.T) {
	an := newTestAnalyzer()
	flags, _ := an.Analyze("a", models.AuthorContext{})

	lengthFlags := flagsOfType(flags, models.FlagLength)
	if len(lengthFlags) != 1 {
		t.Fatalf("Expected exactly one length flag, got %d", len(lengthFlags))
	}
	f := lengthFlags[0]
	if f.Severity != models.SeverityCritical {
		t.Errorf("Expected critical severity, got %s", f.Severity)
	}
	if f.Penalty != 50 {
		t.Errorf("Expected penalty 50, got %d", f.Penalty)
	}
	if f.Confidence != 1.0 {
		t.Errorf("Expected confidence 1.0, got %f", f.Confidence)
	}
}

func TestLengthCheckTooLong(t *testing.T) {
	an := newTestAnalyzer()
	flags, _ := an.Analyze(strings.Repeat("word ", 1200), models.AuthorContext{})

	if len(flagsOfType(flags, models.FlagLength)) != 1 {
		t.Errorf("Expected a length flag for over-long content")
	}
}

// Whitespace-only content trims to empty and is treated as too short.
func TestLengthCheckWhitespaceOnly(t *testing.T) {
	an := newTestAnalyzer()
	flags, _ := an.Analyze("   \n\t  ", models.AuthorContext{})
	if len(flagsOfType(flags, models.FlagLength)) != 1 {
		t.Errorf("Expected a length flag for whitespace-only content")
	}
}

// Three matched spam phrases accumulate 0.9 and must produce a spam flag.
func TestSpamCheckPhrases(t *testing.T) {
	an := newTestAnalyzer()
	flags, _ := an.Analyze("buy now! click here! free money!!!", models.AuthorContext{})

	spamFlags := flagsOfType(flags, models.FlagSpam)
	if len(spamFlags) != 1 {
		t.Fatalf("Expected exactly one spam flag, got %d", len(spamFlags))
	}
	f := spamFlags[0]
	if f.Confidence < 0.5 {
		t.Errorf("Expected spam confidence >= 0.5, got %f", f.Confidence)
	}
	if f.Penalty != 80 {
		t.Errorf("Expected spam penalty 80, got %d", f.Penalty)
	}
}

// A single matched phrase scores 0.3, below the 0.5 flag threshold.
func TestSpamCheckBelowThreshold(t *testing.T) {
	an := newTestAnalyzer()
	flags, _ := an.Analyze("You should buy now while the offer lasts, it seemed decent to me.", models.AuthorContext{})
	if len(flagsOfType(flags, models.FlagSpam)) != 0 {
		t.Errorf("Expected no spam flag for a single weak signal")
	}
}

// Word repetition and special character floods combine with phrase matches.
func TestSpamCheckRepetitionAndSpecialChars(t *testing.T) {
	an := newTestAnalyzer()
	// One phrase (0.3) + repetition of "cheap" 6 times (0.2) = 0.5.
	content := "click here cheap cheap cheap cheap cheap cheap deals"
	flags, _ := an.Analyze(content, models.AuthorContext{})
	if len(flagsOfType(flags, models.FlagSpam)) != 1 {
		t.Errorf("Expected a spam flag from phrase + repetition, got %+v", flags)
	}
}

func TestBannedWordsCheck(t *testing.T) {
	an := newTestAnalyzer()
	flags, details := an.Analyze("this is complete shit and you know it, fuck this", models.AuthorContext{})

	offensive := flagsOfType(flags, models.FlagOffensive)
	if len(offensive) != 1 {
		t.Fatalf("Expected exactly one offensive flag, got %d", len(offensive))
	}
	if offensive[0].Penalty != 40 {
		t.Errorf("Expected penalty 40 for two banned words, got %d", offensive[0].Penalty)
	}
	if offensive[0].Confidence != 0.9 {
		t.Errorf("Expected confidence 0.9, got %f", offensive[0].Confidence)
	}
	if details.BannedWordCount != 2 {
		t.Errorf("Expected banned word count 2, got %d", details.BannedWordCount)
	}
}

// Banned word matching is whole-word: "class" must not match "ass" etc.
func TestBannedWordsWholeWordOnly(t *testing.T) {
	an := newTestAnalyzer()
	flags, _ := an.Analyze("the class assignment covers scattering theory", models.AuthorContext{})
	if len(flagsOfType(flags, models.FlagOffensive)) != 0 {
		t.Errorf("Expected no offensive flag for embedded substrings")
	}
}

func TestToxicityCheckTiers(t *testing.T) {
	an := newTestAnalyzer()

	cases := []struct {
		content  string
		severity models.Severity
		penalty  int
	}{
		// One toxic word: score 0.2.
		{"what a dumb take on this topic", models.SeverityMedium, 20},
		// Two toxic words: score 0.4.
		{"a dumb and pathetic argument", models.SeverityHigh, 40},
		// Attack phrase (0.3) + three toxic words (0.6) = 0.9.
		{"you are an idiot and your stupid post is garbage", models.SeverityCritical, 60},
	}

	for _, tc := range cases {
		flags, _ := an.Analyze(tc.content, models.AuthorContext{})
		toxic := flagsOfType(flags, models.FlagToxic)
		if len(toxic) != 1 {
			t.Errorf("Content %q: expected one toxic flag, got %d", tc.content, len(toxic))
			continue
		}
		if toxic[0].Severity != tc.severity {
			t.Errorf("Content %q: expected severity %s, got %s", tc.content, tc.severity, toxic[0].Severity)
		}
		if toxic[0].Penalty != tc.penalty {
			t.Errorf("Content %q: expected penalty %d, got %d", tc.content, tc.penalty, toxic[0].Penalty)
		}
	}
}

func TestSuspiciousPatterns(t *testing.T) {
	an := newTestAnalyzer()
	flags, _ := an.Analyze("contact me at promo@deals.example or call 555-123-4567 now!!!", models.AuthorContext{})

	suspicious := flagsOfType(flags, models.FlagSuspicious)
	if len(suspicious) != 3 {
		t.Fatalf("Expected email, phone and exclamation flags, got %d: %+v", len(suspicious), suspicious)
	}
}

func TestLinksCheck(t *testing.T) {
	an := newTestAnalyzer()
	content := "see https://a.example https://b.example https://c.example https://d.example"
	flags, details := an.Analyze(content, models.AuthorContext{})

	links := flagsOfType(flags, models.FlagLinks)
	if len(links) != 1 {
		t.Fatalf("Expected one links flag, got %d", len(links))
	}
	// 4 links, max 2: penalty 10 * 2.
	if links[0].Penalty != 20 {
		t.Errorf("Expected penalty 20, got %d", links[0].Penalty)
	}
	if details.LinkCount != 4 {
		t.Errorf("Expected link count 4, got %d", details.LinkCount)
	}

	// Two links are within the limit.
	flags, _ = an.Analyze("see https://a.example and https://b.example", models.AuthorContext{})
	if len(flagsOfType(flags, models.FlagLinks)) != 0 {
		t.Errorf("Expected no links flag at the limit")
	}
}

func TestCapsCheck(t *testing.T) {
	an := newTestAnalyzer()

	flags, _ := an.Analyze("THIS IS ABSOLUTELY UNACCEPTABLE AND EVERYONE SHOULD KNOW", models.AuthorContext{})
	if len(flagsOfType(flags, models.FlagCaps)) != 1 {
		t.Errorf("Expected a caps flag for shouted content")
	}

	// Short all-caps acronyms are guarded by the minimum letter count.
	flags, _ = an.Analyze("FYI ASAP", models.AuthorContext{})
	if len(flagsOfType(flags, models.FlagCaps)) != 0 {
		t.Errorf("Expected no caps flag for short acronyms")
	}
}

// Identical input must always produce an identical flag set and details.
func TestAnalyzeIsDeterministic(t *testing.T) {
	an := newTestAnalyzer()
	content := "you are an idiot, buy now at https://spam.example!!!"
	author := models.AuthorContext{TotalComments: 5, ApprovedComments: 4}

	flags1, details1 := an.Analyze(content, author)
	flags2, details2 := an.Analyze(content, author)

	if !reflect.DeepEqual(flags1, flags2) {
		t.Errorf("Flag sets differ between runs:\n%+v\n%+v", flags1, flags2)
	}
	if !reflect.DeepEqual(details1, details2) {
		t.Errorf("Details differ between runs:\n%+v\n%+v", details1, details2)
	}
}

// One analyzer is shared by the worker pool and the synchronous HTTP path;
// simultaneous calls must still all produce the serial result. Run with the
// race detector enabled.
func TestAnalyzeConcurrentMatchesSerial(t *testing.T) {
	an := newTestAnalyzer()
	content := "you are an idiot, this garbage is shit, buy now at https://spam.example!!!"
	author := models.AuthorContext{}

	wantFlags, wantDetails := an.Analyze(content, author)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				flags, details := an.Analyze(content, author)
				if !reflect.DeepEqual(flags, wantFlags) {
					t.Errorf("Concurrent flag set differs from serial:\n%+v\n%+v", flags, wantFlags)
					return
				}
				if !reflect.DeepEqual(details, wantDetails) {
					t.Errorf("Concurrent details differ from serial:\n%+v\n%+v", details, wantDetails)
					return
				}
			}
		}()
	}
	wg.Wait()
}

type panickyCheck struct{}

func (c *panickyCheck) Name() string { return "panicky" }

func (c *panickyCheck) Run(in Input) []models.Flag {
	panic("check blew up")
}

// A failing check contributes no flags; the rest of the pipeline continues.
func TestAnalyzeSurvivesCheckFailure(t *testing.T) {
	an := newTestAnalyzer()
	an.checks = append([]Check{&panickyCheck{}}, an.checks...)

	flags, _ := an.Analyze("a", models.AuthorContext{})
	if len(flagsOfType(flags, models.FlagLength)) != 1 {
		t.Errorf("Expected remaining checks to run after a check failure")
	}
}
