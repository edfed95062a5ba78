package patterns

import (
    "fmt"
    "regexp"

    "github.com/spf13/viper"
)

// Compiled regex patterns shared by the analyzer checks.
// These are compiled once at package init and reused for every call,
// making them safe for concurrent use.
var (
    // EmailPattern matches embedded email addresses.
    EmailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

    // PhonePattern matches common phone number formats such as
    // +1-555-123-4567, (555) 123-4567 and 555.123.4567.
    PhonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

    // URLPattern matches http/https URLs and www. prefixed hosts.
    URLPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+)`)

    // ExclamationPattern matches runs of 3 or more exclamation marks.
    ExclamationPattern = regexp.MustCompile(`!{3,}`)
)

// Numeric thresholds used by the analyzer checks.
type Limits struct {
    MinContentLength  int     `mapstructure:"min_content_length"`
    MaxContentLength  int     `mapstructure:"max_content_length"`
    MaxLinks          int     `mapstructure:"max_links"`
    SpecialCharLimit  int     `mapstructure:"special_char_limit"`
    WordRepeatLimit   int     `mapstructure:"word_repeat_limit"`
    MaxCapsRatio      float64 `mapstructure:"max_caps_ratio"`
    MinLettersForCaps int     `mapstructure:"min_letters_for_caps"`
}

// The static pattern configuration driving the analyzer. Lists can be
// overridden from a YAML file so tuning does not require a rebuild; matching
// semantics (whole-word vs prefix vs regex) are fixed per check.
type Library struct {
    BannedWords   []string `mapstructure:"banned_words"`
    ToxicWords    []string `mapstructure:"toxic_words"`
    SpamPhrases   []string `mapstructure:"spam_phrases"`   // regex sources
    AttackPhrases []string `mapstructure:"attack_phrases"` // regex sources
    SpecialChars  string   `mapstructure:"special_chars"`
    Limits        Limits   `mapstructure:"limits"`

    spamPatterns   []*regexp.Regexp
    attackPatterns []*regexp.Regexp
}

// Returns the built-in pattern library, compiled and ready to use.
func Default() *Library {
    lib := defaultLibrary()
    // Built-in patterns are known-good; compile cannot fail here.
    if err := lib.compile(); err != nil {
        panic(fmt.Sprintf("default pattern library invalid: %v", err))
    }
    return lib
}

// Loads the pattern library, applying overrides from the given YAML file on
// top of the built-in defaults. An empty path returns the defaults.
func Load(path string) (*Library, error) {
    lib := defaultLibrary()
    if path != "" {
        v := viper.New()
        v.SetConfigFile(path)
        if err := v.ReadInConfig(); err != nil {
            return nil, fmt.Errorf("failed to read patterns file: %w", err)
        }
        if err := v.Unmarshal(lib); err != nil {
            return nil, fmt.Errorf("failed to unmarshal patterns file: %w", err)
        }
    }
    if err := lib.compile(); err != nil {
        return nil, err
    }
    return lib, nil
}

// Compiled spam phrase patterns.
func (lib *Library) SpamPatterns() []*regexp.Regexp {
    return lib.spamPatterns
}

// Compiled personal attack phrase patterns.
func (lib *Library) AttackPatterns() []*regexp.Regexp {
    return lib.attackPatterns
}

func (lib *Library) compile() error {
    lib.spamPatterns = make([]*regexp.Regexp, 0, len(lib.SpamPhrases))
    for _, src := range lib.SpamPhrases {
        re, err := regexp.Compile(src)
        if err != nil {
            return fmt.Errorf("invalid spam phrase pattern %q: %w", src, err)
        }
        lib.spamPatterns = append(lib.spamPatterns, re)
    }

    lib.attackPatterns = make([]*regexp.Regexp, 0, len(lib.AttackPhrases))
    for _, src := range lib.AttackPhrases {
        re, err := regexp.Compile(src)
        if err != nil {
            return fmt.Errorf("invalid attack phrase pattern %q: %w", src, err)
        }
        lib.attackPatterns = append(lib.attackPatterns, re)
    }

    return nil
}

func defaultLibrary() *Library {
    return &Library{
        BannedWords: []string{
            "fuck", "shit", "asshole", "bitch", "bastard",
            "cunt", "dickhead", "slut", "whore",
            "nigger", "faggot", "retard",
        },
        ToxicWords: []string{
            "idiot", "stupid", "moron", "dumb", "loser",
            "pathetic", "worthless", "disgusting", "garbage",
            "trash", "scum", "clown",
        },
        SpamPhrases: []string{
            `(?i)buy now`,
            `(?i)click here`,
            `(?i)free money`,
            `(?i)limited time offer`,
            `(?i)act now`,
            `(?i)make money fast`,
            `(?i)work from home`,
            `(?i)100% free`,
            `(?i)no credit check`,
            `(?i)you have won`,
            `(?i)claim your (prize|reward)`,
            `(?i)earn \$\d+`,
            `(?i)double your (money|income)`,
            `(?i)risk[- ]free`,
            `(?i)online casino`,
            `(?i)cheap (viagra|cialis|pills)`,
        },
        AttackPhrases: []string{
            `(?i)you('re| are) (an? )?(idiot|stupid|moron|loser|pathetic|worthless|clown)`,
            `(?i)shut up`,
            `(?i)nobody (cares|asked)`,
            `(?i)go to hell`,
            `(?i)kill yourself`,
        },
        SpecialChars: "!?$€£¥@#%&*",
        Limits: Limits{
            MinContentLength:  2,
            MaxContentLength:  5000,
            MaxLinks:          2,
            SpecialCharLimit:  10,
            WordRepeatLimit:   5,
            MaxCapsRatio:      0.5,
            MinLettersForCaps: 20,
        },
    }
}
