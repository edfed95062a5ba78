package models

// Categories of moderation concerns a check can raise.
type FlagType string

const (
    FlagLength     FlagType = "length"
    FlagSpam       FlagType = "spam"
    FlagOffensive  FlagType = "offensive"
    FlagToxic      FlagType = "toxic"
    FlagSuspicious FlagType = "suspicious"
    FlagLinks      FlagType = "links"
    FlagCaps       FlagType = "caps"
)

type Severity string

const (
    SeverityLow      Severity = "low"
    SeverityMedium   Severity = "medium"
    SeverityHigh     Severity = "high"
    SeverityCritical Severity = "critical"
)

// One detected moderation concern. Flags are immutable once produced for a
// given analysis run; a re-analysis produces a fresh flag set.
type Flag struct {
    Type       FlagType `json:"type"`
    Severity   Severity `json:"severity"`
    Confidence float64  `json:"confidence"` // 0.0-1.0
    Reason     string   `json:"reason"`
    Penalty    int      `json:"penalty"`
}

// Automatic disposition assigned by the decision engine.
type Action string

const (
    ActionApprove Action = "approve"
    ActionReject  Action = "reject"
    ActionSpam    Action = "spam"
    ActionReview  Action = "review"
)

// Historical counts for an author, as supplied by the caller alongside new
// content. The decision engine evaluates its reputation rules on these.
type AuthorContext struct {
    TotalComments    int  `json:"total_comments"`
    ApprovedComments int  `json:"approved_comments"`
    RejectedComments int  `json:"rejected_comments"`
    IsRegistered     bool `json:"is_registered"`
}

// Derived trust metric for an author, recomputed on demand from the aggregate
// of their stored comments.
type AuthorReputation struct {
    TotalComments    int `json:"total_comments"`
    ApprovedComments int `json:"approved_comments"`
    RejectedComments int `json:"rejected_comments"`
    SpamComments     int `json:"spam_comments"`
    Score            int `json:"score"` // 0-100
}

// Raw counts gathered during analysis. Kept for audit and testing, never used
// to re-derive the decision.
type AnalysisDetails struct {
    WordCount       int     `json:"word_count"`
    CharCount       int     `json:"char_count"`
    LinkCount       int     `json:"link_count"`
    CapsPercent     float64 `json:"caps_percent"`
    BannedWordCount int     `json:"banned_word_count"`
    ToxicWordCount  int     `json:"toxic_word_count"`
}

// The outcome of one full analysis pass over a comment. Ephemeral, not
// persisted as its own entity.
type AnalysisResult struct {
    Score      int             `json:"score"` // 0-100, 100 = clean
    Flags      []Flag          `json:"flags"`
    AutoAction Action          `json:"auto_action"`
    Confidence float64         `json:"confidence"`
    Details    AnalysisDetails `json:"details"`
}

// Aggregate counts returned by a batch reanalysis run.
type BatchResult struct {
    Processed    int `json:"processed"`
    Approved     int `json:"approved"`
    Rejected     int `json:"rejected"`
    Spam         int `json:"spam"`
    StillPending int `json:"still_pending"`
    Errors       int `json:"errors"`
}
