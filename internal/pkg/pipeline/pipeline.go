package pipeline

import (
    "context"
    "time"

    "go.uber.org/zap"

    "moderator/internal/pkg/analyzer"
    "moderator/internal/pkg/audit"
    "moderator/internal/pkg/decision"
    "moderator/internal/pkg/logger"
    "moderator/internal/pkg/metrics"
    "moderator/internal/pkg/models"
    "moderator/internal/pkg/reputation"
    "moderator/internal/pkg/scoring"
    "moderator/internal/pkg/store"
)

// Runs the full moderation sequence for one comment: analyze, aggregate,
// decide against fresh author reputation, persist, refresh reputation, and
// emit an audit record.
type Pipeline struct {
    analyzer *analyzer.Analyzer
    tracker  *reputation.Tracker
    store    store.CommentStore
    recorder *audit.BulkRecorder // nil disables the audit trail
}

func New(an *analyzer.Analyzer, tracker *reputation.Tracker, commentStore store.CommentStore, recorder *audit.BulkRecorder) *Pipeline {
    return &Pipeline{
        analyzer: an,
        tracker:  tracker,
        store:    commentStore,
        recorder: recorder,
    }
}

// Scores content against the supplied author context and assigns an
// automatic disposition. Pure with respect to its inputs: identical content
// and context always produce an identical result.
func (p *Pipeline) Analyze(content string, author models.AuthorContext) models.AnalysisResult {
    start := time.Now()

    flags, details := p.analyzer.Analyze(content, author)
    score, confidence := scoring.Aggregate(flags)
    action := decision.Decide(score, flags, author)

    metrics.CommentsAnalyzed.Inc()
    metrics.AnalysisLatency.Observe(time.Since(start).Seconds())
    metrics.DecisionsTotal.WithLabelValues(string(action)).Inc()
    if action == models.ActionSpam {
        metrics.SpamDetected.Inc()
    }

    return models.AnalysisResult{
        Score:      score,
        Flags:      flags,
        AutoAction: action,
        Confidence: confidence,
        Details:    details,
    }
}

// Moderates a newly submitted comment and stores it with its disposition
// applied. The read-decide-persist sequence is serialized per author so two
// near-simultaneous submissions never share a stale reputation snapshot.
func (p *Pipeline) ModerateNew(ctx context.Context, comment models.Comment) (models.Comment, models.AnalysisResult, error) {
    unlock := p.tracker.LockAuthor(comment.Author.Email)
    defer unlock()

    result := p.Analyze(comment.Content, p.authorContext(ctx, comment.Author))

    comment.Status = StatusFor(result.AutoAction)
    comment.Moderation = ModerationFrom(result)
    if comment.CreatedAt.IsZero() {
        comment.CreatedAt = time.Now()
    }

    id, err := p.store.Insert(ctx, comment)
    if err != nil {
        return comment, result, err
    }
    comment.ID = id

    p.refreshReputation(ctx, comment.Author.Email)
    p.record(comment, result, false)

    return comment, result, nil
}

// Re-runs the pipeline over an already stored comment, persisting the fresh
// outcome. Used by batch reanalysis.
func (p *Pipeline) Reprocess(ctx context.Context, comment models.Comment) (models.Action, error) {
    unlock := p.tracker.LockAuthor(comment.Author.Email)
    defer unlock()

    result := p.Analyze(comment.Content, p.authorContext(ctx, comment.Author))

    err := p.store.UpdateModeration(ctx, comment.ID, StatusFor(result.AutoAction), ModerationFrom(result))
    if err != nil {
        return result.AutoAction, err
    }

    p.refreshReputation(ctx, comment.Author.Email)
    p.record(comment, result, true)

    return result.AutoAction, nil
}

// Builds the decision engine's view of the author from fresh counts. A
// failed lookup degrades to an empty history; a disposition must always be
// reached.
func (p *Pipeline) authorContext(ctx context.Context, author models.Author) models.AuthorContext {
    counts, err := p.tracker.Counts(ctx, author.Email)
    if err != nil {
        logger.Log.Warn("Author count lookup failed, deciding with empty history",
            zap.String("author", author.Email),
            zap.Error(err))
        counts = store.StatusCounts{}
    }

    return models.AuthorContext{
        TotalComments:    counts.Total,
        ApprovedComments: counts.Approved,
        RejectedComments: counts.Rejected,
        IsRegistered:     author.IsRegistered,
    }
}

func (p *Pipeline) refreshReputation(ctx context.Context, email string) {
    if _, err := p.tracker.Recompute(ctx, email); err != nil {
        logger.Log.Warn("Reputation recompute failed",
            zap.String("author", email),
            zap.Error(err))
    }
}

func (p *Pipeline) record(comment models.Comment, result models.AnalysisResult, batch bool) {
    if p.recorder == nil {
        return
    }

    flagTypes := make([]models.FlagType, 0, len(result.Flags))
    for _, flag := range result.Flags {
        flagTypes = append(flagTypes, flag.Type)
    }

    p.recorder.Add(&audit.Record{
        CommentID:   comment.ID,
        AuthorEmail: comment.Author.Email,
        Action:      result.AutoAction,
        Score:       result.Score,
        Confidence:  result.Confidence,
        FlagTypes:   flagTypes,
        Batch:       batch,
        RecordedAt:  time.Now(),
    })
}

// Maps a disposition to the stored comment status. Review leaves the comment
// pending for a human.
func StatusFor(action models.Action) models.Status {
    switch action {
    case models.ActionApprove:
        return models.StatusApproved
    case models.ActionReject:
        return models.StatusRejected
    case models.ActionSpam:
        return models.StatusSpam
    default:
        return models.StatusPending
    }
}

// Builds the moderation sub-record persisted on the comment. The rejection
// reason is the highest-severity flag's reason.
func ModerationFrom(result models.AnalysisResult) models.Moderation {
    mod := models.Moderation{
        AutoModerated:   true,
        ModerationScore: result.Score,
        Flags:           result.Flags,
        Confidence:      result.Confidence,
    }

    if result.AutoAction == models.ActionReject || result.AutoAction == models.ActionSpam {
        mod.RejectionReason = primaryReason(result.Flags)
    }
    return mod
}

var severityRank = map[models.Severity]int{
    models.SeverityLow:      1,
    models.SeverityMedium:   2,
    models.SeverityHigh:     3,
    models.SeverityCritical: 4,
}

func primaryReason(flags []models.Flag) string {
    reason := ""
    best := 0
    for _, flag := range flags {
        if rank := severityRank[flag.Severity]; rank > best {
            best = rank
            reason = flag.Reason
        }
    }
    return reason
}
