package models

import "time"

// Lifecycle states of a submitted comment. Hidden is reachable only through
// the external report-resolution flow; the engine itself never sets it.
type Status string

const (
    StatusPending  Status = "pending"
    StatusApproved Status = "approved"
    StatusRejected Status = "rejected"
    StatusSpam     Status = "spam"
    StatusHidden   Status = "hidden"
)

// The identity attached to a submission. Authors are keyed by email.
type Author struct {
    Email        string `json:"email"`
    DisplayName  string `json:"display_name"`
    IsRegistered bool   `json:"is_registered"`
}

// Moderation state carried by a comment.
type Moderation struct {
    AutoModerated   bool    `json:"auto_moderated"`
    ModerationScore int     `json:"moderation_score"` // 0-100, 100 = clean
    Flags           []Flag  `json:"flags,omitempty"`
    RejectionReason string  `json:"rejection_reason,omitempty"`
    Notes           string  `json:"notes,omitempty"`
    Confidence      float64 `json:"confidence"`
}

// A user-submitted comment as stored in the document store.
type Comment struct {
    ID         string     `json:"id"`
    Content    string     `json:"content"`
    Author     Author     `json:"author"`
    Status     Status     `json:"status"`
    Moderation Moderation `json:"moderation"`
    CreatedAt  time.Time  `json:"created_at"`
    ApprovedAt *time.Time `json:"approved_at,omitempty"`
    RejectedAt *time.Time `json:"rejected_at,omitempty"`
}
