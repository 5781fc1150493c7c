package domain

import "time"

// ApprovalRecord is the per-user mint gate. At most one exists per user,
// created lazily on the first approval decision.
//
// Invariant: Claimed implies Approved. The Claimed flag is only ever set by
// the mint processor, atomically with the MintRecord insert.
type ApprovalRecord struct {
	UserID     uint       `json:"user_id"`
	Approved   bool       `json:"approved"`
	Claimed    bool       `json:"claimed"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ApprovedBy *uint      `json:"approved_by,omitempty"`
	ClaimedAt  *time.Time `json:"claimed_at,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// AuditAction enumerates the append-only approval audit trail entries.
type AuditAction string

const (
	AuditApproved      AuditAction = "approved"
	AuditRevoked       AuditAction = "revoked"
	AuditClaimed       AuditAction = "claimed"
	AuditControlChange AuditAction = "control_changed"
)

// AuditDetail is a tagged union over the known audit payloads. Unknown or
// free-form data goes into Extra rather than an untyped blob so consumers can
// switch on Kind exhaustively.
type AuditDetail struct {
	Kind    AuditAction       `json:"kind"`
	Reason  string            `json:"reason,omitempty"`
	Amount  int64             `json:"amount,omitempty"`
	Enabled *bool             `json:"enabled,omitempty"`
	Extra   map[string]string `json:"extra,omitempty"`
}

type AuditEntry struct {
	ID        uint        `json:"id"`
	UserID    uint        `json:"user_id"`
	ActorID   uint        `json:"actor_id"`
	Action    AuditAction `json:"action"`
	Detail    AuditDetail `json:"detail"`
	CreatedAt time.Time   `json:"created_at"`
}
