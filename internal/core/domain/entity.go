package domain

import "time"

// Audit carries the identity and bookkeeping fields shared by every
// persisted entity. Entities embed it rather than inheriting behaviour.
type Audit struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	ModifiedAt time.Time `json:"modified_at" bson:"modified_at"`
	Deleted    bool      `json:"-" bson:"deleted"`
}

// NewAudit initialises the bookkeeping fields for a freshly created entity.
// The ID is assigned by the repository on insert.
func NewAudit() Audit {
	now := time.Now().UTC()
	return Audit{CreatedAt: now, ModifiedAt: now}
}

// Touch records a modification.
func (a *Audit) Touch() {
	a.ModifiedAt = time.Now().UTC()
}

// MarkDeleted soft-deletes the entity. Rows are never physically removed
// while referenced.
func (a *Audit) MarkDeleted() {
	a.Deleted = true
	a.Touch()
}
