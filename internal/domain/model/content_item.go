package model

import (
	"time"

	"github.com/tiagocodinha/StagelinkApproval/internal/domain/enums"
)

// ContentItem is a proposed social-media post awaiting or having received
// a review decision.
type ContentItem struct {
	ID            string             `json:"id"`
	Caption       string             `json:"caption"`
	ContentType   enums.ContentType  `json:"content_type"`
	MediaURL      *string            `json:"media_url,omitempty"`
	MediaKind     *enums.MediaKind   `json:"media_kind,omitempty"`
	Status        enums.ReviewStatus `json:"status"`
	ScheduleDate  time.Time          `json:"schedule_date"`
	AssignedTo    int64              `json:"assigned_to"`
	AssigneeEmail string             `json:"assignee_email"`
	AssigneeName  string             `json:"assignee_name"`
	CreatedBy     int64              `json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
	DecidedAt     *time.Time         `json:"decided_at,omitempty"`
}
