package dto

import (
	"time"

	"github.com/tiagocodinha/StagelinkApproval/internal/domain/model"
)

const scheduleDateLayout = "2006-01-02"

type CreateContentRequest struct {
	Caption      string  `json:"caption"`
	ContentType  string  `json:"content_type"`
	MediaURL     *string `json:"media_url,omitempty"`
	MediaKind    *string `json:"media_kind,omitempty"`
	ScheduleDate string  `json:"schedule_date"`
	AssignedTo   int64   `json:"assigned_to"`
}

func (r CreateContentRequest) ParseScheduleDate() (time.Time, error) {
	return time.Parse(scheduleDateLayout, r.ScheduleDate)
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ContentItemResponse struct {
	ID            string     `json:"id"`
	Caption       string     `json:"caption"`
	ContentType   string     `json:"content_type"`
	MediaURL      *string    `json:"media_url,omitempty"`
	MediaKind     *string    `json:"media_kind,omitempty"`
	Status        string     `json:"status"`
	ScheduleDate  string     `json:"schedule_date"`
	AssignedTo    int64      `json:"assigned_to"`
	AssigneeEmail string     `json:"assignee_email"`
	AssigneeName  string     `json:"assignee_name"`
	CreatedAt     time.Time  `json:"created_at"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
}

func ContentItemFromModel(item model.ContentItem) ContentItemResponse {
	resp := ContentItemResponse{
		ID:            item.ID,
		Caption:       item.Caption,
		ContentType:   string(item.ContentType),
		MediaURL:      item.MediaURL,
		Status:        string(item.Status),
		ScheduleDate:  item.ScheduleDate.Format(scheduleDateLayout),
		AssignedTo:    item.AssignedTo,
		AssigneeEmail: item.AssigneeEmail,
		AssigneeName:  item.AssigneeName,
		CreatedAt:     item.CreatedAt,
		DecidedAt:     item.DecidedAt,
	}
	if item.MediaKind != nil {
		kind := string(*item.MediaKind)
		resp.MediaKind = &kind
	}
	return resp
}

func ContentItemsFromModels(items []model.ContentItem) []ContentItemResponse {
	out := make([]ContentItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ContentItemFromModel(item))
	}
	return out
}

type ContentListResponse struct {
	Pending []ContentItemResponse `json:"pending"`
	Decided []ContentItemResponse `json:"decided"`
}
