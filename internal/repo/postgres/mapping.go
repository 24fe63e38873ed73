package postgres

import (
	"github.com/tiagocodinha/StagelinkApproval/internal/domain/enums"
	"github.com/tiagocodinha/StagelinkApproval/internal/domain/model"
)

func (r ContentItemRecord) Model() model.ContentItem {
	item := model.ContentItem{
		ID:            r.ID,
		Caption:       r.Caption,
		ContentType:   enums.ContentType(r.ContentType),
		MediaURL:      r.MediaURL,
		Status:        enums.ReviewStatus(r.Status),
		ScheduleDate:  r.ScheduleDate,
		AssignedTo:    r.AssignedTo,
		AssigneeEmail: r.AssigneeEmail,
		AssigneeName:  r.AssigneeName,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
		DecidedAt:     r.DecidedAt,
	}
	if r.MediaKind != nil {
		kind := enums.MediaKind(*r.MediaKind)
		item.MediaKind = &kind
	}
	return item
}

func ModelsFromRecords(records []ContentItemRecord) []model.ContentItem {
	items := make([]model.ContentItem, 0, len(records))
	for _, record := range records {
		items = append(items, record.Model())
	}
	return items
}

func (r ProfileRecord) Model() model.Profile {
	return model.Profile{
		ID:        r.ID,
		Email:     r.Email,
		FullName:  r.FullName,
		CreatedAt: r.CreatedAt,
	}
}
