package rules

import (
	"sort"

	"github.com/tiagocodinha/StagelinkApproval/internal/domain/enums"
	"github.com/tiagocodinha/StagelinkApproval/internal/domain/model"
)

// monthKeyLayout produces sortable YYYY-MM bucket keys.
const (
	monthKeyLayout = "2006-01"
	dateKeyLayout  = "2006-01-02"
)

// GroupByClientThenMonth buckets items by assignee email, then by the
// calendar year-month of their creation time. Items keep their input
// order inside each bucket, so a newest-first input stays newest-first.
// Total over empty input.
func GroupByClientThenMonth(items []model.ContentItem) map[string]map[string][]model.ContentItem {
	grouped := make(map[string]map[string][]model.ContentItem)
	for _, item := range items {
		months, ok := grouped[item.AssigneeEmail]
		if !ok {
			months = make(map[string][]model.ContentItem)
			grouped[item.AssigneeEmail] = months
		}
		key := item.CreatedAt.Format(monthKeyLayout)
		months[key] = append(months[key], item)
	}
	return grouped
}

// ClientKeys returns the client-level keys of a folder grouping in
// ascending lexicographic order, the order the admin folder view
// enumerates them.
func ClientKeys(grouped map[string]map[string][]model.ContentItem) []string {
	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// MonthKeys returns the month keys of one client's folders most recent
// first. Keys are YYYY-MM, so lexicographic descending equals
// chronological descending.
func MonthKeys(months map[string][]model.ContentItem) []string {
	keys := make([]string, 0, len(months))
	for key := range months {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}

// PartitionByStatus splits items into pending and everything else,
// preserving relative order within each partition.
func PartitionByStatus(items []model.ContentItem) (pending, other []model.ContentItem) {
	for _, item := range items {
		if item.Status == enums.StatusPending {
			pending = append(pending, item)
		} else {
			other = append(other, item)
		}
	}
	return pending, other
}

// FilterByTypeAndClient applies the two list-view filters conjunctively.
// "all" (or empty) passes everything for either filter.
func FilterByTypeAndClient(items []model.ContentItem, typeFilter, clientFilter string) []model.ContentItem {
	filtered := make([]model.ContentItem, 0, len(items))
	for _, item := range items {
		if !passesAll(typeFilter, string(item.ContentType)) {
			continue
		}
		if !passesAll(clientFilter, item.AssigneeEmail) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func passesAll(filter, value string) bool {
	return filter == "" || filter == "all" || filter == value
}

// GroupByContentType buckets items over the fixed type enumeration,
// preserving input order per type. Used for the approved-only grid view.
func GroupByContentType(items []model.ContentItem) map[enums.ContentType][]model.ContentItem {
	grouped := make(map[enums.ContentType][]model.ContentItem, len(enums.ContentTypes()))
	for _, t := range enums.ContentTypes() {
		grouped[t] = nil
	}
	for _, item := range items {
		grouped[item.ContentType] = append(grouped[item.ContentType], item)
	}
	return grouped
}

// GroupByScheduleDate buckets items by the calendar day of their
// schedule date. DateKeys enumerates buckets in ascending calendar
// order for the calendar view.
func GroupByScheduleDate(items []model.ContentItem) map[string][]model.ContentItem {
	grouped := make(map[string][]model.ContentItem)
	for _, item := range items {
		key := item.ScheduleDate.Format(dateKeyLayout)
		grouped[key] = append(grouped[key], item)
	}
	return grouped
}

// DateKeys returns schedule-date bucket keys in ascending calendar order.
func DateKeys(grouped map[string][]model.ContentItem) []string {
	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
