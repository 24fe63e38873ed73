package board

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tiagocodinha/StagelinkApproval/internal/domain/enums"
	"github.com/tiagocodinha/StagelinkApproval/internal/domain/model"
	"github.com/tiagocodinha/StagelinkApproval/internal/domain/rules"
	"github.com/tiagocodinha/StagelinkApproval/internal/repo/postgres"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/auth"
)

type ContentRepo interface {
	ListAll(ctx context.Context) ([]postgres.ContentItemRecord, error)
	ListAssignedTo(ctx context.Context, profileID int64) ([]postgres.ContentItemRecord, error)
	DistinctAssigneeEmails(ctx context.Context, excludeEmail string) ([]string, error)
}

type ProfileRepo interface {
	ListClients(ctx context.Context, adminEmail string) ([]postgres.ProfileRecord, error)
}

// Filter narrows the review list. Empty or "all" means no filtering on
// that axis. The client filter only means anything for the admin, whose
// list spans every assignee.
type Filter struct {
	ContentType string
	ClientEmail string
}

type ListView struct {
	Pending []model.ContentItem
	Decided []model.ContentItem
}

type MonthFolder struct {
	Month string
	Items []model.ContentItem
}

type ClientFolder struct {
	Client string
	Months []MonthFolder
}

// FolderSelection is the navigation state of the folder archive: which
// client folder is open and, within it, which month. Zero values mean
// the top level.
type FolderSelection struct {
	Client string
	Month  string
}

type FoldersView struct {
	Folders  []ClientFolder
	Selected FolderSelection
}

type DateBucket struct {
	Date  string
	Items []model.ContentItem
}

type TypeBucket struct {
	ContentType enums.ContentType
	Items       []model.ContentItem
}

type Service struct {
	items      ContentRepo
	profiles   ProfileRepo
	logger     *zap.Logger
	adminEmail string
}

func NewService(items ContentRepo, profiles ProfileRepo, logger *zap.Logger, adminEmail string) (*Service, error) {
	if items == nil {
		return nil, fmt.Errorf("content repo is nil")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile repo is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		items:      items,
		profiles:   profiles,
		logger:     logger,
		adminEmail: adminEmail,
	}, nil
}

// List is the main review feed: the caller's visible items split into
// awaiting-review and already-decided, both newest-first.
func (s *Service) List(ctx context.Context, actor auth.Identity, filter Filter) (ListView, error) {
	items, err := s.visibleItems(ctx, actor)
	if err != nil {
		return ListView{}, err
	}

	clientFilter := filter.ClientEmail
	if !actor.IsAdmin() {
		clientFilter = ""
	}

	filtered := rules.FilterByTypeAndClient(items, filter.ContentType, clientFilter)
	pending, decided := rules.PartitionByStatus(filtered)

	return ListView{Pending: pending, Decided: decided}, nil
}

// Folders is the admin's scheduling archive: approved items bucketed by
// client, then by month, newest month first. A selection narrows the
// view to one client (and optionally one month) and is echoed back so
// the navigation state lives in the exchange, not in session state.
func (s *Service) Folders(ctx context.Context, actor auth.Identity, sel FolderSelection) (FoldersView, error) {
	if !actor.IsAdmin() {
		return FoldersView{}, auth.ErrForbidden
	}

	approved, err := s.approvedItems(ctx, actor)
	if err != nil {
		return FoldersView{}, err
	}

	grouped := rules.GroupByClientThenMonth(approved)
	sel = normalizeSelection(grouped, sel)

	folders := make([]ClientFolder, 0, len(grouped))
	for _, client := range rules.ClientKeys(grouped) {
		if sel.Client != "" && client != sel.Client {
			continue
		}
		months := grouped[client]
		folder := ClientFolder{Client: client, Months: make([]MonthFolder, 0, len(months))}
		for _, month := range rules.MonthKeys(months) {
			if sel.Month != "" && month != sel.Month {
				continue
			}
			folder.Months = append(folder.Months, MonthFolder{Month: month, Items: months[month]})
		}
		folders = append(folders, folder)
	}

	return FoldersView{Folders: folders, Selected: sel}, nil
}

// normalizeSelection drops selection values the grouping cannot honor,
// falling back one navigation level at a time. A month without a client
// is meaningless and clears entirely.
func normalizeSelection(grouped map[string]map[string][]model.ContentItem, sel FolderSelection) FolderSelection {
	if sel.Client == "" {
		return FolderSelection{}
	}
	months, ok := grouped[sel.Client]
	if !ok {
		return FolderSelection{}
	}
	if sel.Month == "" {
		return sel
	}
	if _, ok := months[sel.Month]; !ok {
		sel.Month = ""
	}
	return sel
}

// Calendar buckets the caller's approved items by schedule date in
// ascending calendar order.
func (s *Service) Calendar(ctx context.Context, actor auth.Identity) ([]DateBucket, error) {
	approved, err := s.approvedItems(ctx, actor)
	if err != nil {
		return nil, err
	}

	grouped := rules.GroupByScheduleDate(approved)

	buckets := make([]DateBucket, 0, len(grouped))
	for _, date := range rules.DateKeys(grouped) {
		buckets = append(buckets, DateBucket{Date: date, Items: grouped[date]})
	}

	return buckets, nil
}

// ByType buckets the caller's approved items per content type. Every
// known type appears even when empty, in the fixed display order.
func (s *Service) ByType(ctx context.Context, actor auth.Identity) ([]TypeBucket, error) {
	approved, err := s.approvedItems(ctx, actor)
	if err != nil {
		return nil, err
	}

	grouped := rules.GroupByContentType(approved)

	buckets := make([]TypeBucket, 0, len(enums.ContentTypes()))
	for _, contentType := range enums.ContentTypes() {
		buckets = append(buckets, TypeBucket{ContentType: contentType, Items: grouped[contentType]})
	}

	return buckets, nil
}

// ClientEmails feeds the admin's assignee filter dropdown.
func (s *Service) ClientEmails(ctx context.Context, actor auth.Identity) ([]string, error) {
	if !actor.IsAdmin() {
		return nil, auth.ErrForbidden
	}

	emails, err := s.items.DistinctAssigneeEmails(ctx, s.adminEmail)
	if err != nil {
		return nil, fmt.Errorf("list client emails: %w", err)
	}
	return emails, nil
}

// Clients lists the assignable client profiles for the submission form.
func (s *Service) Clients(ctx context.Context, actor auth.Identity) ([]model.Profile, error) {
	if !actor.IsAdmin() {
		return nil, auth.ErrForbidden
	}

	records, err := s.profiles.ListClients(ctx, s.adminEmail)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	profiles := make([]model.Profile, 0, len(records))
	for _, record := range records {
		profiles = append(profiles, record.Model())
	}
	return profiles, nil
}

func (s *Service) visibleItems(ctx context.Context, actor auth.Identity) ([]model.ContentItem, error) {
	var (
		records []postgres.ContentItemRecord
		err     error
	)
	if actor.IsAdmin() {
		records, err = s.items.ListAll(ctx)
	} else {
		records, err = s.items.ListAssignedTo(ctx, actor.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("list content items: %w", err)
	}

	return postgres.ModelsFromRecords(records), nil
}

func (s *Service) approvedItems(ctx context.Context, actor auth.Identity) ([]model.ContentItem, error) {
	items, err := s.visibleItems(ctx, actor)
	if err != nil {
		return nil, err
	}

	approved := make([]model.ContentItem, 0, len(items))
	for _, item := range items {
		if item.Status == enums.StatusApproved {
			approved = append(approved, item)
		}
	}
	return approved, nil
}
