package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tiagocodinha/StagelinkApproval/internal/domain/enums"
	"github.com/tiagocodinha/StagelinkApproval/internal/domain/model"
	"github.com/tiagocodinha/StagelinkApproval/internal/domain/rules"
	"github.com/tiagocodinha/StagelinkApproval/internal/pkg/validate"
	"github.com/tiagocodinha/StagelinkApproval/internal/repo/postgres"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/auth"
)

var (
	ErrNotFound    = errors.New("content item not found")
	ErrStaleStatus = errors.New("content item already decided")
	ErrValidation  = errors.New("invalid content payload")
)

type ContentRepo interface {
	Create(ctx context.Context, params postgres.CreateContentParams) (postgres.ContentItemRecord, error)
	GetByID(ctx context.Context, id string) (postgres.ContentItemRecord, error)
	UpdateStatusIfPending(ctx context.Context, id, status string) (postgres.ContentItemRecord, error)
}

type ProfileRepo interface {
	GetByID(ctx context.Context, id int64) (postgres.ProfileRecord, error)
}

type Notifier interface {
	ContentAssigned(ctx context.Context, recipientEmail, recipientName, contentType, assignerName string) error
	ContentStatusUpdated(ctx context.Context, recipientEmail, recipientName, contentType, status, reviewerName string) error
}

type CreateInput struct {
	Caption      string
	ContentType  enums.ContentType
	MediaURL     *string
	MediaKind    *enums.MediaKind
	ScheduleDate time.Time
	AssignedTo   int64
}

type Service struct {
	items    ContentRepo
	profiles ProfileRepo
	notifier Notifier
	logger   *zap.Logger
}

func NewService(items ContentRepo, profiles ProfileRepo, notifier Notifier, logger *zap.Logger) (*Service, error) {
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
		items:    items,
		profiles: profiles,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// Create stores a new draft assigned to a client. Only the admin
// submits drafts; the stored status is always Pending no matter what
// the caller sent.
func (s *Service) Create(ctx context.Context, actor auth.Identity, input CreateInput) (model.ContentItem, error) {
	if !actor.IsAdmin() {
		return model.ContentItem{}, auth.ErrForbidden
	}
	if err := validateCreateInput(input); err != nil {
		return model.ContentItem{}, err
	}

	assignee, err := s.profiles.GetByID(ctx, input.AssignedTo)
	if err != nil {
		if errors.Is(err, postgres.ErrProfileNotFound) {
			return model.ContentItem{}, fmt.Errorf("%w: unknown assignee", ErrValidation)
		}
		return model.ContentItem{}, fmt.Errorf("load assignee: %w", err)
	}

	var mediaKind *string
	if input.MediaKind != nil {
		kind := string(*input.MediaKind)
		mediaKind = &kind
	}

	record, err := s.items.Create(ctx, postgres.CreateContentParams{
		Caption:      input.Caption,
		ContentType:  string(input.ContentType),
		MediaURL:     input.MediaURL,
		MediaKind:    mediaKind,
		ScheduleDate: input.ScheduleDate,
		AssignedTo:   input.AssignedTo,
		CreatedBy:    actor.UserID,
	})
	if err != nil {
		return model.ContentItem{}, fmt.Errorf("create content item: %w", err)
	}

	item := record.Model()
	s.notifyAssigned(item, assignee)

	return item, nil
}

func (s *Service) GetByID(ctx context.Context, actor auth.Identity, id string) (model.ContentItem, error) {
	record, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrContentNotFound) {
			return model.ContentItem{}, ErrNotFound
		}
		return model.ContentItem{}, fmt.Errorf("load content item: %w", err)
	}

	if !actor.IsAdmin() && record.AssignedTo != actor.UserID {
		return model.ContentItem{}, ErrNotFound
	}

	return record.Model(), nil
}

// UpdateStatus applies an approval decision. Deciding is the assigned
// client's move alone: the admin created the draft and never reviews
// it. The target must be a terminal status and the first decision wins.
func (s *Service) UpdateStatus(ctx context.Context, actor auth.Identity, id string, status enums.ReviewStatus) (model.ContentItem, error) {
	if !status.Valid() || !rules.CanTransition(enums.StatusPending, status) {
		return model.ContentItem{}, fmt.Errorf("%w: invalid target status", ErrValidation)
	}

	if actor.IsAdmin() {
		return model.ContentItem{}, auth.ErrForbidden
	}

	current, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrContentNotFound) {
			return model.ContentItem{}, ErrNotFound
		}
		return model.ContentItem{}, fmt.Errorf("load content item: %w", err)
	}

	if current.AssignedTo != actor.UserID {
		return model.ContentItem{}, ErrNotFound
	}

	record, err := s.items.UpdateStatusIfPending(ctx, id, string(status))
	if err != nil {
		switch {
		case errors.Is(err, postgres.ErrContentNotFound):
			return model.ContentItem{}, ErrNotFound
		case errors.Is(err, postgres.ErrStaleStatus):
			return model.ContentItem{}, ErrStaleStatus
		default:
			return model.ContentItem{}, fmt.Errorf("update content status: %w", err)
		}
	}

	item := record.Model()
	s.notifyStatusUpdated(ctx, item, actor)

	return item, nil
}

func validateCreateInput(input CreateInput) error {
	if !validate.Required(input.Caption) {
		return fmt.Errorf("%w: caption is required", ErrValidation)
	}
	if !input.ContentType.Valid() {
		return fmt.Errorf("%w: unknown content type", ErrValidation)
	}
	if input.ScheduleDate.IsZero() {
		return fmt.Errorf("%w: schedule date is required", ErrValidation)
	}
	if input.AssignedTo <= 0 {
		return fmt.Errorf("%w: assignee is required", ErrValidation)
	}
	if (input.MediaURL == nil) != (input.MediaKind == nil) {
		return fmt.Errorf("%w: media url and kind go together", ErrValidation)
	}
	if input.MediaKind != nil && !input.MediaKind.Valid() {
		return fmt.Errorf("%w: unknown media kind", ErrValidation)
	}
	return nil
}

// notifyAssigned fires in the background. A dead notifier never blocks
// or fails the submission.
func (s *Service) notifyAssigned(item model.ContentItem, assignee postgres.ProfileRecord) {
	if s.notifier == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.notifier.ContentAssigned(ctx, assignee.Email, assignee.FullName, string(item.ContentType), "Stagelink"); err != nil {
			s.logger.Warn("content assigned notification failed",
				zap.String("content_id", item.ID),
				zap.Error(err),
			)
		}
	}()
}

// notifyStatusUpdated tells the draft's creator that the assigned
// reviewer decided.
func (s *Service) notifyStatusUpdated(ctx context.Context, item model.ContentItem, actor auth.Identity) {
	if s.notifier == nil {
		return
	}

	creator, err := s.profiles.GetByID(ctx, item.CreatedBy)
	if err != nil {
		s.logger.Warn("status update notification skipped, creator lookup failed",
			zap.String("content_id", item.ID),
			zap.Error(err),
		)
		return
	}

	reviewerName := item.AssigneeName
	if reviewerName == "" {
		reviewerName = actor.Email
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.notifier.ContentStatusUpdated(ctx, creator.Email, creator.FullName, string(item.ContentType), string(item.Status), reviewerName); err != nil {
			s.logger.Warn("status update notification failed",
				zap.String("content_id", item.ID),
				zap.Error(err),
			)
		}
	}()
}
