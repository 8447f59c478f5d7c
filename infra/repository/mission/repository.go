package mission

import (
	"context"
	"errors"
	"time"

	"github.com/devdibi/dondoc/pkg/domain"
	"github.com/devdibi/dondoc/pkg/domain/request"
	"github.com/devdibi/dondoc/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a mission repository over the provided *gorm.DB session.
func New(db *gorm.DB) repository.MissionRepository {
	return &repo{db: db}
}

// Create implements repository.MissionRepository.
func (r *repo) Create(ctx context.Context, m *request.Mission) error {
	model := mapDomainToModel(m)
	return mapErr(r.db.WithContext(ctx).Create(&model).Error)
}

// Get implements repository.MissionRepository.
func (r *repo) Get(ctx context.Context, id uuid.UUID) (*request.Mission, error) {
	var model Mission
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return mapModelToDomain(&model), nil
}

// ListByMoims implements repository.MissionRepository.
func (r *repo) ListByMoims(ctx context.Context, moimIDs []uuid.UUID, status request.Status) ([]*request.Mission, error) {
	if len(moimIDs) == 0 {
		return []*request.Mission{}, nil
	}
	q := r.db.WithContext(ctx).Where("moim_id IN ?", moimIDs)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	var models []Mission
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, mapErr(err)
	}
	return mapModelsToDomain(models), nil
}

// ListByMembers implements repository.MissionRepository.
func (r *repo) ListByMembers(ctx context.Context, memberIDs []uuid.UUID) ([]*request.Mission, error) {
	if len(memberIDs) == 0 {
		return []*request.Mission{}, nil
	}
	var models []Mission
	err := r.db.WithContext(ctx).
		Where("member_id IN ?", memberIDs).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return mapModelsToDomain(models), nil
}

// UpdateStatus implements repository.MissionRepository; compare-and-swap as
// on the withdraw repository.
func (r *repo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to request.Status, resolvedBy *uuid.UUID, resolvedAt time.Time) (bool, error) {
	updates := map[string]any{
		"status":      string(to),
		"resolved_at": resolvedAt,
	}
	if resolvedBy != nil {
		updates["resolved_by"] = *resolvedBy
	}
	res := r.db.WithContext(ctx).Model(&Mission{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return false, mapErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func mapDomainToModel(m *request.Mission) Mission {
	return Mission{
		ID:         m.ID,
		MoimID:     m.MoimID,
		MemberID:   m.MemberID,
		Title:      m.Title,
		Content:    m.Content,
		Amount:     m.Amount,
		Status:     string(m.Status),
		CreatedAt:  m.CreatedAt,
		ResolvedAt: m.ResolvedAt,
		ResolvedBy: m.ResolvedBy,
	}
}

func mapModelToDomain(model *Mission) *request.Mission {
	return &request.Mission{
		ID:         model.ID,
		MoimID:     model.MoimID,
		MemberID:   model.MemberID,
		Title:      model.Title,
		Content:    model.Content,
		Amount:     model.Amount,
		Status:     request.Status(model.Status),
		CreatedAt:  model.CreatedAt,
		ResolvedAt: model.ResolvedAt,
		ResolvedBy: model.ResolvedBy,
	}
}

func mapModelsToDomain(models []Mission) []*request.Mission {
	result := make([]*request.Mission, 0, len(models))
	for i := range models {
		result = append(result, mapModelToDomain(&models[i]))
	}
	return result
}

// mapErr converts GORM errors to domain errors so driver types never cross
// the repository boundary.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
