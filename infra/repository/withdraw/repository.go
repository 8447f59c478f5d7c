package withdraw

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

// New creates a withdraw repository over the provided *gorm.DB session.
func New(db *gorm.DB) repository.WithdrawRepository {
	return &repo{db: db}
}

// Create implements repository.WithdrawRepository.
func (r *repo) Create(ctx context.Context, w *request.Withdraw) error {
	model := mapDomainToModel(w)
	return mapErr(r.db.WithContext(ctx).Create(&model).Error)
}

// Get implements repository.WithdrawRepository.
func (r *repo) Get(ctx context.Context, id uuid.UUID) (*request.Withdraw, error) {
	var model WithdrawRequest
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return mapModelToDomain(&model), nil
}

// ListByMoims implements repository.WithdrawRepository.
func (r *repo) ListByMoims(ctx context.Context, moimIDs []uuid.UUID, status request.Status) ([]*request.Withdraw, error) {
	if len(moimIDs) == 0 {
		return []*request.Withdraw{}, nil
	}
	q := r.db.WithContext(ctx).Where("moim_id IN ?", moimIDs)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	var models []WithdrawRequest
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, mapErr(err)
	}
	result := make([]*request.Withdraw, 0, len(models))
	for i := range models {
		result = append(result, mapModelToDomain(&models[i]))
	}
	return result, nil
}

// UpdateStatus implements repository.WithdrawRepository. The status
// predicate makes this a compare-and-swap: when another transition already
// moved the row, RowsAffected stays zero and the caller reports
// ErrInvalidState.
func (r *repo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to request.Status, resolvedBy *uuid.UUID, resolvedAt time.Time) (bool, error) {
	updates := map[string]any{
		"status":      string(to),
		"resolved_at": resolvedAt,
	}
	if resolvedBy != nil {
		updates["resolved_by"] = *resolvedBy
	}
	res := r.db.WithContext(ctx).Model(&WithdrawRequest{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return false, mapErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func mapDomainToModel(w *request.Withdraw) WithdrawRequest {
	return WithdrawRequest{
		ID:            w.ID,
		MoimID:        w.MoimID,
		MemberID:      w.MemberID,
		TargetAccount: w.TargetAccount,
		Amount:        w.Amount,
		Content:       w.Content,
		Status:        string(w.Status),
		CreatedAt:     w.CreatedAt,
		ResolvedAt:    w.ResolvedAt,
		ResolvedBy:    w.ResolvedBy,
	}
}

func mapModelToDomain(model *WithdrawRequest) *request.Withdraw {
	return &request.Withdraw{
		ID:            model.ID,
		MoimID:        model.MoimID,
		MemberID:      model.MemberID,
		TargetAccount: model.TargetAccount,
		Amount:        model.Amount,
		Content:       model.Content,
		Status:        request.Status(model.Status),
		CreatedAt:     model.CreatedAt,
		ResolvedAt:    model.ResolvedAt,
		ResolvedBy:    model.ResolvedBy,
	}
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
