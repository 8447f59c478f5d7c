package member

import (
	"context"
	"errors"
	"time"

	"github.com/devdibi/dondoc/pkg/domain"
	domainmoim "github.com/devdibi/dondoc/pkg/domain/moim"
	"github.com/devdibi/dondoc/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a member repository over the provided *gorm.DB session.
func New(db *gorm.DB) repository.MemberRepository {
	return &repo{db: db}
}

// Create implements repository.MemberRepository. A second membership for the
// same (user, moim) pair surfaces as domain.ErrAlreadyInvited.
func (r *repo) Create(ctx context.Context, m *domainmoim.Member) error {
	model := mapDomainToModel(m)
	err := r.db.WithContext(ctx).Create(&model).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAlreadyInvited
	}
	return mapErr(err)
}

// Get implements repository.MemberRepository.
func (r *repo) Get(ctx context.Context, id uuid.UUID) (*domainmoim.Member, error) {
	var model Member
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return mapModelToDomain(&model), nil
}

// Find implements repository.MemberRepository.
func (r *repo) Find(ctx context.Context, userID, moimID uuid.UUID) (*domainmoim.Member, error) {
	var model Member
	err := r.db.WithContext(ctx).
		First(&model, "user_id = ? AND moim_id = ?", userID, moimID).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return mapModelToDomain(&model), nil
}

// ListByMoim implements repository.MemberRepository.
func (r *repo) ListByMoim(ctx context.Context, moimID uuid.UUID) ([]*domainmoim.Member, error) {
	var models []Member
	err := r.db.WithContext(ctx).
		Where("moim_id = ?", moimID).
		Order("invited_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return mapModelsToDomain(models), nil
}

// ListByUser implements repository.MemberRepository.
func (r *repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domainmoim.Member, error) {
	var models []Member
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&models).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return mapModelsToDomain(models), nil
}

// Approve implements repository.MemberRepository. The status predicate makes
// the update a compare-and-swap: a membership that is no longer PENDING
// leaves RowsAffected at zero.
func (r *repo) Approve(ctx context.Context, id uuid.UUID, accountNumber string, signedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Member{}).
		Where("id = ? AND status = ?", id, int(domainmoim.MemberPending)).
		Updates(map[string]any{
			"status":         int(domainmoim.MemberApproved),
			"account_number": accountNumber,
			"signed_at":      signedAt,
		})
	if res.Error != nil {
		return false, mapErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete implements repository.MemberRepository. Withdraw requests owned by
// the member are removed by the ON DELETE CASCADE constraint.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	return mapErr(
		r.db.WithContext(ctx).Delete(&Member{}, "id = ?", id).Error)
}

func mapDomainToModel(m *domainmoim.Member) Member {
	return Member{
		ID:            m.ID,
		UserID:        m.UserID,
		MoimID:        m.MoimID,
		Role:          int(m.Role),
		Status:        int(m.Status),
		AccountNumber: m.AccountNumber,
		InvitedAt:     m.InvitedAt,
		SignedAt:      m.SignedAt,
	}
}

func mapModelToDomain(model *Member) *domainmoim.Member {
	return &domainmoim.Member{
		ID:            model.ID,
		UserID:        model.UserID,
		MoimID:        model.MoimID,
		Role:          domainmoim.Role(model.Role),
		Status:        domainmoim.MemberStatus(model.Status),
		AccountNumber: model.AccountNumber,
		InvitedAt:     model.InvitedAt,
		SignedAt:      model.SignedAt,
	}
}

func mapModelsToDomain(models []Member) []*domainmoim.Member {
	result := make([]*domainmoim.Member, 0, len(models))
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
