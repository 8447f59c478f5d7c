package moim

import (
	"context"
	"errors"

	"github.com/devdibi/dondoc/pkg/domain"
	domainmoim "github.com/devdibi/dondoc/pkg/domain/moim"
	"github.com/devdibi/dondoc/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a moim repository over the provided *gorm.DB session.
func New(db *gorm.DB) repository.MoimRepository {
	return &repo{db: db}
}

// Create implements repository.MoimRepository. An identification number
// collision surfaces as domain.ErrDuplicateIdentifier.
func (r *repo) Create(ctx context.Context, m *domainmoim.Moim) error {
	model := mapDomainToModel(m)
	err := r.db.WithContext(ctx).Create(&model).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateIdentifier
	}
	return mapErr(err)
}

// Get implements repository.MoimRepository.
func (r *repo) Get(ctx context.Context, id uuid.UUID) (*domainmoim.Moim, error) {
	var model Moim
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return mapModelToDomain(&model), nil
}

// ExistsIdentification implements repository.MoimRepository.
func (r *repo) ExistsIdentification(ctx context.Context, identificationNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Moim{}).
		Where("identification_number = ?", identificationNumber).
		Count(&count).Error
	if err != nil {
		return false, mapErr(err)
	}
	return count > 0, nil
}

// ListByUser implements repository.MoimRepository.
func (r *repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domainmoim.Moim, error) {
	var models []Moim
	err := r.db.WithContext(ctx).
		Joins("JOIN moim_members ON moim_members.moim_id = moims.id").
		Where("moim_members.user_id = ?", userID).
		Order("moims.created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, mapErr(err)
	}
	result := make([]*domainmoim.Moim, 0, len(models))
	for i := range models {
		result = append(result, mapModelToDomain(&models[i]))
	}
	return result, nil
}

func mapDomainToModel(m *domainmoim.Moim) Moim {
	return Moim{
		ID:                   m.ID,
		IdentificationNumber: m.IdentificationNumber,
		Name:                 m.Name,
		Introduce:            m.Introduce,
		AccountID:            m.AccountID,
		AccountNumber:        m.AccountNumber,
		MoimType:             m.MoimType,
		MemberCount:          m.MemberCount,
		CreatedAt:            m.CreatedAt,
	}
}

func mapModelToDomain(model *Moim) *domainmoim.Moim {
	return &domainmoim.Moim{
		ID:                   model.ID,
		IdentificationNumber: model.IdentificationNumber,
		Name:                 model.Name,
		Introduce:            model.Introduce,
		AccountID:            model.AccountID,
		AccountNumber:        model.AccountNumber,
		MoimType:             model.MoimType,
		MemberCount:          model.MemberCount,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
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
