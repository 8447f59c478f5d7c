// Package repository provides the GORM-backed unit of work binding the
// entity repositories under it to one transaction.
package repository

import (
	"context"

	memberrepo "github.com/devdibi/dondoc/infra/repository/member"
	missionrepo "github.com/devdibi/dondoc/infra/repository/mission"
	moimrepo "github.com/devdibi/dondoc/infra/repository/moim"
	withdrawrepo "github.com/devdibi/dondoc/infra/repository/withdraw"
	"github.com/devdibi/dondoc/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides a transaction boundary and repository access in one
// abstraction. Repositories obtained inside a Do callback share the
// callback's transaction, so a read followed by a compare-and-swap is atomic
// with respect to concurrent transitions on the same row; repositories
// obtained outside Do run on the base session.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn in a transaction boundary, providing a UoW bound to it. If fn
// returns an error the transaction is rolled back.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// Moims implements repository.UnitOfWork.
func (u *UoW) Moims() repository.MoimRepository {
	return moimrepo.New(u.session())
}

// Members implements repository.UnitOfWork.
func (u *UoW) Members() repository.MemberRepository {
	return memberrepo.New(u.session())
}

// Withdraws implements repository.UnitOfWork.
func (u *UoW) Withdraws() repository.WithdrawRepository {
	return withdrawrepo.New(u.session())
}

// Missions implements repository.UnitOfWork.
func (u *UoW) Missions() repository.MissionRepository {
	return missionrepo.New(u.session())
}
