package repository

import "context"

// UnitOfWork provides a transaction boundary and repository access bound to
// that transaction.
//
// Why repository accessors live on UnitOfWork:
// - All repositories inside one Do callback share the same DB session, so a
//   read-then-compare-and-swap sequence is atomic with respect to other
//   transitions on the same row.
// - Service code stays focused on business rules and is easy to back with
//   in-memory fakes in tests.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. The UnitOfWork passed
	// to fn yields repositories bound to the transaction; if fn returns an
	// error everything is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	Moims() MoimRepository
	Members() MemberRepository
	Withdraws() WithdrawRepository
	Missions() MissionRepository
}
