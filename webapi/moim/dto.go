package moim

import (
	"time"

	moimdomain "github.com/devdibi/dondoc/pkg/domain/moim"
	"github.com/devdibi/dondoc/pkg/provider/banking"
)

// CreateMoimRequest is the body of POST /api/moim/create.
type CreateMoimRequest struct {
	Name          string   `json:"name" validate:"required,max=64"`
	Introduce     string   `json:"introduce" validate:"max=256"`
	Password      string   `json:"password" validate:"required,min=4"`
	MoimType      int      `json:"moimType"`
	AccountNumber string   `json:"accountNumber" validate:"required"`
	Managers      []string `json:"managers" validate:"dive,uuid"`
}

// InviteRequest is the body of POST /api/moim/invite.
type InviteRequest struct {
	MoimID string   `json:"moimId" validate:"required,uuid"`
	Users  []string `json:"users" validate:"required,min=1,dive,uuid"`
}

// CheckInviteRequest is the body of PATCH /api/moim/invite/check. Accept
// requires the personal account payouts will be sent to.
type CheckInviteRequest struct {
	MoimID        string `json:"moimId" validate:"required,uuid"`
	Accept        bool   `json:"accept"`
	AccountNumber string `json:"accountNumber" validate:"required_if=Accept true"`
}

// HistoryListRequest is the body of POST /api/moim/history/list.
type HistoryListRequest struct {
	MoimID string `json:"moimId" validate:"required,uuid"`
}

// HistoryDetailRequest is the body of POST /api/moim/history/detail.
type HistoryDetailRequest struct {
	MoimID    string `json:"moimId" validate:"required,uuid"`
	HistoryID int64  `json:"historyId" validate:"required"`
}

// MoimResponse is the wire shape of a moim.
type MoimResponse struct {
	MoimID               string    `json:"moimId"`
	IdentificationNumber string    `json:"identificationNumber"`
	Name                 string    `json:"name"`
	Introduce            string    `json:"introduce"`
	MoimType             int       `json:"moimType"`
	AccountNumber        string    `json:"accountNumber"`
	MemberCount          int       `json:"memberCount"`
	CreatedAt            time.Time `json:"createdAt"`
}

// MemberResponse is the wire shape of a membership.
type MemberResponse struct {
	MemberID  string     `json:"memberId"`
	UserID    string     `json:"userId"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	InvitedAt time.Time  `json:"invitedAt"`
	SignedAt  *time.Time `json:"signedAt,omitempty"`
}

// MoimDetailResponse bundles a moim with its member list.
type MoimDetailResponse struct {
	Moim    MoimResponse     `json:"moim"`
	Members []MemberResponse `json:"members"`
}

// HistoryResponse is the wire shape of one account transaction.
type HistoryResponse struct {
	HistoryID       int64     `json:"historyId"`
	TransactionType string    `json:"transactionType"`
	Amount          int64     `json:"amount"`
	Balance         int64     `json:"balance"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toMoimResponse(m *moimdomain.Moim) MoimResponse {
	return MoimResponse{
		MoimID:               m.ID.String(),
		IdentificationNumber: m.IdentificationNumber,
		Name:                 m.Name,
		Introduce:            m.Introduce,
		MoimType:             m.MoimType,
		AccountNumber:        m.AccountNumber,
		MemberCount:          m.MemberCount,
		CreatedAt:            m.CreatedAt,
	}
}

func toMemberResponse(m *moimdomain.Member) MemberResponse {
	return MemberResponse{
		MemberID:  m.ID.String(),
		UserID:    m.UserID.String(),
		Role:      m.Role.String(),
		Status:    m.Status.String(),
		InvitedAt: m.InvitedAt,
		SignedAt:  m.SignedAt,
	}
}

func toHistoryResponse(e banking.HistoryEntry) HistoryResponse {
	return HistoryResponse{
		HistoryID:       e.ID,
		TransactionType: e.TransactionType,
		Amount:          e.Amount,
		Balance:         e.Balance,
		Content:         e.Content,
		CreatedAt:       e.CreatedAt,
	}
}
