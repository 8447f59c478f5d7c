package request

import (
	"time"

	"github.com/devdibi/dondoc/pkg/domain/request"
)

// SubmitWithdrawRequest is the body of POST /api/moim/withdraw_req.
type SubmitWithdrawRequest struct {
	MoimID        string `json:"moimId" validate:"required,uuid"`
	TargetAccount string `json:"targetAccount" validate:"required"`
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	Content       string `json:"content" validate:"max=256"`
}

// SubmitMissionRequest is the body of POST /api/moim/mission_req.
type SubmitMissionRequest struct {
	MoimID  string `json:"moimId" validate:"required,uuid"`
	Title   string `json:"title" validate:"required,max=64"`
	Content string `json:"content" validate:"max=256"`
	Amount  int64  `json:"amount" validate:"required,gt=0"`
}

// ListRequestsRequest is the body of POST /api/moim/list_req. Empty fields
// match everything.
type ListRequestsRequest struct {
	MoimID string `json:"moimId" validate:"omitempty,uuid"`
	Type   string `json:"type" validate:"omitempty,oneof=WITHDRAW MISSION"`
	Status string `json:"status" validate:"omitempty,oneof=REQUESTED APPROVED REJECTED CANCELLED SUCCESS FAIL QUIT"`
}

// RequestRefRequest addresses one request of either kind, for
// POST /api/moim/detail_req and POST /api/moim/cancel_req.
type RequestRefRequest struct {
	Type      string `json:"type" validate:"required,oneof=WITHDRAW MISSION"`
	RequestID string `json:"requestId" validate:"required,uuid"`
}

// WithdrawRefRequest addresses one withdrawal request, for
// POST /api/moim/allow_req and POST /api/moim/reject_req.
type WithdrawRefRequest struct {
	RequestID string `json:"requestId" validate:"required,uuid"`
}

// MissionRefRequest addresses one mission, for the mission transition
// endpoints.
type MissionRefRequest struct {
	MissionID string `json:"missionId" validate:"required,uuid"`
}

// WithdrawResponse is the wire shape of a withdrawal request.
type WithdrawResponse struct {
	RequestID     string     `json:"requestId"`
	MoimID        string     `json:"moimId"`
	MemberID      string     `json:"memberId"`
	TargetAccount string     `json:"targetAccount"`
	Amount        int64      `json:"amount"`
	Content       string     `json:"content"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
}

// MissionResponse is the wire shape of a mission.
type MissionResponse struct {
	MissionID  string     `json:"missionId"`
	MoimID     string     `json:"moimId"`
	MemberID   string     `json:"memberId"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Amount     int64      `json:"amount"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

// RequestListResponse bundles both request kinds.
type RequestListResponse struct {
	Withdraws []WithdrawResponse `json:"withdraws"`
	Missions  []MissionResponse  `json:"missions"`
}

// RequestDetailResponse is the detail view of one request.
type RequestDetailResponse struct {
	Type     string            `json:"type"`
	Withdraw *WithdrawResponse `json:"withdraw,omitempty"`
	Mission  *MissionResponse  `json:"mission,omitempty"`
}

func toWithdrawResponse(w *request.Withdraw) WithdrawResponse {
	return WithdrawResponse{
		RequestID:     w.ID.String(),
		MoimID:        w.MoimID.String(),
		MemberID:      w.MemberID.String(),
		TargetAccount: w.TargetAccount,
		Amount:        w.Amount,
		Content:       w.Content,
		Status:        string(w.Status),
		CreatedAt:     w.CreatedAt,
		ResolvedAt:    w.ResolvedAt,
	}
}

func toMissionResponse(m *request.Mission) MissionResponse {
	return MissionResponse{
		MissionID:  m.ID.String(),
		MoimID:     m.MoimID.String(),
		MemberID:   m.MemberID.String(),
		Title:      m.Title,
		Content:    m.Content,
		Amount:     m.Amount,
		Status:     string(m.Status),
		CreatedAt:  m.CreatedAt,
		ResolvedAt: m.ResolvedAt,
	}
}
