package handler

import (
	"context"
	"strings"
	"time"

	"github.com/ogurasousui/weekly-ops-dashboard/internal/adapters/grpc/dashboardpb"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/member"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// MemberGrpcHandler は MemberService の gRPC 実装です。
type MemberGrpcHandler struct {
	svc member.UseCase
	dashboardpb.UnimplementedMemberServiceServer
}

// NewMemberGrpcHandler は MemberGrpcHandler を生成します。
func NewMemberGrpcHandler(svc member.UseCase) *MemberGrpcHandler {
	return &MemberGrpcHandler{svc: svc}
}

type workHistoryDTO struct {
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
	ProjectName string  `json:"project_name,omitempty"`
}

type importMemberRequest struct {
	Source              string           `json:"source"`
	ExternalID          string           `json:"external_id"`
	Name                string           `json:"name"`
	Status              string           `json:"status"`
	FirstWorkStartDate  *string          `json:"first_work_start_date"`
	LastWorkStartDate   *string          `json:"last_work_start_date"`
	LastWorkEndDate     *string          `json:"last_work_end_date"`
	ContractEndDate     *string          `json:"contract_end_date"`
	FirstCounselingDate *string          `json:"first_counseling_date"`
	WorkHistory         []workHistoryDTO `json:"work_history"`
}

type memberIDRequest struct {
	ID string `json:"id"`
}

type listMembersRequest struct {
	PageSize  int    `json:"page_size"`
	PageToken string `json:"page_token"`
	Status    string `json:"status"`
	Source    string `json:"source"`
}

type memberDTO struct {
	ID                  string           `json:"id"`
	ExternalID          string           `json:"external_id"`
	Source              string           `json:"source"`
	Name                string           `json:"name"`
	Status              string           `json:"status"`
	FirstWorkStartDate  *string          `json:"first_work_start_date,omitempty"`
	LastWorkStartDate   *string          `json:"last_work_start_date,omitempty"`
	LastWorkEndDate     *string          `json:"last_work_end_date,omitempty"`
	ContractEndDate     *string          `json:"contract_end_date,omitempty"`
	FirstCounselingDate *string          `json:"first_counseling_date,omitempty"`
	WorkHistory         []workHistoryDTO `json:"work_history"`
	CreatedAt           string           `json:"created_at"`
	UpdatedAt           string           `json:"updated_at"`
}

// ImportMember は外部ソースのメンバーを取り込みます。
func (h *MemberGrpcHandler) ImportMember(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in importMemberRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}

	var input member.ImportMemberInput
	dates := []struct {
		field string
		raw   *string
		dst   **time.Time
	}{
		{"first_work_start_date", in.FirstWorkStartDate, &input.FirstWorkStartDate},
		{"last_work_start_date", in.LastWorkStartDate, &input.LastWorkStartDate},
		{"last_work_end_date", in.LastWorkEndDate, &input.LastWorkEndDate},
		{"contract_end_date", in.ContractEndDate, &input.ContractEndDate},
		{"first_counseling_date", in.FirstCounselingDate, &input.FirstCounselingDate},
	}
	for _, d := range dates {
		parsed, err := parseOptionalDate(d.field, d.raw)
		if err != nil {
			return nil, err
		}
		*d.dst = parsed
	}

	history := make([]member.WorkHistoryInput, 0, len(in.WorkHistory))
	for _, entry := range in.WorkHistory {
		start, err := parseOptionalDate("work_history.start_date", entry.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := parseOptionalDate("work_history.end_date", entry.EndDate)
		if err != nil {
			return nil, err
		}
		history = append(history, member.WorkHistoryInput{StartDate: start, EndDate: end, ProjectName: entry.ProjectName})
	}

	input.Source = member.Source(in.Source)
	input.ExternalID = in.ExternalID
	input.Name = in.Name
	input.Status = member.Status(in.Status)
	input.WorkHistory = history

	result, err := h.svc.ImportMember(ctx, input)
	if err != nil {
		return nil, toStatusError(err)
	}

	return encodeResponse(map[string]any{
		"member":  toMemberDTO(result.Member),
		"created": result.Created,
	})
}

// GetMember はメンバーを取得します。
func (h *MemberGrpcHandler) GetMember(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in memberIDRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}

	found, err := h.svc.GetMember(ctx, member.GetMemberInput{ID: in.ID})
	if err != nil {
		return nil, toStatusError(err)
	}

	return encodeResponse(map[string]any{"member": toMemberDTO(found)})
}

// ListMembers はメンバーの一覧を取得します。
func (h *MemberGrpcHandler) ListMembers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in listMembersRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}
	if in.PageSize < 0 {
		return nil, status.Error(codes.InvalidArgument, "page_size must be zero or positive")
	}

	input := member.ListMembersInput{PageSize: in.PageSize, PageToken: in.PageToken}
	if s := strings.TrimSpace(in.Status); s != "" {
		st := member.Status(s)
		input.Status = &st
	}
	if s := strings.TrimSpace(in.Source); s != "" {
		src := member.Source(s)
		input.Source = &src
	}

	result, err := h.svc.ListMembers(ctx, input)
	if err != nil {
		return nil, toStatusError(err)
	}

	members := make([]memberDTO, 0, len(result.Members))
	for _, m := range result.Members {
		members = append(members, toMemberDTO(m))
	}
	return encodeResponse(map[string]any{
		"members":         members,
		"next_page_token": result.NextPageToken,
	})
}

// DeleteMember はメンバーを削除します。
func (h *MemberGrpcHandler) DeleteMember(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in memberIDRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}

	if err := h.svc.DeleteMember(ctx, member.DeleteMemberInput{ID: in.ID}); err != nil {
		return nil, toStatusError(err)
	}

	return &structpb.Struct{}, nil
}

func toMemberDTO(m *member.Member) memberDTO {
	if m == nil {
		return memberDTO{}
	}
	history := make([]workHistoryDTO, 0, len(m.WorkHistory))
	for _, e := range m.WorkHistory {
		start := formatDate(e.StartDate)
		history = append(history, workHistoryDTO{
			StartDate:   &start,
			EndDate:     formatOptionalDate(e.EndDate),
			ProjectName: e.ProjectName,
		})
	}
	return memberDTO{
		ID:                  m.ID,
		ExternalID:          m.ExternalID,
		Source:              string(m.Source),
		Name:                m.Name,
		Status:              string(m.Status),
		FirstWorkStartDate:  formatOptionalDate(m.FirstWorkStartDate),
		LastWorkStartDate:   formatOptionalDate(m.LastWorkStartDate),
		LastWorkEndDate:     formatOptionalDate(m.LastWorkEndDate),
		ContractEndDate:     formatOptionalDate(m.ContractEndDate),
		FirstCounselingDate: formatOptionalDate(m.FirstCounselingDate),
		WorkHistory:         history,
		CreatedAt:           m.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           m.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
