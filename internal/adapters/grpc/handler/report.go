package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/ogurasousui/weekly-ops-dashboard/internal/adapters/grpc/dashboardpb"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/fiscalweek"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/weeklystatus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// WeeklyReportGrpcHandler は WeeklyReportService の gRPC 実装です。
type WeeklyReportGrpcHandler struct {
	svc weeklystatus.UseCase
	dashboardpb.UnimplementedWeeklyReportServiceServer
}

// NewWeeklyReportGrpcHandler は WeeklyReportGrpcHandler を生成します。
func NewWeeklyReportGrpcHandler(svc weeklystatus.UseCase) *WeeklyReportGrpcHandler {
	return &WeeklyReportGrpcHandler{svc: svc}
}

type weekRequest struct {
	Year        int `json:"year"`
	Month       int `json:"month"`
	WeekInMonth int `json:"week_in_month"`
}

type weekOfRequest struct {
	Date string `json:"date"`
}

type monthRequest struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Rule  string `json:"rule"`
}

type continuationRequest struct {
	ReferenceDate *string `json:"reference_date"`
	WindowDays    []int   `json:"window_days"`
}

type weekDTO struct {
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	WeekInMonth int    `json:"week_in_month"`
	Label       string `json:"label"`
	Key         string `json:"key"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	CrossMonth  bool   `json:"cross_month"`
}

type entryDTO struct {
	MemberID            string `json:"member_id"`
	Name                string `json:"name"`
	EventDate           string `json:"event_date"`
	ProjectName         string `json:"project_name,omitempty"`
	PreviousProjectName string `json:"previous_project_name,omitempty"`
}

type warningDTO struct {
	MemberID string `json:"member_id,omitempty"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

type reportDTO struct {
	Week               weekDTO             `json:"week"`
	TotalActiveMembers int                 `json:"total_active_members"`
	Counts             weeklystatus.Counts `json:"counts"`
	NewStarted         []entryDTO          `json:"new_started"`
	Switching          []entryDTO          `json:"switching"`
	ProjectEnded       []entryDTO          `json:"project_ended"`
	ContractEnded      []entryDTO          `json:"contract_ended"`
	CounselingStarted  []entryDTO          `json:"counseling_started"`
	Warnings           []warningDTO        `json:"warnings"`
}

type continuationRateDTO struct {
	WindowDays     int     `json:"window_days"`
	ReferenceDate  string  `json:"reference_date"`
	TargetCount    int     `json:"target_count"`
	ContinuedCount int     `json:"continued_count"`
	Rate           float64 `json:"rate"`
}

type snapshotDTO struct {
	ID          string    `json:"id"`
	WeekKey     string    `json:"week_key"`
	MemberCount int       `json:"member_count"`
	PublishedAt string    `json:"published_at"`
	Report      reportDTO `json:"report"`
}

// GetWeekRange は年・月・月内週番号から週の範囲を返します。
func (h *WeeklyReportGrpcHandler) GetWeekRange(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in weekRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}

	week, err := fiscalweek.ResolveWeek(in.Year, time.Month(in.Month), in.WeekInMonth)
	if err != nil {
		return nil, toStatusError(err)
	}

	return encodeResponse(map[string]any{"week": toWeekDTO(week)})
}

// GetWeekOf は日付を含む週を返します。
func (h *WeeklyReportGrpcHandler) GetWeekOf(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in weekOfRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}

	date, err := parseDate(in.Date)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("date: %v", err))
	}

	return encodeResponse(map[string]any{"week": toWeekDTO(fiscalweek.WeekOf(date))})
}

// ListMonthWeeks は rule に従って月に属する週を返します。
func (h *WeeklyReportGrpcHandler) ListMonthWeeks(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in monthRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}

	rule, err := fiscalweek.ParseMonthRule(in.Rule)
	if err != nil {
		return nil, toStatusError(err)
	}

	weeks, err := fiscalweek.WeeksInMonth(in.Year, time.Month(in.Month), rule)
	if err != nil {
		return nil, toStatusError(err)
	}

	dtos := make([]weekDTO, 0, len(weeks))
	for _, w := range weeks {
		dtos = append(dtos, toWeekDTO(w))
	}
	return encodeResponse(map[string]any{"rule": string(rule), "weeks": dtos})
}

// GetWeeklyReport は指定週の集計を返します。
func (h *WeeklyReportGrpcHandler) GetWeeklyReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in weekRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}

	report, err := h.svc.GetWeeklyReport(ctx, weeklystatus.WeeklyReportInput{
		Year:        in.Year,
		Month:       time.Month(in.Month),
		WeekInMonth: in.WeekInMonth,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return encodeResponse(map[string]any{"report": toReportDTO(report)})
}

// GetCurrentWeeklyReport は今日を含む週の集計を返します。
func (h *WeeklyReportGrpcHandler) GetCurrentWeeklyReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct{}
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}

	report, err := h.svc.GetCurrentWeeklyReport(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	return encodeResponse(map[string]any{"report": toReportDTO(report)})
}

// ListMonthlyReports は月に属する週の集計をまとめて返します。
func (h *WeeklyReportGrpcHandler) ListMonthlyReports(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in monthRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}

	rule, err := fiscalweek.ParseMonthRule(in.Rule)
	if err != nil {
		return nil, toStatusError(err)
	}

	result, err := h.svc.ListMonthlyReports(ctx, weeklystatus.MonthlyReportsInput{
		Year:  in.Year,
		Month: time.Month(in.Month),
		Rule:  rule,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	reports := make([]reportDTO, 0, len(result.Reports))
	for _, r := range result.Reports {
		reports = append(reports, toReportDTO(r))
	}
	return encodeResponse(map[string]any{
		"year":    result.Year,
		"month":   int(result.Month),
		"rule":    string(result.Rule),
		"reports": reports,
	})
}

// GetContinuationProfile は継続率を期間ごとに返します。
func (h *WeeklyReportGrpcHandler) GetContinuationProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in continuationRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}

	ref, err := parseOptionalDate("reference_date", in.ReferenceDate)
	if err != nil {
		return nil, err
	}

	profile, err := h.svc.GetContinuationProfile(ctx, weeklystatus.ContinuationProfileInput{
		ReferenceDate: ref,
		WindowDays:    in.WindowDays,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	rates := make([]continuationRateDTO, 0, len(profile.Rates))
	for _, r := range profile.Rates {
		rates = append(rates, continuationRateDTO{
			WindowDays:     r.WindowDays,
			ReferenceDate:  formatDate(r.ReferenceDate),
			TargetCount:    r.TargetCount,
			ContinuedCount: r.ContinuedCount,
			Rate:           r.Rate,
		})
	}
	return encodeResponse(map[string]any{
		"reference_date": formatDate(profile.ReferenceDate),
		"rates":          rates,
	})
}

// PublishWeeklyReport は指定週の集計をスナップショットとして保存します。
func (h *WeeklyReportGrpcHandler) PublishWeeklyReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in weekRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}

	snapshot, err := h.svc.PublishWeeklyReport(ctx, weeklystatus.WeeklyReportInput{
		Year:        in.Year,
		Month:       time.Month(in.Month),
		WeekInMonth: in.WeekInMonth,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return encodeResponse(map[string]any{"snapshot": snapshotDTO{
		ID:          snapshot.ID,
		WeekKey:     snapshot.WeekKey,
		MemberCount: snapshot.MemberCount,
		PublishedAt: snapshot.PublishedAt.UTC().Format(time.RFC3339),
		Report:      toReportDTO(snapshot.Report),
	}})
}

func toWeekDTO(w fiscalweek.Week) weekDTO {
	return weekDTO{
		Year:        w.Year,
		Month:       int(w.Month),
		WeekInMonth: w.WeekInMonth,
		Label:       w.Label(),
		Key:         w.Key(),
		StartDate:   formatDate(w.StartDate),
		EndDate:     formatDate(w.EndDate),
		CrossMonth:  fiscalweek.IsCrossMonthWeek(w.Year, w.Month, w.WeekInMonth),
	}
}

func toReportDTO(r *weeklystatus.Report) reportDTO {
	if r == nil {
		return reportDTO{}
	}
	warnings := make([]warningDTO, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		warnings = append(warnings, warningDTO{MemberID: w.MemberID, Code: string(w.Code), Message: w.Message})
	}
	return reportDTO{
		Week:               toWeekDTO(r.Week),
		TotalActiveMembers: r.TotalActiveMembers,
		Counts:             r.Counts,
		NewStarted:         toEntryDTOs(r.NewStarted),
		Switching:          toEntryDTOs(r.Switching),
		ProjectEnded:       toEntryDTOs(r.ProjectEnded),
		ContractEnded:      toEntryDTOs(r.ContractEnded),
		CounselingStarted:  toEntryDTOs(r.CounselingStarted),
		Warnings:           warnings,
	}
}

func toEntryDTOs(entries []weeklystatus.Entry) []entryDTO {
	out := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryDTO{
			MemberID:            e.MemberID,
			Name:                e.Name,
			EventDate:           formatDate(e.EventDate),
			ProjectName:         e.ProjectName,
			PreviousProjectName: e.PreviousProjectName,
		})
	}
	return out
}
