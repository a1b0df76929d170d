package handler

import (
	"context"
	"errors"

	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/fiscalweek"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/member"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/weeklystatus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fiscalweek.ErrInvalidYear),
		errors.Is(err, fiscalweek.ErrInvalidMonth),
		errors.Is(err, fiscalweek.ErrInvalidWeekInMonth),
		errors.Is(err, fiscalweek.ErrInvalidMonthRule),
		errors.Is(err, fiscalweek.ErrInvalidDateRange),
		errors.Is(err, weeklystatus.ErrInvalidWindow),
		errors.Is(err, member.ErrInvalidID),
		errors.Is(err, member.ErrInvalidExternalID),
		errors.Is(err, member.ErrInvalidSource),
		errors.Is(err, member.ErrInvalidName),
		errors.Is(err, member.ErrInvalidStatus),
		errors.Is(err, member.ErrInvalidWorkHistory),
		errors.Is(err, member.ErrInvalidPageSize),
		errors.Is(err, member.ErrInvalidPageToken):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, member.ErrExternalIDAlreadyExists), errors.Is(err, weeklystatus.ErrSnapshotAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, member.ErrMemberNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
