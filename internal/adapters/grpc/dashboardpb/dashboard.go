// Package dashboardpb は dashboard.v1 の gRPC サービス定義です。
//
// メッセージはすべて google.protobuf.Struct で、フィールド名は snake_case、日付は
// ISO-8601 (YYYY-MM-DD) 文字列です。
package dashboardpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	WeeklyReportServiceName = "dashboard.v1.WeeklyReportService"
	MemberServiceName       = "dashboard.v1.MemberService"
)

const (
	WeeklyReportService_GetWeekRange_FullMethodName           = "/dashboard.v1.WeeklyReportService/GetWeekRange"
	WeeklyReportService_GetWeekOf_FullMethodName              = "/dashboard.v1.WeeklyReportService/GetWeekOf"
	WeeklyReportService_ListMonthWeeks_FullMethodName         = "/dashboard.v1.WeeklyReportService/ListMonthWeeks"
	WeeklyReportService_GetWeeklyReport_FullMethodName        = "/dashboard.v1.WeeklyReportService/GetWeeklyReport"
	WeeklyReportService_GetCurrentWeeklyReport_FullMethodName = "/dashboard.v1.WeeklyReportService/GetCurrentWeeklyReport"
	WeeklyReportService_ListMonthlyReports_FullMethodName     = "/dashboard.v1.WeeklyReportService/ListMonthlyReports"
	WeeklyReportService_GetContinuationProfile_FullMethodName = "/dashboard.v1.WeeklyReportService/GetContinuationProfile"
	WeeklyReportService_PublishWeeklyReport_FullMethodName    = "/dashboard.v1.WeeklyReportService/PublishWeeklyReport"

	MemberService_ImportMember_FullMethodName = "/dashboard.v1.MemberService/ImportMember"
	MemberService_GetMember_FullMethodName    = "/dashboard.v1.MemberService/GetMember"
	MemberService_ListMembers_FullMethodName  = "/dashboard.v1.MemberService/ListMembers"
	MemberService_DeleteMember_FullMethodName = "/dashboard.v1.MemberService/DeleteMember"
)

// WeeklyReportServiceServer は WeeklyReportService のサーバー API です。
type WeeklyReportServiceServer interface {
	GetWeekRange(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetWeekOf(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMonthWeeks(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetWeeklyReport(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCurrentWeeklyReport(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMonthlyReports(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetContinuationProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PublishWeeklyReport(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedWeeklyReportServiceServer は未実装メソッドに Unimplemented を返します。
type UnimplementedWeeklyReportServiceServer struct{}

func (UnimplementedWeeklyReportServiceServer) GetWeekRange(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetWeekRange not implemented")
}
func (UnimplementedWeeklyReportServiceServer) GetWeekOf(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetWeekOf not implemented")
}
func (UnimplementedWeeklyReportServiceServer) ListMonthWeeks(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMonthWeeks not implemented")
}
func (UnimplementedWeeklyReportServiceServer) GetWeeklyReport(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetWeeklyReport not implemented")
}
func (UnimplementedWeeklyReportServiceServer) GetCurrentWeeklyReport(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCurrentWeeklyReport not implemented")
}
func (UnimplementedWeeklyReportServiceServer) ListMonthlyReports(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMonthlyReports not implemented")
}
func (UnimplementedWeeklyReportServiceServer) GetContinuationProfile(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetContinuationProfile not implemented")
}
func (UnimplementedWeeklyReportServiceServer) PublishWeeklyReport(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method PublishWeeklyReport not implemented")
}

// MemberServiceServer は MemberService のサーバー API です。
type MemberServiceServer interface {
	ImportMember(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetMember(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMembers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteMember(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedMemberServiceServer は未実装メソッドに Unimplemented を返します。
type UnimplementedMemberServiceServer struct{}

func (UnimplementedMemberServiceServer) ImportMember(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ImportMember not implemented")
}
func (UnimplementedMemberServiceServer) GetMember(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMember not implemented")
}
func (UnimplementedMemberServiceServer) ListMembers(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMembers not implemented")
}
func (UnimplementedMemberServiceServer) DeleteMember(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteMember not implemented")
}

type structMethod func(srv interface{}, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call structMethod) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv, ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func weeklyMethod(name, fullMethod string, call func(WeeklyReportServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: unaryHandler(fullMethod, func(srv interface{}, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return call(srv.(WeeklyReportServiceServer), ctx, in)
		}),
	}
}

func memberMethod(name, fullMethod string, call func(MemberServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: unaryHandler(fullMethod, func(srv interface{}, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return call(srv.(MemberServiceServer), ctx, in)
		}),
	}
}

// WeeklyReportService_ServiceDesc は WeeklyReportService の grpc.ServiceDesc です。
var WeeklyReportService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: WeeklyReportServiceName,
	HandlerType: (*WeeklyReportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		weeklyMethod("GetWeekRange", WeeklyReportService_GetWeekRange_FullMethodName, WeeklyReportServiceServer.GetWeekRange),
		weeklyMethod("GetWeekOf", WeeklyReportService_GetWeekOf_FullMethodName, WeeklyReportServiceServer.GetWeekOf),
		weeklyMethod("ListMonthWeeks", WeeklyReportService_ListMonthWeeks_FullMethodName, WeeklyReportServiceServer.ListMonthWeeks),
		weeklyMethod("GetWeeklyReport", WeeklyReportService_GetWeeklyReport_FullMethodName, WeeklyReportServiceServer.GetWeeklyReport),
		weeklyMethod("GetCurrentWeeklyReport", WeeklyReportService_GetCurrentWeeklyReport_FullMethodName, WeeklyReportServiceServer.GetCurrentWeeklyReport),
		weeklyMethod("ListMonthlyReports", WeeklyReportService_ListMonthlyReports_FullMethodName, WeeklyReportServiceServer.ListMonthlyReports),
		weeklyMethod("GetContinuationProfile", WeeklyReportService_GetContinuationProfile_FullMethodName, WeeklyReportServiceServer.GetContinuationProfile),
		weeklyMethod("PublishWeeklyReport", WeeklyReportService_PublishWeeklyReport_FullMethodName, WeeklyReportServiceServer.PublishWeeklyReport),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dashboard/v1/dashboard.proto",
}

// MemberService_ServiceDesc は MemberService の grpc.ServiceDesc です。
var MemberService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: MemberServiceName,
	HandlerType: (*MemberServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		memberMethod("ImportMember", MemberService_ImportMember_FullMethodName, MemberServiceServer.ImportMember),
		memberMethod("GetMember", MemberService_GetMember_FullMethodName, MemberServiceServer.GetMember),
		memberMethod("ListMembers", MemberService_ListMembers_FullMethodName, MemberServiceServer.ListMembers),
		memberMethod("DeleteMember", MemberService_DeleteMember_FullMethodName, MemberServiceServer.DeleteMember),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dashboard/v1/dashboard.proto",
}

// RegisterWeeklyReportServiceServer は srv を s に登録します。
func RegisterWeeklyReportServiceServer(s grpc.ServiceRegistrar, srv WeeklyReportServiceServer) {
	s.RegisterService(&WeeklyReportService_ServiceDesc, srv)
}

// RegisterMemberServiceServer は srv を s に登録します。
func RegisterMemberServiceServer(s grpc.ServiceRegistrar, srv MemberServiceServer) {
	s.RegisterService(&MemberService_ServiceDesc, srv)
}

// Client は dashboard.v1 の各 RPC を Struct メッセージで呼び出すクライアントです。
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient は Client を生成します。
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call は fullMethod を呼び出します。in が nil の場合は空のメッセージを送ります。
func (c *Client) Call(ctx context.Context, fullMethod string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
