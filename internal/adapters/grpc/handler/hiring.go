package handler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ogurasousui/hiring-insights/internal/core/hiring"
	"github.com/ogurasousui/hiring-insights/internal/core/ingest"
	"github.com/ogurasousui/hiring-insights/internal/core/report"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// HiringGrpcHandler は HiringService の gRPC 実装です。
type HiringGrpcHandler struct {
	ingest  ingest.UseCase
	reports report.UseCase
	roster  hiring.UseCase
}

var _ HiringServiceServer = (*HiringGrpcHandler)(nil)

// NewHiringGrpcHandler は HiringGrpcHandler を生成します。
func NewHiringGrpcHandler(ingestUC ingest.UseCase, reportUC report.UseCase, rosterUC hiring.UseCase) *HiringGrpcHandler {
	return &HiringGrpcHandler{ingest: ingestUC, reports: reportUC, roster: rosterUC}
}

// Ingest は {"kind": ..., "content": CSV 本文} を取り込み、{"kind": ..., "count": n} を返します。
func (h *HiringGrpcHandler) Ingest(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	fields := req.GetFields()
	in := ingest.IngestInput{Kind: fields["kind"].GetStringValue()}
	if content, ok := fields["content"]; ok {
		in.Source = strings.NewReader(content.GetStringValue())
	}

	res, err := h.ingest.Ingest(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{
		"kind":  res.Kind.String(),
		"count": res.Count,
	})
}

// HiresByQuarter は四半期別採用数を返します。
func (h *HiringGrpcHandler) HiresByQuarter(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	rows, err := h.reports.HiresByQuarter(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]any, 0, len(rows))
	for _, r := range rows {
		items = append(items, map[string]any{
			"department": r.Department,
			"job":        r.Job,
			"q1":         r.Q1,
			"q2":         r.Q2,
			"q3":         r.Q3,
			"q4":         r.Q4,
		})
	}
	return newList(items)
}

// AboveAverageByDepartment は平均超過部署を返します。
func (h *HiringGrpcHandler) AboveAverageByDepartment(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	rows, err := h.reports.AboveAverageByDepartment(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]any, 0, len(rows))
	for _, r := range rows {
		items = append(items, map[string]any{
			"department_id": r.ID,
			"department":    r.Department,
			"hired":         r.Hired,
		})
	}
	return newList(items)
}

// GetDepartment は {"id": ...} で部署を返します。
func (h *HiringGrpcHandler) GetDepartment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	d, err := h.roster.GetDepartment(ctx, hiring.GetInput{ID: idField(req)})
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(map[string]any{"id": d.ID, "name": d.Name})
}

// GetJob は {"id": ...} で職種を返します。
func (h *HiringGrpcHandler) GetJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	j, err := h.roster.GetJob(ctx, hiring.GetInput{ID: idField(req)})
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(map[string]any{"id": j.ID, "title": j.Title})
}

// GetEmployee は {"id": ...} で社員を返します。
func (h *HiringGrpcHandler) GetEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	e, err := h.roster.GetEmployee(ctx, hiring.GetInput{ID: idField(req)})
	if err != nil {
		return nil, toStatusError(err)
	}

	fields := map[string]any{
		"id":            e.ID,
		"name":          nil,
		"hire_time":     e.HireTime.UTC().Format(time.RFC3339),
		"department_id": nil,
		"job_id":        nil,
	}
	if e.Name != nil {
		fields["name"] = *e.Name
	}
	if e.DepartmentID != nil {
		fields["department_id"] = *e.DepartmentID
	}
	if e.JobID != nil {
		fields["job_id"] = *e.JobID
	}
	return newStruct(fields)
}

// idField は id を文字列または数値のどちらでも受け付けます。
func idField(req *structpb.Struct) string {
	v, ok := req.GetFields()["id"]
	if !ok {
		return ""
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	default:
		return v.GetStringValue()
	}
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s, nil
}

func newList(items []any) (*structpb.ListValue, error) {
	l, err := structpb.NewList(items)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return l, nil
}
