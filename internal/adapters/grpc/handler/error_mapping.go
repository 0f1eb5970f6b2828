package handler

import (
	"errors"

	"github.com/ogurasousui/hiring-insights/internal/core/hiring"
	"github.com/ogurasousui/hiring-insights/internal/core/ingest"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ingest.ErrPersistence):
		return status.Error(codes.Internal, err.Error())
	case errors.Is(err, ingest.ErrUnsupportedKind),
		errors.Is(err, ingest.ErrMissingSource),
		errors.Is(err, ingest.ErrRowConstruction),
		errors.Is(err, hiring.ErrInvalidID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, hiring.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
