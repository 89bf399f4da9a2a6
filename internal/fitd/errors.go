package fitd

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GoSim-25-26J-441/kinfit/internal/dataset"
	"github.com/GoSim-25-26J-441/kinfit/internal/fit"
	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
	"github.com/GoSim-25-26J-441/kinfit/internal/objective"
)

var (
	ErrFitNotFound    = errors.New("fit not found")
	ErrInvalidRequest = errors.New("invalid request")
)

// isInvalidInput reports whether err is the caller's fault
func isInvalidInput(err error) bool {
	var (
		unknownModel *kinetics.UnknownModelError
		invalidGuess *fit.InvalidInitialGuessError
		domain       *objective.NumericDomainError
	)
	switch {
	case errors.As(err, &unknownModel),
		errors.As(err, &invalidGuess),
		errors.As(err, &domain),
		errors.Is(err, fit.ErrInvalidBounds),
		errors.Is(err, fit.ErrParamCount),
		errors.Is(err, fit.ErrUnknownMethod),
		errors.Is(err, fit.ErrInvalidObservation),
		errors.Is(err, dataset.ErrUnknownDataset),
		errors.Is(err, kinetics.ErrEmptySet),
		errors.Is(err, ErrInvalidRequest):
		return true
	}
	return false
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, ErrFitNotFound):
		return http.StatusNotFound
	case isInvalidInput(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func grpcError(err error) error {
	switch {
	case errors.Is(err, ErrFitNotFound):
		return status.Error(codes.NotFound, err.Error())
	case isInvalidInput(err):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
