package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

type fixServiceImpl struct {
	fixRepo attendance.ExceptionFixRepository
	loc     *time.Location
}

func NewFixService(fixRepo attendance.ExceptionFixRepository, loc *time.Location) attendance.FixService {
	if loc == nil {
		loc = time.Local
	}
	return &fixServiceImpl{
		fixRepo: fixRepo,
		loc:     loc,
	}
}

func (s *fixServiceImpl) Upsert(ctx context.Context, req attendance.UpsertFixRequest) (attendance.FixResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.FixResponse{}, err
	}

	date, err := utils.ParseDateIn(req.Date, s.loc)
	if err != nil {
		return attendance.FixResponse{}, attendance.ErrInvalidFix
	}

	createdBy := req.CreatedBy
	if createdBy == nil {
		createdBy = operatorFromContext(ctx)
	}

	fix := attendance.ExceptionFix{
		UserID:    req.UserID,
		Date:      date,
		Shift:     strings.ToUpper(strings.TrimSpace(req.Shift)),
		InTime:    strings.TrimSpace(req.InTime),
		OutTime:   strings.TrimSpace(req.OutTime),
		Reason:    strings.TrimSpace(req.Reason),
		CreatedBy: createdBy,
	}

	saved, err := s.fixRepo.Upsert(ctx, fix)
	if err != nil {
		return attendance.FixResponse{}, fmt.Errorf("failed to save exception fix: %w", err)
	}
	return attendance.NewFixResponse(saved), nil
}

func (s *fixServiceImpl) List(ctx context.Context, req attendance.ListFixesRequest) ([]attendance.FixResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from, err := utils.ParseDateIn(req.From, s.loc)
	if err != nil {
		return nil, attendance.ErrInvalidDateRange
	}
	to, err := utils.ParseDateIn(req.To, s.loc)
	if err != nil {
		return nil, attendance.ErrInvalidDateRange
	}

	fixes, err := s.fixRepo.ListByRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list exception fixes: %w", err)
	}

	responses := make([]attendance.FixResponse, 0, len(fixes))
	for _, f := range fixes {
		responses = append(responses, attendance.NewFixResponse(f))
	}
	return responses, nil
}

func (s *fixServiceImpl) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return attendance.ErrFixNotFound
	}
	if _, err := s.fixRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, attendance.ErrFixNotFound) {
			return err
		}
		return fmt.Errorf("failed to get exception fix: %w", err)
	}
	return s.fixRepo.Delete(ctx, id)
}

// operatorFromContext reads the operator id from verified JWT claims, if any.
func operatorFromContext(ctx context.Context) *string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil || claims == nil {
		return nil
	}
	operatorID, ok := claims["operator_id"].(string)
	if !ok || operatorID == "" {
		return nil
	}
	return &operatorID
}
