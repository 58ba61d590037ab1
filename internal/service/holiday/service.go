package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/validator"
)

type holidayServiceImpl struct {
	holidayRepo holiday.HolidayRepository
	loc         *time.Location
}

func NewHolidayService(holidayRepo holiday.HolidayRepository, loc *time.Location) holiday.HolidayService {
	if loc == nil {
		loc = time.Local
	}
	return &holidayServiceImpl{
		holidayRepo: holidayRepo,
		loc:         loc,
	}
}

func (s *holidayServiceImpl) Create(ctx context.Context, req holiday.CreateSlotRequest) (holiday.SlotResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.SlotResponse{}, err
	}

	slot, err := holiday.ParseSlot(req.Date, req.From, req.To, s.loc)
	if err != nil {
		return holiday.SlotResponse{}, err
	}
	slot.Name = req.Name

	created, err := s.holidayRepo.Create(ctx, slot)
	if err != nil {
		return holiday.SlotResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return holiday.NewSlotResponse(created), nil
}

func (s *holidayServiceImpl) List(ctx context.Context, req holiday.ListSlotsRequest) ([]holiday.SlotResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from, err := utils.ParseDateIn(req.From, s.loc)
	if err != nil {
		return nil, holiday.ErrInvalidSlotDate
	}
	to, err := utils.ParseDateIn(req.To, s.loc)
	if err != nil {
		return nil, holiday.ErrInvalidSlotDate
	}

	slots, err := s.holidayRepo.ListByRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]holiday.SlotResponse, 0, len(slots))
	for _, slot := range holiday.NewCalendar(slots).Slots() {
		responses = append(responses, holiday.NewSlotResponse(slot))
	}
	return responses, nil
}

func (s *holidayServiceImpl) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return holiday.ErrHolidayNotFound
	}
	return s.holidayRepo.Delete(ctx, id)
}

func (s *holidayServiceImpl) CalendarFor(ctx context.Context, from, to time.Time) (holiday.Calendar, error) {
	slots, err := s.holidayRepo.ListByRange(ctx, from, to)
	if err != nil {
		return holiday.Calendar{}, fmt.Errorf("failed to list holidays: %w", err)
	}
	return holiday.NewCalendar(slots), nil
}
