package application

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	bookingDomain "github.com/hotelhub/service-booking/internal/domain/booking"
	customerDomain "github.com/hotelhub/service-booking/internal/domain/customer"
	roomDomain "github.com/hotelhub/service-booking/internal/domain/room"
)

const (
	sheetArrivals   = "Arrivals"
	sheetDepartures = "Departures"
)

var frontDeskHeaders = []string{
	"Booking", "Room", "Guest", "Phone", "Check-in", "Check-out",
	"Nights", "Guests", "Status", "Total", "Advance",
}

// ExportService renders operational spreadsheets for the front desk.
type ExportService struct {
	bookings  bookingDomain.BookingRepository
	rooms     roomDomain.RoomRepository
	customers customerDomain.CustomerRepository
	location  *time.Location
	logger    *zap.Logger
}

// NewExportService creates a new ExportService. Days are interpreted in loc.
func NewExportService(
	bookings bookingDomain.BookingRepository,
	rooms roomDomain.RoomRepository,
	customers customerDomain.CustomerRepository,
	loc *time.Location,
	logger *zap.Logger,
) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportService{
		bookings:  bookings,
		rooms:     rooms,
		customers: customers,
		location:  loc,
		logger:    logger,
	}
}

// ExportFrontDesk builds an .xlsx workbook listing the arrivals and departures
// of the calendar day containing date.
func (s *ExportService) ExportFrontDesk(ctx context.Context, date time.Time) ([]byte, string, error) {
	y, m, d := date.In(s.location).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, s.location)
	to := from.AddDate(0, 0, 1)

	arrivals, err := s.bookings.FindArrivals(ctx, from, to)
	if err != nil {
		return nil, "", err
	}
	departures, err := s.bookings.FindDepartures(ctx, from, to)
	if err != nil {
		return nil, "", err
	}

	rooms, customers, err := s.lookups(ctx, append(append([]*bookingDomain.Booking{}, arrivals...), departures...))
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetArrivals); err != nil {
		return nil, "", fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetDepartures); err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}

	for sheet, list := range map[string][]*bookingDomain.Booking{
		sheetArrivals:   arrivals,
		sheetDepartures: departures,
	} {
		if err := s.writeSheet(f, sheet, list, rooms, customers); err != nil {
			return nil, "", err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("front-desk export generated",
		zap.String("date", from.Format("2006-01-02")),
		zap.Int("arrivals", len(arrivals)),
		zap.Int("departures", len(departures)),
	)
	filename := fmt.Sprintf("front-desk-%s.xlsx", from.Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) writeSheet(
	f *excelize.File,
	sheet string,
	list []*bookingDomain.Booking,
	rooms map[uuid.UUID]*roomDomain.Room,
	customers map[uuid.UUID]*customerDomain.Customer,
) error {
	for i, header := range frontDeskHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, bk := range list {
		var roomName, guest, phone string
		if bk.RoomID() != nil {
			if rm := rooms[*bk.RoomID()]; rm != nil {
				roomName = rm.Name()
			}
		}
		if bk.CustomerID() != nil {
			if c := customers[*bk.CustomerID()]; c != nil {
				guest = c.FullName()
				phone = c.Profile().Phone
			}
		}

		row := []interface{}{
			bk.BookingNumber(),
			roomName,
			guest,
			phone,
			bk.CheckIn().In(s.location).Format("2006-01-02 15:04"),
			bk.CheckOut().In(s.location).Format("2006-01-02 15:04"),
			bk.NumberOfNights(),
			bk.TotalGuests(),
			bk.Status().Label(),
			bk.TotalAmount(),
			bk.AdvancePayment(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func (s *ExportService) lookups(ctx context.Context, list []*bookingDomain.Booking) (map[uuid.UUID]*roomDomain.Room, map[uuid.UUID]*customerDomain.Customer, error) {
	var roomIDs, customerIDs []uuid.UUID
	for _, bk := range list {
		if bk.RoomID() != nil {
			roomIDs = append(roomIDs, *bk.RoomID())
		}
		if bk.CustomerID() != nil {
			customerIDs = append(customerIDs, *bk.CustomerID())
		}
	}
	rooms, err := s.rooms.FindByIDs(ctx, roomIDs)
	if err != nil {
		return nil, nil, err
	}
	customers, err := s.customers.FindByIDs(ctx, customerIDs)
	if err != nil {
		return nil, nil, err
	}
	return rooms, customers, nil
}
