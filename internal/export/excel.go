// Package export renders booking reports as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

var bookingColumns = []string{
	"Date", "Time", "Customer", "Phone", "Services", "Status",
	"Total Price", "Duration (min)", "Notes", "Created At",
}

// BookingsReport writes the bookings as a single-sheet workbook to w.
// Rows arrive already sorted by date and time.
func BookingsReport(w io.Writer, bookings []models.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Bookings"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range bookingColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(bookingColumns), 1)
		_ = f.SetCellStyle(sheet, "A1", endCell, style)
	}

	for rowIdx, b := range bookings {
		row := []any{
			b.BookingDate,
			b.BookingTime,
			customerName(b),
			customerPhone(b),
			serviceNames(b),
			b.Status,
			b.TotalPrice,
			b.TotalDurationMinutes,
			b.Notes,
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		for colIdx, val := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("write booking row %d: %w", rowIdx+1, err)
			}
		}
	}

	return f.Write(w)
}

func customerName(b models.Booking) string {
	if b.Customer != nil {
		return b.Customer.Name
	}
	return ""
}

func customerPhone(b models.Booking) string {
	if b.Customer != nil {
		return b.Customer.Phone
	}
	return ""
}

func serviceNames(b models.Booking) string {
	var names []string
	for _, item := range b.Services {
		if item.Service != nil {
			names = append(names, item.Service.Name)
		}
	}
	return strings.Join(names, ", ")
}
