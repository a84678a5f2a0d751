// Package export renders the bookings report as an XLSX workbook on local
// disk. It replaces the whole file on every write, so the report always
// reflects the store.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fitbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

type XLSXWriter struct {
	dir    string
	logger *zerolog.Logger
}

func NewXLSXWriter(dir string, logger *zerolog.Logger) *XLSXWriter {
	return &XLSXWriter{dir: dir, logger: logger}
}

// WriteBookings regenerates the bookings report from a full snapshot.
func (w *XLSXWriter) WriteBookings(ctx context.Context, bookings []*models.Booking, classes []*models.FitnessClass) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("error creating export directory: %w", err)
	}

	classByID := make(map[int64]*models.FitnessClass, len(classes))
	for _, c := range classes {
		classByID[c.ID] = c
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Class", "Class starts", "Client name", "Client email", "Status", "Booked at"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "G1", headerStyle)

	for row, b := range bookings {
		classLabel := fmt.Sprintf("#%d", b.ClassID)
		var startsAt string
		if c, ok := classByID[b.ClassID]; ok {
			classLabel = fmt.Sprintf("%s #%d", c.ClassType, c.ID)
			startsAt = c.StartsAt.Format(time.RFC3339)
		}

		values := []any{
			b.ID,
			classLabel,
			startsAt,
			b.ClientName,
			b.ClientEmail,
			b.Status,
			b.BookedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "G", 24)
	_ = f.DeleteSheet("Sheet1")

	filePath := filepath.Join(w.dir, "bookings.xlsx")
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}

	w.logger.Debug().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("bookings report written")
	return nil
}
