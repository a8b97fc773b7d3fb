package services

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yigit/sis/internal/app/models"
)

// EnrollmentSheet is the worksheet name of enrollment exports
const EnrollmentSheet = "Enrollments"

// XLSXContentType is the MIME type of exported workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var enrollmentHeaders = []string{"Sno", "Sname", "Cno", "Cname", "Ccredit", "Tno", "Tname", "Grade"}

// ExportService renders enrollment rows as spreadsheets
type ExportService struct {
	now func() time.Time
}

// NewExportService creates a new ExportService
func NewExportService() *ExportService {
	return &ExportService{now: time.Now}
}

// FileName returns a timestamped attachment name
func (s *ExportService) FileName() string {
	return fmt.Sprintf("enrollments_%s.xlsx", s.now().Format("20060102_150405"))
}

// Workbook builds a workbook with one header row and one row per enrollment.
// Ungraded rows leave the grade cell empty, so 0 stays distinguishable.
func (s *ExportService) Workbook(rows []*models.EnrollmentDetail) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(EnrollmentSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("error removing default sheet: %w", err)
	}

	for i, header := range enrollmentHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(EnrollmentSheet, cell, header); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i, r := range rows {
		values := []interface{}{r.Sno, r.Sname, r.Cno, r.Cname, r.Ccredit, r.Tno, r.Tname, nil}
		if r.Grade != nil {
			values[7] = *r.Grade
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(EnrollmentSheet, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	return f, nil
}

// Render returns the finished workbook bytes. Nothing reaches the client
// until the whole file has been built.
func (s *ExportService) Render(rows []*models.EnrollmentDetail) ([]byte, error) {
	f, err := s.Workbook(rows)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
