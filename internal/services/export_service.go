package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/procurehub/procurement-service/internal/repositories"
)

// ExportService renders XLSX reports for download.
type ExportService struct {
	versions  repositories.VersionRepository
	contracts repositories.ContractRepository
}

func NewExportService(
	versions repositories.VersionRepository,
	contracts repositories.ContractRepository,
) *ExportService {
	return &ExportService{versions: versions, contracts: contracts}
}

// ExportVersionHistory produces a spreadsheet of every version in a scope's
// library-level lineage.
func (s *ExportService) ExportVersionHistory(ctx context.Context, scopeID uuid.UUID) ([]byte, error) {
	versions, err := s.versions.List(ctx, repositories.VersionFilter{ScopeOfWorkID: scopeID})
	if err != nil {
		return nil, err
	}

	headers := []string{"Version", "File Name", "Status", "Current", "Created By", "Uploaded At", "Updated At"}
	rows := make([][]interface{}, 0, len(versions))
	for _, v := range versions {
		current := ""
		if v.IsCurrent {
			current = "yes"
		}
		rows = append(rows, []interface{}{
			v.VersionNumber,
			v.FileName,
			string(v.Status),
			current,
			v.CreatedBy.String(),
			v.UploadedAt.Format("2006-01-02 15:04"),
			v.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return buildWorkbook("Version History", headers, rows)
}

// ExportVendorContracts produces a spreadsheet of a vendor's contracts.
func (s *ExportService) ExportVendorContracts(ctx context.Context, vendorID uuid.UUID) ([]byte, error) {
	contracts, err := s.contracts.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	headers := []string{"Contract ID", "Property", "Status", "Annual Value", "Start", "End"}
	rows := make([][]interface{}, 0, len(contracts))
	for _, c := range contracts {
		rows = append(rows, []interface{}{
			c.ID.String(),
			c.PropertyID.String(),
			string(c.Status),
			c.AnnualValue,
			c.StartDate.Format("2006-01-02"),
			c.EndDate.Format("2006-01-02"),
		})
	}
	return buildWorkbook("Contracts", headers, rows)
}

// ExportVendorMatches produces a spreadsheet of ranked matcher output for a
// property, one row per classified vendor.
func (s *ExportService) ExportVendorMatches(propertyName string, matches []VendorMatch) ([]byte, error) {
	headers := []string{"Vendor", "Match Type", "Distance (mi)", "Contact Email", "Contact Phone"}
	rows := make([][]interface{}, 0, len(matches))
	for _, m := range matches {
		distance := ""
		if m.DistanceMiles >= 0 {
			distance = fmt.Sprintf("%.1f", m.DistanceMiles)
		}
		rows = append(rows, []interface{}{
			m.Vendor.Name,
			string(m.MatchType),
			distance,
			m.Vendor.ContactEmail,
			m.Vendor.ContactPhone,
		})
	}
	return buildWorkbook("Matches - "+sheetSafe(propertyName), headers, rows)
}

func buildWorkbook(sheetName string, headers []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DBEAFE"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sheetSafe trims a name to excelize's 31-char sheet limit.
func sheetSafe(name string) string {
	const max = 20
	if len(name) > max {
		return name[:max]
	}
	return name
}
