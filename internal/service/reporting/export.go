package reporting

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/sowmensarker/ambika/internal/domain/models"
)

// XLSXContentType is the media type of the exported workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultSheet = "Sheet1"

// WriteActivitiesXLSX writes the ledger as a single-sheet workbook.
func WriteActivitiesXLSX(w io.Writer, records []models.ActivityRecord) error {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{r.Date, string(r.Type), r.Description, r.Amount, r.Timestamp})
	}
	return writeWorkbook(w, "Activity", []any{"Date", "Type", "Description", "Amount", "Timestamp"}, rows)
}

// WriteSalesXLSX writes one row per sale.
func WriteSalesXLSX(w io.Writer, sales []models.Sale) error {
	rows := make([][]any, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, []any{
			s.Timestamp, s.SoldAt, s.BuyerName, s.BuyerPhone, s.SellerName,
			s.TotalSold, s.ReceivedAmount, s.PendingAmount, string(s.Status),
		})
	}
	headings := []any{"Sale ID", "Sold At", "Buyer", "Phone", "Seller", "Total", "Received", "Pending", "Status"}
	return writeWorkbook(w, "Sales", headings, rows)
}

func writeWorkbook(w io.Writer, sheet string, headings []any, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &headings); err != nil {
		return fmt.Errorf("failed to write headings: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
