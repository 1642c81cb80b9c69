package stock

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ExportFormat identifies a supported history export format
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatJSON ExportFormat = "json"
)

// IsValid returns true if the export format is supported
func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportFormatCSV, ExportFormatXLSX, ExportFormatJSON:
		return true
	}
	return false
}

// ExportResult carries a rendered export ready to be streamed to the client
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

var exportHeader = []string{
	"transaction_date", "transaction_type", "quantity_change",
	"previous_quantity", "new_quantity", "from_location_id", "to_location_id",
	"lot_id", "price_per_unit", "total_price", "actor", "comments",
}

// renderExport serializes history rows into the requested format. Row order
// is whatever the caller produced; formats only differ in encoding.
func renderExport(componentID uuid.UUID, format ExportFormat, rows []TransactionResponse) (*ExportResult, error) {
	filename := fmt.Sprintf("stock_history_%s_%s.%s",
		componentID, time.Now().Format("20060102"), format)

	switch format {
	case ExportFormatCSV:
		data, err := renderCSV(rows)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Filename: filename, ContentType: "text/csv", Data: data}, nil
	case ExportFormatXLSX:
		data, err := renderXLSX(rows)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			Filename:    filename,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	case ExportFormatJSON:
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return nil, err
		}
		return &ExportResult{Filename: filename, ContentType: "application/json", Data: data}, nil
	}
	return nil, fmt.Errorf("unsupported export format: %s", format)
}

func exportCells(row *TransactionResponse) []string {
	cells := []string{
		row.TransactionDate.Format(time.RFC3339),
		row.TransactionType,
		fmt.Sprintf("%d", row.QuantityChange),
		fmt.Sprintf("%d", row.PreviousQuantity),
		fmt.Sprintf("%d", row.NewQuantity),
		"", "", "", "", "",
		row.Actor,
		row.Comments,
	}
	if row.FromLocationID != nil {
		cells[5] = row.FromLocationID.String()
	}
	if row.ToLocationID != nil {
		cells[6] = row.ToLocationID.String()
	}
	if row.LotID != nil {
		cells[7] = *row.LotID
	}
	if row.PricePerUnit != nil {
		cells[8] = row.PricePerUnit.String()
	}
	if row.TotalPrice != nil {
		cells[9] = row.TotalPrice.String()
	}
	return cells
}

func renderCSV(rows []TransactionResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for i := range rows {
		if err := w.Write(exportCells(&rows[i])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(rows []TransactionResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "History"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}
	for i := range rows {
		for col, value := range exportCells(&rows[i]) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
