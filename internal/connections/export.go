package connections

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Connections"

// ExportXLSX renders a connection listing as a spreadsheet, one request per
// row with the snapshot fields investors filter on.
func ExportXLSX(conns []*Connection) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheet)

	headers := []string{"Project", "Founder", "Status", "Progress", "Tech Stack", "Message", "Response", "Received", "Responded"}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, header)
		f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	for rowIdx, conn := range conns {
		row := rowIdx + 2
		values := []interface{}{
			conn.ProjectData.Title,
			conn.RequesterName,
			string(conn.Status),
			fmt.Sprintf("%d%%", conn.ProjectData.Progress),
			strings.Join(conn.ProjectData.TechStack, ", "),
			conn.Message,
			deref(conn.ResponseMessage),
			conn.CreatedAt.Format("2006-01-02 15:04"),
			"",
		}
		if conn.RespondedAt != nil {
			values[8] = conn.RespondedAt.Format("2006-01-02 15:04")
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(exportSheet, cell, value)
		}
	}

	lastCell, _ := excelize.CoordinatesToCellName(len(headers), len(conns)+1)
	if err := f.AutoFilter(exportSheet, "A1:"+lastCell, nil); err != nil {
		return nil, fmt.Errorf("failed to set auto filter: %w", err)
	}
	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
