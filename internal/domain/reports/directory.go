package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"employeedir/internal/domain/employee"
)

var directoryColumns = []struct {
	title string
	width float64
}{
	{"ID", 14},
	{"Name", 50},
	{"Email", 62},
	{"Department", 34},
	{"Status", 26},
	{"Created", 30},
}

// WriteDirectoryPDF renders rows as an A4 landscape table.
func WriteDirectoryPDF(w io.Writer, filter employee.Filter, rows []employee.Employee, generatedAt time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Employee Directory", true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Employee Directory")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Generated: "+generatedAt.UTC().Format(time.RFC3339))
	pdf.Ln(6)
	pdf.Cell(0, 6, describeFilter(filter, len(rows)))
	pdf.Ln(10)

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range directoryColumns {
			pdf.CellFormat(col.width, 8, col.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	writeHeader()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, emp := range rows {
		if pdf.GetY()+7 > pageHeight-bottom-12 {
			pdf.AddPage()
			writeHeader()
		}
		cells := []string{
			fmt.Sprintf("%d", emp.ID),
			tr(emp.Name),
			tr(emp.Email),
			tr(emp.Department),
			tr(emp.Status),
			emp.CreatedAt.UTC().Format("2006-01-02"),
		}
		for i, col := range directoryColumns {
			pdf.CellFormat(col.width, 7, truncate(pdf, cells[i], col.width-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func describeFilter(filter employee.Filter, count int) string {
	search := filter.Search
	if search == "" {
		search = "-"
	}
	department := filter.Department
	if department == "" {
		department = employee.AllDepartments
	}
	sort := "newest first"
	switch filter.Sort {
	case employee.SortNameAsc:
		sort = "name A-Z"
	case employee.SortNameDesc:
		sort = "name Z-A"
	}
	return fmt.Sprintf("Search: %s   Department: %s   Sort: %s   Employees: %d", search, department, sort, count)
}

func truncate(pdf *gofpdf.Fpdf, value string, width float64) string {
	if pdf.GetStringWidth(value) <= width {
		return value
	}
	runes := []rune(value)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
