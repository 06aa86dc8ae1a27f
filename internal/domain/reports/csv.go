package reports

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"employeedir/internal/domain/employee"
)

// WriteDirectoryCSV writes rows with a header line matching the JSON field names.
func WriteDirectoryCSV(w io.Writer, rows []employee.Employee) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "name", "email", "department", "status", "created_at"}); err != nil {
		return err
	}
	for _, emp := range rows {
		if err := writer.Write([]string{
			strconv.FormatInt(emp.ID, 10),
			emp.Name,
			emp.Email,
			emp.Department,
			emp.Status,
			emp.CreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
