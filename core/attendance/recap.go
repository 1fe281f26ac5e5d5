package attendance

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// FormatRecap renders the daily recap as plain text: the day's statistics
// followed by one line per record in insertion order.
func FormatRecap(date string, recs []Record, st DailyStats) string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "Rekap Absensi %s\n\n", date)
	fmt.Fprintf(b, "Total: %d | Hadir: %d | Sakit: %d | Izin: %d | Alpha: %d\n\n",
		st.Total, st.Present, st.Sick, st.Permission, st.Absent)
	for _, r := range recs {
		fmt.Fprintf(b, "%-20s %-8s %-6s %s (%s)\n",
			r.StudentName, r.Kelas, r.Status, r.Timestamp.Format(time.RFC3339), r.ScanMethod)
	}
	return b.String()
}

// RecapCSV renders the day's records as a CSV attachment body.
func RecapCSV(recs []Record) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)

	rows := [][]string{{"id", "date", "studentId", "studentName", "kelas", "status", "timestamp", "guruId", "scanMethod", "keterangan"}}
	for _, r := range recs {
		rows = append(rows, []string{
			r.ID, r.Date, r.StudentID, r.StudentName, r.Kelas,
			string(r.Status), r.Timestamp.Format(time.RFC3339), r.ActorID, string(r.ScanMethod), r.Note,
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, errors.Wrap(err, "writing recap CSV")
	}
	return buf, nil
}
