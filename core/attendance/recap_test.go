package attendance

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

func TestFormatRecap(t *testing.T) {
	ts := time.Date(2026, 8, 28, 7, 30, 0, 0, time.UTC)
	recs := []Record{
		{StudentName: "Budi Santoso", Kelas: "10A", Status: StatusPresent, Timestamp: ts, ScanMethod: ScanMethodBarcode},
		{StudentName: "Siti Rahma", Kelas: "10A", Status: StatusSick, Timestamp: ts, ScanMethod: ScanMethodManual},
	}
	st := DailyStats{Total: 2, Present: 1, Sick: 1}

	got := FormatRecap("2026-08-28", recs, st)
	for _, want := range []string{
		"Rekap Absensi 2026-08-28",
		"Total: 2 | Hadir: 1 | Sakit: 1 | Izin: 0 | Alpha: 0",
		"Budi Santoso",
		"Siti Rahma",
		"barcode",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatRecap() missing %q in:\n%s", want, got)
		}
	}
}

func TestRecapCSV(t *testing.T) {
	ts := time.Date(2026, 8, 28, 7, 30, 0, 0, time.UTC)
	recs := []Record{
		{
			ID: "2026-08-28_1", Date: "2026-08-28", StudentID: "1", StudentName: "Budi Santoso",
			Kelas: "10A", Status: StatusPresent, Timestamp: ts, ActorID: "guru-1",
			ScanMethod: ScanMethodBarcode,
		},
	}

	buf, err := RecapCSV(recs)
	if err != nil {
		t.Fatalf("RecapCSV() error = %v", err)
	}
	rows, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (header + record)", len(rows))
	}
	if rows[0][0] != "id" || rows[0][9] != "keterangan" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "2026-08-28_1" || rows[1][5] != "hadir" || rows[1][8] != "barcode" {
		t.Errorf("record row = %v", rows[1])
	}
}
