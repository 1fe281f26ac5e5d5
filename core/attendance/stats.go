package attendance

// Recompute derives the daily statistics for date from the full record set.
// It is a pure function: the statistics map is never mutated independently,
// it is always rebuilt from the records it describes.
func Recompute(records []Record, date string) DailyStats {
	var st DailyStats
	for _, r := range records {
		if r.Date != date {
			continue
		}
		st.Total++
		switch r.Status {
		case StatusPresent:
			st.Present++
		case StatusSick:
			st.Sick++
		case StatusPermission:
			st.Permission++
		case StatusAbsent:
			st.Absent++
		}
	}
	return st
}
