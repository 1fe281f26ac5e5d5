package badge

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Badge
		wantErr error
	}{
		{name: "valid", raw: "SMK-7-10A", want: Badge{StudentID: "7", Kelas: "10A"}},
		{name: "empty", raw: "", wantErr: ErrInvalidFormat},
		{name: "wrong prefix", raw: "XYZ-7-10A", wantErr: ErrInvalidFormat},
		{name: "missing kelas", raw: "SMK-7", wantErr: ErrInvalidFormat},
		{name: "too many fields", raw: "SMK-7-XI-IPA", wantErr: ErrInvalidFormat},
		{name: "prefix only", raw: "SMK", wantErr: ErrInvalidFormat},
		{name: "empty fields accepted", raw: "SMK--", want: Badge{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if err != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	raw := Format("12", "11B")
	if raw != "SMK-12-11B" {
		t.Fatalf("Format() = %q", raw)
	}
	b, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if b.StudentID != "12" || b.Kelas != "11B" {
		t.Errorf("Parse(Format()) = %+v", b)
	}
}

func TestSafe(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"10A", true},
		{"budi_s", true},
		{"", true},
		{"XI-IPA", false},
		{"-", false},
	}
	for _, tt := range tests {
		if got := Safe(tt.s); got != tt.want {
			t.Errorf("Safe(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}
