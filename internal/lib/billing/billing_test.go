package billing

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextPaymentDate_Monthly(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{
			name: "regular day",
			from: date(2025, 3, 1),
			want: date(2025, 4, 1),
		},
		{
			name: "mid month",
			from: date(2024, 6, 15),
			want: date(2024, 7, 15),
		},
		{
			name: "january 31 clamps to leap february",
			from: date(2024, 1, 31),
			want: date(2024, 2, 29),
		},
		{
			name: "january 31 clamps to non-leap february",
			from: date(2023, 1, 31),
			want: date(2023, 2, 28),
		},
		{
			name: "march 31 clamps to april 30",
			from: date(2024, 3, 31),
			want: date(2024, 4, 30),
		},
		{
			name: "december rolls into next year",
			from: date(2024, 12, 31),
			want: date(2025, 1, 31),
		},
		{
			name: "time of day is truncated",
			from: time.Date(2025, 3, 1, 17, 45, 12, 0, time.UTC),
			want: date(2025, 4, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextPaymentDate(CycleMonthly, tt.from)
			if !got.Equal(tt.want) {
				t.Errorf("NextPaymentDate(monthly, %v) = %v, want %v", tt.from, got, tt.want)
			}
		})
	}
}

func TestNextPaymentDate_Yearly(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{
			name: "regular date",
			from: date(2025, 3, 1),
			want: date(2026, 3, 1),
		},
		{
			name: "non-leap anchor stays on february 28",
			from: date(2023, 2, 28),
			want: date(2024, 2, 28),
		},
		{
			name: "leap day clamps to february 28",
			from: date(2024, 2, 29),
			want: date(2025, 2, 28),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextPaymentDate(CycleYearly, tt.from)
			if !got.Equal(tt.want) {
				t.Errorf("NextPaymentDate(yearly, %v) = %v, want %v", tt.from, got, tt.want)
			}
		})
	}
}

func TestNextPaymentDate_Pure(t *testing.T) {
	from := date(2024, 1, 31)
	first := NextPaymentDate(CycleMonthly, from)
	second := NextPaymentDate(CycleMonthly, from)
	if !first.Equal(second) {
		t.Errorf("same input gave different results: %v vs %v", first, second)
	}
}

func TestParseCycle(t *testing.T) {
	tests := []struct {
		input   string
		want    Cycle
		wantErr bool
	}{
		{input: "monthly", want: CycleMonthly},
		{input: "yearly", want: CycleYearly},
		{input: "weekly", wantErr: true},
		{input: "", wantErr: true},
		{input: "Monthly", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCycle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCycle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseCycle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
