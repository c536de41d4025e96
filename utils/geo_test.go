package utils

import (
	"math"
	"testing"
	"time"

	"campus-attendance/model"
)

var campus = model.Coordinate{Latitude: 10.95540815715271, Longitude: 77.95481055369386}

func TestHaversineDistanceZero(t *testing.T) {
	if d := HaversineDistance(campus, campus); d != 0 {
		t.Fatalf("distance to self = %v, want 0", d)
	}
}

func TestHaversineDistanceSymmetric(t *testing.T) {
	points := []model.Coordinate{
		campus,
		{Latitude: 0, Longitude: 0},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 51.5074, Longitude: -0.1278},
		{Latitude: 89.9, Longitude: 179.9},
	}
	for _, a := range points {
		for _, b := range points {
			ab := HaversineDistance(a, b)
			ba := HaversineDistance(b, a)
			if math.Abs(ab-ba) > 1e-6 {
				t.Fatalf("d(%v,%v)=%v but d(%v,%v)=%v", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestHaversineDistanceKnown(t *testing.T) {
	// 赤道上经度相差 1 度约 111.19 km
	d := HaversineDistance(model.Coordinate{}, model.Coordinate{Longitude: 1})
	if math.Abs(d-111194.9) > 1 {
		t.Fatalf("one degree at equator = %v m", d)
	}
}

func TestOffsetNorth(t *testing.T) {
	for _, m := range []float64{50, 30000, 35000, 50000} {
		d := HaversineDistance(campus, OffsetNorth(campus, m))
		if math.Abs(d-m) > 0.01 {
			t.Fatalf("offset %v m measured as %v m", m, d)
		}
	}
}

func TestSameDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	day := time.Date(2024, 3, 2, 9, 0, 0, 0, ist)

	cases := []struct {
		date string
		want bool
	}{
		{"2024-03-02", true},
		{"2024-03-01", false},
		{"2024-03-01T20:00:00Z", true}, // IST 03-02 01:30
		{"2024-03-02T20:00:00Z", false},
		{"garbage", false},
	}
	for _, c := range cases {
		if got := SameDay(c.date, day); got != c.want {
			t.Errorf("SameDay(%q) = %v, want %v", c.date, got, c.want)
		}
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("VSBEC2002")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "VSBEC2002") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}
