package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"campus-attendance/model"
	"campus-attendance/store"
)

var refreshed = time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

func sampleStudent() model.Student {
	return model.Student{
		ID:             "65f0",
		Name:           "Priya",
		RegisterNumber: "721221104001",
		Email:          "priya@example.com",
		Department:     "CSE",
		Year:           "Final",
		Section:        "A",
		Attendance: []model.AttendanceEntry{
			{Date: "2024-03-14", IsPresent: true},
			{Date: "2024-03-15", IsPresent: false},
		},
	}
}

func TestEntryRoundTripKeepsAttendance(t *testing.T) {
	e, err := toEntry(sampleStudent(), refreshed)
	if err != nil {
		t.Fatalf("toEntry: %v", err)
	}
	if len(e.PresentDates) != 1 || e.PresentDates[0] != "2024-03-14" {
		t.Fatalf("present dates = %v", e.PresentDates)
	}
	s := fromEntry(e)
	if len(s.Attendance) != 2 || s.Attendance[1].IsPresent {
		t.Fatalf("restored attendance = %+v", s.Attendance)
	}
}

func TestFromEntryWithoutRaw(t *testing.T) {
	e, _ := toEntry(sampleStudent(), refreshed)
	e.Raw = nil
	s := fromEntry(e)
	if s.RegisterNumber != "721221104001" || len(s.Attendance) != 1 || !s.Attendance[0].IsPresent {
		t.Fatalf("restored = %+v", s)
	}
}

// 以下用例需要真实的 PostgreSQL: TEST_DATABASE_DSN="host=... user=... ..."
func openTestDB(t *testing.T) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	if _, err := InitDB(dsn); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() {
		DB.Exec("DELETE FROM settings")
		DB.Exec("DELETE FROM gate_attempts")
		DB.Exec("DELETE FROM roster_entries")
	})
}

func TestSettingStore(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()
	kv := NewSettingStore(DB)

	if err := store.Login(ctx, kv, "721221104001"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := kv.Set(ctx, store.KeyRegNo, "721221104002"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, err := kv.Get(ctx, store.KeyRegNo); err != nil || v != "721221104002" {
		t.Fatalf("Get = %q, %v", v, err)
	}
	if err := store.Logout(ctx, kv); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := kv.Get(ctx, store.KeyAuthToken); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get after Logout: %v", err)
	}
}

func TestAttemptLog(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()
	l := NewAttemptLog(DB)

	for i, outcome := range []string{"timeout", "success"} {
		err := l.RecordAttempt(ctx, model.GateAttempt{
			ID:         []string{"a", "b"}[i],
			Outcome:    outcome,
			Distance:   -1,
			StartedAt:  refreshed,
			FinishedAt: refreshed.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("RecordAttempt: %v", err)
		}
	}
	rows, err := l.Recent(ctx, 10)
	if err != nil || len(rows) != 2 || rows[0].Outcome != "success" {
		t.Fatalf("Recent = %+v, %v", rows, err)
	}
}

func TestRosterCache(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()
	c := NewRosterCache(DB)

	if err := c.Save(ctx, []model.Student{sampleStudent()}, refreshed); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := c.Save(ctx, []model.Student{sampleStudent()}, refreshed); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	got, err := c.Load(ctx)
	if err != nil || len(got) != 1 || got[0].Name != "Priya" || len(got[0].Attendance) != 2 {
		t.Fatalf("Load = %+v, %v", got, err)
	}
}
