package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-attendance/model"
)

func validRegister() model.RegisterRequest {
	return model.RegisterRequest{
		Name:           "Priya",
		RegisterNumber: "721221104001",
		Email:          "priya@example.com",
		Department:     "CSE",
		Year:           "Final",
		Section:        "A",
	}
}

func TestRegister(t *testing.T) {
	var got model.RegisterRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/student/register" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", srv.Client())
	if err := c.Register(context.Background(), validRegister()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got.RegisterNumber != "721221104001" || got.Department != "CSE" {
		t.Fatalf("server received %+v", got)
	}
}

func TestRegisterValidation(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	cases := map[string]func(*model.RegisterRequest){
		"missing name":    func(r *model.RegisterRequest) { r.Name = "  " },
		"bad email":       func(r *model.RegisterRequest) { r.Email = "not-an-email" },
		"unknown dept":    func(r *model.RegisterRequest) { r.Department = "ARTS" },
		"unknown year":    func(r *model.RegisterRequest) { r.Year = "Fifth" },
		"unknown section": func(r *model.RegisterRequest) { r.Section = "Z" },
	}
	c := New(srv.URL, srv.Client())
	for name, mutate := range cases {
		req := validRegister()
		mutate(&req)
		err := c.Register(context.Background(), req)
		if !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("%s: err = %v, want ErrInvalidRequest", name, err)
		}
	}
	if called {
		t.Fatal("invalid request reached the backend")
	}
}

func TestRegisterRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "duplicate", http.StatusConflict)
	}))
	defer srv.Close()

	err := New(srv.URL, srv.Client()).Register(context.Background(), validRegister())
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusConflict {
		t.Fatalf("err = %v, want StatusError 409", err)
	}
}

func TestMarkAttendance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req model.AttendanceMarkRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Date != "2024-03-02" || req.RegisterNumber != "42" {
			t.Errorf("unexpected body %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Attendance marked"}`))
	}))
	defer srv.Close()

	msg, err := New(srv.URL, srv.Client()).MarkAttendance(context.Background(),
		model.AttendanceMarkRequest{Date: "2024-03-02", RegisterNumber: "42"})
	if err != nil {
		t.Fatalf("MarkAttendance: %v", err)
	}
	if msg != "Attendance marked" {
		t.Fatalf("message = %q", msg)
	}
}

func TestMarkAttendanceFallsBackToErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Attendance already marked"}`))
	}))
	defer srv.Close()

	msg, err := New(srv.URL, srv.Client()).MarkAttendance(context.Background(), model.AttendanceMarkRequest{})
	if err != nil || msg != "Attendance already marked" {
		t.Fatalf("got %q, %v", msg, err)
	}
}

func TestMarkAttendanceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, srv.Client()).MarkAttendance(context.Background(), model.AttendanceMarkRequest{})
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusInternalServerError {
		t.Fatalf("err = %v, want StatusError 500", err)
	}
}

func TestStudents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/student/all" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`[{"_id":"a1","name":"Priya","registerNumber":"1","department":"CSE","year":"Final","section":"A",
			"attendance":[{"date":"2024-03-02","isPresent":true}]}]`))
	}))
	defer srv.Close()

	students, err := New(srv.URL, srv.Client()).Students(context.Background())
	if err != nil {
		t.Fatalf("Students: %v", err)
	}
	if len(students) != 1 || students[0].ID != "a1" || len(students[0].Attendance) != 1 || !students[0].Attendance[0].IsPresent {
		t.Fatalf("students = %+v", students)
	}
}
