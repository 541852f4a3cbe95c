package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
	"github.com/xuri/excelize/v2"
)

func TestWriteTaskReport(t *testing.T) {
	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	project := model.Project{Title: "Networks"}
	cadet := model.User{LastName: "Petrov", FirstName: "Ivan"}

	tasks := []model.Task{
		{BaseModel: model.BaseModel{ID: "t1", CreatedAt: at, UpdatedAt: at}, Title: "Lab 1", StatusCode: constant.TaskStatusDone, Project: project, Cadet: cadet},
		{BaseModel: model.BaseModel{ID: "t2", CreatedAt: at, UpdatedAt: at}, Title: "Lab 2", StatusCode: constant.TaskStatusInReview, Project: project, Cadet: cadet},
		{BaseModel: model.BaseModel{ID: "t3", CreatedAt: at, UpdatedAt: at}, Title: "Lab 3", StatusCode: constant.TaskStatusDone, Project: project, Cadet: cadet},
	}

	var buf bytes.Buffer
	if err := WriteTaskReport(&buf, tasks, at); err != nil {
		t.Fatalf("WriteTaskReport: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(TasksSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header + 3", len(rows))
	}
	want := []string{"t2", "Networks", "Petrov Ivan", "Lab 2", "InReview", "2025-03-10 12:00", "2025-03-10 12:00"}
	for i, v := range want {
		if rows[2][i] != v {
			t.Errorf("row 3 col %d = %q, want %q", i+1, rows[2][i], v)
		}
	}

	tests := []struct {
		cell string
		want string
	}{
		{"A2", "Waiting"},
		{"C2", "0"},
		{"C4", "1"},
		{"C5", "2"},
		{"A6", "Total"},
		{"C6", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, err := f.GetCellValue(SummarySheet, tt.cell)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("%s = %q, want %q", tt.cell, got, tt.want)
			}
		})
	}
}

func TestWriteTaskReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTaskReport(&buf, nil, time.Now()); err != nil {
		t.Fatalf("WriteTaskReport: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty workbook written")
	}
}

func TestFileName(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 5, 7, 0, time.UTC)
	if got := FileName(at); got != "tasks_20250310_090507.xlsx" {
		t.Errorf("FileName = %q", got)
	}
}
