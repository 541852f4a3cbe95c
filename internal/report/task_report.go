package report

import (
	"fmt"
	"io"
	"time"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
	"github.com/SeakMengs/CadetTrack/internal/util"
	"github.com/xuri/excelize/v2"
)

const (
	TasksSheet   = "Tasks"
	SummarySheet = "Summary"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	timeLayout = "2006-01-02 15:04"
)

var taskHeader = []any{"ID", "Project", "Cadet", "Title", "Status", "Created", "Updated"}

// TaskWorkbook lists the tasks on one sheet and the per-status totals on a
// second one. Tasks are expected with Project and Cadet loaded.
func TaskWorkbook(tasks []model.Task, generatedAt time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", TasksSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := writeTasks(f, tasks); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummary(f, tasks, generatedAt); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Task report",
		Creator: util.GetAppName(),
		Created: generatedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// WriteTaskReport renders the workbook straight into w.
func WriteTaskReport(w io.Writer, tasks []model.Task, generatedAt time.Time) error {
	f, err := TaskWorkbook(tasks, generatedAt)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}

func FileName(generatedAt time.Time) string {
	return fmt.Sprintf("tasks_%s.xlsx", generatedAt.Format("20060102_150405"))
}

func writeTasks(f *excelize.File, tasks []model.Task) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(TasksSheet, "A1", &taskHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(TasksSheet, 1, 1, bold); err != nil {
		return err
	}

	for i, t := range tasks {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			t.ID,
			t.Project.Title,
			t.Cadet.FullName(),
			t.Title,
			t.StatusCode.Name(),
			t.CreatedAt.Format(timeLayout),
			t.UpdatedAt.Format(timeLayout),
		}
		if err := f.SetSheetRow(TasksSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(TasksSheet, "A", "A", 38); err != nil {
		return err
	}
	return f.SetColWidth(TasksSheet, "B", "G", 24)
}

func writeSummary(f *excelize.File, tasks []model.Task, generatedAt time.Time) error {
	counts := make(map[constant.TaskStatus]int, len(constant.TaskStatuses))
	for _, t := range tasks {
		counts[t.StatusCode]++
	}

	header := []any{"Status", "Code", "Tasks"}
	if err := f.SetSheetRow(SummarySheet, "A1", &header); err != nil {
		return err
	}

	row := 2
	for _, s := range constant.TaskStatuses {
		values := []any{s.Name(), int(s), counts[s]}
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		row++
	}

	total := []any{"Total", "", len(tasks)}
	if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", row), &total); err != nil {
		return err
	}

	generated := []any{"Generated", generatedAt.Format(timeLayout)}
	return f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", row+2), &generated)
}
