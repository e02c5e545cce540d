package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/task"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/isoweek"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/numeric"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Import dispatches on the content type, falling back to sniffing the
// payload: XLSX files are zip archives.
func (s *Service) Import(ctx context.Context, contentType string, data []byte) (int, error) {
	if isXLSX(contentType, data) {
		return s.ImportXLSX(ctx, bytes.NewReader(data))
	}
	return s.ImportJSON(ctx, data)
}

func isXLSX(contentType string, data []byte) bool {
	if strings.HasPrefix(contentType, xlsxContentType) {
		return true
	}
	return http.DetectContentType(data) == "application/zip"
}

// ImportJSON replaces the task list with a JSON array of tasks. Elements
// that are not task objects are skipped. Anything but an array is rejected
// and the current tasks are kept.
func (s *Service) ImportJSON(ctx context.Context, data []byte) (int, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil || elems == nil {
		return 0, task.ErrUnsupportedImport
	}

	tasks := make([]task.Task, 0, len(elems))
	for _, elem := range elems {
		var t task.Task
		if !bytes.HasPrefix(bytes.TrimSpace(elem), []byte("{")) || json.Unmarshal(elem, &t) != nil {
			continue
		}
		tasks = append(tasks, t)
	}
	return s.replace(ctx, tasks, "json")
}

var columnAliases = map[string]string{
	"order":       "id",
	"id":          "id",
	"titel":       "title",
	"title":       "title",
	"vestiging":   "workshop",
	"workshop_id": "workshop",
	"skill":       "skill",
	"uren":        "hours",
	"hours":       "hours",
	"deadline":    "due",
	"due_date":    "due",
	"prioriteit":  "priority",
	"priority":    "priority",
	"status":      "status",
}

// ImportXLSX reads tasks from the first sheet of a workbook. The header row
// uses the CSV export's column names. A row naming an unknown workshop
// aborts the import.
func (s *Service) ImportXLSX(ctx context.Context, r io.Reader) (int, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", task.ErrUnsupportedImport, err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return 0, task.ErrMissingImportSheet
	}

	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, task.ErrMissingImportSheet
	}

	columns := map[string]int{}
	for i, h := range rows[0] {
		if field, ok := columnAliases[normalizeHeader(h)]; ok {
			if _, seen := columns[field]; !seen {
				columns[field] = i
			}
		}
	}
	if _, ok := columns["title"]; !ok {
		return 0, fmt.Errorf("%w: no Titel column", task.ErrMissingImportSheet)
	}

	workshops := s.store.Workshops()
	tasks := make([]task.Task, 0, len(rows)-1)
	for n, row := range rows[1:] {
		get := func(field string) string {
			idx, ok := columns[field]
			if !ok {
				return ""
			}
			return cellValue(row, idx)
		}
		if isBlank(row) {
			continue
		}

		workshopID, err := resolveWorkshop(workshops, get("workshop"))
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", n+2, err)
		}

		t := task.Task{
			ID:         get("id"),
			Title:      get("title"),
			WorkshopID: workshopID,
			Skill:      get("skill"),
			Hours:      numeric.Parse(strings.ReplaceAll(get("hours"), ",", ".")),
			DueDate:    normalizeDate(get("due")),
			Priority:   task.Priority(get("priority")),
			Status:     get("status"),
		}
		if t.Priority == "" {
			t.Priority = task.PriorityNormal
		}
		if t.Status == "" {
			t.Status = task.StatusOpen
		}
		tasks = append(tasks, t)
	}
	return s.replace(ctx, tasks, "xlsx")
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// resolveWorkshop accepts a workshop name or id. Empty and "?" leave the
// task without a workshop.
func resolveWorkshop(workshops []task.Workshop, value string) (numeric.Value, error) {
	if value == "" || value == "?" {
		return numeric.Value{}, nil
	}
	for _, w := range workshops {
		if strings.EqualFold(w.Name, value) {
			return numeric.Of(float64(w.ID)), nil
		}
	}
	if id := numeric.Parse(value); id.Valid() {
		return id, nil
	}
	return numeric.Value{}, fmt.Errorf("%w: %q", task.ErrWorkshopNotFound, value)
}

var dateLayouts = []string{
	isoweek.Layout,
	"02-01-2006",
	"2-1-2006",
	"02/01/2006",
	"2/1/2006",
}

// normalizeDate converts Excel serial dates and Dutch day-first dates to
// YYYY-MM-DD. Unrecognised values are kept so they read as "no date".
func normalizeDate(value string) string {
	if value == "" {
		return ""
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial >= 1 && serial < 2958466 {
			if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return parsed.Format(isoweek.Layout)
			}
		}
		return value
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(isoweek.Layout)
		}
	}
	return value
}
