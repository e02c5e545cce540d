package transfer

import (
	"io"
	"strconv"
	"strings"
)

// CSVHeader is the header row of the task export.
var CSVHeader = []string{"Order", "Titel", "Vestiging", "Skill", "Uren", "Deadline", "Prioriteit", "Status"}

// ExportCSV writes the filtered task view. Every field is quoted, embedded
// quotes are doubled and rows are separated by a bare newline.
func (s *Service) ExportCSV(w io.Writer) error {
	var b strings.Builder
	writeRow(&b, CSVHeader)
	for _, it := range s.tasks.Filtered() {
		b.WriteByte('\n')
		writeRow(&b, []string{
			it.ID,
			it.Title,
			s.store.WorkshopName(it.WorkshopID),
			it.Skill,
			strconv.FormatFloat(it.SafeHours, 'f', -1, 64),
			it.DueDate,
			string(it.Priority),
			it.Status,
		})
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}
