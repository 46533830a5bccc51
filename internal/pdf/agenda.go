package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"daygrid/internal/models"
)

// Generator renders agenda exports; an interface so handlers can be
// tested without producing actual PDFs.
type Generator interface {
	WeeklyAgenda(data AgendaData) ([]byte, error)
}

type AgendaGenerator struct{}

type AgendaData struct {
	UserName  string
	WeekStart time.Time
	Events    []*models.Event
}

func NewAgendaGenerator() *AgendaGenerator {
	return &AgendaGenerator{}
}

// WeeklyAgenda renders one week of scheduled events grouped by day,
// with a trailing section for waitlisted items.
func (g *AgendaGenerator) WeeklyAgenda(data AgendaData) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Agenda, week of %s", data.WeekStart.Format("2 Jan 2006")), false)
	doc.SetAuthor("DayGrid", false)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, fmt.Sprintf("Agenda for %s", data.UserName), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 7, fmt.Sprintf("Week of %s", data.WeekStart.Format("Monday, 2 January 2006")), "", 1, "L", false, 0, "")
	doc.Ln(4)

	var waitlisted []*models.Event
	for day := 0; day < 7; day++ {
		date := data.WeekStart.AddDate(0, 0, day)
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(0, 8, date.Format("Monday, 2 January"), "B", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)

		empty := true
		for _, ev := range data.Events {
			if ev.Waitlisted {
				if day == 0 {
					waitlisted = append(waitlisted, ev)
				}
				continue
			}
			if ev.Start == nil || !sameDay(*ev.Start, date) {
				continue
			}
			line := fmt.Sprintf("%s - %s  %s", ev.Start.Format("15:04"), ev.End.Format("15:04"), ev.Title)
			if ev.Location != "" {
				line += fmt.Sprintf(" (%s)", ev.Location)
			}
			doc.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
			empty = false
		}
		if empty {
			doc.SetTextColor(128, 128, 128)
			doc.CellFormat(0, 6, "free", "", 1, "L", false, 0, "")
			doc.SetTextColor(0, 0, 0)
		}
		doc.Ln(2)
	}

	if len(waitlisted) > 0 {
		doc.Ln(4)
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(0, 8, "Waitlisted", "B", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		for _, ev := range waitlisted {
			doc.CellFormat(0, 6, fmt.Sprintf("%s (%s)", ev.Title, ev.Priority), "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render agenda pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
