package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/repository"
)

// ── export errors ──

var (
	ErrExportGenerateFail = errors.New("falha ao gerar arquivo")
)

const (
	maxExportRows        = 10000
	defaultEventDuration = 2 * time.Hour
)

// ExportService file exports.
//
//   - audit trail as .xlsx (excelize), same filters as the list endpoint
//   - the caller's volunteer slots as an iCalendar feed
//
// Both are returned as bytes; the handler sets headers and writes them.
type ExportService interface {
	ExportAuditLogs(ctx context.Context, req *dto.AuditLogListRequest) (*bytes.Buffer, string, error)
	MemberCalendar(ctx context.Context, s *Session) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService creates an ExportService
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// ExportAuditLogs: audit trail as a spreadsheet
// ═══════════════════════════════════════════════════════════
//
// One row per entry, newest first:
//   | Data | Ator | Ação | Recurso | ID do recurso | Afetado | Detalhes |

func (s *exportService) ExportAuditLogs(ctx context.Context, req *dto.AuditLogListRequest) (*bytes.Buffer, string, error) {
	filter, err := auditFilter(req)
	if err != nil {
		return nil, "", err
	}

	logs, _, err := s.repo.AuditLog.List(ctx, filter, 0, maxExportRows)
	if err != nil {
		s.logger.Error("falha ao listar logs para exportação", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Auditoria"
	idx, _ := f.NewSheet(sheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	widths := map[string]float64{"A": 20, "B": 24, "C": 20, "D": 16, "E": 38, "F": 24, "G": 60}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2F5597"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"Data", "Ator", "Ação", "Recurso", "ID do recurso", "Afetado", "Detalhes"}
	for i, h := range headers {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for i := range logs {
		l := &logs[i]
		row := i + 2

		subject := ""
		if d, err := model.DecodeAuditDetails(l.ActionType, l.Details); err == nil {
			subject = d.SubjectName()
		}

		f.SetCellValue(sheet, cell("A", row), l.CreatedAt.Format("02/01/2006 15:04:05"))
		f.SetCellValue(sheet, cell("B", row), l.MemberName)
		f.SetCellValue(sheet, cell("C", row), string(l.ActionType))
		f.SetCellValue(sheet, cell("D", row), string(l.ResourceType))
		f.SetCellValue(sheet, cell("E", row), l.ResourceID)
		f.SetCellValue(sheet, cell("F", row), subject)
		f.SetCellValue(sheet, cell("G", row), string(l.Details))
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("falha ao escrever planilha", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("auditoria_%s.xlsx", s.now().Format("2006-01-02"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// MemberCalendar: caller's slots as VEVENTs
// ═══════════════════════════════════════════════════════════

func (s *exportService) MemberCalendar(ctx context.Context, sess *Session) ([]byte, string, error) {
	if sess == nil {
		return nil, "", ErrForbidden
	}

	list, err := s.repo.Assignment.ListByMember(ctx, sess.MemberID)
	if err != nil {
		s.logger.Error("falha ao listar atribuições do membro", zap.String("member_id", sess.MemberID), zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Viva Esperança//Escala de voluntários//PT")
	cal.SetName("Minhas tarefas")
	cal.SetXWRCalName("Minhas tarefas")

	stamp := s.now().UTC()
	for i := range list {
		a := &list[i]
		if a.Event == nil {
			continue
		}
		// refused slots are not on the member's agenda
		if a.Status == model.AssignmentStatusRefused {
			continue
		}

		ev := cal.AddEvent(a.ID + "@viva-esperanca")
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(a.Event.EventDate)
		ev.SetEndAt(a.Event.EventDate.Add(defaultEventDuration))
		ev.SetSummary(fmt.Sprintf("%s - %s", taskName(a), a.Event.Name))
		if a.Event.Location != "" {
			ev.SetLocation(a.Event.Location)
		}
		ev.SetDescription(fmt.Sprintf("Tarefa: %s\nStatus: %s", taskName(a), a.Status))
		if a.Status == model.AssignmentStatusConfirmed {
			ev.SetStatus(ics.ObjectStatusConfirmed)
		} else {
			ev.SetStatus(ics.ObjectStatusTentative)
		}
	}

	return []byte(cal.Serialize()), "minhas-tarefas.ics", nil
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
