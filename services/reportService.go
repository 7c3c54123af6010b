package services

import (
	"bytes"
	"context"
	"fmt"

	courseModels "lms/models/course"
	"lms/repository"

	"github.com/jinzhu/now"
	"github.com/xuri/excelize/v2"
)

const (
	rankingSheet      = "Ranking"
	progressSheet     = "Progresso"
	certificatesSheet = "Certificados"
)

type ReportService struct {
	store repository.Store
}

func NewReportService(store repository.Store) *ReportService {
	return &ReportService{store: store}
}

// ProgressWorkbook renders ranking, per-course progress and certificates as an xlsx workbook
func (s *ReportService) ProgressWorkbook(ctx context.Context) (*bytes.Buffer, error) {
	users, err := s.store.Users().Ranking(ctx, 0)
	if err != nil {
		return nil, err
	}
	courses, err := s.store.Courses().List(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.store.Progress().List(ctx)
	if err != nil {
		return nil, err
	}
	certs, err := s.store.Certificates().List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rankingSheet); err != nil {
		return nil, err
	}
	monthStart := now.BeginningOfMonth()
	thisMonth := map[string]int{}
	for _, c := range certs {
		if !c.IssuedAt.Before(monthStart) {
			thisMonth[c.UserID]++
		}
	}

	rows := [][]interface{}{{"Posição", "Usuário", "Nome", "Categoria", "XP", "Certificados no mês"}}
	for i, u := range users {
		rows = append(rows, []interface{}{i + 1, u.ID, u.Name, u.Category, u.XP, thisMonth[u.ID]})
	}
	if err := writeRows(f, rankingSheet, rows); err != nil {
		return nil, err
	}

	completed := map[string]map[string]bool{}
	for _, p := range progress {
		if !p.IsCompleted() {
			continue
		}
		if completed[p.UserID] == nil {
			completed[p.UserID] = map[string]bool{}
		}
		completed[p.UserID][p.LessonID] = true
	}
	certified := map[string]bool{}
	for _, c := range certs {
		certified[c.UserID+"/"+c.CourseID] = true
	}

	rows = [][]interface{}{{"Usuário", "Curso", "Aulas concluídas", "Total de aulas", "Percentual", "Certificado"}}
	for _, u := range users {
		for i := range courses {
			done, total := courseCompletion(&courses[i], completed[u.ID])
			if done == 0 {
				continue
			}
			rows = append(rows, []interface{}{
				u.ID,
				courses[i].Title,
				done,
				total,
				fmt.Sprintf("%d%%", done*100/total),
				yesNo(certified[u.ID+"/"+courses[i].ID]),
			})
		}
	}
	if _, err := f.NewSheet(progressSheet); err != nil {
		return nil, err
	}
	if err := writeRows(f, progressSheet, rows); err != nil {
		return nil, err
	}

	rows = [][]interface{}{{"Certificado", "Usuário", "Nome", "Curso", "Emitido em"}}
	for _, c := range certs {
		rows = append(rows, []interface{}{c.ID, c.UserID, c.UserName, c.CourseTitle, c.IssuedAt.Format("2006-01-02 15:04")})
	}
	if _, err := f.NewSheet(certificatesSheet); err != nil {
		return nil, err
	}
	if err := writeRows(f, certificatesSheet, rows); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func courseCompletion(course *courseModels.Course, completed map[string]bool) (done, total int) {
	for _, id := range course.LessonIDs() {
		total++
		if completed[id] {
			done++
		}
	}
	return done, total
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func yesNo(v bool) string {
	if v {
		return "Sim"
	}
	return "Não"
}
