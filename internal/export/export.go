// Package export writes the season statistics table as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/delmargolf/club/internal/leaderboard"
)

// SheetName is the single sheet of the stats workbook ("all records").
const SheetName = "전체 기록"

// Filename is what browsers save the workbook as.
const Filename = "골프_전체기록.xlsx"

// Column headers: player, average score, games played.
var fixedHeaders = []string{"플레이어", "평균 스코어", "참여 경기 수"}

// GameColumn is one per-game column of the table.
type GameColumn struct {
	ID    string
	Title string
}

// GameColumns returns one column per game, titled "<name> (<date>)", in the order
// the games are given.
func GameColumns(games []leaderboard.GameView) []GameColumn {
	cols := make([]GameColumn, 0, len(games))
	for _, g := range games {
		cols = append(cols, GameColumn{
			ID:    g.ID,
			Title: fmt.Sprintf("%s (%s)", g.Name, g.Date.Format(leaderboard.DateLayout)),
		})
	}
	return cols
}

// StatsWorkbook builds the workbook: one row per player that has an average, with
// their average, number of counted games and total for each game (blank where the
// game didn't count). Columns are sized to their longest cell.
func StatsWorkbook(stats []leaderboard.PlayerAverage, games []GameColumn) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, 0, len(fixedHeaders)+len(games))
	widths := make([]int, 0, cap(header))
	for _, h := range fixedHeaders {
		header = append(header, h)
		widths = append(widths, utf8.RuneCountInString(h))
	}
	for _, g := range games {
		header = append(header, g.Title)
		widths = append(widths, utf8.RuneCountInString(g.Title))
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, p := range stats {
		if !p.Available {
			continue
		}
		totals := make(map[string]int, len(p.Games))
		for _, gt := range p.Games {
			totals[gt.GameID] = gt.Total
		}

		avg := p.Average.InexactFloat64()
		values := []any{p.Name, avg, len(p.Games)}
		for _, g := range games {
			if total, ok := totals[g.ID]; ok {
				values = append(values, total)
			} else {
				values = append(values, nil)
			}
		}
		for i, v := range values {
			if v == nil {
				continue
			}
			widths[i] = max(widths[i], utf8.RuneCountInString(fmt.Sprint(v)))
		}

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetColWidth(SheetName, col, col, float64(w+2)); err != nil {
			f.Close()
			return nil, fmt.Errorf("size column %s: %w", col, err)
		}
	}

	return f, nil
}

// WriteStats builds the workbook and writes it to w.
func WriteStats(w io.Writer, stats []leaderboard.PlayerAverage, games []GameColumn) error {
	f, err := StatsWorkbook(stats, games)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
