package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/xuri/excelize/v2"

	"library-catalog/internal/domains/catalog/aggregate"
	"library-catalog/internal/domains/catalog/model"
	"library-catalog/internal/domains/catalog/store"
)

const exportSheet = "Catalog"

var exportHeaders = []string{"ID", "Title", "Author", "ISBN", "Genres", "Copies", "Available"}

// Export writes the whole book catalogue, one row per book, with its copy
// counts. Stored values are HTML-escaped, so cells are unescaped first.
func (s *bookService) Export(ctx context.Context) (*excelize.File, error) {
	lctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	res, err := aggregate.Run(lctx, map[string]aggregate.Lookup{
		"books": aggregate.Typed(func(ctx context.Context) ([]model.Book, error) {
			return s.store.Books().Find(ctx, store.All,
				store.SortBy(model.FieldTitle, true),
				store.Expand(store.RelAuthor, store.RelGenre))
		}),
		"instances": aggregate.Typed(func(ctx context.Context) ([]model.BookInstance, error) {
			return s.store.BookInstances().Find(ctx, store.All, store.Select(model.FieldBook, model.FieldStatus))
		}),
	})
	if err != nil {
		return nil, err
	}

	f, err := buildCatalogFile(
		aggregate.Value[[]model.Book](res, "books"),
		aggregate.Value[[]model.BookInstance](res, "instances"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, nil
}

func buildCatalogFile(books []model.Book, instances []model.BookInstance) (*excelize.File, error) {
	copies := make(map[string]int, len(books))
	available := make(map[string]int, len(books))
	for _, bi := range instances {
		copies[bi.BookID]++
		if bi.Status == model.StatusAvailable {
			available[bi.BookID]++
		}
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, style)
	}

	for i, b := range books {
		author := ""
		if b.Author != nil {
			author = html.UnescapeString(b.Author.Name())
		}
		genres := make([]string, 0, len(b.Genres))
		for _, g := range b.Genres {
			genres = append(genres, html.UnescapeString(g.Name))
		}

		row := []interface{}{
			b.ID,
			html.UnescapeString(b.Title),
			author,
			html.UnescapeString(b.ISBN),
			strings.Join(genres, ", "),
			copies[b.ID],
			available[b.ID],
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}
