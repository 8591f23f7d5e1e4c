package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"buxta-backend/internal/domains/book/model"
	"buxta-backend/internal/shared/utils"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Books"

var exportHeaders = []string{
	"Title", "Slug", "ISBN-13", "Authors", "Categories", "Publisher", "Format",
	"Price", "Compare At", "Stock", "Low Stock", "Active", "Featured", "Created",
}

// Export writes every book as an .xlsx workbook
func (s *adminService) Export(ctx context.Context, w io.Writer) error {
	books, err := s.repo.ListForExport(ctx)
	if err != nil {
		return err
	}

	f, err := buildWorkbook(books)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(books []model.Book) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("stream writer: %w", err)
	}

	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, err
	}

	for i, b := range books {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, exportRow(b)); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("flush workbook: %w", err)
	}
	return f, nil
}

func exportRow(b model.Book) []interface{} {
	authors := make([]string, len(b.Authors))
	for i, a := range b.Authors {
		authors[i] = a.FullName
	}
	categories := make([]string, len(b.Categories))
	for i, c := range b.Categories {
		categories[i] = c.Name
	}

	var isbn13, publisher, compareAt string
	if b.ISBN13 != nil {
		isbn13 = *b.ISBN13
	}
	if b.Publisher != nil {
		publisher = b.Publisher.Name
	}
	if b.CompareAtPrice != nil {
		compareAt = b.CompareAtPrice.StringFixed(2)
	}

	price, _ := b.Price.Float64()
	return []interface{}{
		b.Title, b.Slug, isbn13, strings.Join(authors, ", "), strings.Join(categories, ", "), publisher, b.Format,
		price, compareAt, b.StockQuantity, b.IsLowStock, b.IsActive, b.IsFeatured, b.CreatedAt.Format(utils.DateLayout),
	}
}
