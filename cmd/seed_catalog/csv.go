package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// catalogRow una fila válida del CSV.
type catalogRow struct {
	Line          int
	Code          string
	Name          string
	Category      string
	Supplier      string
	Stock         int
	StockMinimum  int
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
}

var catalogHeader = []string{"codigo", "nombre", "categoria", "proveedor", "stock", "stock_minimo", "precio_compra", "precio_venta"}

// parseCatalog lee el CSV separado por ';'. Con latin1 decodifica ISO-8859-1 a UTF-8.
func parseCatalog(r io.Reader, latin1 bool) ([]catalogRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = len(catalogHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	for i, want := range catalogHeader {
		if !strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")), want) {
			return nil, fmt.Errorf("encabezado: columna %d es %q, se esperaba %q", i+1, header[i], want)
		}
	}

	var rows []catalogRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		row.Line = line
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (catalogRow, error) {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	row := catalogRow{Code: rec[0], Name: rec[1], Category: rec[2], Supplier: rec[3]}
	if row.Code == "" || row.Name == "" {
		return row, errors.New("código y nombre son obligatorios")
	}
	var err error
	if row.Stock, err = parseInt(rec[4]); err != nil {
		return row, fmt.Errorf("stock: %w", err)
	}
	if row.StockMinimum, err = parseInt(rec[5]); err != nil {
		return row, fmt.Errorf("stock_minimo: %w", err)
	}
	if row.PurchasePrice, err = parsePrice(rec[6]); err != nil {
		return row, fmt.Errorf("precio_compra: %w", err)
	}
	if row.SalePrice, err = parsePrice(rec[7]); err != nil {
		return row, fmt.Errorf("precio_venta: %w", err)
	}
	return row, nil
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(strings.ReplaceAll(s, ".", ""))
}

// parsePrice acepta "$ 18.500,50", "18500.5" y "18.500".
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, nil
	}
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	case strings.Count(s, ".") == 1 && len(s)-strings.Index(s, ".") == 4:
		// "18.500": separador de miles
		s = strings.ReplaceAll(s, ".", "")
	}
	return decimal.NewFromString(s)
}
