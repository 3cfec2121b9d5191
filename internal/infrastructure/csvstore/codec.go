package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-csv/internal/domain"
	"github.com/jhoicas/inventario-csv/internal/domain/repository"
)

const utf8BOM = "\ufeff"

// decodeTable lee un CSV con cabecera y convierte cada celda según el esquema.
// Columnas ausentes en la cabecera quedan con el valor cero; columnas extra se ignoran.
func decodeTable(s Schema, r io.Reader) ([]repository.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []repository.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: leer cabecera: %w", s.Table, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}

	rows := []repository.Row{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Table, err)
		}
		line, _ := cr.FieldPos(0)
		row := make(repository.Row, len(s.Fields))
		for _, f := range s.Fields {
			i, ok := pos[f.Name]
			if !ok || i >= len(rec) {
				row[f.Name] = zeroValue(f.Type)
				continue
			}
			v, err := decodeCell(f, rec[i])
			if err != nil {
				return nil, fmt.Errorf("%s línea %d campo %s: %w", s.Table, line, f.Name, err)
			}
			row[f.Name] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// encodeTable escribe la cabecera del esquema y todas las filas.
func encodeTable(s Schema, w io.Writer, rows []repository.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(s.Header()); err != nil {
		return err
	}
	rec := make([]string, len(s.Fields))
	for n, row := range rows {
		for i, f := range s.Fields {
			v, ok := row[f.Name]
			if !ok {
				v = zeroValue(f.Type)
			}
			cell, err := encodeCell(f, v)
			if err != nil {
				return fmt.Errorf("%s fila %d campo %s: %w", s.Table, n+1, f.Name, err)
			}
			rec[i] = cell
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func zeroValue(t FieldType) any {
	switch t {
	case Int:
		return int64(0)
	case Decimal:
		return decimal.Zero
	default:
		return ""
	}
}

func decodeCell(f Field, raw string) (any, error) {
	switch f.Type {
	case Int:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("entero inválido %q", raw)
		}
		return n, nil
	case Decimal:
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("decimal inválido %q", raw)
		}
		return d, nil
	default:
		return raw, nil
	}
}

func encodeCell(f Field, v any) (string, error) {
	c, err := coerceValue(f, v)
	if err != nil {
		return "", err
	}
	switch x := c.(type) {
	case int64:
		return strconv.FormatInt(x, 10), nil
	case decimal.Decimal:
		return formatDecimal(x), nil
	case string:
		return x, nil
	}
	return "", fmt.Errorf("tipo no soportado %T", c)
}

// formatDecimal conserva la escala original ("75000.00" no se convierte en "75000").
func formatDecimal(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// Coerce convierte un valor de entrada al tipo declarado de la columna table.field.
func Coerce(table, field string, v any) (any, error) {
	s, err := SchemaFor(table)
	if err != nil {
		return nil, err
	}
	f, ok := s.Field(field)
	if !ok {
		return nil, fmt.Errorf("%w: campo %s.%s", domain.ErrInvalidInput, table, field)
	}
	c, err := coerceValue(f, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s.%s: %v", domain.ErrInvalidInput, table, field, err)
	}
	return c, nil
}

func coerceValue(f Field, v any) (any, error) {
	switch f.Type {
	case Int:
		switch x := v.(type) {
		case int64:
			return x, nil
		case int:
			return int64(x), nil
		case int32:
			return int64(x), nil
		case float64:
			if x != math.Trunc(x) {
				return nil, fmt.Errorf("%v no es entero", x)
			}
			return int64(x), nil
		case decimal.Decimal:
			if !x.IsInteger() {
				return nil, fmt.Errorf("%s no es entero", x)
			}
			return x.IntPart(), nil
		case string:
			return decodeCell(f, x)
		}
	case Decimal:
		switch x := v.(type) {
		case decimal.Decimal:
			return x, nil
		case int64:
			return decimal.NewFromInt(x), nil
		case int:
			return decimal.NewFromInt(int64(x)), nil
		case float64:
			// vía texto, como Decimal(str(v)): 0.1 queda 0.1 y no 0.1000000000000000055...
			return decimal.NewFromString(strconv.FormatFloat(x, 'f', -1, 64))
		case string:
			return decodeCell(f, x)
		}
	default:
		switch x := v.(type) {
		case string:
			return x, nil
		case fmt.Stringer:
			return x.String(), nil
		case int64:
			return strconv.FormatInt(x, 10), nil
		case int:
			return strconv.Itoa(x), nil
		}
	}
	return nil, fmt.Errorf("no se puede convertir %T a %s", v, f.Type)
}
