package csvstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-csv/internal/domain"
)

// Charsets codificaciones aceptadas por Import (exportaciones de Excel antiguas incluidas).
var charsets = map[string]encoding.Encoding{
	"windows-1251": charmap.Windows1251,
	"cp1251":       charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"koi8-r":       charmap.KOI8R,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
}

func charsetReader(r io.Reader, charset string) (io.Reader, error) {
	cs := strings.ToLower(strings.TrimSpace(charset))
	if cs == "" || cs == "utf-8" || cs == "utf8" {
		return r, nil
	}
	enc, ok := charsets[cs]
	if !ok {
		return nil, fmt.Errorf("%w: codificación no soportada %q", domain.ErrInvalidInput, charset)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// Import reemplaza una tabla con el contenido de un CSV externo, transcodificado a UTF-8.
// Cada celda se valida contra el esquema antes de escribir nada. Requiere rol manager.
func (s *Store) Import(ctx context.Context, table string, r io.Reader, charset string) (int, error) {
	schema, err := SchemaFor(table)
	if err != nil {
		return 0, err
	}
	src, err := charsetReader(r, charset)
	if err != nil {
		return 0, err
	}
	rows, err := decodeTable(schema, src)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := s.Save(ctx, table, rows); err != nil {
		return 0, err
	}
	s.log.Info().Str("table", table).Int("rows", len(rows)).Str("charset", charset).Msg("tabla importada")
	return len(rows), nil
}
