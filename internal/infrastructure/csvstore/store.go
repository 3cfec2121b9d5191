// Package csvstore implementa el almacén de tablas planas: un archivo CSV (UTF-8, con cabecera)
// por tabla, decodificado a través de un esquema explícito. Las escrituras que abarcan varias
// tablas pasan por TxRunner y un journal de escritura anticipada.
package csvstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/inventario-csv/internal/domain"
	"github.com/jhoicas/inventario-csv/internal/domain/access"
	"github.com/jhoicas/inventario-csv/internal/domain/repository"
	"github.com/jhoicas/inventario-csv/pkg/logger"
)

var _ repository.TableIO = (*Store)(nil)

// Store acceso a las tablas de un directorio de datos. Un único escritor por proceso:
// mu serializa cada ciclo leer-modificar-escribir. No hay bloqueo entre procesos.
type Store struct {
	dir string
	log *logger.Logger
	mu  sync.RWMutex
}

// Open construye el almacén sobre dir y reaplica un journal pendiente si lo hubiera.
// El directorio puede no existir todavía: se crea en la primera escritura.
func Open(dir string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{dir: dir, log: log.Named("csvstore")}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recoverLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir directorio de datos.
func (s *Store) Dir() string { return s.dir }

// Path ruta del archivo de una tabla.
func (s *Store) Path(table string) string {
	return filepath.Join(s.dir, table+".csv")
}

// Load lee una tabla completa. Si el archivo no existe devuelve una lista vacía, no un error.
func (s *Store) Load(ctx context.Context, table string) ([]repository.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureRecovered(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadLocked(table)
}

func (s *Store) loadLocked(table string) ([]repository.Row, error) {
	schema, err := SchemaFor(table)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(table))
	if errors.Is(err, fs.ErrNotExist) {
		return []repository.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer tabla %s: %w", table, err)
	}
	return decodeTable(schema, bytes.NewReader(data))
}

// Save reescribe la tabla completa (cabecera incluida). Requiere rol manager.
// Una lista vacía no toca el archivo: no se puede truncar una tabla pasando cero filas.
func (s *Store) Save(ctx context.Context, table string, rows []repository.Row) error {
	if err := access.RequirePrivileged(ctx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// un journal pendiente se aplica antes; si no, reemplazaría esta escritura en la próxima lectura
	if err := s.recoverLocked(); err != nil {
		return err
	}
	return s.saveLocked(table, rows)
}

func (s *Store) saveLocked(table string, rows []repository.Row) error {
	schema, err := SchemaFor(table)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("crear directorio de datos: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := encodeTable(schema, &buf, rows); err != nil {
		return err
	}
	if err := writeFileAtomic(s.Path(table), buf.Bytes()); err != nil {
		return fmt.Errorf("guardar tabla %s: %w", table, err)
	}
	return nil
}

// NextID devuelve max(id)+1, o 1 si la tabla está vacía.
// No es atómico respecto de la escritura posterior; dentro de TxRunner sí lo es.
func (s *Store) NextID(ctx context.Context, table string) (int64, error) {
	rows, err := s.Load(ctx, table)
	if err != nil {
		return 0, err
	}
	return nextID(rows), nil
}

func nextID(rows []repository.Row) int64 {
	var maxID int64
	for _, r := range rows {
		if id := r.ID(); id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// Get devuelve la fila con el id dado o domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, table string, id int64) (repository.Row, error) {
	rows, err := s.Load(ctx, table)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r.ID() == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s id=%d", domain.ErrNotFound, table, id)
}

// Coerce convierte un valor al tipo de la columna (ver función Coerce).
func (s *Store) Coerce(table, field string, v any) (any, error) {
	return Coerce(table, field, v)
}

func cloneRows(rows []repository.Row) []repository.Row {
	out := make([]repository.Row, len(rows))
	for i, r := range rows {
		out[i] = maps.Clone(r)
	}
	return out
}

// writeFileAtomic escribe en un temporal del mismo directorio y renombra.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
