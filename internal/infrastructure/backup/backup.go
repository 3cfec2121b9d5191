// Package backup copia el directorio de datos a una carpeta de respaldo y lo restaura.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-csv/internal/domain"
	"github.com/jhoicas/inventario-csv/internal/domain/access"
	"github.com/jhoicas/inventario-csv/internal/infrastructure/csvstore"
	"github.com/jhoicas/inventario-csv/pkg/logger"
)

// copyWorkers archivos copiados en paralelo.
const copyWorkers = 4

// Service respaldo y restauración del directorio de datos.
type Service struct {
	dataDir   string
	backupDir string
	log       *logger.Logger
	now       func() time.Time
}

// NewService construye el servicio. now nil = time.Now.
func NewService(dataDir, backupDir string, log *logger.Logger, now func() time.Time) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{dataDir: dataDir, backupDir: backupDir, log: log.Named("backup"), now: now}
}

// DefaultName nombre de respaldo con marca de tiempo: products_db_YYYYMMDD_HHMMSS.
func (s *Service) DefaultName() string {
	return "products_db_" + s.now().Format("20060102_150405")
}

// Backup copia todos los archivos del directorio de datos a name (vacío = DefaultName).
// Un nombre relativo es una carpeta directa de la carpeta de respaldos; una ruta absoluta no
// puede ser el directorio de datos, estar dentro de él ni contenerlo. Un destino existente se
// reemplaza. Requiere rol manager. Devuelve la ruta del respaldo.
func (s *Service) Backup(ctx context.Context, name string) (string, error) {
	if err := access.RequirePrivileged(ctx); err != nil {
		return "", err
	}
	info, err := os.Stat(s.dataDir)
	if err != nil {
		return "", fmt.Errorf("directorio de datos %s: %w", s.dataDir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s no es un directorio", domain.ErrInvalidInput, s.dataDir)
	}
	target, err := s.resolveTarget(name)
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(target); err != nil {
		return "", fmt.Errorf("limpiar destino: %w", err)
	}

	var files []string
	err = filepath.WalkDir(s.dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(s.dataDir, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("recorrer datos: %w", err)
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("crear respaldo: %w", err)
	}
	if err := copyAll(ctx, s.dataDir, target, files); err != nil {
		return "", err
	}
	s.log.Info().Str("path", target).Int("files", len(files)).Msg("respaldo creado")
	return target, nil
}

// resolveTarget devuelve la ruta absoluta del respaldo. El destino se borra antes de copiar,
// así que nunca puede solaparse con el directorio de datos.
func (s *Service) resolveTarget(name string) (string, error) {
	if name == "" {
		name = s.DefaultName()
	}
	target := name
	if !filepath.IsAbs(name) {
		if name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
			return "", fmt.Errorf("%w: nombre de respaldo %q", domain.ErrInvalidInput, name)
		}
		target = filepath.Join(s.backupDir, name)
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("destino %s: %w", name, err)
	}
	data, err := filepath.Abs(s.dataDir)
	if err != nil {
		return "", fmt.Errorf("directorio de datos %s: %w", s.dataDir, err)
	}
	if within(data, target) || within(target, data) {
		return "", fmt.Errorf("%w: el respaldo %s se solapa con el directorio de datos %s",
			domain.ErrInvalidInput, target, data)
	}
	return target, nil
}

// within indica si path es dir o está dentro de dir.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Restore copia los *.csv de src al directorio de datos. Requiere rol manager. Un journal
// pendiente en el directorio de datos se descarta para que no se reaplique sobre lo restaurado.
// Devuelve los nombres restaurados en orden.
func (s *Service) Restore(ctx context.Context, src string) ([]string, error) {
	if err := access.RequirePrivileged(ctx); err != nil {
		return nil, err
	}
	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("respaldo %s: %w", src, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s no es una carpeta de respaldo", domain.ErrInvalidInput, src)
	}
	matches, err := filepath.Glob(filepath.Join(src, "*.csv"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no hay archivos CSV en %s", domain.ErrInvalidInput, src)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de datos: %w", err)
	}
	if err := os.Remove(filepath.Join(s.dataDir, csvstore.JournalFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("descartar journal: %w", err)
	}
	if err := copyAll(ctx, src, s.dataDir, names); err != nil {
		return nil, err
	}
	s.log.Info().Str("from", src).Strs("files", names).Msg("datos restaurados")
	return names, nil
}

func copyAll(ctx context.Context, srcDir, dstDir string, files []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(copyWorkers)
	for _, rel := range files {
		rel := rel
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return copyFile(filepath.Join(srcDir, rel), filepath.Join(dstDir, rel))
		})
	}
	return g.Wait()
}

// copyFile copia vía archivo temporal + rename; el destino nunca queda a medias.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copiar %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".copy-*")
	if err != nil {
		return fmt.Errorf("copiar %s: %w", src, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("copiar %s: %w", src, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
