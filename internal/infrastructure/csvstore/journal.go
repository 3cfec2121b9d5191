package csvstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-csv/internal/domain/repository"
)

// JournalFile nombre del journal dentro del directorio de datos.
const JournalFile = ".journal.json"

// journal imagen completa de las tablas de una transacción confirmada.
// Se escribe antes de tocar ninguna tabla y se borra después de aplicarlas todas;
// si existe al abrir el almacén, la transacción se vuelve a aplicar.
type journal struct {
	TxID      string            `json:"tx_id"`
	CreatedAt time.Time         `json:"created_at"`
	Tables    map[string]string `json:"tables"` // tabla -> contenido CSV completo
}

func (s *Store) journalPath() string {
	return filepath.Join(s.dir, JournalFile)
}

// commitLocked persiste las tablas preparadas como una unidad. Las listas vacías se omiten.
func (s *Store) commitLocked(staged map[string][]repository.Row) (string, error) {
	j := journal{TxID: uuid.New().String(), CreatedAt: time.Now().UTC(), Tables: map[string]string{}}
	for table, rows := range staged {
		if len(rows) == 0 {
			continue
		}
		schema, err := SchemaFor(table)
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		if err := encodeTable(schema, &buf, rows); err != nil {
			return "", err
		}
		j.Tables[table] = buf.String()
	}
	if len(j.Tables) == 0 {
		return j.TxID, nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("crear directorio de datos: %w", err)
	}
	data, err := json.Marshal(j)
	if err != nil {
		return "", fmt.Errorf("serializar journal: %w", err)
	}
	if err := writeFileAtomic(s.journalPath(), data); err != nil {
		return "", fmt.Errorf("escribir journal: %w", err)
	}
	if err := s.applyJournal(j); err != nil {
		return "", err
	}
	s.log.Debug().Str("tx_id", j.TxID).Strs("tables", journalTables(j)).Msg("transacción confirmada")
	return j.TxID, nil
}

// applyJournal reemplaza cada tabla y elimina el journal.
func (s *Store) applyJournal(j journal) error {
	for _, table := range journalTables(j) {
		if err := writeFileAtomic(s.Path(table), []byte(j.Tables[table])); err != nil {
			return fmt.Errorf("aplicar journal %s tabla %s: %w", j.TxID, table, err)
		}
	}
	if err := os.Remove(s.journalPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("eliminar journal: %w", err)
	}
	return nil
}

func journalTables(j journal) []string {
	names := make([]string, 0, len(j.Tables))
	for t := range j.Tables {
		names = append(names, t)
	}
	sort.Strings(names)
	return names
}

// recoverLocked reaplica un journal pendiente. El llamador debe tener mu bloqueado.
func (s *Store) recoverLocked() error {
	data, err := os.ReadFile(s.journalPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("leer journal: %w", err)
	}
	var j journal
	if err := json.Unmarshal(data, &j); err != nil {
		return fmt.Errorf("journal corrupto %s: %w", s.journalPath(), err)
	}
	for table := range j.Tables {
		if _, err := SchemaFor(table); err != nil {
			return fmt.Errorf("journal %s: %w", j.TxID, err)
		}
	}
	s.log.Warn().Str("tx_id", j.TxID).Time("created_at", j.CreatedAt).
		Strs("tables", journalTables(j)).Msg("reaplicando transacción interrumpida")
	return s.applyJournal(j)
}

// ensureRecovered reaplica un journal dejado por un commit fallido en este mismo proceso.
func (s *Store) ensureRecovered() error {
	if _, err := os.Stat(s.journalPath()); err != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recoverLocked()
}
