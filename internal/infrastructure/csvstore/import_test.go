package csvstore_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/inventario-csv/internal/domain"
	"github.com/jhoicas/inventario-csv/internal/infrastructure/csvstore"
)

func TestImport_Windows1251(t *testing.T) {
	s := openStore(t)
	src := "id,name,description\n1,Электроника,Товары электроники\n2,Одежда,Одежда и обувь\n"
	legacy, err := charmap.Windows1251.NewEncoder().String(src)
	require.NoError(t, err)

	n, err := s.Import(managerCtx(), csvstore.TableCategories, strings.NewReader(legacy), "windows-1251")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	cats, err := csvstore.NewCategoryRepository(s).List(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Электроника", cats[0].Name)
	assert.Equal(t, "Одежда и обувь", cats[1].Description)
}

func TestImport_CodificacionDesconocida(t *testing.T) {
	s := openStore(t)
	_, err := s.Import(managerCtx(), csvstore.TableCategories, strings.NewReader(""), "ebcdic")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_DatosInvalidosNoEscriben(t *testing.T) {
	s := openStore(t)
	_, err := s.Import(managerCtx(), csvstore.TableCategories, strings.NewReader("id,name\nuno,a\n"), "utf-8")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	rows, err := s.Load(context.Background(), csvstore.TableCategories)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestImport_ReaderDenegado(t *testing.T) {
	s := openStore(t)
	_, err := s.Import(readerCtx(), csvstore.TableCategories, strings.NewReader("id,name\n1,a\n"), "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
