package cli

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-csv/internal/application/auth"
	"github.com/jhoicas/inventario-csv/internal/application/inventory"
	"github.com/jhoicas/inventario-csv/internal/application/reports"
	"github.com/jhoicas/inventario-csv/internal/application/seed"
	"github.com/jhoicas/inventario-csv/internal/application/views"
	"github.com/jhoicas/inventario-csv/internal/domain/access"
	"github.com/jhoicas/inventario-csv/internal/infrastructure/backup"
	"github.com/jhoicas/inventario-csv/internal/infrastructure/csvstore"
	"github.com/jhoicas/inventario-csv/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-csv/pkg/config"
	"github.com/jhoicas/inventario-csv/pkg/logger"
)

// App dependencias de los comandos, construidas una vez por ejecución.
type App struct {
	cfg       *config.Config
	log       *logger.Logger
	store     *csvstore.Store
	mutations *inventory.MutationUseCase
	views     *views.ViewUseCase
	reports   *reports.ReportUseCase
	auth      *auth.AuthUseCase
	seeder    *seed.Seeder
	backup    *backup.Service
	pdf       *pdf.MarotoStockReport
	now       func() time.Time
}

// NewApp abre el almacén y construye los casos de uso.
func NewApp(cfg *config.Config, log *logger.Logger) (*App, error) {
	store, err := csvstore.Open(cfg.Storage.DataDir, log)
	if err != nil {
		return nil, err
	}
	now := time.Now
	txRunner := csvstore.NewTxRunner(store)
	tables := csvstore.NewTables(store)
	viewUC := views.NewViewUseCase(tables, now)

	return &App{
		cfg:       cfg,
		log:       log,
		store:     store,
		mutations: inventory.NewMutationUseCase(txRunner, store, log, now),
		views:     viewUC,
		reports:   reports.NewReportUseCase(tables, viewUC, now),
		auth: auth.NewAuthUseCase(txRunner, tables.Users, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}, log),
		seeder: seed.NewSeeder(txRunner, log),
		backup: backup.NewService(cfg.Storage.DataDir, cfg.Storage.BackupDir, log, now),
		pdf:    pdf.NewMarotoStockReport(),
		now:    now,
	}, nil
}

// sessionContext devuelve ctx con la sesión guardada por login. Sin sesión o con un token
// inválido el contexto queda de solo lectura.
func (a *App) sessionContext(ctx context.Context) (context.Context, error) {
	token, err := readToken(a.cfg.Storage.SessionFile)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return ctx, nil
	}
	s, err := a.auth.SessionFromToken(token)
	if err != nil {
		a.log.Warn().Err(err).Msg("sesión inválida o expirada; se continúa como reader")
		return ctx, nil
	}
	return access.WithSession(ctx, s), nil
}
