package commands

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rcoe/askme/internal/advisors"
	"github.com/rcoe/askme/internal/artifact"
	"github.com/rcoe/askme/internal/backend"
	"github.com/rcoe/askme/internal/config"
	"github.com/rcoe/askme/internal/genai"
	"github.com/rcoe/askme/internal/intent"
	"github.com/rcoe/askme/internal/printer"
	"github.com/rcoe/askme/internal/router"
	"github.com/rcoe/askme/internal/server"
	"github.com/rcoe/askme/pkg/advisor"
)

// defaultWorkbookID is the workbook exported when neither the configuration
// nor the query names one.
const defaultWorkbookID = "L3NoYXJlZC9SQ09FL0Fic2VuY2UgV29ya2Jvb2s"

// App is the wired pipeline built from one configuration.
type App struct {
	Config   *config.Config
	Registry *advisor.Registry
	Router   *router.Router
	Store    artifact.Store
	Pinger   server.Pinger // non-nil only for Redis-backed stores
}

// buildApp wires the classifier, advisors, registry, router and artifact
// store from the loaded configuration. Registration happens here, once,
// before any traffic.
func buildApp(cfg *config.Config) (*App, error) {
	var completer genai.Completer
	if cfg.Classifier.APIKey != "" {
		completer = genai.New(cfg.Classifier.APIKey, cfg.Classifier.BaseURL, cfg.Classifier.Model)
	}

	keyword := intent.NewKeyword()
	var model intent.Classifier
	if completer != nil && cfg.Classifier.Mode != config.ModeOff {
		model = intent.NewModel(completer)
	}
	classifier := intent.NewSwitch(cfg.Classifier.Mode, model, keyword)

	store, pinger := buildStore(cfg)

	newCaller := func(domain advisor.Intent) *backend.Caller {
		bc := cfg.Backend(domain)
		return backend.NewCaller(domain, backend.CallerOptions{
			Timeout:    cfg.Timeout,
			RetryCount: cfg.RetryCount,
			RetryDelay: cfg.RetryDelay,
			Username:   bc.Username,
			Password:   bc.Password,
		})
	}

	registry := advisor.NewRegistry()

	var generalQuery *backend.QueryAdapter
	if bc := cfg.Backend(advisor.IntentGeneral); bc.URL != "" {
		generalQuery = backend.NewQueryAdapter(newCaller(advisor.IntentGeneral), bc.URL)
	}
	registry.Register(advisors.NewGeneral(generalQuery, completer, cfg.UseMockData))

	var financeReport *backend.BIPublisherAdapter
	if bc := cfg.Backend(advisor.IntentFinance); bc.URL != "" {
		financeReport = backend.NewBIPublisherAdapter(newCaller(advisor.IntentFinance), bc.URL, bc.ReportPath)
	}
	registry.Register(advisors.NewFinance(financeReport, store, cfg.UseMockData))

	var hrQuery *backend.QueryAdapter
	if bc := cfg.Backend(advisor.IntentHR); bc.URL != "" {
		hrQuery = backend.NewQueryAdapter(newCaller(advisor.IntentHR), bc.URL)
	}
	registry.Register(advisors.NewHR(hrQuery, cfg.UseMockData))

	var ordersAdapter *backend.OrdersAdapter
	if bc := cfg.Backend(advisor.IntentOrders); bc.URL != "" {
		ordersAdapter = backend.NewOrdersAdapter(newCaller(advisor.IntentOrders), bc.URL)
	}
	registry.Register(advisors.NewOrders(ordersAdapter, cfg.UseMockData))

	reportsCfg := cfg.Backend(advisor.IntentReports)
	workbookID := reportsCfg.WorkbookID
	if workbookID == "" {
		workbookID = defaultWorkbookID
	}
	var reportsExport *backend.OACExportAdapter
	if reportsCfg.URL != "" {
		reportsExport = backend.NewOACExportAdapter(newCaller(advisor.IntentReports), reportsCfg.URL, nil)
	}
	registry.Register(advisors.NewReports(reportsExport, store, workbookID, cfg.UseMockData))

	return &App{
		Config:   cfg,
		Registry: registry,
		Router:   router.New(classifier, registry),
		Store:    store,
		Pinger:   pinger,
	}, nil
}

// buildStore selects the artifact store backing.
func buildStore(cfg *config.Config) (artifact.Store, server.Pinger) {
	if cfg.Artifacts == nil {
		return artifact.NewMemoryStore(), nil
	}

	opts, err := redis.ParseURL(cfg.Artifacts.RedisURL)
	if err != nil {
		// Validate guarantees the URL is present; a malformed one degrades
		// to the memory store rather than refusing to start.
		printer.Warning("Invalid artifacts.redis_url, using in-memory store: %v\n", err)
		return artifact.NewMemoryStore(), nil
	}
	rs := artifact.NewRedisStore(opts, cfg.Artifacts.Retention)
	return rs, rs
}

// writeBudget bounds how long one chat response may take to produce. The
// export path is the slowest request: one initiation call, the fixed settle
// wait, then up to three download attempts with poll delays between them,
// where every call may spend its full transport budget (timeout times the
// retry bound, plus the retry pauses). A flat grace period absorbs the
// response write itself.
func writeBudget(cfg *config.Config) time.Duration {
	perCall := cfg.Timeout*time.Duration(cfg.RetryCount) + cfg.RetryDelay*time.Duration(cfg.RetryCount-1)
	waits := backend.ExportSettleDelay + backend.DownloadRetryDelay*time.Duration(backend.DownloadAttempts-1)
	calls := time.Duration(backend.DownloadAttempts+1) * perCall
	return waits + calls + 10*time.Second
}

// loadApp loads the configuration file and wires the pipeline.
func loadApp(path string) (*App, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return buildApp(cfg)
}
