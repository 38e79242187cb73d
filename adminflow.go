// Package adminflow provides a high-level facade over the orchestration
// graph and its services (sessions, tools, tracing, metrics) for building a
// university administrative assistant. Most applications interact with this
// package by:
//  1. Creating an Engine via New() (optionally overriding the config,
//     model, database or mail transport)
//  2. Calling HandleTurn for each inbound staff message
//  3. Periodically calling EvictIdle to drop abandoned sessions
//
// The facade delegates turn execution to graph.Graph while keeping setup
// ergonomics concise. All defaults are safe for local development: a
// deterministic static model, a local sqlite file and mock external
// connectors.
package adminflow

import (
	"context"
	"errors"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/campusops/adminflow/agent"
	"github.com/campusops/adminflow/config"
	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/graph"
	"github.com/campusops/adminflow/logging"
	"github.com/campusops/adminflow/metrics"
	"github.com/campusops/adminflow/model"
	anthropicmodel "github.com/campusops/adminflow/model/anthropic"
	openaimodel "github.com/campusops/adminflow/model/openai"
	"github.com/campusops/adminflow/session"
	"github.com/campusops/adminflow/store"
	"github.com/campusops/adminflow/tool"
	"github.com/campusops/adminflow/trace"
)

// busyMessage is returned when a session's previous turn is still running.
const busyMessage = "I'm still working on your previous request. Please wait a moment and try again."

// Options configure the Engine. Any unset service is initialized from the
// configuration.
type Options struct {
	// Config supplies limits, endpoints and credentials. Defaults to
	// config.Default().
	Config *config.Config

	// Model overrides the provider selected by the config.
	Model model.Model

	// Store overrides the database opened from the config DSN.
	Store *store.Store

	// MailDialer overrides the SMTP client built from the config
	// (used by tests to capture outbound messages).
	MailDialer tool.Dialer

	// Connectors overrides the external system connectors. Defaults to
	// the mock LMS, SIS and CRM.
	Connectors []tool.Connector

	// Recorder overrides the file recorder built from the config trace dir.
	Recorder trace.Recorder

	// Metrics may be nil; the default registers against the global
	// Prometheus registerer.
	Metrics *metrics.Collector

	// Logger defaults to a structured logger built from the config.
	Logger *logging.TurnLogger
}

// Engine is the high-level facade aggregating the orchestration graph and
// its services. Safe for concurrent use; per-session serialization happens
// inside the session store.
type Engine struct {
	cfg      *config.Config
	graph    *graph.Graph
	sessions *session.Store
	recorder trace.Recorder
	store    *store.Store
	metrics  *metrics.Collector
	logger   *logging.TurnLogger
}

// New assembles an Engine: model, database, tool adapters, the agent
// hierarchy and the orchestration graph, wired per the configuration with
// optional overrides.
func New(optFns ...func(o *Options)) (*Engine, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewSlogLogger(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format, false)
	}

	collector := opts.Metrics
	if collector == nil {
		collector = metrics.NewCollector(nil)
	}

	mdl := opts.Model
	if mdl == nil {
		var err error
		mdl, err = buildModel(cfg.Model)
		if err != nil {
			return nil, err
		}
	}
	mdl = model.NewInstrumented(mdl, collector, logger.WithComponent("model"))

	st := opts.Store
	if st == nil {
		var err error
		st, err = store.Open(cfg.Database.DSN, func(o *store.Options) {
			o.MaxOpenConns = cfg.Database.MaxOpenConns
			o.MaxIdleConns = cfg.Database.MaxIdleConns
		})
		if err != nil {
			return nil, err
		}
	}

	var mailAdapter *tool.MailAdapter
	if opts.MailDialer != nil {
		mailAdapter = tool.NewMailAdapterFromDialer(opts.MailDialer, cfg.SMTP.From)
	} else {
		var err error
		mailAdapter, err = tool.NewMailAdapter(tool.MailOptions{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			From:     cfg.SMTP.From,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
		})
		if err != nil {
			return nil, err
		}
	}

	connectors := opts.Connectors
	if connectors == nil {
		connectors = []tool.Connector{tool.NewMockLMS(), tool.NewMockSIS(), tool.NewMockCRM()}
	}

	recorder := opts.Recorder
	if recorder == nil {
		var err error
		recorder, err = trace.NewFileRecorder(cfg.Trace.Dir, logger.WithComponent("trace"), collector)
		if err != nil {
			return nil, err
		}
	}

	allow := tool.DefaultAllowList()
	queryAdapter := tool.NewQueryAdapter(st)
	writeAdapter := tool.NewWriteAdapter(st, allow)
	chartAdapter := tool.NewChartAdapter()
	fetchAdapter := tool.NewFetchAdapter(cfg.Fetch.Timeout, connectors...)
	syntheticAdapter := tool.NewSyntheticAdapter(st, allow)

	schema := store.SchemaDescription()
	specialists := []agent.Specialist{
		agent.NewQuerySpecialist(mdl, queryAdapter, schema),
		agent.NewChartSpecialist(mdl, chartAdapter),
		agent.NewMailSpecialist(mdl, mailAdapter),
		agent.NewWriteSpecialist(mdl, writeAdapter, schema),
		agent.NewFetchSpecialist(mdl, fetchAdapter, tool.EndpointCatalog()),
		agent.NewSyntheticSpecialist(mdl, syntheticAdapter, schema),
	}
	coordinators := []agent.Decider{
		agent.NewAnalysisCoordinator(mdl, logger.WithComponent("coordinator")),
		agent.NewCommunicationCoordinator(),
		agent.NewDataManagementCoordinator(),
		agent.NewIntegrationCoordinator(),
	}
	director := agent.NewDirector(mdl, func(o *agent.DirectorOptions) {
		o.Logger = logger.WithComponent("director")
	})

	registry, err := agent.NewRegistry(director, coordinators, specialists)
	if err != nil {
		return nil, err
	}

	g := graph.New(registry, func(o *graph.Options) {
		o.MaxSteps = cfg.Graph.MaxSteps
		o.TurnTimeout = cfg.Graph.TurnTimeout
		o.Recorder = recorder
		o.Metrics = collector
		o.Logger = logger
	})

	sessions := session.NewStore(func(o *session.Options) {
		o.LockTimeout = cfg.Session.LockTimeout
		o.HistoryLimit = cfg.Session.HistoryLimit
		o.Logger = logger.WithComponent("session")
		o.Metrics = collector
	})

	return &Engine{
		cfg:      cfg,
		graph:    g,
		sessions: sessions,
		recorder: recorder,
		store:    st,
		metrics:  collector,
		logger:   logger.WithComponent("engine"),
	}, nil
}

// buildModel resolves the configured provider to a model implementation.
func buildModel(cfg config.ModelConfig) (model.Model, error) {
	switch cfg.Provider {
	case "openai":
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			o.Temperature = cfg.Temperature
		}), nil
	case "anthropic":
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			if cfg.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Name)
			}
			o.Temperature = cfg.Temperature
			o.APIKey = cfg.APIKey
		}), nil
	case "static":
		return model.NewStaticModel(), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

// HandleTurn runs one staff message through the engine under the session
// lock and returns the final response. A turn already running for the same
// session yields a "still processing" response rather than an error; the
// turn-level terminations (step limit, timeout) likewise surface as
// user-safe responses, with detail in logs, trace and metrics only.
func (e *Engine) HandleTurn(ctx context.Context, req core.TurnRequest) (core.TurnResponse, error) {
	var resp core.TurnResponse

	err := e.sessions.WithLock(ctx, req.SessionID, func(state *core.ConversationState) error {
		r, runErr := e.graph.RunTurn(ctx, state, req.Message)
		resp = r
		if runErr != nil {
			e.logger.Warn("turn terminated abnormally",
				"session_id", req.SessionID, "reason", runErr.Error())
		}
		return nil
	})
	if errors.Is(err, core.ErrSessionLockTimeout) {
		if e.metrics != nil {
			e.metrics.TurnsTotal.WithLabelValues("lock_timeout").Inc()
		}
		return core.TurnResponse{Message: busyMessage}, nil
	}
	if err != nil {
		return core.TurnResponse{}, err
	}
	return resp, nil
}

// EvictIdle drops sessions idle for longer than the configured retention
// and reports how many were removed. Call it on a timer.
func (e *Engine) EvictIdle() int {
	return e.sessions.EvictIdle(e.cfg.Session.EvictAfter)
}

// Trace returns the recorded step log for a session.
func (e *Engine) Trace(sessionID string) ([]trace.Entry, error) {
	return e.recorder.ReadAll(sessionID)
}

// Store exposes the database layer for seeding and inspection.
func (e *Engine) Store() *store.Store { return e.store }

// Sessions reports the number of live sessions.
func (e *Engine) Sessions() int { return e.sessions.Len() }
