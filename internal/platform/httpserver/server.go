package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	financereporting "taleforge/contexts/economy-core/finance-reporting"
	purchaseaudit "taleforge/contexts/economy-core/purchase-audit"
	sparksledger "taleforge/contexts/economy-core/sparks-ledger"
	conversionpipeline "taleforge/contexts/story-core/conversion-pipeline"
	sessionengine "taleforge/contexts/story-core/session-engine"
	templatelibrary "taleforge/contexts/story-core/template-library"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	sessions  sessionengine.Module
	templates templatelibrary.Module
	pipeline  conversionpipeline.Module
	sparks    sparksledger.Module
	purchases purchaseaudit.Module
	finance   financereporting.Module
}

func New(
	sessions sessionengine.Module,
	templates templatelibrary.Module,
	pipeline conversionpipeline.Module,
	sparks sparksledger.Module,
	purchases purchaseaudit.Module,
	finance financereporting.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		sessions:  sessions,
		templates: templates,
		pipeline:  pipeline,
		sparks:    sparks,
		purchases: purchases,
		finance:   finance,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /v1/sessions", s.handleListSessions)
	s.mux.HandleFunc("GET /v1/sessions/{session_id}", s.handleGetSession)
	s.mux.HandleFunc("POST /v1/sessions/{session_id}/start", s.handleStartSession)
	s.mux.HandleFunc("POST /v1/sessions/{session_id}/turns", s.handleSubmitTurn)
	s.mux.HandleFunc("POST /v1/sessions/{session_id}/pause", s.handlePauseSession)
	s.mux.HandleFunc("POST /v1/sessions/{session_id}/resume", s.handleResumeSession)
	s.mux.HandleFunc("POST /v1/sessions/{session_id}/assist", s.handleAIAssist)
	s.mux.HandleFunc("GET /v1/sessions/{session_id}/story", s.handleGetStory)

	s.mux.HandleFunc("POST /v1/templates", s.handleRegisterTemplate)
	s.mux.HandleFunc("GET /v1/templates", s.handleListTemplates)
	s.mux.HandleFunc("GET /v1/templates/{template_id}", s.handleGetTemplate)

	s.mux.HandleFunc("GET /v1/transformers", s.handleListTransformers)
	s.mux.HandleFunc("POST /v1/sessions/{session_id}/conversions", s.handleRequestConversion)
	s.mux.HandleFunc("GET /v1/sessions/{session_id}/conversions", s.handleListConversions)

	s.mux.HandleFunc("POST /v1/wallets", s.handleOpenAccount)
	s.mux.HandleFunc("GET /v1/wallets/{owner_id}", s.handleGetAccount)
	s.mux.HandleFunc("POST /v1/wallets/{owner_id}/debit", s.handleDebit)
	s.mux.HandleFunc("POST /v1/wallets/{owner_id}/credit", s.handleCredit)
	s.mux.HandleFunc("GET /v1/wallets/{owner_id}/entries", s.handleListEntries)

	s.mux.HandleFunc("GET /v1/purchases/packages", s.handleListPackages)
	s.mux.HandleFunc("GET /v1/purchases/dashboard", s.handlePurchaseDashboard)
	s.mux.HandleFunc("POST /v1/purchases", s.handleInitiatePurchase)
	s.mux.HandleFunc("GET /v1/purchases", s.handleListAttempts)
	s.mux.HandleFunc("GET /v1/purchases/{attempt_id}", s.handleGetAttempt)
	s.mux.HandleFunc("POST /v1/purchases/{attempt_id}/processing", s.handleMarkProcessing)
	s.mux.HandleFunc("POST /v1/purchases/{attempt_id}/completed", s.handleMarkCompleted)
	s.mux.HandleFunc("POST /v1/purchases/{attempt_id}/declined", s.handleMarkDeclined)
	s.mux.HandleFunc("POST /v1/purchases/{attempt_id}/failed", s.handleMarkFailed)
	s.mux.HandleFunc("POST /v1/purchases/{attempt_id}/cancel", s.handleCancelAttempt)

	s.mux.HandleFunc("POST /v1/finance/income", s.handleRecordIncome)
	s.mux.HandleFunc("POST /v1/finance/expenses", s.handleRecordExpense)
	s.mux.HandleFunc("POST /v1/finance/refunds", s.handleRecordRefund)
	s.mux.HandleFunc("GET /v1/finance/metrics", s.handleFinanceMetrics)
	s.mux.HandleFunc("GET /v1/finance/export", s.handleFinanceExport)
	s.mux.HandleFunc("GET /v1/finance/tax-report", s.handleFinanceTaxReport)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
