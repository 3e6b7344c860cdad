package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/triazov/torcalc/internal/domain"
	"github.com/triazov/torcalc/internal/export"
	"github.com/triazov/torcalc/internal/infrastructure/metrics"
	"github.com/triazov/torcalc/internal/usecase"
)

// TransactionStore is the persistence the RPC surface operates on.
type TransactionStore interface {
	List(ctx context.Context) ([]domain.Transaction, error)
	Add(ctx context.Context, amount decimal.Decimal, comment string) (domain.Transaction, error)
	Delete(ctx context.Context, id string) (int64, error)
	Clear(ctx context.Context) error
}

// UserStore authenticates login requests.
type UserStore interface {
	Authenticate(ctx context.Context, username, password string) (domain.User, error)
}

// RPCHandler implements the bridge method surface. Every response carries an
// ok flag; failures use stable error codes so the client can map them back
// onto typed errors.
type RPCHandler struct {
	transactions TransactionStore
	users        UserStore
	dataDir      string
	dbPath       string
	exportDir    string
	now          usecase.Clock
	metrics      *metrics.Metrics
	shutdown     func()
	logger       zerolog.Logger
}

// Config holds RPCHandler dependencies.
type Config struct {
	Transactions TransactionStore
	Users        UserStore
	DataDir      string
	DBPath       string
	ExportDir    string
	Now          usecase.Clock
	Metrics      *metrics.Metrics
	Shutdown     func()
	Logger       zerolog.Logger
}

// NewRPCHandler creates the bridge method handler.
func NewRPCHandler(cfg Config) *RPCHandler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &RPCHandler{
		transactions: cfg.Transactions,
		users:        cfg.Users,
		dataDir:      cfg.DataDir,
		dbPath:       cfg.DBPath,
		exportDir:    cfg.ExportDir,
		now:          now,
		metrics:      cfg.Metrics,
		shutdown:     cfg.Shutdown,
		logger:       cfg.Logger.With().Str("component", "rpc").Logger(),
	}
}

// Handle dispatches POST /rpc/{method}. Unknown methods get a 404 so the
// client detector can distinguish "method not found" from a host failure.
func (h *RPCHandler) Handle(w http.ResponseWriter, r *http.Request) {
	method := chi.URLParam(r, "method")

	var args map[string]any
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		writeFail(w, "INVALID_ARGS")
		return
	}

	switch method {
	case "ping":
		writeOK(w, nil)
	case "auth_login":
		h.authLogin(w, r, args)
	case "get_app_info":
		h.appInfo(w)
	case "transactions_list":
		h.list(w, r)
	case "transaction_add":
		h.add(w, r, args)
	case "transaction_delete":
		h.delete(w, r, args)
	case "transactions_clear":
		h.clear(w, r)
	case "export_csv":
		h.exportCSV(w, r)
	case "backup_json":
		h.backupJSON(w, r)
	case "window_minimize":
		// No window of its own; acked so shell chrome can act on it.
		writeOK(w, nil)
	case "window_close":
		writeOK(w, nil)
		if h.shutdown != nil {
			go h.shutdown()
		}
	default:
		http.NotFound(w, r)
	}
}

func (h *RPCHandler) authLogin(w http.ResponseWriter, r *http.Request, args map[string]any) {
	username, _ := args["username"].(string)
	password, _ := args["password"].(string)

	user, err := h.users.Authenticate(r.Context(), username, password)
	switch {
	case errors.Is(err, domain.ErrEmptyCredentials):
		writeFail(w, "EMPTY_CREDENTIALS")
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.metrics.AuthFailures.Inc()
		writeFail(w, "INVALID_CREDENTIALS")
	case err != nil:
		h.internal(w, "auth_login", err)
	default:
		writeOK(w, map[string]any{"user": user})
	}
}

func (h *RPCHandler) appInfo(w http.ResponseWriter) {
	writeOK(w, map[string]any{
		"app":     export.AppName,
		"version": export.AppVersion,
		"dataDir": h.dataDir,
		"dbPath":  h.dbPath,
	})
}

func (h *RPCHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.transactions.List(r.Context())
	if err != nil {
		h.internal(w, "transactions_list", err)
		return
	}
	writeOK(w, map[string]any{"items": items})
}

func (h *RPCHandler) add(w http.ResponseWriter, r *http.Request, args map[string]any) {
	amount, err := coerceAmount(args["amount"])
	if err != nil {
		writeFail(w, "INVALID_AMOUNT")
		return
	}
	comment, _ := args["comment"].(string)

	tx, err := h.transactions.Add(r.Context(), amount, domain.NormalizeComment(comment))
	if err != nil {
		h.internal(w, "transaction_add", err)
		return
	}
	h.metrics.TransactionsAdded.Inc()
	writeOK(w, map[string]any{"item": tx})
}

func (h *RPCHandler) delete(w http.ResponseWriter, r *http.Request, args map[string]any) {
	id, _ := args["id"].(string)
	deleted, err := h.transactions.Delete(r.Context(), id)
	if err != nil {
		h.internal(w, "transaction_delete", err)
		return
	}
	h.metrics.TransactionsDeleted.Inc()
	writeOK(w, map[string]any{"deleted": deleted})
}

func (h *RPCHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.transactions.Clear(r.Context()); err != nil {
		h.internal(w, "transactions_clear", err)
		return
	}
	writeOK(w, nil)
}

func (h *RPCHandler) exportCSV(w http.ResponseWriter, r *http.Request) {
	items, err := h.transactions.List(r.Context())
	if err != nil {
		h.internal(w, "export_csv", err)
		return
	}
	path, err := h.writeExport(export.CSVFileName(h.now()), export.CSV(items))
	if err != nil {
		h.internal(w, "export_csv", err)
		return
	}
	h.metrics.ExportsWritten.WithLabelValues("csv").Inc()
	writeOK(w, map[string]any{"path": path, "count": len(items)})
}

func (h *RPCHandler) backupJSON(w http.ResponseWriter, r *http.Request) {
	items, err := h.transactions.List(r.Context())
	if err != nil {
		h.internal(w, "backup_json", err)
		return
	}
	data, err := export.Backup(items, h.now())
	if err != nil {
		h.internal(w, "backup_json", err)
		return
	}
	path, err := h.writeExport(export.BackupFileName(h.now()), data)
	if err != nil {
		h.internal(w, "backup_json", err)
		return
	}
	h.metrics.ExportsWritten.WithLabelValues("json").Inc()
	writeOK(w, map[string]any{"path": path, "count": len(items)})
}

func (h *RPCHandler) writeExport(name string, data []byte) (string, error) {
	if err := os.MkdirAll(h.exportDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(h.exportDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (h *RPCHandler) internal(w http.ResponseWriter, method string, err error) {
	h.logger.Error().Err(err).Str("method", method).Msg("rpc method failed")
	writeFail(w, "INTERNAL_ERROR")
}

// coerceAmount accepts the amount either as a JSON number or as a decimal
// string, matching what different UI shells send.
func coerceAmount(v any) (decimal.Decimal, error) {
	switch a := v.(type) {
	case string:
		return domain.ParseAmount(a)
	case float64:
		return decimal.NewFromFloat(a), nil
	case json.Number:
		return domain.ParseAmount(a.String())
	default:
		return decimal.Zero, domain.ErrInvalidAmount
	}
}
