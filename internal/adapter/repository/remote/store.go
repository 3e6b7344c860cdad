// Package remote translates ledger operations into bridge calls and their
// typed responses. Every method is a thin wrapper over the bridge call
// primitive; malformed payloads never reach the model, they become
// bridge.ErrInvalidResponse instead.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/triazov/torcalc/internal/domain"
	"github.com/triazov/torcalc/internal/infrastructure/bridge"
)

// Caller is the bridge call primitive the adapter is built on.
type Caller interface {
	Call(ctx context.Context, method string, args bridge.Args) (bridge.Payload, error)
}

// Store is the remote backend: the host process owns the durable data and
// assigns transaction ids.
type Store struct {
	caller Caller
}

// NewStore creates a remote store over the given bridge.
func NewStore(caller Caller) *Store {
	return &Store{caller: caller}
}

// List fetches the full transaction set from the host.
func (s *Store) List(ctx context.Context) ([]domain.Transaction, error) {
	payload, err := s.caller.Call(ctx, "transactions_list", nil)
	if err != nil {
		return nil, err
	}
	items, ok := payload["items"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: transactions_list payload has no items", bridge.ErrInvalidResponse)
	}
	out := make([]domain.Transaction, 0, len(items))
	for _, item := range items {
		tx, err := decodeTransaction(item)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

// Add stores a transaction on the host and returns the host-assigned record,
// including its id and normalized creation time.
func (s *Store) Add(ctx context.Context, amount decimal.Decimal, comment string) (domain.Transaction, error) {
	payload, err := s.caller.Call(ctx, "transaction_add", bridge.Args{
		"amount":  amount.String(),
		"comment": comment,
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	item, ok := payload["item"]
	if !ok {
		return domain.Transaction{}, fmt.Errorf("%w: transaction_add payload has no item", bridge.ErrInvalidResponse)
	}
	return decodeTransaction(item)
}

// Delete removes a single transaction on the host.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.caller.Call(ctx, "transaction_delete", bridge.Args{"id": id})
	return err
}

// Clear removes the entire set on the host.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.caller.Call(ctx, "transactions_clear", nil)
	return err
}

// ExportCSV asks the host to write the CSV report to disk.
func (s *Store) ExportCSV(ctx context.Context) error {
	_, err := s.caller.Call(ctx, "export_csv", nil)
	return err
}

// BackupJSON asks the host to write the JSON snapshot to disk.
func (s *Store) BackupJSON(ctx context.Context) error {
	_, err := s.caller.Call(ctx, "backup_json", nil)
	return err
}

// Login authenticates against the host user table. Host error codes are
// mapped back onto domain errors.
func (s *Store) Login(ctx context.Context, username, password string) (domain.User, error) {
	payload, err := s.caller.Call(ctx, "auth_login", bridge.Args{
		"username": username,
		"password": password,
	})
	if err != nil {
		var callErr *bridge.CallError
		if errors.As(err, &callErr) {
			switch callErr.Code {
			case "EMPTY_CREDENTIALS":
				return domain.User{}, domain.ErrEmptyCredentials
			case "INVALID_CREDENTIALS":
				return domain.User{}, domain.ErrInvalidCredentials
			}
		}
		return domain.User{}, err
	}

	var user domain.User
	if err := decodeInto(payload["user"], &user); err != nil || user.Username == "" {
		return domain.User{}, fmt.Errorf("%w: auth_login payload has no user", bridge.ErrInvalidResponse)
	}
	return user, nil
}

// AppInfo describes the host environment.
type AppInfo struct {
	DataDir string `json:"dataDir"`
	DBPath  string `json:"dbPath"`
}

// GetAppInfo fetches host paths for display.
func (s *Store) GetAppInfo(ctx context.Context) (AppInfo, error) {
	payload, err := s.caller.Call(ctx, "get_app_info", nil)
	if err != nil {
		return AppInfo{}, err
	}
	var info AppInfo
	if err := decodeInto(map[string]any(payload), &info); err != nil {
		return AppInfo{}, fmt.Errorf("%w: get_app_info payload", bridge.ErrInvalidResponse)
	}
	return info, nil
}

// decodeTransaction coerces one wire item into a domain transaction.
func decodeTransaction(item any) (domain.Transaction, error) {
	var tx domain.Transaction
	if err := decodeInto(item, &tx); err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: %v", bridge.ErrInvalidResponse, err)
	}
	if tx.ID == "" {
		return domain.Transaction{}, fmt.Errorf("%w: transaction without id", bridge.ErrInvalidResponse)
	}
	return tx, nil
}

// decodeInto round-trips an untyped payload fragment through JSON into a
// typed struct, so field coercion follows the exact wire rules.
func decodeInto(fragment any, dst any) error {
	data, err := json.Marshal(fragment)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
