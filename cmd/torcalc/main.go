// torcalc is the ledger client. It probes the host bridge socket on every
// operation: with a host present it is a thin shell over the bridge, without
// one it keeps the ledger in a local durable file.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	repository "github.com/triazov/torcalc/internal/adapter/repository"
	"github.com/triazov/torcalc/internal/adapter/repository/local"
	"github.com/triazov/torcalc/internal/adapter/repository/remote"
	"github.com/triazov/torcalc/internal/export"
	"github.com/triazov/torcalc/internal/infrastructure/bridge"
	"github.com/triazov/torcalc/internal/infrastructure/config"
	"github.com/triazov/torcalc/internal/infrastructure/logger"
	"github.com/triazov/torcalc/internal/usecase"
)

// app bundles the wired services for one invocation.
type app struct {
	cfg     *config.Config
	bridge  *bridge.Client
	remote  *remote.Store
	ledger  *usecase.LedgerService
	auth    *usecase.AuthService
}

func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	bridgeClient := bridge.New(cfg.BridgeSocket, zlog)
	remoteStore := remote.NewStore(bridgeClient)
	localStore := local.NewStore(cfg.LocalStorePath(), repository.NewULIDGenerator(), nil, zlog)
	saver := export.NewDirSaver(cfg.ExportDir())

	ledger := usecase.NewLedgerService(bridgeClient, localStore, remoteStore, remoteStore, saver, nil, zlog)

	var accounts map[string]usecase.LocalAccount
	if cfg.UseTestAuth {
		accounts = map[string]usecase.LocalAccount{
			"ettore":  {Password: "ettore633ytbloger", Status: "media"},
			"triazov": {Password: "winner123234", Status: "developer"},
		}
	}
	auth := usecase.NewAuthService(bridgeClient, remoteStore, accounts)

	return &app{
		cfg:    cfg,
		bridge: bridgeClient,
		remote: remoteStore,
		ledger: ledger,
		auth:   auth,
	}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "torcalc",
		Short: "TOR Calculator ledger client",
		Long:  "A personal transaction ledger that uses the desktop host when present and a local store otherwise.",
	}

	rootCmd.AddCommand(
		addCmd(),
		listCmd(),
		deleteCmd(),
		clearCmd(),
		balanceCmd(),
		exportCmd(),
		backupCmd(),
		loginCmd(),
		infoCmd(),
		shellCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initialized builds the app and rebuilds the view from the active backend.
func initialized(ctx context.Context) (*app, error) {
	a, err := buildApp()
	if err != nil {
		return nil, err
	}
	if err := a.ledger.Initialize(ctx); err != nil {
		// Read failures degrade to an empty view instead of aborting.
		fmt.Fprintf(os.Stderr, "warning: could not load ledger: %v\n", err)
	}
	return a, nil
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <amount> [comment]",
		Short: "Record a transaction (positive = income, negative = expense)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initialized(cmd.Context())
			if err != nil {
				return err
			}
			comment := ""
			if len(args) > 1 {
				comment = args[1]
			}
			tx, err := a.ledger.Add(cmd.Context(), args[0], comment)
			if err != nil {
				return err
			}
			fmt.Printf("added %s  %s  %q\n", tx.ID, tx.Amount.String(), tx.Comment)
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List transactions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initialized(cmd.Context())
			if err != nil {
				return err
			}
			printTransactions(a)
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initialized(cmd.Context())
			if err != nil {
				return err
			}
			a.ledger.Delete(cmd.Context(), args[0])
			fmt.Println("deleted")
			return nil
		},
	}
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initialized(cmd.Context())
			if err != nil {
				return err
			}
			a.ledger.Clear(cmd.Context())
			fmt.Println("ledger cleared")
			return nil
		},
	}
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show total, income and expense",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initialized(cmd.Context())
			if err != nil {
				return err
			}
			printBalance(a)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the ledger as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initialized(cmd.Context())
			if err != nil {
				return err
			}
			path, err := a.ledger.ExportCSV(cmd.Context())
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Println("export written by host")
			} else {
				fmt.Printf("export written to %s\n", path)
			}
			return nil
		},
	}
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a JSON backup of the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initialized(cmd.Context())
			if err != nil {
				return err
			}
			path, err := a.ledger.BackupJSON(cmd.Context())
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Println("backup written by host")
			} else {
				fmt.Printf("backup written to %s\n", path)
			}
			return nil
		},
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Check credentials against the active backend",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			user, err := a.auth.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("welcome, %s (%s)\n", user.Username, user.Status)
			return nil
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show environment info",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			if a.bridge.Available() {
				info, err := a.remote.GetAppInfo(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("mode:     desktop\ndata dir: %s\ndb path:  %s\n", info.DataDir, info.DBPath)
				return nil
			}
			fmt.Printf("mode:     standalone\ndata dir: %s\nledger:   %s\n", a.cfg.DataDir, a.cfg.LocalStorePath())
			return nil
		},
	}
}

// shellCmd runs an interactive session: the one mode where a bridge that
// attaches mid-session is observed live.
func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive ledger session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			a, err := initialized(ctx)
			if err != nil {
				return err
			}

			a.bridge.Watch(ctx, a.cfg.WatchInterval, func() {
				fmt.Println("\nbridge attached: subsequent operations use the desktop host")
			})

			mode := "standalone"
			if a.ledger.DesktopMode() {
				mode = "desktop"
			}
			fmt.Printf("torcalc shell (%s mode), type 'help'\n", mode)

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) == 0 {
					continue
				}
				if done := runShellCommand(ctx, a, fields); done {
					return nil
				}
			}
		},
	}
}

func runShellCommand(ctx context.Context, a *app, fields []string) bool {
	switch fields[0] {
	case "help":
		fmt.Println("commands: add <amount> [comment...], list, delete <id>, clear, balance, export, backup, quit")
	case "add":
		if len(fields) < 2 {
			fmt.Println("usage: add <amount> [comment...]")
			return false
		}
		tx, err := a.ledger.Add(ctx, fields[1], strings.Join(fields[2:], " "))
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return false
		}
		fmt.Printf("added %s  %s\n", tx.ID, tx.Amount.String())
	case "list":
		printTransactions(a)
	case "delete":
		if len(fields) != 2 {
			fmt.Println("usage: delete <id>")
			return false
		}
		a.ledger.Delete(ctx, fields[1])
	case "clear":
		a.ledger.Clear(ctx)
	case "balance":
		printBalance(a)
	case "export":
		if path, err := a.ledger.ExportCSV(ctx); err != nil {
			fmt.Printf("error: %v\n", err)
		} else if path != "" {
			fmt.Printf("written to %s\n", path)
		}
	case "backup":
		if path, err := a.ledger.BackupJSON(ctx); err != nil {
			fmt.Printf("error: %v\n", err)
		} else if path != "" {
			fmt.Printf("written to %s\n", path)
		}
	case "quit", "exit":
		return true
	default:
		fmt.Printf("unknown command %q\n", fields[0])
	}
	return false
}

func printTransactions(a *app) {
	transactions := a.ledger.Transactions()
	if len(transactions) == 0 {
		fmt.Println("ledger is empty")
		return
	}
	for _, tx := range transactions {
		kind := "income "
		if tx.Amount.IsNegative() {
			kind = "expense"
		}
		fmt.Printf("%s  %s  %12s  %s\n", tx.ID, kind, tx.Amount.StringFixed(2), tx.Comment)
	}
}

func printBalance(a *app) {
	s := a.ledger.Balance()
	fmt.Printf("total:   %s\nincome:  %s\nexpense: %s\n",
		s.Total.StringFixed(2), s.Income.StringFixed(2), s.Expense.StringFixed(2))
}
