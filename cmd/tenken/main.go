package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kmizuno/tenken/internal/config"
	"github.com/kmizuno/tenken/internal/domain/company"
	"github.com/kmizuno/tenken/internal/domain/schedule"
	"github.com/kmizuno/tenken/internal/export"
	"github.com/kmizuno/tenken/internal/session"
	"github.com/kmizuno/tenken/internal/sqlite"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// app bundles everything a command needs for one run.
type app struct {
	cfg       *config.File
	db        *sqlite.DB
	companies *company.Service
	sess      *session.Session
	reminder  *session.MonthlyReminder
	logger    *slog.Logger
}

// newApp resolves config and opens the store. A store that cannot be
// opened or migrated is fatal here; nothing else in the program can
// proceed without it.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	db, err := sqlite.New(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", cfg.DBPath(), err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare database: %w", err)
	}

	repo := sqlite.NewCompanyRepository(db)

	return &app{
		cfg:       cfg,
		db:        db,
		companies: company.NewService(repo, logger),
		sess:      session.New(),
		reminder:  session.NewMonthlyReminder(cfg, logger),
		logger:    logger,
	}, nil
}

func (a *app) close() {
	a.db.Close()
}

func main() {
	root := &cobra.Command{
		Use:     "tenken",
		Short:   "Track recurring annual regulatory inspections",
		Long:    "Tenken records completed inspections per company, derives when the next one is due, and classifies each company's urgency.",
		Version: version,
	}

	root.AddCommand(
		addCmd(),
		recordCmd(),
		renameCmd(),
		deleteCmd(),
		listCmd(),
		historyCmd(),
		exportCmd(),
		backupCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Register a new company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			c, err := a.companies.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("added %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}
}

func recordCmd() *cobra.Command {
	var dateStr, notes string
	cmd := &cobra.Command{
		Use:   "record <company-id>",
		Short: "Record a completed inspection; the next due date is derived automatically",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			done := time.Now().UTC()
			if dateStr != "" {
				var err error
				done, err = schedule.ParseDate(dateStr)
				if err != nil {
					return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", dateStr)
				}
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ins, err := a.companies.RecordInspection(cmd.Context(), args[0], done, notes)
			if err != nil {
				return err
			}
			fmt.Printf("recorded inspection on %s, next due %s\n", ins.DoneDate, ins.NextDate)
			return nil
		},
	}
	cmd.Flags().StringVar(&dateStr, "date", "", "Inspection date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-text notes for this inspection")
	return cmd
}

func renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <company-id> <new-name>",
		Short: "Rename a company; history stays attached",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			// Resolve the edit target first so a stale ID surfaces as
			// a clear not-found instead of a silent no-op.
			a.sess.EditTarget = args[0]
			current, err := a.companies.ResolveForEdit(cmd.Context(), a.sess.EditTarget)
			if err != nil {
				return err
			}

			if err := a.companies.Rename(cmd.Context(), current.ID, args[1]); err != nil {
				return err
			}
			a.sess.EditTarget = ""
			fmt.Printf("renamed %q to %q\n", current.Name, args[1])
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <company-id>",
		Short: "Delete a company and its entire inspection history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.companies.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	var search, sortKey string
	var desc bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show every company with its due-date status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			a.sess.SearchText = search
			a.sess.SortDescending = desc
			switch sortKey {
			case "name":
				a.sess.SortKey = company.SortByName
			case "due", "":
				a.sess.SortKey = company.SortByDueDate
			default:
				return fmt.Errorf("invalid --sort %q: expected due or name", sortKey)
			}

			today := time.Now().UTC()
			view, err := a.companies.View(cmd.Context(), a.sess.ViewOptions(today))
			if err != nil {
				return err
			}

			printView(view)

			if names, ok := a.sess.Notifier.MaybeNotify(view.UrgentNames); ok {
				fmt.Printf("\nInspections due within two months: %s\n", strings.Join(names, ", "))
			}
			if a.reminder.Fire(today) {
				fmt.Println("\nMonthly reminder: run `tenken backup` and `tenken export` this month.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive substring filter on company names")
	cmd.Flags().StringVar(&sortKey, "sort", "due", "Sort key: due or name")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	return cmd
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <company-id>",
		Short: "Show a company's inspection history, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			entries, err := a.companies.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("no inspections recorded")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DONE\tNEXT DUE\tNOTES")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.DoneDate, e.NextDate, e.Notes)
			}
			return w.Flush()
		},
	}
}

func exportCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current list to a timestamped CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if dir == "" {
				dir = filepath.Join(a.cfg.DataDir, "exports")
			}

			view, err := a.companies.View(cmd.Context(), a.sess.ViewOptions(time.Now().UTC()))
			if err != nil {
				return err
			}

			path, err := export.ExportFile(dir, view.Rows, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("exported %d companies to %s\n", len(view.Rows), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Export directory (default: <data-dir>/exports)")
	return cmd
}

func backupCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Copy the database file to a timestamped backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if dir == "" {
				dir = filepath.Join(a.cfg.DataDir, "backups")
			}

			path, err := export.BackupDatabase(a.cfg.DBPath(), dir, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("backup written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Backup directory (default: <data-dir>/backups)")
	return cmd
}

func printView(view *company.View) {
	if len(view.Rows) == 0 {
		fmt.Println("no companies")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMPANY\tLAST\tNEXT DUE\tSTATUS")
	for _, r := range view.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.LastDone, r.NextDue, r.Status.Label())
	}
	w.Flush()
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
