package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/circulation"
	"github.com/mrlokans/library/internal/clock"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/borrowers"
	"github.com/mrlokans/library/internal/database/borrowings"
	"github.com/mrlokans/library/internal/reports"
)

// ExportReportCommand writes the borrowings report without a running server.
type ExportReportCommand struct {
	Start        string
	End          string
	OutputDir    string
	DatabasePath string
}

func NewExportReportCommand() *ExportReportCommand {
	return &ExportReportCommand{}
}

func (cmd *ExportReportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export-report", flag.ExitOnError)

	fs.StringVar(&cmd.Start, "start", "", "First day of the window, YYYY-MM-DD or RFC 3339 (required)")
	fs.StringVar(&cmd.End, "end", "", "Last day of the window, YYYY-MM-DD or RFC 3339 (required)")
	fs.StringVar(&cmd.OutputDir, "dir", "", "Directory for the CSV file (defaults to REPORTS_DIR)")
	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the SQLite database (defaults to DATABASE_PATH)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export-report -start <date> -end <date> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Write a CSV report of the loans borrowed inside the window.\n")
		fmt.Fprintf(os.Stderr, "A date-only end covers that whole day.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export-report -start 2025-08-01 -end 2025-08-31\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export-report -start 2025-08-01 -end 2025-08-31 -dir /tmp/reports\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Start == "" || cmd.End == "" {
		return fmt.Errorf("required flags -start and -end not provided")
	}
	return nil
}

func (cmd *ExportReportCommand) Run() error {
	start, end, err := circulation.ParseReportWindow(cmd.Start, cmd.End)
	if err != nil {
		return err
	}

	cfg := config.NewConfig()
	if cmd.DatabasePath != "" {
		cfg.Database.Driver = config.DatabaseDriverSQLite
		cfg.Database.Path = cmd.DatabasePath
	}
	if cmd.OutputDir != "" {
		cfg.Reports.Dir = cmd.OutputDir
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	defer auditService.Wait()

	clk := clock.NewSystem()
	service := circulation.NewService(
		books.NewRepository(db.DB),
		borrowers.NewRepository(db.DB),
		borrowings.NewRepository(db.DB),
		reports.NewCSVExporter(cfg.Reports.Dir, clk),
		circulation.WithAuditor(auditService),
		circulation.WithClock(clk),
	)

	path, err := service.ExportReportWindow(context.Background(), circulation.TriggerCLI, start, end)
	if err != nil {
		return err
	}

	fmt.Println(path)
	return nil
}
