package commands

import (
	"isqexplorer-backend/lib/restyutil"
	"isqexplorer-backend/lib/scrapers/isq"
	"isqexplorer-backend/lib/serviceutil"
	"isqexplorer-backend/lib/sqliteutil"
	"isqexplorer-backend/lib/telemetry"
	"isqexplorer-backend/lib/timezone"
	"isqexplorer-backend/services/isqscrape"
	"log/slog"
	"os"

	"github.com/mazen160/go-random"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var scrapeDb *string
var scrapeDebug *bool

func init() {
	scrapeDb = scrapeCmd.Flags().String("db", "", "Override the sqlite file the config points at.")
	scrapeDebug = scrapeCmd.Flags().Bool("debug", false, "Dump every http exchange to .dev/resty/isq.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--db <path/to/output.db>]",
	Short: "Scrapes the ISQ site according to config.json5 and writes to the configured database.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg := readConfig()
		if *scrapeDb != "" {
			cfg.Database = sqliteutil.Config{File: *scrapeDb}
		}
		telemetry.InstrumentPerfStats(ctx)

		client, err := isq.NewClient(ctx, isq.ClientOptions{
			BaseUrl: cfg.BaseUrl,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize isq client", err)
		}
		if *scrapeDebug {
			isq.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/isq"))
		}

		st, database := openStore(cfg)
		defer database.Close()

		scraper := isqscrape.NewScraper(isqscrape.Options{
			Fetcher:     client,
			Departments: st.Departments,
			Terms:       st.Terms,
			Courses:     st.Courses,
			Professors:  st.Professors,
			Entries:     st.Entries,
		})

		runId, err := random.String(8)
		if err != nil {
			serviceutil.Fatal("failed to generate run id", err)
		}
		err = st.Runs.Begin(ctx, runId, timezone.Now())
		if err != nil {
			serviceutil.Fatal("failed to record scrape run", err)
		}
		slog.Info("starting scrape", "run", runId, "base_url", cfg.BaseUrl)

		report, err := scraper.Run(ctx)
		if err != nil {
			serviceutil.Fatal("scrape aborted", err)
		}

		err = st.Runs.Finish(ctx, runId, report.Finished, len(report.Errors))
		if err != nil {
			serviceutil.Fatal("failed to record scrape run", err)
		}

		report.WriteSummary(os.Stdout)

		if cfg.Email != nil {
			err = isqscrape.EmailReport(ctx, isqscrape.SmtpConfig{
				Server:       cfg.Email.Server,
				Port:         cfg.Email.Port,
				EmailAddress: cfg.Email.EmailAddress,
				Password:     cfg.Email.Password,
				Recipients:   cfg.Email.Recipients,
			}, report)
			if err != nil {
				serviceutil.Fatal("failed to email report", err)
			}
			slog.Info("emailed report", "recipients", cfg.Email.Recipients)
		}
	},
}
