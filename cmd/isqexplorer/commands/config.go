package commands

import (
	"database/sql"
	"isqexplorer-backend/lib/configutil"
	"isqexplorer-backend/lib/serviceutil"
	"isqexplorer-backend/lib/sqliteutil"
	"isqexplorer-backend/services/isqscrape/db"
	"isqexplorer-backend/services/isqscrape/store"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

type EmailConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	Recipients   []string `json:"recipients"`
}

type Config struct {
	BaseUrl  string            `json:"base_url"`
	Database sqliteutil.Config `json:"database"`
	Email    *EmailConfig      `json:"email"`
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg
}

func openStore(cfg Config) (*store.Store, *sql.DB) {
	database, err := cfg.Database.OpenDB(db.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}
	return store.New(database), database
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
