package store

import (
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"moves/config"
)

// sqlitePragmas keep concurrent writers waiting instead of failing with
// SQLITE_BUSY.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// dataSource maps the configured backend to a database/sql driver name and DSN.
func dataSource(cfg config.DBConfig) (string, string, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		sep := "?"
		if strings.Contains(cfg.Path, "?") {
			sep = "&"
		}
		return "sqlite", cfg.Path + sep + sqlitePragmas, nil

	case config.DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
		mc.DBName = cfg.Name
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return "mysql", mc.FormatDSN(), nil

	default:
		return "", "", fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}
