package doctor

import (
	"context"
	"database/sql"
	"fmt"
)

// DatabaseCheck pings the database and runs SQLite's quick integrity check.
type DatabaseCheck struct {
	conn *sql.DB
	path string
}

func NewDatabaseCheck(conn *sql.DB, path string) *DatabaseCheck {
	return &DatabaseCheck{conn: conn, path: path}
}

func (c *DatabaseCheck) Name() string {
	return "Database"
}

func (c *DatabaseCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if err := c.conn.PingContext(ctx); err != nil {
		result.Items = append(result.Items, CheckItem{Label: "connection", Status: StatusFail, Detail: err.Error()})
		return result
	}
	result.Items = append(result.Items, CheckItem{Label: "connection", Status: StatusPass, Detail: c.path})

	var verdict string
	if err := c.conn.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&verdict); err != nil {
		result.Items = append(result.Items, CheckItem{Label: "integrity", Status: StatusFail, Detail: err.Error()})
		return result
	}
	if verdict != "ok" {
		result.Items = append(result.Items, CheckItem{
			Label:  "integrity",
			Status: StatusFail,
			Detail: fmt.Sprintf("quick_check reported %q", verdict),
		})
		return result
	}
	result.Items = append(result.Items, CheckItem{Label: "integrity", Status: StatusPass})

	return result
}
