// Package migrations embeds the SQL schema migrations for each supported driver.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// For returns the migration files for a database driver, rooted at the driver directory.
func For(driver string) (fs.FS, error) {
	switch driver {
	case "postgres", "sqlite":
		return fs.Sub(files, driver)
	}
	return nil, fmt.Errorf("no migrations for driver %q", driver)
}
