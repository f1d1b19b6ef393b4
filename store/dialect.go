// Copyright © 2024 The Arrow authors

package store

import (
	"fmt"
	"sort"
	"strconv"

	// SQL drivers
	_ "github.com/go-sql-driver/mysql"  // MariaDB & MySQL
	_ "github.com/lib/pq"               // Postgres
	_ "github.com/microsoft/go-mssqldb" // SQL Server
	_ "modernc.org/sqlite"              // SQLite
)

// Dialect describes the SQL differences between supported databases.
type Dialect struct {
	// Name is the journal driver name used in configuration.
	Name string
	// Driver is the database/sql driver name.
	Driver string

	placeholder func(i int) string
	createTable string
}

// Placeholder returns the bind parameter marker for the i-th parameter,
// counting from 1.
func (d Dialect) Placeholder(i int) string {
	return d.placeholder(i)
}

// CreateTable returns the statement that creates table if it does not exist.
func (d Dialect) CreateTable(table string) string {
	return fmt.Sprintf(d.createTable, table)
}

func question(int) string { return "?" }

var dialects = map[string]Dialect{
	"sqlite": {
		Name:        "sqlite",
		Driver:      "sqlite",
		placeholder: question,
		createTable: `CREATE TABLE IF NOT EXISTS %[1]s (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
)`,
	},
	"mysql": {
		Name:        "mysql",
		Driver:      "mysql",
		placeholder: question,
		createTable: `CREATE TABLE IF NOT EXISTS %[1]s (
	seq BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
	source LONGTEXT NOT NULL,
	created_at DATETIME(6) NOT NULL
)`,
	},
	"postgres": {
		Name:        "postgres",
		Driver:      "postgres",
		placeholder: func(i int) string { return "$" + strconv.Itoa(i) },
		createTable: `CREATE TABLE IF NOT EXISTS %[1]s (
	seq BIGSERIAL PRIMARY KEY,
	source TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`,
	},
	"sqlserver": {
		Name:        "sqlserver",
		Driver:      "sqlserver",
		placeholder: func(i int) string { return "@p" + strconv.Itoa(i) },
		createTable: `IF OBJECT_ID(N'%[1]s', N'U') IS NULL CREATE TABLE %[1]s (
	seq BIGINT IDENTITY(1,1) PRIMARY KEY,
	source NVARCHAR(MAX) NOT NULL,
	created_at DATETIME2 NOT NULL
)`,
	},
}

// aliases maps alternative configuration names onto dialects.
var aliases = map[string]string{
	"sqlite3":    "sqlite",
	"mariadb":    "mysql",
	"postgresql": "postgres",
	"pq":         "postgres",
	"mssql":      "sqlserver",
}

// LookupDialect returns the dialect for a journal driver name.
func LookupDialect(name string) (Dialect, bool) {
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	d, ok := dialects[name]
	return d, ok
}

// Drivers returns the names of the supported journal drivers in sorted
// order.
func Drivers() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
