// Command exptrk-inspect prints the schema of an expense tracker database:
// every table with its columns, types, and constraints. It opens the
// database read-only and never modifies it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"exptrk/internal/cli"
	"exptrk/internal/config"
	"exptrk/internal/log"
	"exptrk/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentInspect)

	dbPath := flag.String("db", config.Load().SQLiteDBPath, "path to the SQLite database")
	flag.Parse()

	if _, err := os.Stat(*dbPath); err != nil {
		logger.Error("Database file not found", "path", *dbPath)
		os.Exit(1)
	}

	repo, err := storage.OpenReadOnly(*dbPath)
	if err != nil {
		logger.Error("Failed to open database", log.FieldError, err, "path", *dbPath)
		os.Exit(1)
	}
	defer repo.Close()

	tables, err := repo.InspectSchema(context.Background())
	if err != nil {
		logger.Error("Failed to inspect schema", log.FieldError, err)
		os.Exit(1)
	}

	if len(tables) == 0 {
		fmt.Println("no tables found")
		return
	}

	for _, table := range tables {
		printTable(table)
	}
}

func printTable(table storage.TableInfo) {
	fmt.Printf("table %s (%d columns)\n", table.Name, len(table.Columns))

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  CID\tNAME\tTYPE\tNOT NULL\tDEFAULT\tPK")
	for _, c := range table.Columns {
		def := ""
		if c.DefaultValue.Valid {
			def = c.DefaultValue.String
		}
		fmt.Fprintf(w, "  %d\t%s\t%s\t%v\t%s\t%d\n",
			c.CID, c.Name, c.Type, c.NotNull, def, c.PrimaryKey)
	}
	w.Flush()
	fmt.Println()
}
