package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"placsp/internal/config"
	"placsp/internal/pipeline"
	"placsp/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "db:init":
		db := openStore(cfg)
		defer db.Close()
		must(db.InitSchema())
		must(db.SeedCodeTables())
		fmt.Printf("schema ready at %s\n", cfg.DBPath)
	case "load":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", cfg.RawDataDir, "directory of year folders with .atom files")
		_ = fs.Parse(os.Args[2:])
		cfg.RawDataDir = *input

		db := openStore(cfg)
		defer db.Close()
		svc := pipeline.NewService(db, cfg)
		res, err := svc.Run()
		must(err)
		fmt.Printf("load done: folders=%d files=%d skipped=%d extracted=%d entryErrors=%d contracts=%d\n",
			res.Folders, res.Files, res.SkippedFiles, res.Extracted, res.EntryErrors, res.Contracts)
	case "export:dataset":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", cfg.ExportDir, "output directory")
		_ = fs.Parse(os.Args[2:])

		db := openStore(cfg)
		defer db.Close()
		rows, err := db.DatasetRows()
		must(err)
		if len(rows) == 0 {
			must(fmt.Errorf("no contracts in store, run load first"))
		}
		csvPath := filepath.Join(*out, "contratos_menores.csv")
		xlsxPath := filepath.Join(*out, "contratos_menores.xlsx")
		must(pipeline.ExportDatasetCSV(rows, csvPath))
		must(pipeline.ExportDatasetXLSX(rows, xlsxPath))
		fmt.Printf("exported %d rows\n  csv:  %s\n  xlsx: %s\n", len(rows), csvPath, xlsxPath)
	case "stats":
		db := openStore(cfg)
		defer db.Close()
		counts, err := db.TableCounts()
		must(err)
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"table", "rows"})
		for _, c := range counts {
			table.Append([]string{c.Table, strconv.FormatInt(c.Rows, 10)})
		}
		table.Render()
	default:
		usage()
		os.Exit(1)
	}
}

// openStore is called per subcommand so a bad command line never creates
// the data directory or the db file.
func openStore(cfg config.Config) *storage.DB {
	db, err := storage.Open(cfg.DBPath)
	must(err)
	return db
}

func usage() {
	fmt.Println(`usage: placsp <command> [flags]

commands:
  db:init                  create the schema and seed the code tables
  load [--input dir]       run the ETL over year folders of .atom files
  export:dataset [--out]   export the denormalized dataset (csv + xlsx)
  stats                    row counts per table`)
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
