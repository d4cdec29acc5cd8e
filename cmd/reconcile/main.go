/*
main.go - Constraint reconciler CLI

PURPOSE:
  One-shot maintenance binary that migrates the record stores'
  uniqueness constraints into their status-scoped shape. Run it
  administratively during deployment, never on the request path, and
  not concurrently with itself.

CONFIGURATION:
  -db      SQLite database path (default: env DB_PATH or payroll.db)

OUTPUT:
  Prints, per table, the unique-index listing before and after and what
  was dropped/created. A run against an already-reconciled database
  reports "no changes".

EXIT CODES:
  0  reconciled (or nothing to do)
  1  halted; on an unrecognized constraint the database is untouched
     and the operator should inspect before re-running

SEE ALSO:
  - reconcile/reconcile.go: The migration procedure
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/warp/payroll-engine/bonus"
	"github.com/warp/payroll-engine/gratuity"
	"github.com/warp/payroll-engine/reconcile"
	"github.com/warp/payroll-engine/store/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	dbPath := flag.String("db", envString("DB_PATH", "payroll.db"), "SQLite database path")
	flag.Parse()

	db, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	r := reconcile.New(db,
		sqlite.BonusConstraint(bonus.ActiveStatuses),
		sqlite.GratuityConstraint(gratuity.ActiveStatuses),
	)

	reports, err := r.Run(context.Background())
	for _, report := range reports {
		printReport(report)
	}
	if err != nil {
		log.Fatalf("Reconciliation halted: %v", err)
	}
}

func printReport(r reconcile.Report) {
	fmt.Printf("== %s\n", r.Table)
	fmt.Println("before:")
	printIndexes(r.Before)
	if !r.Changed() {
		fmt.Println("no changes")
	}
	for _, name := range r.Dropped {
		fmt.Printf("dropped: %s\n", name)
	}
	for _, name := range r.Created {
		fmt.Printf("created: %s\n", name)
	}
	fmt.Println("after:")
	printIndexes(r.After)
}

func printIndexes(indexes []reconcile.IndexInfo) {
	if len(indexes) == 0 {
		fmt.Println("  (no unique indexes)")
		return
	}
	for _, idx := range indexes {
		fmt.Printf("  %s: %s\n", idx.Name, idx.SQL)
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
