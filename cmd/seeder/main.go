// Command seeder idempotently inserts the demo accounts used for manual
// testing and the benchmark tool, connecting through the same pgxpool
// bootstrap and schema setup as the gateway and ledger processes.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/easpayments/ledgercore/internal/config"
	"github.com/easpayments/ledgercore/internal/logging"
	"github.com/easpayments/ledgercore/internal/store"
)

// demoAccount is one entry in the fixed demo account list: stable UUIDs so
// repeated runs and cmd/benchmark can rely on known ids, amounts in paise
// (INR minor units).
type demoAccount struct {
	ID           string
	Name         string
	StartBalance int64
}

var demoAccounts = []demoAccount{
	{ID: "00000000-0000-0000-0000-0000000000a1", Name: "Alice", StartBalance: 1_000_00},
	{ID: "00000000-0000-0000-0000-0000000000b1", Name: "Bob", StartBalance: 500_00},
	{ID: "00000000-0000-0000-0000-0000000000c1", Name: "Charlie", StartBalance: 0},
}

func main() {
	log := logging.New("seeder")
	defer log.Sync()

	cfg, err := config.LoadLedgerConfig()
	if err != nil {
		log.Fatalw("failed to load config", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.NewPool(ctx, cfg.DB.DSN())
	if err != nil {
		log.Fatalw("failed to connect to postgres", "err", err)
	}
	defer db.Close()

	if err := store.EnsureSchema(ctx, db); err != nil {
		log.Fatalw("failed to ensure schema", "err", err)
	}

	for _, a := range demoAccounts {
		// ON CONFLICT DO NOTHING makes this idempotent across repeated runs,
		// same as the original script's asyncpg insert.
		_, err := db.Exec(ctx, `
			INSERT INTO accounts (id, name, currency, start_balance)
			VALUES ($1, $2, 'INR', $3)
			ON CONFLICT (id) DO NOTHING`, a.ID, a.Name, a.StartBalance)
		if err != nil {
			log.Fatalw("failed to seed account", "account_id", a.ID, "err", err)
		}
	}

	log.Infow("accounts seeded", "count", len(demoAccounts))
}
