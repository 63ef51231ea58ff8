package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"farhold/quarterdeck/internal/common"
	"farhold/quarterdeck/internal/db"
	"farhold/quarterdeck/internal/jobs"
	"farhold/quarterdeck/internal/logging"
	"farhold/quarterdeck/internal/providers"
)

const usage = `Usage: sync [flags] <job> [SID]

Jobs:
  ships                 Sync the ship catalog from the upstream API
  organization <SID>    Sync one organization's profile
  members <SID>         Sync one organization's member roster

Flags:
  -force          Overwrite records that already exist locally
  -clear-cache    Drop cached upstream responses before running
`

func main() {
	force := flag.Bool("force", false, "overwrite records that already exist locally")
	clearCache := flag.Bool("clear-cache", false, "drop cached upstream responses before running")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	job := flag.Arg(0)

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}
	if err := logging.Init(appEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	if os.Getenv("SC_API_KEY") == "" {
		fmt.Fprintln(os.Stderr, "SC_API_KEY is not set")
		os.Exit(1)
	}

	if _, err := db.InitAppORM(os.Getenv("DATABASE_URL")); err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	if err := db.MigrateApp(db.AppDB); err != nil {
		log.Fatalf("Schema migration failed: %v", err)
	}

	cache := common.NewCacheFromEnv()
	defer cache.Close()
	provider := providers.NewStarCitizenProvider(cache)

	if *clearCache {
		provider.ClearCache()
		logging.Info("Upstream response cache cleared")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	start := time.Now()
	var (
		result *jobs.SyncResult
		err    error
	)

	switch job {
	case "ships":
		result, err = jobs.NewShipSyncJob(provider, db.AppDB, nil).Run(ctx, *force)
	case "organization":
		sid := requireSID()
		result, err = jobs.NewOrgSyncJob(provider, db.AppDB, nil).Run(ctx, sid)
	case "members":
		sid := requireSID()
		result, err = jobs.NewMemberSyncJob(provider, db.AppDB, nil).Run(ctx, sid, *force)
	default:
		fmt.Fprintf(os.Stderr, "unknown job %q\n\n", job)
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "sync failed: %v\n", err)
		os.Exit(1)
	}

	// Per-record errors are part of a completed run; only fatal failures
	// exit non-zero
	fmt.Printf("%s sync finished in %s: created=%d updated=%d skipped=%d errored=%d\n",
		job, time.Since(start).Round(time.Millisecond),
		result.Created, result.Updated, result.Skipped, result.Errored)
}

func requireSID() string {
	if flag.NArg() < 2 {
		sid := os.Getenv("ORG_SID")
		if sid == "" {
			fmt.Fprintln(os.Stderr, "organization SID is required (argument or ORG_SID)")
			os.Exit(2)
		}
		return sid
	}
	return flag.Arg(1)
}
