// Package taxonsync keeps a remote taxon table in step with the taxonomic
// names found in an occurrence CSV.
//
// It can be used through the taxonsync command or embedded as a library.
//
// # Basic Usage
//
//	cfg := taxonsync.Config{
//	    CSVPath: "occurrences.csv",
//	    User:    "my-account",
//	    APIKey:  "your-api-key",
//	}
//
//	s, err := taxonsync.New(cfg, taxonsync.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := s.Sync(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Jobs, "jobs,", len(report.Unresolved), "unresolved")
//
// A sync is idempotent: running it twice against the same CSV uploads
// nothing the second time.
//
// # Stores
//
// By default names are uploaded through the CARTO SQL API. Set Store to
// "postgres" and DSN to write to a PostgreSQL database directly, or inject
// any [SQLStore] with [WithStore].
//
// # Strategies
//
// The "bulk" strategy inserts missing names in batches of BatchSize. The
// "per-name" strategy selects or inserts one name per call and logs the id
// assigned to it.
//
// # Watching
//
// [Syncer.Watch] runs one sync and then re-runs it every time the CSV file
// is rewritten, until the context is cancelled.
//
// # Event Handling
//
// Implement [EventHandler] (embed [BaseEventHandler] for no-op defaults) and
// pass it via [WithEventHandler] to observe uploads. Handlers are called
// from worker goroutines and must be safe for concurrent use.
package taxonsync
