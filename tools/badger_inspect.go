package main

import (
	"chat-relay/repositories"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

// Prints the presence journal newest first, one page at a time.
func main() {
	dbPath := flag.String("db", os.Getenv("JOURNAL_FILEPATH"), "Path to the presence journal")
	limit := flag.Int("limit", 50, "Records per page")
	cursor := flag.String("cursor", "", "Resume after this key (printed at the bottom of the previous page)")
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("No journal given: use -db or JOURNAL_FILEPATH")
	}

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	repo := repositories.NewPresenceRepository(db, logs.GetLoggerFromString("ERROR"), limit)
	var from *string
	if *cursor != "" {
		from = cursor
	}
	records, next, err := repo.GetPresence(from)
	if err != nil {
		log.Fatal(err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"At", "Kind", "Username", "Session", "Members"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, r := range records {
		// First 8 characters of the session id are enough to tell sessions apart.
		session := r.SessionID
		if len(session) > 8 {
			session = session[:8]
		}
		table.Append([]string{
			r.At.Format("2006-01-02 15:04:05.000"),
			r.Kind,
			r.Username,
			session,
			strings.Join(r.Members, ", "),
		})
	}
	table.Render()

	if len(records) == *limit && next != nil {
		fmt.Printf("\nNext page: -cursor %q\n", *next)
	}
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)

	db, err := badger.Open(opts)
	if err != nil {
		// A journal left by a killed server needs a write open to truncate its value log.
		if strings.Contains(err.Error(), "Log truncate required") {
			repaired, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil).WithBypassLockGuard(true))
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}
			_ = repaired.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
