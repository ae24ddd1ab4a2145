// Command batchengine reads a CSV transaction batch and writes the final
// per-client account states as CSV on stdout, per spec.md §7.
//
// Grounded on original_source/src/main.py, with argument parsing lifted
// from the teacher-adjacent luxfi-evm simulator's use of
// github.com/spf13/pflag in place of raw os.Args indexing.
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/iotaledger/hive.go/log"

	"github.com/iotaledger/batchledger/pkg/adapter"
	"github.com/iotaledger/batchledger/pkg/engine"
	"github.com/iotaledger/batchledger/pkg/txn"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("batchengine", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	consumers := fs.IntP("consumers", "c", engine.DefaultConsumers, "number of concurrent consumer workers")
	queueCapacity := fs.IntP("queue-capacity", "q", 1024, "internal work queue buffer size")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: batchengine [flags] <input.csv>")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	rootLogger := log.NewLogger()

	source, sourceErrs, err := newCSVSource(f, rootLogger.NewChildLogger("reader", false))
	if err != nil {
		return fmt.Errorf("reading input header: %w", err)
	}

	e := engine.New(rootLogger, engine.WithConsumers(*consumers), engine.WithQueueCapacity(*queueCapacity))
	snapshots, stats := e.Run(source)

	if n := <-sourceErrs; n > 0 {
		rootLogger.LogWarnf("skipped %d malformed input rows", n)
	}

	rootLogger.LogInfof("processed=%d dlq_succeeded=%d discarded=%d", stats.Processed(), stats.DLQSucceeded(), stats.Discarded())

	w := csv.NewWriter(stdout)
	defer w.Flush()

	if err := w.Write(adapter.OutputHeader); err != nil {
		return err
	}
	for _, s := range snapshots {
		if err := w.Write(adapter.RenderSnapshot(s)); err != nil {
			return err
		}
	}

	return nil
}

// newCSVSource reads the header row up front, then returns a Source that
// parses each subsequent row into a name→value record (mirroring
// original_source/src/engine.py's use of csv.DictReader, which is
// name-keyed and tolerant of reordered or extra columns) and hands it to
// adapter.ParseRecord. Rows that fail to parse are skipped with a warning.
// The returned channel receives exactly one value: the count of skipped
// rows, sent once the Source has been fully drained.
func newCSVSource(r io.Reader, logger log.Logger) (engine.Source, <-chan int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, err
	}

	errs := make(chan int, 1)
	skipped := 0
	done := false

	source := func() (txn.Transaction, bool) {
		for {
			if done {
				return txn.Transaction{}, false
			}

			row, err := reader.Read()
			if err == io.EOF {
				done = true
				errs <- skipped
				return txn.Transaction{}, false
			}
			if err != nil {
				logger.LogWarnf("reading row: %s", err)
				skipped++
				continue
			}

			record := make(map[string]string, len(header))
			for i, col := range header {
				if i < len(row) {
					record[col] = row[i]
				}
			}

			tx, err := adapter.ParseRecord(record)
			if err != nil {
				logger.LogWarnf("skipping row %v: %s", row, err)
				skipped++
				continue
			}

			return tx, true
		}
	}

	return source, errs, nil
}
