// nhc finds gene clusters shared by patients through a gene interaction
// network, merges overlapping clusters, and reports pathway and GO
// enrichment for each of them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/carbocation/nhc/compileinfo"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, fs, err := ParseConfig(os.Args[1:], time.Now())
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.PrintDefaults()
		os.Exit(2)
	}

	log := logrus.New()
	if cfg.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	logger := log.WithField("run_id", uuid.New().String())

	compileinfo.Log(logger)

	if _, err := Run(context.Background(), cfg, logger); err != nil {
		logger.Fatalln(err)
	}
}
