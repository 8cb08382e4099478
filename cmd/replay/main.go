package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	app = &cobra.Command{
		Use:          "replay [capture.jsonl]",
		Short:        "replay a capture of node messages",
		Long:         "this tool folds a capture of node websocket messages, one per line, into a wallet snapshot and prints a summary of the resulting ledgers",
		Version:      formatVersion(),
		Args:         cobra.ExactArgs(1),
		RunE:         action,
		SilenceUsage: true,
	}

	strict bool
)

func init() {
	app.Flags().BoolVarP(&strict, "strict", "", false, "fail on the first malformed message instead of skipping it")
}

func main() {
	if err := app.Execute(); err != nil {
		log.Fatal(err)
	}
}

func action(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	start := time.Now()
	rep, err := replay(file, strict)
	if err != nil {
		return err
	}
	log.Debugf("replay ended in %fs", time.Since(start).Seconds())

	buf, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(buf))
	return nil
}

func formatVersion() string {
	return fmt.Sprintf(
		"Version: %s\nCommit: %s\nDate: %s",
		version, commit, date,
	)
}
