package cmd

import (
	"fmt"

	"github.com/jimezsa/rentcli/internal/history"
)

type HistoryCmd struct {
	Diff   HistoryDiffCmd   `cmd:"" help:"Write unseen quotes (A-B) to JSON."`
	Update HistoryUpdateCmd `cmd:"" help:"Merge new quotes into history JSON."`
}

type HistoryDiffCmd struct {
	New   string `name:"new" required:"" help:"Path to new quotes JSON file (A)."`
	Seen  string `name:"seen" required:"" help:"Path to history JSON file (B). Missing file is treated as empty."`
	Out   string `name:"out" required:"" help:"Output path for unseen quotes JSON file (C)."`
	Stats bool   `name:"stats" help:"Print comparison stats."`
}

type HistoryUpdateCmd struct {
	Seen  string `name:"seen" required:"" help:"Path to history JSON file (B). Missing file is treated as empty."`
	Input string `name:"input" required:"" help:"Path to input quotes JSON file to merge into history."`
	Out   string `name:"out" required:"" help:"Output path for updated history JSON."`
	Stats bool   `name:"stats" help:"Print merge stats."`
}

func (c *HistoryDiffCmd) Run(ctx *Context) error {
	newQuotes, err := history.ReadQuotes(c.New)
	if err != nil {
		return fmt.Errorf("read --new: %w", err)
	}
	seenQuotes, err := history.ReadQuotesAllowMissing(c.Seen)
	if err != nil {
		return fmt.Errorf("read --seen: %w", err)
	}

	unseenQuotes, stats := history.Diff(newQuotes, seenQuotes)
	if err := history.WriteQuotes(c.Out, unseenQuotes); err != nil {
		return fmt.Errorf("write --out: %w", err)
	}

	if c.Stats {
		_, err := fmt.Fprintf(
			ctx.Out,
			"total_new=%d total_seen=%d invalid_skipped=%d unseen_emitted=%d\n",
			stats.TotalNew,
			stats.TotalSeen,
			stats.InvalidSkipped(),
			stats.Unseen,
		)
		return err
	}

	return nil
}

func (c *HistoryUpdateCmd) Run(ctx *Context) error {
	seenQuotes, err := history.ReadQuotesAllowMissing(c.Seen)
	if err != nil {
		return fmt.Errorf("read --seen: %w", err)
	}
	inputQuotes, err := history.ReadQuotes(c.Input)
	if err != nil {
		return fmt.Errorf("read --input: %w", err)
	}

	mergedQuotes, stats := history.Merge(seenQuotes, inputQuotes)
	if err := history.WriteQuotes(c.Out, mergedQuotes); err != nil {
		return fmt.Errorf("write --out: %w", err)
	}

	if c.Stats {
		_, err := fmt.Fprintf(
			ctx.Out,
			"total_seen=%d total_input=%d invalid_skipped=%d added=%d total_out=%d\n",
			stats.TotalSeen,
			stats.TotalInput,
			stats.InvalidSkipped(),
			stats.Added,
			stats.TotalOut,
		)
		return err
	}

	return nil
}
