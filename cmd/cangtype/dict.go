package main

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/cangtype/internal/dictionary"
	"github.com/verte-zerg/cangtype/internal/stats"
)

var dictPrune bool

func newDictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict [char]",
		Short: "Look up a character or maintain the dictionary cache",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDictCmd,
	}
	cmd.Flags().BoolVar(&dictPrune, "prune", false, "delete expired cached entries")
	addDictionaryFlags(cmd)
	return cmd
}

func runDictCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	ds, err := dictionaryOptions(cmd, fileCfg)
	if err != nil {
		return err
	}
	a, err := openApp(ds)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	out := cmd.OutOrStdout()
	if dictPrune {
		n, err := a.dict.Prune(ctx)
		if err != nil {
			return fmt.Errorf("failed to prune dictionary cache: %w", err)
		}
		keys, err := a.db.Keys(ctx, dictionary.KeyPrefix)
		if err != nil {
			return fmt.Errorf("failed to count cached entries: %w", err)
		}
		if _, err := fmt.Fprintf(out, "Pruned %d expired entries, %d cached\n", n, len(keys)); err != nil {
			return err
		}
	}
	if len(args) == 0 {
		if !dictPrune {
			return fmt.Errorf("a character or --prune is required")
		}
		return nil
	}

	char := strings.TrimSpace(args[0])
	if utf8.RuneCountInString(char) != 1 {
		return fmt.Errorf("a single character is required")
	}
	e := a.dict.Lookup(ctx, char)
	if e.Empty() {
		logErrf("No dictionary data for %s\n", char)
		return nil
	}
	rows := [][]string{}
	if len(e.Codes) > 0 {
		rows = append(rows, []string{"Codes", strings.Join(e.Codes, ", ")})
	}
	if len(e.Readings) > 0 {
		rows = append(rows, []string{"Readings", strings.Join(e.Readings, ", ")})
	}
	if len(e.Definitions) > 0 {
		rows = append(rows, []string{"Meaning", strings.Join(e.Definitions, "; ")})
	}
	for _, c := range e.Components {
		rows = append(rows, []string{c.Letter, c.Glyph + " " + c.Name})
	}
	if _, err := fmt.Fprintln(out, e.Char); err != nil {
		return err
	}
	return stats.WriteTable(out, nil, rows)
}
