package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tbourn/rocketmentor/internal/generator"
	"github.com/tbourn/rocketmentor/internal/parser"
)

func newParseWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse-week [file|-]",
		Short: "Parse a free-form week dump into kanban cards",
		Long: `Reads a week dump from a file, or from stdin when the argument is "-" or
omitted, and prints the extracted cards as indented JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}
			raw, err := io.ReadAll(src)
			if err != nil {
				return err
			}
			cards := parser.ParseWeekDump(string(raw), uuid.NewString)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cards)
		},
	}
}

func newParseTimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse-time <input>",
		Short: "Normalize a loose time of day to HH:MM",
		Example: `  rocketmentor parse-time 8:30pm
  rocketmentor parse-time 0930`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := strings.Join(args, " ")
			hhmm, ok := parser.ParseTimeInput(in)
			if !ok {
				return fmt.Errorf("unrecognized time %q", in)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", hhmm, parser.FormatTimeForDisplay(hhmm))
			return err
		},
	}
}

func newCoachCmd() *cobra.Command {
	var showRule bool
	cmd := &cobra.Command{
		Use:   "coach <message>",
		Short: "Print the coach reply for a message",
		Long: `Runs the coach rules against a message with no canvas, focus areas or
milestones, the same reply a brand-new account would get.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, reply := generator.MatchCoach(strings.Join(args, " "), generator.CoachContext{})
			out := cmd.OutOrStdout()
			if showRule {
				if _, err := fmt.Fprintf(out, "[%s]\n", rule); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintln(out, reply)
			return err
		},
	}
	cmd.Flags().BoolVar(&showRule, "rule", false, "print the name of the matched rule before the reply")
	return cmd
}
