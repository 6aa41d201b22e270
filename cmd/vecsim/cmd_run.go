package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nvandessel/vecsim/internal/scenario"
	"github.com/nvandessel/vecsim/internal/session"
	"github.com/nvandessel/vecsim/internal/visualization"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "Run a scripted scenario or built-in lesson",
		Long: `Run a YAML scenario: a list of actions with optional expectations.

Examples:
  vecsim run --list                 # List built-in lessons
  vecsim run --lesson growth        # Run a built-in lesson
  vecsim run my.yaml --format dot   # Run a file, print the final storage as DOT`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			list, _ := cmd.Flags().GetBool("list")
			lesson, _ := cmd.Flags().GetString("lesson")
			format, _ := cmd.Flags().GetString("format")
			verbose, _ := cmd.Flags().GetBool("verbose")
			out := cmd.OutOrStdout()

			if list {
				names := scenario.Lessons()
				if jsonOut {
					return json.NewEncoder(out).Encode(map[string]interface{}{"lessons": names})
				}
				for _, name := range names {
					sc, err := scenario.Lesson(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%-12s %s\n", name, sc.Description)
				}
				return nil
			}

			var sc *scenario.Scenario
			var err error
			switch {
			case lesson != "" && len(args) > 0:
				return errors.New("pass either a scenario file or --lesson, not both")
			case lesson != "":
				sc, err = scenario.Lesson(lesson)
			case len(args) == 1:
				sc, err = scenario.Load(args[0])
			default:
				return errors.New("a scenario file or --lesson is required (see --list)")
			}
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			report, err := scenario.Run(commandContext(cmd), sc, session.ConfigFrom(cfg, nil, nil))
			if err != nil {
				return fmt.Errorf("running scenario: %w", err)
			}

			if jsonOut {
				if err := json.NewEncoder(out).Encode(report); err != nil {
					return err
				}
			} else {
				if verbose {
					for _, st := range report.Steps {
						status := "ok"
						if !st.Result.OK {
							status = "error: " + st.Result.Error
						}
						fmt.Fprintf(out, "%3d. %-24s %s\n", st.Index+1, st.Result.Action.String(), status)
					}
					fmt.Fprintln(out)
				}

				rendered, err := visualization.Render(report.Final, visualization.Format(format))
				if err != nil {
					return err
				}
				out.Write(rendered)
				if len(rendered) > 0 && !strings.HasSuffix(string(rendered), "\n") {
					fmt.Fprintln(out)
				}
			}

			if fails := report.Failures(); len(fails) > 0 {
				if !jsonOut {
					fmt.Fprintf(out, "\n%s: %d expectation(s) failed\n", report.Name, len(fails))
					for _, f := range fails {
						fmt.Fprintf(out, "  - %s\n", f)
					}
				}
				return fmt.Errorf("scenario %s failed", report.Name)
			}
			if !jsonOut {
				fmt.Fprintf(out, "\n%s: %d steps, all expectations passed\n", report.Name, len(report.Steps))
			}
			return nil
		},
	}

	cmd.Flags().String("lesson", "", "Run a built-in lesson by name")
	cmd.Flags().Bool("list", false, "List built-in lessons")
	cmd.Flags().String("format", "text", "Final state format: text, json, dot or markdown")
	cmd.Flags().BoolP("verbose", "v", false, "Print every step")
	return cmd
}
