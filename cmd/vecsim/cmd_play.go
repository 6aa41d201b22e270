package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nvandessel/vecsim/internal/session"
	"github.com/nvandessel/vecsim/internal/visualization"
)

var (
	// errQuit ends the play loop.
	errQuit = errors.New("quit")

	// errHelp asks the loop to print the command list.
	errHelp = errors.New("help")
)

const playHelp = `Commands:
  push <value>    push_back(value) onto the vector (alias: push_back)
  pop             pop_back() (alias: pop_back)
  clear           clear() the vector
  reset           reset the vector to its initial capacity
  type <t>        change element type: int, double, char, string
  input <value>   stage a value; "submit" pushes it
  text <s>        replace the string content
  text-clear      empty the string
  view <v>        switch view: vector, string, comparison
  show            redraw the current view
  help            show this help
  quit            leave (alias: exit)`

// commandAliases maps alternative spellings to actions.
var commandAliases = map[string]session.Op{
	"push_back": session.OpPush,
	"pop_back":  session.OpPop,
	"s":         session.OpShow,
}

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Interactive terminal playground",
		Long: `Start an interactive playground reading one command per line.

Each command runs one action and redraws the selected view. Input is read
from stdin, so sessions can also be piped:

  printf 'push 1\npush 2\npop\n' | vecsim play`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			jsonOut, _ := cmd.Flags().GetBool("json")
			return playLoop(cmd, rt.session, cmd.InOrStdin(), jsonOut)
		},
	}
}

// playLoop reads commands from in until EOF or quit.
func playLoop(cmd *cobra.Command, sess *session.Session, in io.Reader, jsonOut bool) error {
	out := cmd.OutOrStdout()
	ctx := commandContext(cmd)
	if !jsonOut {
		fmt.Fprintln(out, visualization.RenderText(sess.Snapshot()))
		fmt.Fprintln(out, `Type "help" for commands.`)
	}

	scanner := bufio.NewScanner(in)
	for {
		if !jsonOut {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		action, err := parseCommand(line)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case errors.Is(err, errHelp):
			fmt.Fprintln(out, playHelp)
			continue
		case err != nil:
			if jsonOut {
				json.NewEncoder(out).Encode(map[string]string{"error": err.Error()})
			} else {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
			continue
		}

		res, err := sess.Apply(ctx, action)
		if jsonOut {
			json.NewEncoder(out).Encode(res)
			continue
		}
		fmt.Fprintln(out, visualization.RenderText(res.Snapshot))
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
	return scanner.Err()
}

// parseCommand turns one input line into an action. The value is everything
// after the first space, so text and string values may contain spaces.
func parseCommand(line string) (session.Action, error) {
	name, value, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)

	switch name {
	case "quit", "exit", "q":
		return session.Action{}, errQuit
	case "help", "h", "?":
		return session.Action{}, errHelp
	}

	op := session.Op(name)
	if alias, ok := commandAliases[name]; ok {
		op = alias
	}
	for _, known := range session.Ops() {
		if op == known {
			return session.Action{Op: op, Value: value}, nil
		}
	}
	return session.Action{}, fmt.Errorf("%w: %q (type help for commands)", session.ErrUnknownAction, name)
}
