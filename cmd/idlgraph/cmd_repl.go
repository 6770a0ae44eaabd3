package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"idlgraph/cmd/idlgraph/typegraph"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

func newReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Query the type graph interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}
			return runRepl(g, cmd.OutOrStdout())
		},
	}
}

var replHelp = strings.Join([]string{
	"show NAME       describe a node type, enum or alias",
	"parents NODE    direct parents",
	"children NODE   direct children",
	"ancestors NODE  every ancestor, nearest first",
	"nodes           all node types",
	"leaves          leaf node types",
	"help            this text",
	"exit            leave",
}, "\n")

func runRepl(g *typegraph.Graph, out io.Writer) error {
	nodeNames := func(string) []string { return g.NodeNames() }
	anyNames := func(string) []string { return allNames(g) }
	completer := readline.NewPrefixCompleter(
		readline.PcItem("show", readline.PcItemDynamic(anyNames)),
		readline.PcItem("parents", readline.PcItemDynamic(nodeNames)),
		readline.PcItem("children", readline.PcItemDynamic(nodeNames)),
		readline.PcItem("ancestors", readline.PcItemDynamic(nodeNames)),
		readline.PcItem("nodes"),
		readline.PcItem("leaves"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)

	rlCfg := &readline.Config{
		Prompt:          appName + "> ",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          out,
	}
	if dir, err := resolveConfigDir(); err == nil {
		rlCfg.HistoryFile = filepath.Join(dir, "history")
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintf(out, "%s\ntype help for commands\n", summary(g))
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		result, quit, err := evalLine(g, line)
		if quit {
			return nil
		}
		if err != nil {
			fmt.Fprintln(out, colorTheme.err.Render("error: ")+err.Error())
			continue
		}
		if result != "" {
			fmt.Fprintln(out, strings.TrimRight(result, "\n"))
		}
	}
}

// evalLine runs one repl command against g.
func evalLine(g *typegraph.Graph, line string) (string, bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false, nil
	}
	cmd, args := fields[0], fields[1:]

	needName := func() (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("%s takes exactly one name", cmd)
		}
		return args[0], nil
	}
	needNode := func() (*typegraph.Node, error) {
		name, err := needName()
		if err != nil {
			return nil, err
		}
		n, ok := g.Node(name)
		if !ok {
			return nil, notFoundError(g, name)
		}
		return n, nil
	}

	switch cmd {
	case "exit", "quit":
		return "", true, nil
	case "help":
		return replHelp, false, nil
	case "nodes":
		return strings.Join(g.NodeNames(), "\n"), false, nil
	case "leaves":
		return strings.Join(g.Leaves(), "\n"), false, nil
	case "show":
		name, err := needName()
		if err != nil {
			return "", false, err
		}
		out, err := colorTheme.describe(g, name)
		return out, false, err
	case "parents", "children", "ancestors":
		n, err := needNode()
		if err != nil {
			return "", false, err
		}
		var names []string
		switch cmd {
		case "parents":
			names = n.Parents
		case "children":
			names = n.Children
		default:
			names = g.Ancestors(n.Name)
		}
		return joinOrNone(names), false, nil
	default:
		return "", false, fmt.Errorf("unknown command %q (try help)", cmd)
	}
}
