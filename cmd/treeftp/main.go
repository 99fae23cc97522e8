// Command treeftp connects to an FTP server and renders its directory
// hierarchy as a tree, depth-first or breadth-first, optionally exporting
// it as JSON.
package main

import (
	"fmt"
	"io"
	"math"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/treeftp/treeftp"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// exportFile is the fixed destination of the JSON export.
const exportFile = "directory_structure.json"

const usage = `Usage: treeftp <server> [username] [password] [max-depth] [dfs|bfs] [--json]

Options:
  <server>     Address of the FTP server (port 21 unless one is given).
  [username]   Username for the FTP server. Default is "anonymous".
  [password]   Password for the FTP server, or "-" to prompt without echo.
               Default is "anonymous@example.com".
  [max-depth]  Maximum depth for tree traversal. Default is unbounded.
  [dfs|bfs]    Traversal method: depth-first (dfs) or breadth-first (bfs).
               Default is dfs; unrecognized values fall back to dfs.
  --json       Also write the tree to ` + exportFile + `.
  --verbose    Log the protocol conversation to stderr.
  --help       Show this message and exit.
`

type config struct {
	server   string
	username string
	password string
	maxDepth int
	mode     string
	json     bool
	verbose  bool
	help     bool
}

// parseArgs interprets the positional surface. Flags may appear anywhere;
// the remaining arguments are positional in the documented order.
func parseArgs(args []string) (config, error) {
	cfg := config{
		username: "anonymous",
		password: "anonymous@example.com",
		maxDepth: math.MaxInt,
		mode:     "dfs",
	}

	var positional []string
	for _, arg := range args {
		switch arg {
		case "--help":
			cfg.help = true
		case "--json":
			cfg.json = true
		case "--verbose":
			cfg.verbose = true
		default:
			positional = append(positional, arg)
		}
	}

	if cfg.help || len(positional) == 0 {
		return cfg, nil
	}

	cfg.server = positional[0]
	if len(positional) > 1 {
		cfg.username = positional[1]
	}
	if len(positional) > 2 {
		cfg.password = positional[2]
	}
	if len(positional) > 3 {
		depth, err := strconv.Atoi(positional[3])
		if err != nil {
			return cfg, fmt.Errorf("invalid max-depth %q", positional[3])
		}
		cfg.maxDepth = depth
	}
	if len(positional) > 4 && strings.ToLower(positional[4]) == "bfs" {
		cfg.mode = "bfs"
	}

	return cfg, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		fmt.Fprint(stderr, usage)
		return 1
	}
	if cfg.help || cfg.server == "" {
		fmt.Fprint(stdout, usage)
		return 0
	}

	logger := zap.NewNop()
	if cfg.verbose {
		if devLogger, err := zap.NewDevelopment(); err == nil {
			logger = devLogger
		}
	}
	defer func() { _ = logger.Sync() }()

	password := cfg.password
	if password == "-" {
		fmt.Fprint(stderr, "Password: ")
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(stderr)
		if err != nil {
			fmt.Fprintf(stderr, "reading password failed: %v\n", err)
			return 1
		}
		password = string(secret)
	}

	addr := cfg.server
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "21")
	}

	client, err := treeftp.Dial(addr, treeftp.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(stderr, "connecting to %s failed: %v\n", addr, err)
		return 1
	}
	defer func() { _ = client.Quit() }()

	if err := client.Login(cfg.username, password); err != nil {
		fmt.Fprintf(stderr, "login failed: %v\n", err)
		return 1
	}

	if cfg.json {
		root, err := client.BuildTree("/", cfg.maxDepth)
		if err != nil {
			fmt.Fprintf(stderr, "building tree failed: %v\n", err)
			return 1
		}
		// Export failures are reported but never abort the console output.
		if err := root.WriteJSON(exportFile); err != nil {
			fmt.Fprintln(stderr, err)
		} else {
			fmt.Fprintf(stderr, "wrote JSON tree to %s\n", exportFile)
		}
	}

	switch cfg.mode {
	case "bfs":
		err = client.PrintTreeBFS(stdout, "/", cfg.maxDepth)
	default:
		err = client.PrintTreeDFS(stdout, "/", cfg.maxDepth)
	}
	if err != nil {
		fmt.Fprintf(stderr, "traversal failed: %v\n", err)
		return 1
	}

	return 0
}
