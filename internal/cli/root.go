package cli

import (
	"fmt"

	"job-board/internal/version"
)

func Run(args []string) error {
	if len(args) == 0 {
		if stdinIsTTY() {
			return runBrowse(nil)
		}
		printRootUsage()
		return nil
	}

	switch args[0] {
	case "browse":
		return runBrowse(args[1:])
	case "list":
		return runList(args[1:])
	case "config":
		return runConfig(args[1:])
	case "version", "--version":
		fmt.Printf("job-board %s\n", version.Value)
		return nil
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printRootUsage() {
	fmt.Println("job-board: browse job listings from the terminal")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  job-board                      open the interactive browser")
	fmt.Println("  job-board list --pages 3 --remote --min-exp 2")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  browse    interactive browser with infinite scroll and filters")
	fmt.Println("  list      fetch pages and print matching jobs (--json, --out)")
	fmt.Println("  config    show the effective configuration")
	fmt.Println("  version   print the version")
	fmt.Println()
	fmt.Println("Common flags: --config <file> --env-file <file> --endpoint <url> --page-size <n> --log-level <level>")
	fmt.Println("Filter flags (list): --min-exp --company --location --remote --stack --role --min-pay")
	fmt.Println()
	fmt.Println("Run 'job-board <command> -h' for command flags.")
}
