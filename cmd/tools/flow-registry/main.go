package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"edudesk/internal/common/config"
	"edudesk/internal/workers/catalog"
	"edudesk/pkg/registry"
)

const defaultRegistryPath = "configs/flow-registry.json"

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	diffCmd := flag.NewFlagSet("diff", flag.ExitOnError)

	exportPath := exportCmd.String("out", defaultRegistryPath, "Path to write the registry to")
	version := exportCmd.String("version", "1.0.0", "Registry version")
	useConfig := exportCmd.Bool("config", true, "Read flow timeouts from the service configuration")

	validatePath := validateCmd.String("path", defaultRegistryPath, "Path to registry file")
	diffPath := diffCmd.String("path", defaultRegistryPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := catalog.Validate(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		var cfg *config.Config
		if *useConfig {
			loaded, err := config.Load()
			if err != nil {
				fmt.Printf("Warning: config not loaded, using default timeouts: %v\n", err)
			} else {
				cfg = loaded
			}
		}
		reg := registry.Build(*version, catalog.Flows(), cfg, time.Now())
		if err := registry.Save(reg, *exportPath); err != nil {
			fmt.Printf("Error exporting registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d flows to %s\n", len(reg.Flows), *exportPath)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.Load(*validatePath)
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		if problems := registry.Validate(reg); len(problems) > 0 {
			for _, p := range problems {
				fmt.Printf("  - %v\n", p)
			}
			fmt.Printf("Registry validation failed with %d problems.\n", len(problems))
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d flows.\n", len(reg.Flows))

	case "diff":
		diffCmd.Parse(os.Args[2:])
		current, err := registry.Load(*diffPath)
		if err != nil {
			fmt.Printf("Error loading registry: %v\n", err)
			os.Exit(1)
		}
		changes := registry.Diff(current, registry.Build(current.Version, catalog.Flows(), nil, time.Now()))
		if len(changes) == 0 {
			fmt.Println("Registry is up to date.")
			return
		}
		for _, c := range changes {
			fmt.Println(c)
		}
		os.Exit(2)

	case "help":
		fallthrough
	default:
		help()
	}
}

func help() {
	fmt.Print(`
Usage: flow-registry <command> [flags]

Commands:
  export    Write the registry built from the compiled flow contracts
  validate  Check a registry file and compile its output schemas
  diff      Show flows added, removed or changed since the registry was written
  help      Show this help message

Examples:
  flow-registry export -out configs/flow-registry.json -version 1.1.0
  flow-registry validate -path configs/flow-registry.json
  flow-registry diff

Use 'flow-registry <command> -h' for more information about a command.
`)
}
