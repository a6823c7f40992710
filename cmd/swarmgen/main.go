// Command swarmgen pulls an assembled swarm from a swarmbase backend and
// renders it as a runnable agent framework project on disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jzftran/swarmbase-core/builder"
	"github.com/jzftran/swarmbase-core/client"
	"github.com/jzftran/swarmbase-core/framework"
	"github.com/jzftran/swarmbase-core/internal/logging"
)

func main() {
	server := flag.String("server", "http://localhost:5000", "swarmbase backend URL")
	swarmID := flag.String("swarm", "", "id of the swarm to generate")
	creatorName := flag.String("creator", "swarmbasecore", "target framework (see -list-creators)")
	outDir := flag.String("out", "workspaces", "directory to write the project under")
	venv := flag.Bool("venv", false, "create a Python virtual environment in the project")
	bundle := flag.String("bundle", "", "also archive the project to this tar.zst path")
	logDir := flag.String("log-dir", "", "also append logs to <dir>/swarmgen.log")
	listCreators := flag.Bool("list-creators", false, "list supported frameworks and exit")
	flag.Parse()

	if *listCreators {
		for _, name := range framework.Names() {
			fmt.Println(name)
		}
		return
	}

	if *swarmID == "" {
		fmt.Fprintf(os.Stderr, "error: -swarm is required\n")
		flag.Usage()
		os.Exit(1)
	}

	log, err := logging.ForComponent("swarmgen", *logDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	creator, err := framework.ForName(*creatorName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c := client.New(*server)
	swarm, err := builder.NewSwarmBuilder(c).FromID(ctx, *swarmID).Product()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: fetching swarm %s: %v\n", *swarmID, err)
		os.Exit(1)
	}

	if err := creator.CreateSwarmFiles(&swarm, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "error: generating project: %v\n", err)
		os.Exit(1)
	}

	projectDir := filepath.Join(*outDir, swarm.InstanceName())
	log.Info("project generated", "creator", creator.Name(), "dir", projectDir)
	fmt.Printf("Generated %s project in %s\n", creator.Name(), projectDir)

	if *venv {
		requirements := filepath.Join(projectDir, "requirements.txt")
		if _, err := os.Stat(requirements); err != nil {
			requirements = ""
		}
		if err := framework.CreateVirtualenv(filepath.Join(projectDir, ".venv"), requirements); err != nil {
			fmt.Fprintf(os.Stderr, "error: creating virtualenv: %v\n", err)
			os.Exit(1)
		}
	}

	if *bundle != "" {
		if err := framework.ExportBundle(projectDir, *bundle); err != nil {
			fmt.Fprintf(os.Stderr, "error: bundling project: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Bundled project to %s\n", *bundle)
	}
}
