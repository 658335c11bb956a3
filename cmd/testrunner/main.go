package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lawnchairsociety/connectfour/internal/logger"
	"github.com/lawnchairsociety/connectfour/test"
)

func main() {
	serverAddr := flag.String("addr", "circinus-32.ics.uci.edu:4444", "Game server address")
	verbose := flag.Bool("v", false, "Verbose output - show detailed actions and protocol lines for each test")
	filter := flag.String("run", "", "Only run tests whose name contains this string")
	list := flag.Bool("list", false, "List test names and exit")
	timeout := flag.Duration("timeout", 30*time.Second, "Read, write and dial timeout for each test")
	flag.Parse()

	if *list {
		fmt.Println(strings.Join(test.GetTestNames(), "\n"))
		return
	}

	test.Verbose = *verbose
	test.Timeout = *timeout

	if *verbose {
		logConfig := logger.DefaultConfig()
		logConfig.Trace = true
		if err := logger.Initialize(logConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Running integration tests against %s\n", *serverAddr)
	fmt.Println("Make sure the game server is running!")
	if *verbose {
		fmt.Println("Verbose mode enabled - showing detailed test actions")
	}
	fmt.Println()

	var results []test.TestResult
	if *filter != "" {
		results = test.RunFilteredTests(*serverAddr, *filter)
	} else {
		results = test.RunAllTests(*serverAddr)
	}
	test.PrintResults(results)

	// Exit with error code if any tests failed
	for _, result := range results {
		if !result.Passed {
			os.Exit(1)
		}
	}
}
