// Package test holds integration scenarios that play against a live game
// server. They are run by cmd/testrunner.
package test

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lawnchairsociety/connectfour/internal/client"
	"github.com/lawnchairsociety/connectfour/internal/transport"
)

// uniqueCounter provides unique IDs for test players within a single run
var uniqueCounter uint64

// uniqueName appends a letter suffix so concurrent runs do not share a
// username. Usernames cannot contain whitespace, letters keep them readable.
func uniqueName(base string) string {
	counter := atomic.AddUint64(&uniqueCounter, 1)
	return base + counterToLetters(counter)
}

// counterToLetters converts a number to a letter sequence (1=a, 2=b, ..., 26=z, 27=aa, 28=ab, ...)
func counterToLetters(n uint64) string {
	if n == 0 {
		return "a"
	}
	result := ""
	for n > 0 {
		n--
		result = string(rune('a'+(n%26))) + result
		n /= 26
	}
	return result
}

// Verbose controls whether detailed logging is shown during tests
var Verbose = false

// Timeout bounds every read, write and dial made by a scenario.
var Timeout = 30 * time.Second

// TestResult represents the result of a test
type TestResult struct {
	Name    string
	Passed  bool
	Message string
}

// logAction logs a test action when verbose mode is enabled
func logAction(testName, action string) {
	if Verbose {
		fmt.Printf("  [%s] %s\n", testName, action)
	}
}

// logResult logs an expected vs actual result when verbose mode is enabled
func logResult(testName string, success bool, detail string) {
	if Verbose {
		status := "OK"
		if !success {
			status = "FAIL"
		}
		fmt.Printf("  [%s] %s: %s\n", testName, status, detail)
	}
}

func fail(testName, format string, args ...any) TestResult {
	return TestResult{Name: testName, Passed: false, Message: fmt.Sprintf(format, args...)}
}

func pass(testName, format string, args ...any) TestResult {
	return TestResult{Name: testName, Passed: true, Message: fmt.Sprintf(format, args...)}
}

// connect dials serverAddr ("host:port") with the scenario timeouts.
func connect(serverAddr string) (*client.Session, error) {
	host, portStr, err := net.SplitHostPort(serverAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid server address %q: %w", serverAddr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", portStr, err)
	}

	return client.Connect(context.Background(), host, port, client.Options{
		Trace: Verbose,
		Transport: transport.Options{
			ConnectTimeout: Timeout,
			ReadTimeout:    Timeout,
			WriteTimeout:   Timeout,
		},
	})
}

// loggedIn connects and logs in under a fresh username.
func loggedIn(testName, serverAddr string) (*client.Session, error) {
	name := uniqueName("cftest")
	logAction(testName, fmt.Sprintf("Connecting as '%s'...", name))

	s, err := connect(serverAddr)
	if err != nil {
		return nil, err
	}
	if err := s.Login(name); err != nil {
		return nil, err
	}
	logResult(testName, true, "Server echoed WELCOME "+name)
	return s, nil
}

// =============================================================================
// Test Runner
// =============================================================================

type testEntry struct {
	Name string
	Func func(string) TestResult
}

func getAllTests() []testEntry {
	return []testEntry{
		// Group 1: Session setup
		{"Basic Connection", TestBasicConnection},
		{"Login", TestLogin},
		{"Start Game", TestStartGame},
		{"Start Game Minimum Grid", TestStartGameMinimumGrid},

		// Group 2: Local checks
		{"Invalid Grid Rejected Locally", TestInvalidGridRejectedLocally},
		{"Out Of Order Move", TestOutOfOrderMove},

		// Group 3: Full games
		{"Full Game", TestFullGame},
		{"Full Game Large Grid", TestFullGameLargeGrid},
	}
}

// RunAllTests runs all integration tests
func RunAllTests(serverAddr string) []TestResult {
	results := make([]TestResult, 0)
	for _, t := range getAllTests() {
		results = append(results, t.Func(serverAddr))
	}
	return results
}

// GetTestNames returns the names of all available tests
func GetTestNames() []string {
	tests := getAllTests()
	names := make([]string, len(tests))
	for i, t := range tests {
		names[i] = t.Name
	}
	return names
}

// RunFilteredTests runs only tests whose names contain the filter string (case-insensitive)
func RunFilteredTests(serverAddr string, filter string) []TestResult {
	results := make([]TestResult, 0)
	filterLower := strings.ToLower(filter)

	for _, t := range getAllTests() {
		if strings.Contains(strings.ToLower(t.Name), filterLower) {
			results = append(results, t.Func(serverAddr))
		}
	}

	return results
}

// PrintResults prints all test results in a formatted way
func PrintResults(results []TestResult) {
	passed := 0
	failed := 0

	fmt.Println("============================================================")
	fmt.Println("Integration Test Results")
	fmt.Println("============================================================")
	fmt.Println()

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			failed++
		} else {
			passed++
		}
		fmt.Printf("[%s] %s: %s\n", status, r.Name, r.Message)
	}

	fmt.Println()
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Total: %d | Passed: %d | Failed: %d\n", len(results), passed, failed)
	fmt.Println("------------------------------------------------------------")
}
