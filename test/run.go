// Command run drives the minisharp binary over tests/good and tests/bad and
// compares what it prints with the expectation files next to each program.
//
//	go run ./test
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	binary     = "out/minisharp"
	runTimeout = 10 * time.Second
)

type testResult struct {
	fileName string
	passed   bool
	output   string // reason for a failure
	isGood   bool
}

func main() {
	fmt.Println("🧹 Cleaning output directory...")
	_ = os.RemoveAll("out")
	_ = os.Mkdir("out", 0o755)

	fmt.Println("🔨 Building minisharp...")
	if out, err := exec.Command("go", "build", "-o", binary, "./cmd/minisharp").CombinedOutput(); err != nil {
		fmt.Printf("build failed: %v\n%s", err, out)
		os.Exit(1)
	}

	var failed []testResult
	goodPassed, goodFailed := runSuite("good", "🔍 Running good tests:", &failed)
	badPassed, badFailed := runSuite("bad", "💥 Running bad tests:", &failed)

	if len(failed) > 0 {
		fmt.Println("\n--- Detailed Failures ---")
		for _, failure := range failed {
			kind := "Bad Test"
			if failure.isGood {
				kind = "Good Test"
			}
			fmt.Printf("\n❌ Test: %s (%s)\n", failure.fileName, kind)
			fmt.Println("Reason:")
			fmt.Println(failure.output)
			fmt.Println("---")
		}
	}

	fmt.Println("\n--------------------")
	fmt.Printf("Good Tests Summary: ✅ Passed: %d | ❌ Failed: %d\n", goodPassed, goodFailed)
	fmt.Printf("Bad Tests Summary:  ✅ Passed: %d | ❌ Failed: %d\n", badPassed, badFailed)
	fmt.Println("--------------------")

	if goodFailed > 0 || badFailed > 0 {
		fmt.Println("\n🚨 Some tests failed!")
		os.Exit(1)
	}
	fmt.Println("\n🎉 All tests passed!")
}

func runSuite(dir, banner string, failed *[]testResult) (passed, failures int) {
	fmt.Println("\n" + banner)
	files, _ := filepath.Glob(filepath.Join("tests", dir, "*.msh"))
	fmt.Printf("Found %d %s test files...\n", len(files), dir)

	for _, file := range files {
		fmt.Printf("→ Running %s test: %s\n", dir, filepath.Base(file))
		var res testResult
		if dir == "good" {
			res = runGoodTest(file)
		} else {
			res = runBadTest(file)
		}
		if res.passed {
			fmt.Printf("  ✅ %s\n", res.fileName)
			passed++
			continue
		}
		fmt.Printf("  ❌ %s\n", res.fileName)
		failures++
		*failed = append(*failed, res)
	}
	return passed, failures
}

// runGoodTest expects a clean exit and stdout equal to the .out file.
func runGoodTest(file string) testResult {
	res := testResult{fileName: filepath.Base(file), isGood: true}

	want, err := expectation(file, ".out")
	if err != nil {
		res.output = err.Error()
		return res
	}
	stdout, stderr, err := runProgram(file)
	if err != nil {
		res.output = fmt.Sprintf("minisharp failed: %v\nStderr:\n%s", err, stderr)
		return res
	}
	if stdout != want {
		res.output = fmt.Sprintf("Output Mismatch\nExpected:\n%s\nActual:\n%s", want, stdout)
		return res
	}
	res.passed = true
	return res
}

// runBadTest expects a failing exit whose stderr contains the .err text.
func runBadTest(file string) testResult {
	res := testResult{fileName: filepath.Base(file)}

	want, err := expectation(file, ".err")
	if err != nil {
		res.output = err.Error()
		return res
	}
	stdout, stderr, err := runProgram(file)
	switch {
	case err == nil:
		res.output = fmt.Sprintf("Expected failure but got success.\nOutput:\n%s", stdout)
	case !strings.Contains(stderr, want):
		res.output = fmt.Sprintf("Failed, but not with %q.\nExit Err: %v\nStderr:\n%s", want, err, stderr)
	default:
		res.passed = true
	}
	return res
}

func expectation(file, ext string) (string, error) {
	path := strings.TrimSuffix(file, ".msh") + ext
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("missing expectation: %s", path)
	}
	return strings.TrimRight(strings.ReplaceAll(string(b), "\r\n", "\n"), "\n"), nil
}

func runProgram(file string) (string, string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "run", file)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if ctx.Err() != nil {
		err = fmt.Errorf("timed out after %v", runTimeout)
	}
	return stdout.String(), stderr.String(), err
}
