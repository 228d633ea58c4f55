package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vic/lambdabox/pkg/defs"
	"github.com/vic/lambdabox/pkg/lambda"
	"github.com/vic/lambdabox/pkg/session"
)

// limit bounds "!!" definitions while validating cases.
const limit = 100000

type TestCase struct {
	Name   string `yaml:"name"`
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

const testTemplate = `package gentests

import _ "embed"
import "testing"
import "github.com/vic/lambdabox/cmd/gentests/helper"

//go:embed input.lam
var input string

//go:embed output.lam
var output string

func Test_%s_Reduction(t *testing.T) {
	gentests.CheckLambdaReduction(t, "%s", input, output)
}
`

func main() {
	casesFile := "cmd/gentests/cases.yaml"
	if len(os.Args) > 1 {
		casesFile = os.Args[1]
	}

	data, err := os.ReadFile(casesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading cases: %v\n", err)
		os.Exit(1)
	}
	var tests []TestCase
	if err := yaml.Unmarshal(data, &tests); err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding %s: %v\n", casesFile, err)
		os.Exit(1)
	}

	baseDir := "cmd/gentests/generated"
	os.MkdirAll(baseDir, 0755)

	generated := 0
	for _, tc := range tests {
		// Validate input: definitions and term line must parse
		if _, err := defs.Build(tc.Input, limit); err != nil {
			fmt.Printf("Error in definitions for %s: %v\n", tc.Name, err)
			continue
		}
		line, err := session.TermLine(tc.Input)
		if err != nil {
			fmt.Printf("Error finding term for %s: %v\n", tc.Name, err)
			continue
		}
		free := make(map[rune]int)
		if _, err := lambda.ParseWith(line, free); err != nil {
			fmt.Printf("Error parsing input for %s: %v\n", tc.Name, err)
			continue
		}

		// Output shares the free variables of the input, so it is kept as
		// written rather than re-rendered.
		output := strings.TrimSpace(tc.Output)
		if _, err := lambda.ParseWith(output, free); err != nil {
			fmt.Printf("Error parsing output for %s: %v\n", tc.Name, err)
			continue
		}

		dir := filepath.Join(baseDir, tc.Name)
		os.MkdirAll(dir, 0755)

		testGo := fmt.Sprintf(testTemplate, tc.Name, tc.Name)

		os.WriteFile(filepath.Join(dir, "input.lam"), []byte(tc.Input), 0644)
		os.WriteFile(filepath.Join(dir, "output.lam"), []byte(output), 0644)
		os.WriteFile(filepath.Join(dir, "reduction_test.go"), []byte(testGo), 0644)
		generated++
	}

	fmt.Printf("Generated %d tests\n", generated)
}
