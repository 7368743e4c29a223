//go:build mage

// Package main provides build targets for evermind-migrate using Mage.
//
// Usage:
//
//	mage build            Compile evermind-migrate to bin/
//	mage test             Run all unit tests
//	mage testIntegration  Run tests against EVERMIND_TEST_MONGODB_URI
//	mage lint             Run golangci-lint
//	mage clean            Remove build artifacts
//	mage install          Install evermind-migrate to GOPATH/bin
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName  = "evermind-migrate"
	binaryDir   = "bin"
	cmdDir      = "./cmd/evermind-migrate"
	versionVar  = "github.com/mesh-intelligence/evermind-migrate/internal/cli.Version"
	mongoURIEnv = "EVERMIND_TEST_MONGODB_URI"
)

// version returns the nearest git tag, or "dev" outside a checkout.
func version() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || strings.TrimSpace(out) == "" {
		return "dev"
	}
	return strings.TrimPrefix(strings.TrimSpace(out), "v")
}

// Build compiles the evermind-migrate binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	ldflags := fmt.Sprintf("-X %s=%s", versionVar, version())
	return sh.RunV("go", "build", "-v", "-ldflags", ldflags, "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestIntegration runs the store tests against a live MongoDB. The
// connection string comes from EVERMIND_TEST_MONGODB_URI.
func TestIntegration() error {
	if os.Getenv(mongoURIEnv) == "" {
		fmt.Printf("%s is not set; skipping integration tests.\n", mongoURIEnv)
		return nil
	}
	return sh.RunV("go", "test", "-v", "-run", "Integration", "./internal/store/...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV("go", "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
