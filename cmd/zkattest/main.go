// Command zkattest proves and verifies zero-knowledge attestations that a
// valid P-256 ECDSA signature over a message exists.
//
// Usage:
//
//	zkattest prove  -message <string> [-backend mock|groth16] [-out file] [-vk-out file]
//	zkattest verify -receipt <0xhex|@file> [-backend mock|groth16] [-vk file]
//	zkattest version
//
// The mock backend runs the full pipeline with a deterministic seal and a
// fixed program identity. The groth16 backend produces a real proof; its
// program identity is derived from the verifying key, so prove should
// export the key (-vk-out) and verify must load it (-vk).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/zkattest/zkattest/bridge"
	"github.com/zkattest/zkattest/log"
	"github.com/zkattest/zkattest/zkvm"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}
	switch args[0] {
	case "prove":
		return runProve(args[1:])
	case "verify":
		return runVerify(args[1:])
	case "version":
		fmt.Printf("zkattest %s (%s)\n", version, commit)
		return 0
	case "-h", "--help", "help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: zkattest <prove|verify|version> [flags]")
}

func runProve(args []string) int {
	fs := flag.NewFlagSet("prove", flag.ContinueOnError)
	message := fs.String("message", "", "message to attest")
	backend := fs.String("backend", "mock", "execution backend: mock or groth16")
	out := fs.String("out", "", "write hex receipt to file instead of stdout")
	vkOut := fs.String("vk-out", "", "write the groth16 verifying key to file")
	verbosity := fs.Int("verbosity", 3, "log level 0-5")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := log.New(log.VerbosityToLevel(*verbosity))
	log.SetDefault(logger)

	engine, code := buildEngine(*backend, "", logger)
	if code != 0 {
		return code
	}
	if *vkOut != "" {
		g, ok := engine.(*zkvm.Groth16Engine)
		if !ok {
			fmt.Fprintln(os.Stderr, "-vk-out requires the groth16 backend")
			return 2
		}
		vk, err := g.ExportVerifyingKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "export verifying key: %v\n", err)
			return 1
		}
		if err := os.WriteFile(*vkOut, vk, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", *vkOut, err)
			return 1
		}
	}

	b := bridge.New(engine, bridge.WithLogger(logger))
	proof, err := b.Prove(context.Background(), *message)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prove failed: %v\n", err)
		return 1
	}

	encoded := hexutil.Encode(proof.Receipt)
	if *out != "" {
		if err := os.WriteFile(*out, []byte(encoded+"\n"), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
			return 1
		}
		return 0
	}
	fmt.Println(encoded)
	return 0
}

func runVerify(args []string) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	receiptArg := fs.String("receipt", "", "hex receipt (0x...) or @file containing it")
	backend := fs.String("backend", "mock", "execution backend: mock or groth16")
	vkPath := fs.String("vk", "", "groth16 verifying key file (from prove -vk-out)")
	verbosity := fs.Int("verbosity", 3, "log level 0-5")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := log.New(log.VerbosityToLevel(*verbosity))
	log.SetDefault(logger)

	raw, err := readReceipt(*receiptArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read receipt: %v\n", err)
		return 2
	}

	engine, code := buildEngine(*backend, *vkPath, logger)
	if code != 0 {
		return code
	}

	b := bridge.New(engine, bridge.WithLogger(logger))
	res, err := b.Verify(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify failed: %v\n", err)
		return 1
	}
	fmt.Printf("valid: %t\nmessage: %s\n", res.IsValid, res.Message)
	return 0
}

// buildEngine constructs the execution backend. For groth16 verification
// a verifying key file restores the prover's program identity; without
// one a fresh (prove-capable) engine is set up.
func buildEngine(backend, vkPath string, logger *log.Logger) (zkvm.Engine, int) {
	switch backend {
	case "mock":
		return zkvm.NewMockEngine(), 0
	case "groth16":
		if vkPath != "" {
			vk, err := os.ReadFile(vkPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "read %s: %v\n", vkPath, err)
				return nil, 1
			}
			engine, err := zkvm.NewGroth16Verifier(vk, logger)
			if err != nil {
				fmt.Fprintf(os.Stderr, "restore groth16 verifier: %v\n", err)
				return nil, 1
			}
			return engine, 0
		}
		engine, err := zkvm.NewGroth16Engine(logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "groth16 setup: %v\n", err)
			return nil, 1
		}
		return engine, 0
	default:
		fmt.Fprintf(os.Stderr, "unknown backend %q\n", backend)
		return nil, 2
	}
}

// readReceipt resolves the -receipt argument: a 0x-prefixed hex string,
// or @path to a file holding one.
func readReceipt(arg string) ([]byte, error) {
	if arg == "" {
		return nil, fmt.Errorf("missing -receipt")
	}
	if strings.HasPrefix(arg, "@") {
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, err
		}
		arg = strings.TrimSpace(string(data))
	}
	return hexutil.Decode(arg)
}
