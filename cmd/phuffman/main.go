package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"rsc.io/getopt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"flag"

	"github.com/scarlat/phuffman"
	"github.com/scarlat/phuffman/backend/mpi"
	"github.com/scarlat/phuffman/backend/pool"
	"github.com/scarlat/phuffman/backend/shared"
)

var (
	// Flags named per spec.md §6.
	inPath      = flag.String("i", "-", "input file; default standard input")
	outPath     = flag.String("o", "-", "output file; default standard output")
	compress    = flag.Bool("c", true, "compress (default)")
	decompress  = flag.Bool("d", false, "decompress")
	inMemory    = flag.Bool("m", true, "operate in-memory; currently the only supported mode")
	showHelp    = flag.Bool("h", false, "print usage and exit")
	showVersion = flag.Bool("v", false, "print version and exit")

	// Additive flags: worker count and backend selection.
	workers     = flag.Int("j", runtime.NumCPU(), "worker count")
	backendName = flag.String("backend", "shared", "worker backend: shared, pool, or mpi")
)

const version = "phuffman 1.0.0"

func usage() {
	fmt.Fprintf(os.Stderr, "usage: phuffman [-i path] [-o path] [-c|-d] [-m] [-j n] [-backend shared|pool|mpi]\n")
	flag.PrintDefaults()
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		if term.IsTerminal(int(os.Stdout.Fd())) && !*decompress {
			return nil, fmt.Errorf("refusing to write a compressed container to an interactive terminal")
		}
		return os.Stdout, nil
	}
	return os.Create(path)
}

func newCoordinators(n int) ([]phuffman.Coordinator, error) {
	switch *backendName {
	case "shared":
		return shared.New(n)
	case "mpi":
		return mpi.Ranks(n)
	case "pool":
		// The pool backend exposes a single long-lived Pool rather than
		// per-rank Coordinators, so it is driven separately in runEncode().
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", *backendName)
	}
}

func runEncode(input []byte, l io.Writer) ([]byte, error) {
	if *backendName == "pool" {
		p, err := pool.New(*workers)
		if err != nil {
			return nil, err
		}
		return p.Encode(input, *workers)
	}

	coords, err := newCoordinators(*workers)
	if err != nil {
		return nil, err
	}

	containers := make([][]byte, len(coords))
	g, ctx := errgroup.WithContext(context.Background())
	for i, c := range coords {
		i, c := i, c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := phuffman.EncodeWithLogging(input, c, l)
			containers[i] = out
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, out := range containers {
		if out != nil {
			return out, nil
		}
	}
	return nil, phuffman.ErrBadArgs
}

func run() int {
	if *showHelp {
		usage()
		return 0
	}
	if *showVersion {
		fmt.Fprintln(os.Stdout, version)
		return 0
	}
	if !*inMemory {
		fmt.Fprintln(os.Stderr, "phuffman: -m is currently the only supported mode")
		return 1
	}

	in, err := openInput(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", *inPath, err)
		return 1
	}
	defer in.Close()

	input, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", *inPath, err)
		return 1
	}

	out, err := openOutput(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", *outPath, err)
		return 1
	}
	defer out.Close()

	var l io.Writer
	if *showVersion {
		l = os.Stderr
	}

	var result []byte
	if *decompress {
		result, err = phuffman.DecodeWithLogging(input, l)
	} else {
		result, err = runEncode(input, l)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "phuffman: %v\n", err)
		return 1
	}

	if _, err := out.Write(result); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", *outPath, err)
		return 1
	}

	return 0
}

func main() {
	// rsc.io/getopt lets these single-letter flags combine POSIX-style
	// (e.g. -dm); spec.md's names are already short, so no long-name
	// aliasing is needed, just getopt's combined-flag parsing.
	if err := getopt.CommandLine.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	os.Exit(run())
}
