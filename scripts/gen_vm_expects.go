// gen_vm_expects writes a func(vmTestCase) vmTestCase wrapper for every
// expect method of vmTestCase, so that expectations can be shared between
// test cases with vmTestCase.apply.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"regexp"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

type namedReader interface {
	io.ReadCloser
	Name() string
}

var (
	in      namedReader    = os.Stdin
	out     io.WriteCloser = os.Stdout
	timeout time.Duration
)

func parseFlags() {
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "time limit for generation")
	flag.Parse()

	args := flag.Args()

	if len(args) > 0 {
		name := args[0]
		f, err := os.Open(name)
		if err != nil {
			log.Fatalf("failed to open %v: %v", name, err)
		}
		args = args[1:]
		in = f
	}

	if len(args) > 0 {
		name := args[0]
		f, err := os.Create(name)
		if err != nil {
			log.Fatalf("failed to create %v: %v", name, err)
		}
		out = f
	}
}

func main() {
	ctx := context.Background()
	parseFlags()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	// generated code goes through gofmt on its way out
	gofmt := exec.CommandContext(ctx, "gofmt")
	fmtPipe, err := gofmt.StdinPipe()
	if err != nil {
		log.Fatalln(err)
	}
	gofmt.Stdout = out
	gofmt.Stderr = os.Stderr
	if err := gofmt.Start(); err != nil {
		log.Fatalf("gofmt start failed: %v", err)
	}

	eg.Go(func() error {
		defer out.Close()
		if err := gofmt.Wait(); err != nil {
			return fmt.Errorf("gofmt failed: %w", err)
		}
		return nil
	})

	eg.Go(func() (rerr error) {
		defer func() {
			if cerr := in.Close(); rerr == nil {
				rerr = cerr
			}
			if cerr := fmtPipe.Close(); rerr == nil {
				rerr = cerr
			}
		}()
		return generate(ctx, fmtPipe)
	})

	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

var expectMethod = regexp.MustCompile(`func \(vmt vmTestCase\) (expect)(.+?)\((.+?)\) vmTestCase`)

func generate(ctx context.Context, w io.Writer) error {
	var buf bytes.Buffer
	buf.Grow(1024)
	buf.WriteString("package main\n\n")

	buf.WriteString("// @generated from ")
	buf.WriteString(in.Name())
	buf.WriteString("\n\n")

	if args := flag.Args(); len(args) >= 2 {
		buf.WriteString("//go:generate go run scripts/gen_vm_expects.go --")
		for _, arg := range args {
			buf.WriteByte(' ')
			buf.WriteString(arg)
		}
		buf.WriteString("\n\n")
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if match := expectMethod.FindSubmatch(sc.Bytes()); len(match) > 0 {
			writeWrapper(&buf, match[1], match[2], match[3])
		}
		if buf.Len() > 0 {
			if _, err := buf.WriteTo(w); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return sc.Err()
}

// writeWrapper writes baseVMwhat(params) returning a closure that calls
// vmt.basewhat(args), passing variadic parameters through with "...".
func writeWrapper(buf *bytes.Buffer, baseName, whatName, params []byte) {
	fmt.Fprintf(buf, "func %sVM%s(%s) func(vmTestCase) vmTestCase {\n", baseName, whatName, params)
	buf.WriteString("\treturn func(vmt vmTestCase) vmTestCase {\n")
	fmt.Fprintf(buf, "\t\treturn vmt.%s%s(", baseName, whatName)
	for i, part := range bytes.Split(params, []byte(",")) {
		if i > 0 {
			buf.WriteString(", ")
		}
		fields := bytes.Fields(part)
		buf.Write(fields[0])
		if len(fields) > 1 && bytes.HasPrefix(fields[1], []byte("...")) {
			buf.WriteString("...")
		}
	}
	buf.WriteString(")\n")
	buf.WriteString("\t}\n")
	buf.WriteString("}\n\n")
}
