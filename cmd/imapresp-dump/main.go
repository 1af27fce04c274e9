// The imapresp-dump command parses IMAP server responses from a file
// or stdin, one CRLF-terminated response per invocation of Parse, and
// prints a summary of each to stdout. It exists to exercise the
// imapresp package against response captures taken from a real
// session.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"crawshaw.io/iox"

	"github.com/debasishbsws/net-imap/imap/imapresp"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-file path] [-spill bytes]\nReads CRLF-terminated IMAP responses and prints their parsed structure.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flagFile := flag.String("file", "", "response capture to read (default stdin)")
	flagSpill := flag.Int64("spill", 1<<20, "spill LITERAL tokens at or above this many bytes to disk")
	flagVerbose := flag.Bool("verbose", false, "log tolerated grammar deviations to stderr")
	flag.Parse()

	in := io.Reader(os.Stdin)
	if *flagFile != "" {
		f, err := os.Open(*flagFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	filer := iox.NewFiler(0)
	defer filer.Shutdown(context.Background())

	if err := run(in, filer, *flagSpill, *flagVerbose); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		os.Exit(1)
	}
}

func run(in io.Reader, filer *iox.Filer, spillThreshold int64, verbose bool) error {
	r := bufio.NewReader(in)
	n := 0
	for {
		buf, err := readResponse(r)
		if err == io.EOF && len(buf) == 0 {
			return nil
		}
		if err != nil && err != io.EOF {
			return fmt.Errorf("reading response %d: %w", n+1, err)
		}

		p := imapresp.NewParser(buf)
		if verbose {
			p.Scanner().Warnf = func(format string, args ...interface{}) {
				fmt.Fprintf(os.Stderr, format+"\n", args...)
			}
		}
		p.Scanner().Filer = filer
		p.Scanner().LiteralSpillThreshold = spillThreshold

		resp, perr := p.Parse()
		n++
		if perr != nil {
			fmt.Printf("%d: error: %v\n", n, perr)
			continue
		}
		printResponse(n, resp)

		if err == io.EOF {
			return nil
		}
	}
}

// readResponse reads up to and including the next CRLF, following any
// embedded "{n}" literal length prefix so the literal's bytes are
// included verbatim, per spec.md section 6's framing contract.
func readResponse(r *bufio.Reader) ([]byte, error) {
	var out []byte
	for {
		line, err := r.ReadBytes('\n')
		out = append(out, line...)
		if err != nil {
			return out, err
		}
		if n, ok := trailingLiteralLen(line); ok {
			lit := make([]byte, n)
			if _, err := io.ReadFull(r, lit); err != nil {
				return out, err
			}
			out = append(out, lit...)
			continue
		}
		return out, nil
	}
}

// trailingLiteralLen reports the declared length of a "{n}\r\n"
// suffix on line, if present.
func trailingLiteralLen(line []byte) (int, bool) {
	i := len(line) - 1
	for i >= 0 && (line[i] == '\n' || line[i] == '\r') {
		i--
	}
	if i < 0 || line[i] != '}' {
		return 0, false
	}
	end := i
	i--
	start := -1
	for i >= 0 && line[i] >= '0' && line[i] <= '9' {
		start = i
		i--
	}
	if start < 0 || i < 0 || line[i] != '{' {
		return 0, false
	}
	n := 0
	for _, c := range line[start:end] {
		n = n*10 + int(c-'0')
	}
	return n, true
}

func printResponse(n int, resp imapresp.Response) {
	switch resp.Kind {
	case imapresp.KindContinuation:
		fmt.Printf("%d: continuation %q\n", n, resp.ContinuationText)
	case imapresp.KindTagged:
		fmt.Printf("%d: tagged %s %s %q\n", n, resp.Tag, resp.Status, resp.ResponseText.Text)
	case imapresp.KindUntagged:
		fmt.Printf("%d: untagged %s (number=%d)\n", n, resp.Label, resp.Number)
	case imapresp.KindIgnored:
		fmt.Printf("%d: ignored %s\n", n, resp.Label)
	}
}
