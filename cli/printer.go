package cli

import (
	"fmt"
	"io"
	"os"
)

// Printer is where user-visible output is written.
// It writes to STDERR unless redirected.
type Printer struct {
	out io.Writer
}

func NewPrinter() *Printer {
	return &Printer{out: os.Stderr}
}

// Redirect sends all further output to writer.
// A nil writer discards output.
func (p *Printer) Redirect(writer io.Writer) {
	if writer == nil {
		writer = io.Discard
	}
	p.out = writer
}

func (p *Printer) Print(msg ...any) {
	_, _ = fmt.Fprint(p.out, msg...)
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (p *Printer) Println(msg ...any) {
	_, _ = fmt.Fprintln(p.out, msg...)
}

// Table prints rows of label/value pairs with the labels padded to the same width.
func (p *Printer) Table(indent string, rows [][2]string) {
	width := 0
	for _, row := range rows {
		width = max(width, len(row[0]))
	}
	for _, row := range rows {
		p.Printf("%s%-*s  %s\n", indent, width, row[0], row[1])
	}
}
