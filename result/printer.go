package result

import (
	"fmt"
	"io"
)

// Printer streams outcomes as plain text lines. Statuses go to Out, network
// and parse errors go to Err with a distinguishing marker. When PrintAll is
// false only failing outcomes are emitted; statistics always count every
// outcome regardless.
type Printer struct {
	Out      io.Writer
	Err      io.Writer
	PrintAll bool
}

// Print writes one outcome. Returns without output for clean statuses when
// PrintAll is off.
func (p *Printer) Print(o Outcome) {
	if o.ErrKind != ErrNone {
		fmt.Fprintf(p.Err, "linkrot: error: %s - %s\n", o.URL, o.Error)
		return
	}
	if !p.PrintAll && !o.IsLinkError() {
		return
	}
	if o.IsRedirect {
		fmt.Fprintf(p.Out, "%d: %s [redirect]\n", o.StatusCode, o.URL)
		return
	}
	fmt.Fprintf(p.Out, "%d: %s\n", o.StatusCode, o.URL)
}

// PrintSummary writes the aggregate statistics block.
func (p *Printer) PrintSummary(s Stats) {
	fmt.Fprintf(p.Out, "checked %d links: %d internal, %d external\n",
		s.TotalChecked, s.Internal, s.External)
	fmt.Fprintf(p.Out, "link errors: %d\n", s.LinkErrors)
	fmt.Fprintf(p.Out, "network/parsing errors: %d\n", s.NetworkErrors)
}
