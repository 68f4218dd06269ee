package printer

import (
	"fmt"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/heap/alloc"
)

var columns = []string{
	"blk no", "block add", "next add", "prev add", "data add",
	"blk size", "capacity", "size", "excess", "status",
}

// printText prints the heap map in human-readable text format.
func (p *Printer) printText() error {
	blocks := p.src.Blocks()
	low, high := p.src.Watermarks()

	if _, err := fmt.Fprintln(p.writer, "Heap map"); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(p.writer, 0, 8, 2, ' ', 0)
	fmt.Fprint(tw, " ")
	for _, c := range columns {
		fmt.Fprintf(tw, " %s\t", c)
	}
	fmt.Fprintln(tw)

	for _, b := range blocks {
		status, mark := "in use", ' '
		if b.Free {
			status, mark = "free", '*'
		}
		fmt.Fprintf(tw, "  %d\t 0x%X\t %s\t %s\t 0x%X\t %d\t %d\t %d\t %d\t %s %c\t\n",
			b.Index, b.Offset, link(b.Next), link(b.Prev), int(b.Data),
			b.BlockSize(), b.Capacity, b.Size, b.Excess(), status, mark)
	}

	t := Summarize(blocks)
	if p.opts.ShowTotals {
		n := p.number
		fmt.Fprintf(tw, "  Total bytes used\t\t\t\t\t %s\t %s\t %s\t %s\t\t\n",
			n(t.BlockBytes), n(t.CapacityBytes), n(t.UserBytes), n(t.ExcessBytes))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !p.opts.ShowTotals {
		return nil
	}
	_, err := fmt.Fprintf(p.writer, "  Used blocks: %4d  Free blocks: %4d  Min heap: 0x%X    Max heap: 0x%X   Block size: %d bytes\n",
		t.UsedBlocks, t.FreeBlocks, low, high, alloc.HeaderSize)
	return err
}

// number formats a byte count, grouping digits when requested.
func (p *Printer) number(v int) string {
	if !p.opts.GroupDigits {
		return fmt.Sprintf("%d", v)
	}
	return message.NewPrinter(language.English).Sprintf("%d", v)
}

// link formats a neighbor offset; -1 means no neighbor.
func link(off int) string {
	if off < 0 {
		return "-"
	}
	return fmt.Sprintf("0x%X", off)
}
