package printer

import (
	"encoding/json"
	"fmt"

	"github.com/joshuapare/heapkit/heap/alloc"
)

// jsonBlock represents one directory entry in JSON format.
type jsonBlock struct {
	Index     int  `json:"index"`
	Offset    int  `json:"offset"`
	Data      int  `json:"data"`
	Next      *int `json:"next"`
	Prev      *int `json:"prev"`
	BlockSize int  `json:"block_size"`
	Capacity  int  `json:"capacity"`
	Size      int  `json:"size"`
	Excess    int  `json:"excess"`
	Free      bool `json:"free"`
}

// jsonHeap is the top-level JSON document.
type jsonHeap struct {
	Blocks     []jsonBlock `json:"blocks"`
	Totals     Totals      `json:"totals"`
	MinHeap    int64       `json:"min_heap"`
	MaxHeap    int64       `json:"max_heap"`
	HeaderSize int         `json:"header_size"`
}

// printJSON prints the heap map as a single indented JSON document.
func (p *Printer) printJSON() error {
	blocks := p.src.Blocks()
	low, high := p.src.Watermarks()

	doc := jsonHeap{
		Blocks:     make([]jsonBlock, 0, len(blocks)),
		Totals:     Summarize(blocks),
		MinHeap:    low,
		MaxHeap:    high,
		HeaderSize: alloc.HeaderSize,
	}
	for _, b := range blocks {
		doc.Blocks = append(doc.Blocks, jsonBlock{
			Index:     b.Index,
			Offset:    b.Offset,
			Data:      int(b.Data),
			Next:      optional(b.Next),
			Prev:      optional(b.Prev),
			BlockSize: b.BlockSize(),
			Capacity:  b.Capacity,
			Size:      b.Size,
			Excess:    b.Excess(),
			Free:      b.Free,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

// optional maps the -1 "no neighbor" offset to a JSON null.
func optional(off int) *int {
	if off < 0 {
		return nil
	}
	return &off
}
