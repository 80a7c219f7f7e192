// Package generate is the row generator: it consumes an analysed
// Program plus a reference Store and produces a deterministic sequence
// of rows. Evaluation is single-threaded — rows in index order, columns
// strictly left-to-right within a row — and every random draw is made
// from one shared RNG in that same order, which is the sole source of
// determinism under CONFIG.reproducible.
//
// A Generator is not safe for concurrent use; it owns per-run mutable
// state (the RNG, per-column sequence counters, and a per-record
// reference-lock map) for the duration of one Generate call.
package generate

import (
	"math/rand/v2"
	"time"

	"github.com/mitumame/mamegen/internal/ir"
	"github.com/mitumame/mamegen/internal/reference"
)

// reproducibleSeed is the fixed constant used whenever
// CONFIG.reproducible is true, so identical IR + identical count always
// yields byte-identical output.
const reproducibleSeed uint64 = 0x6d616d6567656e // "mamegen" in hex, arbitrary but fixed

// Result is the generator's output: an ordered header and an ordered
// sequence of rows, each row a slice of cells in header order.
type Result struct {
	Header []string
	Rows   [][]ir.Cell
}

// Generator owns the per-run mutable state for one Generate call.
type Generator struct {
	prog  *ir.Program
	store *reference.Store
	rng   *rand.Rand

	seqCounters map[int]int64
	seqStarted  map[int]bool
	headerIndex map[string]int
}

// New creates a Generator for prog, seeded per CONFIG.reproducible.
func New(prog *ir.Program, store *reference.Store) *Generator {
	var rng *rand.Rand
	if prog.Config.Reproducible {
		rng = rand.New(rand.NewPCG(reproducibleSeed, reproducibleSeed))
	} else {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	headerIndex := make(map[string]int, len(prog.Header))
	for i, name := range prog.Header {
		if _, exists := headerIndex[name]; !exists {
			headerIndex[name] = i
		}
	}

	return &Generator{
		prog:        prog,
		store:       store,
		rng:         rng,
		seqCounters: map[int]int64{},
		seqStarted:  map[int]bool{},
		headerIndex: headerIndex,
	}
}

// Generate produces CONFIG.count rows.
func (g *Generator) Generate() (*Result, error) {
	count := g.prog.Config.Count
	rows := make([][]ir.Cell, count)

	for i := 0; i < count; i++ {
		lock := map[string]int{}
		buf := make([]ir.Cell, len(g.prog.Header))
		for pos := range g.prog.Columns {
			col := &g.prog.Columns[pos]
			cell, err := g.evalColumn(col, buf, lock)
			if err != nil {
				return nil, err
			}
			buf[pos] = cell
		}
		rows[i] = buf
	}

	return &Result{Header: g.prog.Header, Rows: rows}, nil
}

