// Package uci implements the Universal Chess Interface protocol
// (http://wbec-ridderkerk.nl/html/UCIProtocol.html) on top of the
// engine package. A Handler reads one command line at a time and
// writes the protocol's responses to its configured writer; the
// caller is responsible for the stdin read loop.
package uci

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/corella-engine/corella/engine"
	"github.com/corella-engine/corella/internal/applog"
	"github.com/corella-engine/corella/internal/perft"
)

// ErrQuit is returned by Execute when it processes a "quit" command;
// the caller should stop reading input and exit.
var ErrQuit = errors.New("uci: quit")

// Handler dispatches UCI command lines against a single engine and
// position. It is not safe for concurrent use by more than one
// goroutine reading commands, which matches how a UCI GUI actually
// talks to an engine: one line at a time, over one pipe.
type Handler struct {
	out io.Writer
	eng *engine.Engine
	tt  *engine.HashTable

	pos *engine.Position
	tc  *engine.TimeControl

	// busy holds one token while a "go" search is in flight; "stop"
	// and a following "position"/"go" push and immediately pop it to
	// block until the engine is idle again.
	busy chan struct{}
}

// New builds a Handler that writes its responses to out and starts
// with a transposition table sized to hashMB megabytes.
func New(out io.Writer, hashMB int) *Handler {
	tt := engine.NewHashTable(hashMB)
	return &Handler{
		out:  out,
		eng:  engine.NewEngine(tt, newInfoLogger(out)),
		tt:   tt,
		pos:  engine.NewPosition(),
		busy: make(chan struct{}, 1),
	}
}

// Execute processes a single command line. It returns ErrQuit on
// "quit"; any other non-nil error means the line was rejected (a
// malformed command, an illegal move, ...), and the Handler's state
// is left exactly as it was before the call.
func (h *Handler) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "uci":
		return h.handleUCI()
	case "isready":
		fmt.Fprintln(h.out, "readyok")
		return nil
	case "quit":
		return ErrQuit
	case "stop":
		return h.handleStop()
	case "ucinewgame":
		h.waitIdle()
		h.tt.Clear()
		h.pos = engine.NewPosition()
		return nil
	case "position":
		h.waitIdle()
		return h.handlePosition(fields[1:])
	case "go":
		h.waitIdle()
		return h.handleGo(fields[1:])
	case "setoption":
		h.waitIdle()
		return h.handleSetOption(fields[1:])
	case "perft":
		h.waitIdle()
		return h.handlePerft(fields[1:])
	case "print", "d":
		fmt.Fprint(h.out, h.pos.PrettyPrint())
		return nil
	default:
		applog.Log.Warningf("unrecognised command %q, ignoring", fields[0])
		return nil
	}
}

func (h *Handler) waitIdle() {
	h.busy <- struct{}{}
	<-h.busy
}

func (h *Handler) handleUCI() error {
	fmt.Fprintln(h.out, "id name Corella")
	fmt.Fprintln(h.out, "id author the corella project")
	fmt.Fprintf(h.out, "option name Hash type spin default %d min %d max %d\n",
		engine.DefaultHashTableMB, engine.MinHashTableMB, engine.MaxHashTableMB)
	fmt.Fprintln(h.out, "option name Clear Hash type button")
	fmt.Fprintln(h.out, "uciok")
	return nil
}

func (h *Handler) handleStop() error {
	if h.tc != nil {
		h.tc.Stop()
	}
	h.waitIdle()
	return nil
}

func (h *Handler) handlePosition(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("uci: position requires an argument")
	}

	var pos *engine.Position
	idx := 0

	switch args[0] {
	case "startpos":
		pos = engine.NewPosition()
		idx = 1
	case "fen":
		idx = 1
		var fenFields []string
		for idx < len(args) && args[idx] != "moves" {
			fenFields = append(fenFields, args[idx])
			idx++
		}
		pos = &engine.Position{}
		if err := pos.SetFEN(strings.Join(fenFields, " ")); err != nil {
			return err
		}
	default:
		return fmt.Errorf("uci: unknown position argument %q", args[0])
	}

	if idx < len(args) {
		if args[idx] != "moves" {
			return fmt.Errorf("uci: expected 'moves', got %q", args[idx])
		}
		idx++
		for ; idx < len(args); idx++ {
			if !pos.ApplyMove(args[idx]) {
				return fmt.Errorf("uci: illegal move %q", args[idx])
			}
		}
	}

	// Only commit once the FEN and every move parsed and applied
	// cleanly, so a bad "position" command leaves the previous
	// position in place.
	h.pos = pos
	return nil
}

func (h *Handler) handleGo(args []string) error {
	var wtime, btime, winc, binc, movetime time.Duration
	var movestogo, depth int
	infinite := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "wtime":
			i++
			wtime = msDuration(args, i)
		case "btime":
			i++
			btime = msDuration(args, i)
		case "winc":
			i++
			winc = msDuration(args, i)
		case "binc":
			i++
			binc = msDuration(args, i)
		case "movestogo":
			i++
			movestogo = intAt(args, i)
		case "depth":
			i++
			depth = intAt(args, i)
		case "movetime":
			i++
			movetime = msDuration(args, i)
		case "infinite":
			infinite = true
		case "searchmoves", "ponder", "nodes", "mate":
			applog.Log.Warningf("go option %q not supported, ignoring", args[i])
		}
	}

	tc := engine.NewTimeControl(h.pos, wtime, btime, winc, binc, movestogo, depth, movetime, infinite)
	h.tc = tc

	pos := h.pos
	eng := h.eng
	out := h.out

	h.busy <- struct{}{}
	go func() {
		defer func() { <-h.busy }()
		move, _ := eng.Search(pos, tc)
		if move == engine.NullMove {
			fmt.Fprintln(out, "bestmove 0000")
			return
		}
		fmt.Fprintf(out, "bestmove %s\n", move.UCI())
	}()
	return nil
}

func msDuration(args []string, i int) time.Duration {
	return time.Duration(intAt(args, i)) * time.Millisecond
}

func intAt(args []string, i int) int {
	if i >= len(args) {
		return 0
	}
	n, _ := strconv.Atoi(args[i])
	return n
}

func (h *Handler) handleSetOption(args []string) error {
	if len(args) < 2 || args[0] != "name" {
		return fmt.Errorf("uci: malformed setoption command")
	}

	var nameParts, valueParts []string
	inValue := false
	for _, tok := range args[1:] {
		if !inValue && tok == "value" {
			inValue = true
			continue
		}
		if inValue {
			valueParts = append(valueParts, tok)
		} else {
			nameParts = append(nameParts, tok)
		}
	}
	name := strings.Join(nameParts, " ")
	value := strings.Join(valueParts, " ")

	switch name {
	case "Clear Hash":
		h.tt.Clear()
		return nil
	case "Hash":
		mb, err := strconv.Atoi(value)
		if err != nil {
			applog.Log.Debugf("invalid Hash value %q, ignoring", value)
			return nil
		}
		if mb < engine.MinHashTableMB {
			mb = engine.MinHashTableMB
		}
		if mb > engine.MaxHashTableMB {
			mb = engine.MaxHashTableMB
		}
		h.tt.Resize(mb)
		return nil
	default:
		applog.Log.Warningf("unsupported option %q, ignoring", name)
		return nil
	}
}

func (h *Handler) handlePerft(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("uci: perft requires a depth")
	}

	divide := false
	rest := args
	if args[0] == "divide" {
		divide = true
		rest = args[1:]
	}
	if len(rest) == 0 {
		return fmt.Errorf("uci: perft requires a depth")
	}

	depth, err := strconv.Atoi(rest[0])
	if err != nil {
		return fmt.Errorf("uci: invalid perft depth %q", rest[0])
	}

	if divide {
		var total uint64
		for _, e := range perft.Divide(h.pos, depth) {
			fmt.Fprintf(h.out, "%s: %d\n", e.Move, e.Nodes)
			total += e.Nodes
		}
		fmt.Fprintf(h.out, "\nNodes searched: %d\n", total)
		return nil
	}

	result := perft.Run(h.pos, depth)
	fmt.Fprintf(h.out, "Nodes searched: %d (%s)\n", result.Nodes, result.Elapsed)
	return nil
}
