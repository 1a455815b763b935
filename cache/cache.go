// Package cache is a store of compiled parse tables, keyed by a blake2b
// fingerprint of the normalized grammar and backed by a local SQLite
// database holding REZI-encoded compiled-table blobs. The slrgen CLI does
// not consult it; every slrgen run rebuilds the table.
//
// Grounded on the teacher's server/dao/sqlite package (single-table DAO:
// sql.Open("sqlite", file) + an init() that issues CREATE TABLE IF NOT
// EXISTS, base64-wrapping a REZI-encoded blob column) generalized from a
// game-save store to a compiler-artifact store.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"fmt"
	"sort"

	"github.com/dekarrin/rezi"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"

	"github.com/dekarrin/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/icterrors"
	"github.com/dekarrin/ictiobus/parse"
)

// GrammarHash fingerprints the normalized grammar (rule patterns, LHS
// names, operators) into a stable cache key, independent of symbol-table
// insertion order (SPEC_FULL.md §3 "golang.org/x/crypto blake2b").
func GrammarHash(g *grammar.Grammar) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors on a bad key, and we pass none.
		h = sha256.New()
	}

	var lines []string
	for id := 0; id < g.RuleCount(); id++ {
		r := g.Rule(id)
		lines = append(lines, r.String(g))
	}
	sort.Strings(lines)
	for _, l := range lines {
		h.Write([]byte(l))
		h.Write([]byte{0})
	}

	var ops []string
	for _, t := range g.Terminals() {
		if op, ok := g.Operator(t); ok {
			ops = append(ops, fmt.Sprintf("op:%s:%d:%d\n", g.Symbols.Get(t).Name, op.Assoc, op.Precedence))
		}
	}
	sort.Strings(ops)
	for _, l := range ops {
		h.Write([]byte(l))
	}

	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// entry is the REZI-encoded payload stored per grammar hash: enough of the
// compiled parse table to reconstruct a Driver without rerunning table
// construction.
type entry struct {
	Defaults  map[int]int
	Cells     []cellRow
	Conflicts int
}

type cellRow struct {
	State  int
	Sym    int
	Type   int
	Target int
	RuleID int
}

// Store is a SQLite-backed cache of compiled parse tables.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the cache database at file.
func Open(file string) (*Store, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, icterrors.WrapGrammar(err, "open cache database")
	}
	s := &Store{db: db}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS parse_tables (
		hash TEXT NOT NULL PRIMARY KEY,
		data TEXT NOT NULL
	);`); err != nil {
		return nil, icterrors.WrapGrammar(err, "init cache schema")
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores t under hash, replacing any previous entry.
func (s *Store) Put(hash string, t *parse.Table) error {
	e := toEntry(t)
	blob := rezi.EncBinary(&e)
	encoded := base64.StdEncoding.EncodeToString(blob)

	_, err := s.db.Exec(
		`INSERT INTO parse_tables (hash, data) VALUES (?, ?)
		 ON CONFLICT(hash) DO UPDATE SET data=excluded.data;`,
		hash, encoded,
	)
	if err != nil {
		return icterrors.WrapGrammar(err, "store cached parse table")
	}
	return nil
}

// Get retrieves the cached entry for hash, or ok=false if there is none.
func (s *Store) Get(hash string) (CachedTable, bool, error) {
	row := s.db.QueryRow(`SELECT data FROM parse_tables WHERE hash = ?;`, hash)

	var encoded string
	if err := row.Scan(&encoded); err != nil {
		if err == sql.ErrNoRows {
			return CachedTable{}, false, nil
		}
		return CachedTable{}, false, icterrors.WrapGrammar(err, "read cached parse table")
	}

	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return CachedTable{}, false, icterrors.WrapGrammar(err, "decode cached parse table")
	}

	var e entry
	n, err := rezi.DecBinary(blob, &e)
	if err != nil {
		return CachedTable{}, false, icterrors.WrapGrammar(err, "REZI-decode cached parse table")
	}
	if n != len(blob) {
		return CachedTable{}, false, icterrors.Grammar("cached parse table: consumed %d/%d bytes", n, len(blob))
	}

	return fromEntry(e), true, nil
}

// CachedTable is the decoded form of a cache entry, re-hydrated into the
// per-cell shape the Driver's Action lookup uses (spec.md §4.6 "Parse
// Table"); it does not carry the Grammar/Automaton pointers a freshly
// built parse.Table does, so callers rebuild those only when the hash
// misses.
type CachedTable struct {
	Defaults map[int]int
	Actions  map[[2]int]parse.Action
}

func toEntry(t *parse.Table) entry {
	e := entry{Defaults: t.Defaults, Conflicts: t.ConflictCount()}
	for _, s := range t.Automaton.States {
		for _, sym := range allSyms(t) {
			a := t.Action(s.ID, sym)
			if a.Type == parse.ErrorAction {
				continue
			}
			e.Cells = append(e.Cells, cellRow{State: s.ID, Sym: sym, Type: int(a.Type), Target: a.State, RuleID: a.RuleID})
		}
	}
	return e
}

func allSyms(t *parse.Table) []int {
	syms := append([]int{}, t.Grammar.Terminals()...)
	syms = append(syms, t.Grammar.NonTerminals()...)
	sort.Ints(syms)
	return syms
}

func fromEntry(e entry) CachedTable {
	ct := CachedTable{Defaults: e.Defaults, Actions: map[[2]int]parse.Action{}}
	for _, c := range e.Cells {
		ct.Actions[[2]int{c.State, c.Sym}] = parse.Action{
			Type:   parse.ActionType(c.Type),
			State:  c.Target,
			RuleID: c.RuleID,
		}
	}
	return ct
}
