package lexical

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

// canonicalSchemaJSON renders Schema deterministically: a fixed field order
// (the slice's own order, which is also alphabetically-independent and
// intentional) makes map-order nondeterminism moot.
func canonicalSchemaJSON() []byte {
	type entry struct {
		Name string `json:"name"`
		Kind int    `json:"kind"`
	}
	entries := make([]entry, 0, len(Schema))
	for _, f := range Schema {
		entries = append(entries, entry{Name: f.Name, Kind: int(f.Kind)})
	}
	raw, _ := json.Marshal(entries)
	return raw
}

// SchemaFingerprint computes the 64-char lowercase hex SHA-256 fingerprint
// described in spec.md §4.3:
//
//	SHA256(canonical_schema_json | lexical_schema_version |
//	       tokenizer_name_A | regex_A | filter_chain_A |
//	       tokenizer_name_B | regex_B | filter_chain_B)
func SchemaFingerprint() string {
	h := sha256.New()
	h.Write(canonicalSchemaJSON())
	h.Write(pipe)
	h.Write([]byte(LexicalSchemaVersion))
	h.Write(pipe)
	h.Write([]byte(TerminalTextTokenizer.Name))
	h.Write(pipe)
	h.Write([]byte(TerminalTextTokenizer.Regex))
	h.Write(pipe)
	h.Write([]byte(TerminalTextTokenizer.FilterChain))
	h.Write(pipe)
	h.Write([]byte(TerminalSymbolsTokenizer.Name))
	h.Write(pipe)
	h.Write([]byte(TerminalSymbolsTokenizer.Regex))
	h.Write(pipe)
	h.Write([]byte(TerminalSymbolsTokenizer.FilterChain))
	return hex.EncodeToString(h.Sum(nil))
}

var pipe = []byte("|")

const fingerprintFileName = ".ft_schema_fingerprint"

// CheckFingerprint reads the sidecar fingerprint file next to the index
// directory, if any, and reports whether it matches the current
// SchemaFingerprint(). A missing file is treated as a fresh index (no
// mismatch, nothing to compare against) so callers can tell "never built"
// apart from "built with a different schema".
func CheckFingerprint(indexDir string) (matches bool, existed bool, err error) {
	path := fingerprintPath(indexDir)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return true, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("lexical: read %s: %w", path, err)
	}

	stored := trimFingerprint(raw)
	return stored == SchemaFingerprint(), true, nil
}

// WriteFingerprint persists the current fingerprint to the sidecar file
// (64 hex chars + trailing newline, per spec.md §6).
func WriteFingerprint(indexDir string) error {
	path := fingerprintPath(indexDir)
	content := SchemaFingerprint() + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("lexical: write %s: %w", path, err)
	}
	return nil
}

func fingerprintPath(indexDir string) string {
	if indexDir == "" {
		return fingerprintFileName
	}
	return indexDir + string(os.PathSeparator) + fingerprintFileName
}

func trimFingerprint(raw []byte) string {
	s := string(raw)
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
