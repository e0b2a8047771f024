package recorder

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// GenerateEventIDV1 computes the 64-character lowercase hex SHA-256 event
// id per spec.md §4.1:
//
//	event_id = hex(SHA256( schema_version | pane_id | stream_rank | sequence |
//	                       event_type_tag | occurred_at_ms | payload_hash ))
//
// where payload_hash is hex(SHA256(payload_tag_prefix | canonical_payload_bytes)).
// Identical inputs always produce the identical id; changing any one field
// changes the output (verified in id_test.go).
func GenerateEventIDV1(e *RecorderEvent) string {
	h := sha256.New()
	h.Write([]byte(e.SchemaVersion))
	h.Write(pipe)
	writeUint64(h, e.PaneID)
	h.Write(pipe)
	writeInt64(h, int64(e.StreamKind().Rank()))
	h.Write(pipe)
	writeUint64(h, e.Sequence)
	h.Write(pipe)
	h.Write([]byte(e.EventTypeTag()))
	h.Write(pipe)
	writeUint64(h, e.OccurredAtMs)
	h.Write(pipe)
	h.Write([]byte(payloadHash(e.Payload)))
	return hex.EncodeToString(h.Sum(nil))
}

var pipe = []byte("|")

func writeUint64(w interface{ Write([]byte) (int, error) }, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

func writeInt64(w interface{ Write([]byte) (int, error) }, v int64) {
	writeUint64(w, uint64(v))
}

// payloadHash computes hex(SHA256(payload_tag_prefix | canonical_payload_bytes))
// per variant, using the exact literal prefixes from spec.md §4.1.
func payloadHash(p Payload) string {
	h := sha256.New()
	switch p.Tag() {
	case PayloadTagIngress:
		h.Write([]byte("ingress:"))
		h.Write([]byte(p.Ingress.Text))
	case PayloadTagEgress:
		h.Write([]byte("egress:"))
		h.Write([]byte(p.Egress.Text))
	case PayloadTagControl:
		h.Write([]byte("control:"))
		h.Write(canonicalJSON(p.Control.Details))
	case PayloadTagLifecycle:
		h.Write([]byte("lifecycle:"))
		h.Write(canonicalJSON(p.Lifecycle.Details))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalJSON renders a details map as a JSON object with keys sorted, so
// the same logical map always produces the same bytes regardless of Go map
// iteration order.
func canonicalJSON(m map[string]any) []byte {
	if len(m) == 0 {
		return []byte("{}")
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, _ := json.Marshal(k)
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := json.Marshal(m[k])
		if err != nil {
			// Details maps are caller-constructed and always
			// JSON-serializable; a marshal failure here indicates a
			// programmer error, not bad input.
			valBytes = []byte("null")
		}
		buf.Write(bytesTrimNewline(valBytes))
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

func bytesTrimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
