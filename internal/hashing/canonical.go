package hashing

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"medblock/pkg/domain"
	dErrors "medblock/pkg/domain-errors"
)

// Canonicalize renders payload as canonical JSON: object keys sorted
// lexicographically, no extraneous whitespace, nested structures handled
// recursively. Leaves are normalized first (timestamps to RFC 3339 UTC,
// identifiers to their string form) so the byte stream never depends on
// serializer defaults.
func Canonicalize(payload map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case string:
		return writeString(buf, val)
	case int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int8:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int16:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int32:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case uint:
		buf.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint8:
		buf.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint16:
		buf.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint32:
		buf.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(val, 10))
	case float32:
		return writeFloat(buf, float64(val))
	case float64:
		return writeFloat(buf, val)
	case json.Number:
		buf.WriteString(val.String())
	case time.Time:
		// Timestamps always serialize as RFC 3339 in UTC so the digest
		// cannot drift with the server timezone.
		return writeString(buf, val.UTC().Format(time.RFC3339Nano))
	case uuid.UUID:
		return writeString(buf, val.String())
	case domain.DID:
		return writeString(buf, val.String())
	case domain.RecordID:
		return writeString(buf, val.String())
	case domain.ConsentID:
		return writeString(buf, val.String())
	case domain.EntryID:
		return writeString(buf, val.String())
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case []string:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return dErrors.Newf(dErrors.CodeSerialization, "payload leaf of type %T cannot be canonicalized", v)
	}
	return nil
}

func writeFloat(buf *bytes.Buffer, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return dErrors.New(dErrors.CodeSerialization, "payload contains a non-finite number")
	}
	// Shortest round-trip form; integral floats keep a bare integer shape.
	buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeSerialization, "encode string leaf")
	}
	buf.Write(b)
	return nil
}
