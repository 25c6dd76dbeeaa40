package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultSeparator joins encoded key parts.
const DefaultSeparator = "||"

// nilPart encodes a nil part. Escaping doubles every backslash in string
// parts, so no string can encode to it.
const nilPart = `\null`

// maxDepth bounds nesting of structured key parts.
const maxDepth = 256

// Errors wrapped by EncodingError.
var (
	ErrUnsupportedKind = errors.New("unsupported value kind")
	ErrCyclicValue     = errors.New("cyclic value")
	ErrTooDeep         = errors.New("value nested too deeply")
)

// Keyer generates deterministic cache keys from request-describing values.
//
// Scalars (strings, booleans, numbers) are used as-is and nil encodes as
// `\null`. Non-finite floats are rejected. Occurrences of the
// separator or a backslash inside string parts are backslash-escaped, so two
// different part lists never join to the same key. Structured parts (maps with
// string keys, slices, arrays, structs and pointers to them) are encoded as
// canonical JSON with object keys sorted.
//
// Contract:
// - Determinism: same inputs must produce same key, regardless of map iteration order.
// - Concurrency: a Keyer is safe for concurrent use once configured.
type Keyer struct {
	// Separator joins parts. Default: "||"
	Separator string

	// Hash replaces the joined key with Prefix + ":" + the first 16 hex
	// characters of its SHA-256, bounding key length.
	Hash bool

	// Prefix names hashed keys. Default: "cache"
	Prefix string
}

// NewKeyer creates a keyer using DefaultSeparator.
func NewKeyer() *Keyer {
	return &Keyer{Separator: DefaultSeparator}
}

var defaultKeyer = NewKeyer()

// Encode builds a key from parts using the default keyer.
//
//	Encode("GET", "USERS") == "GET||USERS"
func Encode(parts ...any) (string, error) {
	return defaultKeyer.Key(parts...)
}

// Key builds a key from parts. It fails with *EncodingError if any part
// cannot be encoded; no part is ever dropped.
func (k *Keyer) Key(parts ...any) (string, error) {
	sep := k.Separator
	if sep == "" {
		sep = DefaultSeparator
	}

	var b strings.Builder
	for i, part := range parts {
		s, err := encodePart(part, sep)
		if err != nil {
			return "", &EncodingError{Index: i, Err: err}
		}
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s)
	}

	if !k.Hash {
		return b.String(), nil
	}

	prefix := k.Prefix
	if prefix == "" {
		prefix = "cache"
	}
	sum := sha256.Sum256([]byte(b.String()))
	return prefix + ":" + hex.EncodeToString(sum[:8]), nil
}

func encodePart(part any, sep string) (string, error) {
	switch v := part.(type) {
	case nil:
		return nilPart, nil
	case string:
		return escapePart(v, sep), nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	}

	rv := reflect.ValueOf(part)
	switch rv.Kind() {
	case reflect.String:
		return escapePart(rv.String(), sep), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("%w: non-finite float %v", ErrUnsupportedKind, f)
		}
		bits := 64
		if rv.Kind() == reflect.Float32 {
			bits = 32
		}
		return strconv.FormatFloat(f, 'g', -1, bits), nil
	}

	c := canonicalizer{visiting: make(map[visitKey]bool)}
	var buf bytes.Buffer
	if err := c.encode(&buf, rv, 0); err != nil {
		return "", err
	}
	if buf.String() == "null" {
		return nilPart, nil
	}
	return buf.String(), nil
}

// escapePart escapes backslashes and separator occurrences in a scalar part.
func escapePart(s, sep string) string {
	if !strings.Contains(s, `\`) && !strings.Contains(s, sep) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, sep, `\`+sep)
}

type visitKey struct {
	ptr  uintptr
	typ  reflect.Type
	size int
}

// canonicalizer produces deterministic JSON. Maps are sorted by key and
// reference cycles are reported instead of recursing forever.
type canonicalizer struct {
	visiting map[visitKey]bool
}

var (
	timeType      = reflect.TypeOf(time.Time{})
	marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
)

func (c *canonicalizer) encode(buf *bytes.Buffer, v reflect.Value, depth int) error {
	if depth > maxDepth {
		return ErrTooDeep
	}
	if !v.IsValid() {
		buf.WriteString("null")
		return nil
	}

	if v.Type() == timeType || (v.Kind() != reflect.Pointer && v.Type().Implements(marshalerType)) {
		return c.encodeViaJSON(buf, v, depth)
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			buf.WriteString("null")
			return nil
		}
		return c.encode(buf, v.Elem(), depth+1)

	case reflect.Pointer:
		if v.IsNil() {
			buf.WriteString("null")
			return nil
		}
		return c.guard(visitKey{ptr: v.Pointer(), typ: v.Type()}, func() error {
			return c.encode(buf, v.Elem(), depth+1)
		})

	case reflect.Map:
		if v.IsNil() {
			buf.WriteString("null")
			return nil
		}
		if v.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%w: map key %s", ErrUnsupportedKind, v.Type().Key())
		}
		return c.guard(visitKey{ptr: v.Pointer(), typ: v.Type()}, func() error {
			return c.encodeMap(buf, v, depth)
		})

	case reflect.Slice:
		if v.IsNil() {
			buf.WriteString("null")
			return nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return c.encodeViaJSON(buf, v, depth)
		}
		return c.guard(visitKey{ptr: v.Pointer(), typ: v.Type(), size: v.Len()}, func() error {
			return c.encodeList(buf, v, depth)
		})

	case reflect.Array:
		return c.encodeList(buf, v, depth)

	case reflect.Struct:
		return c.encodeViaJSON(buf, v, depth)

	case reflect.String:
		if v.Type() == reflect.TypeOf(json.Number("")) {
			buf.WriteString(v.String())
			return nil
		}
		return writeJSON(buf, v.String())

	case reflect.Bool:
		buf.WriteString(strconv.FormatBool(v.Bool()))
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		buf.WriteString(strconv.FormatInt(v.Int(), 10))
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		buf.WriteString(strconv.FormatUint(v.Uint(), 10))
		return nil

	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite float %v", ErrUnsupportedKind, f)
		}
		bits := 64
		if v.Kind() == reflect.Float32 {
			bits = 32
		}
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, bits))
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, v.Kind())
	}
}

func (c *canonicalizer) guard(k visitKey, fn func() error) error {
	if c.visiting[k] {
		return ErrCyclicValue
	}
	c.visiting[k] = true
	defer delete(c.visiting, k)
	return fn()
}

func (c *canonicalizer) encodeMap(buf *bytes.Buffer, v reflect.Value, depth int) error {
	keys := make([]string, 0, v.Len())
	values := make(map[string]reflect.Value, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		keys = append(keys, k)
		values[k] = iter.Value()
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := c.encode(buf, values[k], depth+1); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func (c *canonicalizer) encodeList(buf *bytes.Buffer, v reflect.Value, depth int) error {
	buf.WriteByte('[')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := c.encode(buf, v.Index(i), depth+1); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

// encodeViaJSON lets encoding/json apply struct tags and custom marshalers,
// then re-canonicalizes the generic result so nested maps are sorted too.
func (c *canonicalizer) encodeViaJSON(buf *bytes.Buffer, v reflect.Value, depth int) error {
	raw, err := json.Marshal(v.Interface())
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return err
	}

	if s, ok := generic.(string); ok {
		return writeJSON(buf, s)
	}
	return c.encode(buf, reflect.ValueOf(generic), depth+1)
}

func writeJSON(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
