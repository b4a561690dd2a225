// Command microcbor converts between CBOR and a JSON rendering of its
// value tree on stdin/stdout, the way the teacher's cmd/asn1c is a thin
// flag-driven binary over the library packages it ships alongside.
package main

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	cbor "github.com/iMrDJAi/microcbor"
	"github.com/iMrDJAi/microcbor/duplex"
	"github.com/iMrDJAi/microcbor/internal/chunkfeed"
	"github.com/iMrDJAi/microcbor/stream"
)

func main() {
	var (
		decode    = flag.Bool("decode", false, "decode CBOR from stdin, print JSON to stdout")
		encode    = flag.Bool("encode", false, "encode JSON from stdin, write CBOR to stdout")
		useStream = flag.Bool("stream", false, "with -decode, feed stdin through the push decode adapter in fixed-size chunks")
		chunkSize = flag.Int("chunk-size", 4096, "chunk size in bytes for -stream")
	)
	flag.Parse()

	var err error
	switch {
	case *decode && *useStream:
		err = decodeStreamed(os.Stdin, os.Stdout, *chunkSize)
	case *decode:
		err = decodeOnce(os.Stdin, os.Stdout)
	case *encode:
		err = encodeOnce(os.Stdin, os.Stdout)
	default:
		fmt.Fprintln(os.Stderr, "Error: one of -decode or -encode is required")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func decodeOnce(r io.Reader, w io.Writer) error {
	dec := stream.NewDecoder(r, cbor.DecOptions{})
	enc := json.NewEncoder(w)
	for {
		v, err := dec.Decode()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := enc.Encode(toJSON(v)); err != nil {
			return err
		}
	}
}

// decodeStreamed exercises duplex.DecodeStream and internal/chunkfeed
// together: input is fed in through Write in fixed-size pieces instead
// of letting the decoder pull from stdin directly.
func decodeStreamed(r io.Reader, w io.Writer, chunkSize int) error {
	ds := duplex.NewDecodeStream(cbor.DecOptions{}, nil)
	done := make(chan error, 1)
	go func() {
		enc := json.NewEncoder(w)
		for {
			v, err := ds.Next()
			if err == io.EOF {
				done <- nil
				return
			}
			if err != nil {
				done <- err
				return
			}
			if err := enc.Encode(toJSON(v)); err != nil {
				done <- err
				return
			}
		}
	}()
	for chunk := range chunkfeed.Feed(r, chunkSize) {
		if chunk.Err != nil {
			ds.CloseWithError(chunk.Err)
			return <-done
		}
		if err := ds.Write(chunk.Data); err != nil {
			return err
		}
	}
	ds.Close()
	return <-done
}

func encodeOnce(r io.Reader, w io.Writer) error {
	dec := json.NewDecoder(bufio.NewReader(r))
	dec.UseNumber()
	enc := stream.NewEncoder(w, cbor.EncOptions{})
	for {
		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		v, err := fromJSON(raw)
		if err != nil {
			return err
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
}

// toJSON renders a cbor.Value as a JSON-compatible value. Byte strings
// have no JSON equivalent, so they are rendered as base64 strings — a
// convention of this CLI, not part of the wire format.
func toJSON(v cbor.Value) interface{} {
	switch v.Kind() {
	case cbor.KindInt:
		i, _ := v.Int()
		return i
	case cbor.KindFloat:
		f, _ := v.Float()
		return f
	case cbor.KindBool:
		b, _ := v.Bool()
		return b
	case cbor.KindNull, cbor.KindUndefined:
		return nil
	case cbor.KindText:
		s, _ := v.Text()
		return s
	case cbor.KindBytes:
		b, _ := v.Bytes()
		return base64.StdEncoding.EncodeToString(b)
	case cbor.KindArray:
		items, _ := v.Array()
		out := make([]interface{}, len(items))
		for i, it := range items {
			out[i] = toJSON(it)
		}
		return out
	case cbor.KindMap:
		entries, _ := v.Map()
		out := make(map[string]interface{}, len(entries))
		for _, e := range entries {
			out[e.Key] = toJSON(e.Value)
		}
		return out
	default:
		return nil
	}
}

// fromJSON lifts a decoded JSON value into a cbor.Value. Numbers are
// decoded with json.Number so integral values within the safe range
// become KindInt rather than always widening to KindFloat.
func fromJSON(raw interface{}) (cbor.Value, error) {
	switch x := raw.(type) {
	case nil:
		return cbor.Null(), nil
	case bool:
		return cbor.Bool(x), nil
	case string:
		return cbor.Text(x), nil
	case json.Number:
		return numberToValue(x)
	case []interface{}:
		items := make([]cbor.Value, len(x))
		for i, it := range x {
			v, err := fromJSON(it)
			if err != nil {
				return cbor.Value{}, err
			}
			items[i] = v
		}
		return cbor.Array(items...), nil
	case map[string]interface{}:
		entries := make([]cbor.MapEntry, 0, len(x))
		for k, v := range x {
			cv, err := fromJSON(v)
			if err != nil {
				return cbor.Value{}, err
			}
			entries = append(entries, cbor.MapEntry{Key: k, Value: cv})
		}
		return cbor.Map(entries...), nil
	default:
		return cbor.Value{}, fmt.Errorf("microcbor: cannot represent JSON value of type %T", raw)
	}
}

func numberToValue(n json.Number) (cbor.Value, error) {
	if i, err := n.Int64(); err == nil {
		return cbor.Int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return cbor.Value{}, err
	}
	return cbor.Float(f), nil
}
