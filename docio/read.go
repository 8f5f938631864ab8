package docio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/fldmerge/field"
	"github.com/ardnew/fldmerge/log"
	"github.com/ardnew/fldmerge/pkg"
	"github.com/ardnew/fldmerge/tree"
)

// sourceName returns the name of r if it has one, as an [os.File] does.
func sourceName(r io.Reader) string {
	if n, ok := r.(interface{ Name() string }); ok {
		return n.Name()
	}

	return "reader"
}

// readAll reads r through an asynchronous read-ahead buffer.
func readAll(ctx context.Context, r io.Reader) ([]byte, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, pkg.ErrReadInput.Wrap(err).With(slog.String("source", sourceName(r)))
	}

	log.TraceContext(ctx, "read input",
		slog.String("source", sourceName(r)),
		slog.Int("bytes", len(data)),
	)

	return data, nil
}

func unmarshal(ctx context.Context, data []byte, f Format, v any) error {
	switch f {
	case FormatYAML:
		if err := yaml.UnmarshalContext(ctx, data, v, yaml.DisallowUnknownField()); err != nil {
			return pkg.ErrYAMLMarshal.Wrap(err)
		}

	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		dec.UseNumber()

		if err := dec.Decode(v); err != nil {
			return pkg.ErrJSONMarshal.Wrap(err)
		}

	default:
		return pkg.ErrInvalidFormat.With(
			slog.String("format", f.String()),
			slog.String("reason", "not a readable format"),
		)
	}

	return nil
}

// ReadPackage decodes a document from r.
func ReadPackage(ctx context.Context, r io.Reader, f Format) (*tree.Package, error) {
	data, err := readAll(ctx, r)
	if err != nil {
		return nil, err
	}

	return DecodePackage(ctx, data, f)
}

// DecodePackage decodes a document from data.
func DecodePackage(ctx context.Context, data []byte, f Format) (*tree.Package, error) {
	var file fileDoc

	if err := unmarshal(ctx, data, f, &file); err != nil {
		return nil, err
	}

	return file.pkg()
}

// ReadData decodes merge data from r. A mapping yields one record; a
// sequence of mappings yields one record per element.
func ReadData(ctx context.Context, r io.Reader, f Format) ([]field.Data, error) {
	data, err := readAll(ctx, r)
	if err != nil {
		return nil, err
	}

	return DecodeData(ctx, data, f)
}

// DecodeData decodes merge data from data. See [ReadData].
func DecodeData(ctx context.Context, data []byte, f Format) ([]field.Data, error) {
	var v any

	if err := unmarshal(ctx, data, f, &v); err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case nil:
		return []field.Data{{}}, nil

	case map[string]any:
		return []field.Data{record(v)}, nil

	case []any:
		out := make([]field.Data, 0, len(v))

		for i, e := range v {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, ErrData.With(slog.Int("record", i), slog.String("type", fmt.Sprintf("%T", e)))
			}

			out = append(out, record(m))
		}

		return out, nil

	default:
		return nil, ErrData.With(slog.String("type", fmt.Sprintf("%T", v)))
	}
}

func record(m map[string]any) field.Data {
	flat := make(map[string]string)
	flatten(flat, "", m)

	return field.MakeData(flat)
}

func flatten(out map[string]string, prefix string, v any) {
	key := func(k string) string {
		if prefix == "" {
			return k
		}

		return prefix + "." + k
	}

	switch v := v.(type) {
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(v)) {
			flatten(out, key(k), v[k])
		}

	case []any:
		for i, e := range v {
			flatten(out, key(strconv.Itoa(i)), e)
		}

	default:
		out[prefix] = scalar(v)
	}
}

func scalar(v any) string {
	switch v := v.(type) {
	case nil:
		return ""

	case string:
		return v

	case bool:
		return strconv.FormatBool(v)

	case json.Number:
		return v.String()

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)

	default:
		return fmt.Sprint(v)
	}
}
