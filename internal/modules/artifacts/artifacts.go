// Package artifacts reads pre-built artifacts (model, elasticity table) from local
// files or S3-compatible object storage and decodes them by file extension.
package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Format is the encoding of an artifact
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// RemoteFetcher downloads objects addressed by s3://bucket/key URIs
type RemoteFetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// Source resolves artifact locations to bytes
type Source struct {
	remote RemoteFetcher
	log    zerolog.Logger
}

// NewSource creates an artifact source. remote may be nil when only local paths are used.
func NewSource(remote RemoteFetcher, log zerolog.Logger) *Source {
	return &Source{
		remote: remote,
		log:    log.With().Str("component", "artifacts").Logger(),
	}
}

// IsRemote reports whether location points at object storage
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

// Read returns the raw bytes stored at location
func (s *Source) Read(ctx context.Context, location string) ([]byte, error) {
	if IsRemote(location) {
		if s.remote == nil {
			return nil, fmt.Errorf("no object store configured for %s", location)
		}
		data, err := s.remote.Fetch(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
		}
		s.log.Debug().Str("location", location).Int("bytes", len(data)).Msg("Fetched remote artifact")
		return data, nil
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	s.log.Debug().Str("location", location).Int("bytes", len(data)).Msg("Read local artifact")
	return data, nil
}

// Load reads location and decodes it into v according to its extension
func (s *Source) Load(ctx context.Context, location string, v interface{}) error {
	format, err := FormatOf(location)
	if err != nil {
		return err
	}
	data, err := s.Read(ctx, location)
	if err != nil {
		return err
	}
	if err := Decode(data, format, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", location, err)
	}
	return nil
}

// FormatOf infers the encoding from a path or URI extension
func FormatOf(location string) (Format, error) {
	switch strings.ToLower(path.Ext(location)) {
	case ".json":
		return FormatJSON, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unsupported artifact extension for %q (want .json, .msgpack or .mpk)", location)
	}
}

// Decode unmarshals data in the given format
func Decode(data []byte, format Format, v interface{}) error {
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	case FormatMsgpack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		return dec.Decode(v)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Encode marshals v in the given format. Used by tooling and tests that produce artifacts.
func Encode(v interface{}, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.Marshal(v)
	case FormatMsgpack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
