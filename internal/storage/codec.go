package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/pagecraft/internal/engine/page"
)

// Codec converts documents to and from bytes.
type Codec interface {
	Name() string
	Marshal(doc *page.Document) ([]byte, error)
	Unmarshal(data []byte) (*page.Document, error)
}

// JSON is the storage and wire codec.
var JSON Codec = jsonCodec{}

// YAML is the human-friendly export codec.
var YAML Codec = yamlCodec{}

// CodecFor returns the codec named by format ("json", "yaml" or "yml").
func CodecFor(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "json", "":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// Decode unmarshals and validates a document.
func Decode(c Codec, data []byte) (*page.Document, error) {
	doc, err := c.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.Name(), err)
	}
	if doc.Sections == nil {
		doc.Sections = []*page.Section{}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(doc *page.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

func (jsonCodec) Unmarshal(data []byte) (*page.Document, error) {
	doc := page.NewDocument()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

type yamlCodec struct{}

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Marshal(doc *page.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlCodec) Unmarshal(data []byte) (*page.Document, error) {
	doc := page.NewDocument()
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
