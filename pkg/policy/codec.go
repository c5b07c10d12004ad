package policy

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// wireDocument mirrors the IAM JSON wire shape. Field order matters for
// readability of emitted documents, not for compatibility.
type wireDocument struct {
	Version   string          `json:"Version"`
	Statement []wireStatement `json:"Statement"`
}

type wireStatement struct {
	Effect    string                       `json:"Effect"`
	Action    stringList                   `json:"Action"`
	Resource  stringList                   `json:"Resource,omitempty"`
	Condition map[string]map[string]string `json:"Condition,omitempty"`
}

// stringList accepts either a bare string or an array of strings on ingest.
// It always emits an array, which round-trips semantically.
type stringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}
	if data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*l = stringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = stringList(many)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	wire := wireDocument{
		Version:   d.Version,
		Statement: make([]wireStatement, len(d.Statements)),
	}
	if wire.Version == "" {
		wire.Version = DefaultVersion
	}
	for i, s := range d.Statements {
		ws := wireStatement{
			Effect:    string(s.Effect),
			Action:    stringList(s.Actions),
			Resource:  stringList(s.Resources),
			Condition: s.Conditions,
		}
		if ws.Action == nil {
			ws.Action = stringList{}
		}
		wire.Statement[i] = ws
	}
	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler. Both the string and array forms
// of Action and Resource are normalized on ingest.
func (d *Document) UnmarshalJSON(data []byte) error {
	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return &DecodeError{Cause: err}
	}
	doc := Document{Version: wire.Version}
	if doc.Version == "" {
		doc.Version = DefaultVersion
	}
	doc.Statements = make([]Statement, len(wire.Statement))
	for i, ws := range wire.Statement {
		doc.Statements[i] = Statement{
			Effect:     Effect(ws.Effect),
			Actions:    []string(ws.Action),
			Resources:  []string(ws.Resource),
			Conditions: ws.Condition,
		}
	}
	*d = doc
	return nil
}

// Decode parses an IAM JSON policy document and validates its structure.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Encode serializes a document to its IAM JSON wire form.
func Encode(doc Document) ([]byte, error) {
	return json.Marshal(doc)
}

// EncodeIndent serializes a document to indented IAM JSON for display.
func EncodeIndent(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
