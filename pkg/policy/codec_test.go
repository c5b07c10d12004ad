package policy

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDecode_NormalizesWireForms(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantActions   []string
		wantResources []string
		wantVersion   string
	}{
		{
			name:          "array forms",
			input:         `{"Version": "2012-10-17", "Statement": [{"Effect": "Allow", "Action": ["s3:GetObject", "s3:PutObject"], "Resource": ["arn:aws:s3:::bucket/*"]}]}`,
			wantActions:   []string{"s3:GetObject", "s3:PutObject"},
			wantResources: []string{"arn:aws:s3:::bucket/*"},
			wantVersion:   "2012-10-17",
		},
		{
			name:          "bare string forms",
			input:         `{"Version": "2012-10-17", "Statement": [{"Effect": "Allow", "Action": "s3:GetObject", "Resource": "*"}]}`,
			wantActions:   []string{"s3:GetObject"},
			wantResources: []string{"*"},
			wantVersion:   "2012-10-17",
		},
		{
			name:        "missing version gets the default",
			input:       `{"Statement": [{"Effect": "Allow", "Action": "s3:GetObject"}]}`,
			wantActions: []string{"s3:GetObject"},
			wantVersion: DefaultVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if doc.Version != tt.wantVersion {
				t.Errorf("Version = %q, want %q", doc.Version, tt.wantVersion)
			}
			if len(doc.Statements) != 1 {
				t.Fatalf("got %d statements, want 1", len(doc.Statements))
			}
			if !reflect.DeepEqual(doc.Statements[0].Actions, tt.wantActions) {
				t.Errorf("Actions = %v, want %v", doc.Statements[0].Actions, tt.wantActions)
			}
			if tt.wantResources != nil && !reflect.DeepEqual(doc.Statements[0].Resources, tt.wantResources) {
				t.Errorf("Resources = %v, want %v", doc.Statements[0].Resources, tt.wantResources)
			}
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed json", `{"Statement": [`},
		{"empty statement list", `{"Version": "2012-10-17", "Statement": []}`},
		{"missing effect", `{"Statement": [{"Action": "s3:GetObject"}]}`},
		{"bad effect", `{"Statement": [{"Effect": "Permit", "Action": "s3:GetObject"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.input)); err == nil {
				t.Error("Decode succeeded, want error")
			}
		})
	}
}

func TestEncode_SemanticRoundTrip(t *testing.T) {
	input := `{"Statement": [{"Effect": "Allow", "Action": "s3:GetObject", "Resource": "*", "Condition": {"StringEquals": {"aws:RequestedRegion": "us-east-1"}}}]}`

	doc, err := Decode([]byte(input))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	again, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode of encoded output failed: %v", err)
	}
	if !reflect.DeepEqual(doc, again) {
		t.Errorf("round trip changed the document:\n first: %+v\nsecond: %+v", doc, again)
	}

	// The emitted wire form uses arrays even when ingest saw bare strings.
	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("emitted JSON is invalid: %v", err)
	}
	stmts := wire["Statement"].([]any)
	if _, isArray := stmts[0].(map[string]any)["Action"].([]any); !isArray {
		t.Error("emitted Action is not an array")
	}
}
