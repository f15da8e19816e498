package replog

import (
	"bytes"
	"testing"
)

// TestSizeBytes tests the SizeBytes method
func TestSizeBytes(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		expected int
	}{
		{
			name:     "Put with key, value and producer",
			record:   Record{Op: OpPut, Key: "testkey", Value: []byte("testvalue"), Producer: "node-1"},
			expected: 1 + 2 + 6 + 4 + 7 + 9, // Op + ProducerLen + Producer + KeyLen + Key + Value
		},
		{
			name:     "Delete without value and producer",
			record:   Record{Op: OpDelete, Key: "k"},
			expected: 1 + 2 + 0 + 4 + 1 + 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if size := tt.record.SizeBytes(); size != tt.expected {
				t.Errorf("SizeBytes() = %v, want %v", size, tt.expected)
			}
		})
	}
}

// TestSerializeDeserialize tests both Serialize and Deserialize methods
func TestSerializeDeserialize(t *testing.T) {
	tests := []struct {
		name   string
		record Record
	}{
		{"Put", Record{Op: OpPut, Key: "testkey", Value: []byte("testvalue"), Producer: "a"}},
		{"Put with empty value", Record{Op: OpPut, Key: "testkey", Value: []byte{}}},
		{"Delete", Record{Op: OpDelete, Key: "testkey", Value: []byte{}, Producer: "b"}},
		{"Binary value", Record{Op: OpPut, Key: "bin", Value: []byte{0, 1, 2, 255}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.record.Serialize()
			if len(data) != tt.record.SizeBytes() {
				t.Errorf("serialized length = %d, want %d", len(data), tt.record.SizeBytes())
			}

			var got Record
			if err := got.Deserialize(data); err != nil {
				t.Fatalf("Deserialize() error = %v", err)
			}
			if got.Op != tt.record.Op || got.Key != tt.record.Key || got.Producer != tt.record.Producer {
				t.Errorf("Deserialize() = %+v, want %+v", got, tt.record)
			}
			if !bytes.Equal(got.Value, tt.record.Value) {
				t.Errorf("Value = %v, want %v", got.Value, tt.record.Value)
			}
		})
	}
}

// TestDeserializeErrors tests truncated inputs
func TestDeserializeErrors(t *testing.T) {
	full := (&Record{Op: OpPut, Key: "key", Value: []byte("v"), Producer: "p"}).Serialize()

	tests := []struct {
		name string
		data []byte
	}{
		{"Empty", nil},
		{"Header only", full[:3]},
		{"Truncated producer", []byte{1, 0, 9, 'p'}},
		{"Truncated key", full[:len(full)-3]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			if err := r.Deserialize(tt.data); err == nil {
				t.Errorf("expected error for %v", tt.data)
			}
		})
	}
}

func TestParseOp(t *testing.T) {
	for _, op := range []Op{OpPut, OpDelete} {
		parsed, err := ParseOp(op.String())
		if err != nil || parsed != op {
			t.Errorf("ParseOp(%q) = %v, %v", op.String(), parsed, err)
		}
	}
	if _, err := ParseOp("DELETE "); err == nil {
		t.Errorf("expected error for unknown tag")
	}
	if Op(0).Valid() || Op(9).Valid() {
		t.Errorf("unknown ops must not be valid")
	}
}
