package types

import (
	"errors"
	"testing"
	"time"
)

func TestParseRelationType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RelationType
		wantErr bool
	}{
		{name: "sequential", input: "sequential", want: SequentialRelation},
		{name: "causal", input: "causal", want: CausalRelation},
		{name: "concurrent", input: "concurrent", want: ConcurrentRelation},
		{name: "branch", input: "branch", want: BranchRelation},
		{name: "merge", input: "merge", want: MergeRelation},
		{name: "unknown", input: "follows", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelationType(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRelation) {
					t.Errorf("ParseRelationType(%q) error = %v, want ErrInvalidRelation", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRelationType(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRelationType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "RFC3339 with Z",
			input: "2024-01-15T10:30:00Z",
			want:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "RFC3339 with offset",
			input: "2024-01-15T12:30:00+02:00",
			want:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "naive assumed UTC",
			input: "2024-01-15T10:30:00",
			want:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			input: "2024-01-15",
			want:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{name: "garbage", input: "not a time", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTimestamp(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestComputeLayerID(t *testing.T) {
	// 1970-01-01 falls in layer_0 with 7-day buckets.
	if got := ComputeLayerID(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 7); got != "layer_0" {
		t.Errorf("epoch layer = %s, want layer_0", got)
	}
	// Day 7 starts layer_1.
	if got := ComputeLayerID(time.Date(1970, 1, 8, 0, 0, 0, 0, time.UTC), 7); got != "layer_1" {
		t.Errorf("day 7 layer = %s, want layer_1", got)
	}
	// Pre-epoch timestamps floor into negative layers.
	if got := ComputeLayerID(time.Date(1969, 12, 31, 12, 0, 0, 0, time.UTC), 7); got != "layer_-1" {
		t.Errorf("day -1 layer = %s, want layer_-1", got)
	}
	if got := ComputeLayerID(time.Date(1969, 12, 25, 0, 0, 0, 0, time.UTC), 7); got != "layer_-1" {
		t.Errorf("day -7 layer = %s, want layer_-1", got)
	}
	if got := ComputeLayerID(time.Date(1969, 12, 24, 0, 0, 0, 0, time.UTC), 7); got != "layer_-2" {
		t.Errorf("day -8 layer = %s, want layer_-2", got)
	}
	// Same instant in another zone maps to the same layer.
	ny, err := time.LoadLocation("America/New_York")
	if err == nil {
		utc := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
		if ComputeLayerID(utc, 7) != ComputeLayerID(utc.In(ny), 7) {
			t.Error("layer id differs across timezones for the same instant")
		}
	}
}

func TestNodeValidate(t *testing.T) {
	tests := []struct {
		name    string
		node    TemporalNode
		wantErr error
	}{
		{
			name:    "valid",
			node:    TemporalNode{ID: "doc-1", Timestamp: time.Now(), Type: ContentNodeType},
			wantErr: nil,
		},
		{
			name:    "empty id",
			node:    TemporalNode{Timestamp: time.Now()},
			wantErr: ErrEmptyID,
		},
		{
			name:    "zero timestamp",
			node:    TemporalNode{ID: "doc-1"},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.node.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEdgeValidate(t *testing.T) {
	edge := TemporalEdge{From: "a", To: "b", Relation: CausalRelation, Weight: 1.0}
	if err := edge.Validate(); err != nil {
		t.Fatalf("valid edge rejected: %v", err)
	}

	bad := TemporalEdge{From: "a", To: "b", Relation: "related"}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidRelation) {
		t.Errorf("bad relation error = %v, want ErrInvalidRelation", err)
	}
}
