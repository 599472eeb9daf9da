package layout

import (
	"encoding/json"
	"fmt"
	"io"
)

// Result is the output of one layout run.
//
// Positions and Grid form the external contract consumed by serializers.
// The remaining fields describe the run for renderers and diagnostics.
type Result struct {
	Positions map[string]Position `json:"positions" bson:"positions"`
	Grid      GridInfo            `json:"gridInfo" bson:"grid_info"`
	Canvas    Canvas              `json:"canvas" bson:"canvas"`
	Layers    [][]string          `json:"layers" bson:"layers"`
	Edges     []EdgeInfo          `json:"edges" bson:"edges"`
	Lanes     []LaneInfo          `json:"lanes,omitempty" bson:"lanes,omitempty"`
	Stats     Stats               `json:"stats" bson:"stats"`

	// Fallback is set when the degenerate stacked layout was returned;
	// Error then holds the failure that caused it.
	Fallback bool   `json:"fallback,omitempty" bson:"fallback,omitempty"`
	Error    string `json:"error,omitempty" bson:"error,omitempty"`
}

// Position is the placement of one node. X and Y are the top-left corner.
// Column and Row are coarse 100 px buckets for human-readable diagnostics;
// they play no part in layout decisions.
type Position struct {
	X      int    `json:"x" bson:"x"`
	Y      int    `json:"y" bson:"y"`
	Width  int    `json:"width" bson:"width"`
	Height int    `json:"height" bson:"height"`
	Column int    `json:"column" bson:"column"`
	Row    int    `json:"row" bson:"row"`
	Layer  int    `json:"layer" bson:"layer"`
	Role   string `json:"role" bson:"role"`
}

// GridInfo counts the distinct column and row buckets and gives the size of
// the content bounding box.
type GridInfo struct {
	Columns int `json:"columns" bson:"columns"`
	Rows    int `json:"rows" bson:"rows"`
	Width   int `json:"width" bson:"width"`
	Height  int `json:"height" bson:"height"`
}

// EdgeInfo is a logical edge between two exported nodes.
type EdgeInfo struct {
	From     string `json:"from" bson:"from"`
	To       string `json:"to" bson:"to"`
	Label    string `json:"label,omitempty" bson:"label,omitempty"`
	LoopBack bool   `json:"loopBack,omitempty" bson:"loop_back,omitempty"`
}

// LaneInfo is a swimlane band.
type LaneInfo struct {
	Name  string   `json:"name" bson:"name"`
	X     int      `json:"x" bson:"x"`
	Width int      `json:"width" bson:"width"`
	Nodes []string `json:"nodes" bson:"nodes"`
}

// Stats are layout quality diagnostics.
type Stats struct {
	Nodes           int `json:"nodes" bson:"nodes"`
	Edges           int `json:"edges" bson:"edges"`
	Virtual         int `json:"virtual" bson:"virtual"`
	Layers          int `json:"layers" bson:"layers"`
	Iterations      int `json:"iterations" bson:"iterations"`
	CrossingsBefore int `json:"crossingsBefore" bson:"crossings_before"`
	CrossingsAfter  int `json:"crossingsAfter" bson:"crossings_after"`
	LoopBacks       int `json:"loopBacks" bson:"loop_backs"`
	Unreached       int `json:"unreached" bson:"unreached"`
}

// MarshalResult encodes r as compact JSON. Map keys are sorted, so equal
// results encode to identical bytes.
func MarshalResult(r *Result) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	return data, nil
}

// UnmarshalResult decodes a result produced by [MarshalResult].
func UnmarshalResult(data []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal layout: %w", err)
	}
	return &r, nil
}

// WriteJSON encodes r as indented JSON.
func WriteJSON(r *Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
