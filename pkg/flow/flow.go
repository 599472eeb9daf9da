package flow

// Diagram is the parsed activity diagram handed to the layout engine.
//
// Connections are taken from LogicalConnections; Relationships is a fallback
// with the same shape, used only when LogicalConnections is empty.
type Diagram struct {
	Flow               []Element    `json:"flow" yaml:"flow" bson:"flow"`
	LogicalConnections []Connection `json:"logicalConnections,omitempty" yaml:"logicalConnections,omitempty" bson:"logical_connections,omitempty"`
	Relationships      []Connection `json:"relationships,omitempty" yaml:"relationships,omitempty" bson:"relationships,omitempty"`
}

// Element is one flow element: an activity, a control marker, a decision
// branch, a note.
type Element struct {
	ID         string `json:"id" yaml:"id" bson:"id"`
	Type       string `json:"type" yaml:"type" bson:"type"`
	Text       string `json:"text,omitempty" yaml:"text,omitempty" bson:"text,omitempty"`
	Swimlane   string `json:"swimlane,omitempty" yaml:"swimlane,omitempty" bson:"swimlane,omitempty"`
	Action     string `json:"action,omitempty" yaml:"action,omitempty" bson:"action,omitempty"`
	Condition  string `json:"condition,omitempty" yaml:"condition,omitempty" bson:"condition,omitempty"`
	DecisionID string `json:"decisionId,omitempty" yaml:"decisionId,omitempty" bson:"decision_id,omitempty"`
	Color      string `json:"color,omitempty" yaml:"color,omitempty" bson:"color,omitempty"`
}

// Connection is a directed control-flow transition between two elements.
type Connection struct {
	SourceID string `json:"sourceId" yaml:"sourceId" bson:"source_id"`
	TargetID string `json:"targetId" yaml:"targetId" bson:"target_id"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`
}

// Connections returns LogicalConnections, or Relationships when there are no
// logical connections.
func (d Diagram) Connections() []Connection {
	if len(d.LogicalConnections) > 0 {
		return d.LogicalConnections
	}
	return d.Relationships
}
