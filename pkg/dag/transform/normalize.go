package transform

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlflow/pkg/dag"
)

// Normalize ranks g with [AssignLayers] and then splits long edges with
// [Subdivide]. On return every forward edge connects consecutive layers.
func Normalize(g *dag.Graph, logger *log.Logger) Report {
	report := AssignLayers(g, logger)
	report.Virtual = Subdivide(g)
	return report
}
