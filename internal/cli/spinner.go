package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/term"

	"github.com/matzehuels/umlflow/pkg/dag"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner keeps one status line alive while the engine runs. The line
// shows the task and the last stage the engine reported through
// [spinner.stage], for example:
//
//	⠹ Laying out order.json · order (12 nodes, 6 layers)
//
// Nothing is drawn unless the writer is a terminal.
type spinner struct {
	w       io.Writer
	draws   bool
	task    string
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
	running bool

	mu     sync.Mutex
	status string
	width  int // widest line drawn, for clearing
}

func newSpinner(w io.Writer, task string) *spinner {
	return &spinner{
		w:       w,
		draws:   isTerminal(w),
		task:    task,
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// start animates the line until halt is called or ctx ends.
func (s *spinner) start(ctx context.Context) {
	if !s.draws {
		return
	}
	s.running = true
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				return
			case <-s.quit:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// stage records the engine stage. It satisfies layout.StageHook and may be
// called from several batch workers at once.
func (s *spinner) stage(name string, g *dag.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = fmt.Sprintf("%s (%s, %s)", name, plural(g.NodeCount(), "node"), plural(g.LayerCount(), "layer"))
}

func (s *spinner) line() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == "" {
		return s.task
	}
	return s.task + " · " + s.status
}

func (s *spinner) draw(frame string) {
	line := s.line()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(s.width, len([]rune(line))+2)
	fmt.Fprintf(s.w, "\r%s %s", styleSpinner.Render(frame), StyleDim.Render(line))
}

// halt stops the animation and clears the line. Repeated calls are no-ops.
func (s *spinner) halt() {
	s.once.Do(func() {
		close(s.quit)
		if !s.running {
			return
		}
		<-s.stopped
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.width > 0 {
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		}
	})
}
