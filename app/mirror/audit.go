package mirror

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// Auditor writes the line-oriented import trail. One line per stored item,
// plus standalone warning lines. The format is stable and greppable; empty
// lists render explicitly as [].
type Auditor struct {
	mu  sync.Mutex
	out io.Writer
}

func NewAuditor(out io.Writer) *Auditor {
	if out == nil {
		out = os.Stdout
	}
	return &Auditor{out: out}
}

// Record emits the summary line for a stored item.
func (a *Auditor) Record(title string, categories, tags, images []string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	fmt.Fprintf(a.out, "importado titulo: %q categorias: %s tags: %s imagenes: %s\n",
		title, renderList(categories), renderList(tags), renderList(images))
}

// Warn emits a standalone warning line, used when media resolution yields no
// image or the download fails.
func (a *Auditor) Warn(title, reason string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	fmt.Fprintf(a.out, "aviso titulo: %q motivo: %s\n", title, reason)
}

func renderList(values []string) string {
	if values == nil {
		values = []string{}
	}

	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}
