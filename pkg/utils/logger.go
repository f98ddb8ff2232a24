package utils

import (
	"io"
	"sync"

	"github.com/fatih/color"
)

var colors = []color.Attribute{color.FgCyan, color.FgGreen, color.FgYellow, color.FgMagenta, color.FgWhite}

var (
	mu    sync.Mutex
	index = -1
)

const MaxNameLength = 32

// ColorLogger is an io.Writer that prefixes every write with a colored
// name tag, so interleaved output from concurrent file validations
// stays attributable.
type ColorLogger struct {
	name   string
	writer io.Writer
	c      color.Attribute
}

// NewColorLogger returns a writer tagged with name. When newColor is
// true the logger claims the next color in the palette; pass false to
// share the color of the previous logger (say, stdout and stderr of
// the same file).
func NewColorLogger(name string, writer io.Writer, newColor bool) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	if newColor || index < 0 {
		index = (index + 1) % len(colors)
	}

	if len(name) > MaxNameLength {
		name = "..." + name[len(name)-MaxNameLength+3:]
	}

	return &ColorLogger{
		name:   name,
		writer: writer,
		c:      colors[index],
	}
}

func (c *ColorLogger) Write(p []byte) (int, error) {
	out := color.New(c.c)
	out.Fprint(c.writer, c.name, " | ")
	return out.Fprintf(c.writer, "%s", p)
}
