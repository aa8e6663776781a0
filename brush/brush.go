// Package brush is a client library for the paintgrid file server.
//
// The server is a 9P file server that owns a grid of layer stores and
// serves its state as files.  Typical usage for a painting tool:
//
//	b, err := brush.Open()
//	if err != nil { ... }
//	b.Paint("red", 3, 4)
//	rows, err := b.Render()
//
// Callers that manage their own 9P connection can use the function
// helpers (Ctl, Render, CellColor, ...) with any *client.Fsys.
package brush

import (
	"fmt"
	"io"
	"os/user"
	"strconv"
	"strings"
	"sync"

	"9fans.net/go/plan9"
	"9fans.net/go/plan9/client"

	"github.com/cptaffe/paintgrid/paint"
)

// Service is the name the server posts itself under in the namespace.
const Service = "paintgrid"

// Brush is a client handle for the paintgrid server.  Handles from Open
// share a single 9P connection across the process; it is re-established
// on first use after any error.  Handles from New use the caller's
// connection as is.
type Brush struct {
	mount func() (*client.Fsys, error)
	reset func()
}

// ---- connection management ----

// dial connects to the posted service.
var dial = func() (*client.Conn, error) {
	return client.DialService(Service)
}

var (
	connMu sync.Mutex
	conn   *client.Conn
	fsys   *client.Fsys
)

// currentFsys returns the cached connection to paintgrid, connecting on
// first use or after a previous connection error has been reset.
func currentFsys() (*client.Fsys, error) {
	connMu.Lock()
	defer connMu.Unlock()
	if fsys != nil {
		return fsys, nil
	}
	c, err := dial()
	if err != nil {
		return nil, err
	}
	fs, err := c.Attach(nil, username(), "")
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("attach %s: %w", Service, err)
	}
	conn, fsys = c, fs
	return fs, nil
}

// resetFsys closes the cached connection so the next call to currentFsys
// reconnects.
func resetFsys() {
	connMu.Lock()
	defer connMu.Unlock()
	if conn != nil {
		conn.Close()
	}
	conn, fsys = nil, nil
}

func username() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "none"
}

// Open returns a Brush on the shared connection to the posted paintgrid
// service.  Returns an error only if the server is unreachable.
func Open() (*Brush, error) {
	if _, err := currentFsys(); err != nil {
		return nil, err
	}
	return &Brush{mount: currentFsys, reset: resetFsys}, nil
}

// New returns a Brush that talks over fs and never reconnects.
func New(fs *client.Fsys) *Brush {
	return &Brush{mount: func() (*client.Fsys, error) { return fs, nil }}
}

// do runs fn against the current connection.  On an Open handle a failure
// drops the shared connection.
func (b *Brush) do(fn func(*client.Fsys) error) error {
	fs, err := b.mount()
	if err != nil {
		return err
	}
	if err := fn(fs); err != nil {
		if b.reset != nil {
			b.reset()
		}
		return err
	}
	return nil
}

// Paint paints layer name at (x, y) with the server's current brush.
func (b *Brush) Paint(name string, x, y int) error {
	return b.do(func(fs *client.Fsys) error {
		return Ctl(fs, fmt.Sprintf("paint %s %d %d", name, x, y))
	})
}

// Erase erases layer name around (x, y) with the server's current brush.
func (b *Brush) Erase(name string, x, y int) error {
	return b.do(func(fs *client.Fsys) error {
		return Ctl(fs, fmt.Sprintf("erase %s %d %d", name, x, y))
	})
}

// Special runs the store special on every cell.
func (b *Brush) Special() error {
	return b.do(func(fs *client.Fsys) error { return Ctl(fs, "special") })
}

// Resize changes the brush size: "+" grows it, "-" shrinks it, and a
// number sets it.
func (b *Brush) Resize(arg string) error {
	return b.do(func(fs *client.Fsys) error { return Ctl(fs, "brush "+arg) })
}

// Size returns the server's brush size.
func (b *Brush) Size() (int, error) {
	var n int
	err := b.do(func(fs *client.Fsys) (err error) {
		n, err = Size(fs)
		return err
	})
	return n, err
}

// Render returns the whole grid, indexed [y][x].
func (b *Brush) Render() ([][]paint.Color, error) {
	var rows [][]paint.Color
	err := b.do(func(fs *client.Fsys) (err error) {
		rows, err = Render(fs)
		return err
	})
	return rows, err
}

// Cell returns the colour and layer names of (x, y).
func (b *Brush) Cell(x, y int) (paint.Color, []string, error) {
	var (
		col   paint.Color
		names []string
	)
	err := b.do(func(fs *client.Fsys) (err error) {
		if col, err = CellColor(fs, x, y); err != nil {
			return err
		}
		names, err = CellLayers(fs, x, y)
		return err
	})
	return col, names, err
}

// Index returns the registered layers with their order keys.
func (b *Brush) Index() ([]IndexEntry, error) {
	var idx []IndexEntry
	err := b.do(func(fs *client.Fsys) (err error) {
		idx, err = Index(fs)
		return err
	})
	return idx, err
}

// ---- functional helpers (for callers that manage their own fs connection) ----

func readAll(fs *client.Fsys, name string) (string, error) {
	fid, err := fs.Open(name, plan9.OREAD)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", name, err)
	}
	defer fid.Close()
	data, err := io.ReadAll(fid)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

func writeLine(fs *client.Fsys, name, cmd string) error {
	fid, err := fs.Open(name, plan9.OWRITE)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer fid.Close()
	if _, err := fid.Write([]byte(cmd + "\n")); err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}
	return nil
}

// Ctl writes one command to the root ctl file.
func Ctl(fs *client.Fsys, cmd string) error {
	return writeLine(fs, "ctl", cmd)
}

// CellCtl writes one command to the ctl file of (x, y).
func CellCtl(fs *client.Fsys, x, y int, cmd string) error {
	return writeLine(fs, fmt.Sprintf("%d/%d/ctl", x, y), cmd)
}

// Render reads and parses the render file.
func Render(fs *client.Fsys) ([][]paint.Color, error) {
	text, err := readAll(fs, "render")
	if err != nil {
		return nil, err
	}
	return paint.ParseRender(text)
}

// CellColor reads the composed colour of (x, y).
func CellColor(fs *client.Fsys, x, y int) (paint.Color, error) {
	text, err := readAll(fs, fmt.Sprintf("%d/%d/color", x, y))
	if err != nil {
		return paint.Color{}, err
	}
	return paint.ParseColor(strings.TrimSpace(text))
}

// CellLayers reads the layer names of (x, y) in application order.
func CellLayers(fs *client.Fsys, x, y int) ([]string, error) {
	text, err := readAll(fs, fmt.Sprintf("%d/%d/layers", x, y))
	if err != nil {
		return nil, err
	}
	return strings.Fields(text), nil
}

// IndexEntry is one line of the layer index.
type IndexEntry struct {
	Key  int
	Name string
}

// Index reads the registered layers with their order keys.
func Index(fs *client.Fsys) ([]IndexEntry, error) {
	text, err := readAll(fs, "index")
	if err != nil {
		return nil, err
	}
	var out []IndexEntry
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		key, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("index line %q: %w", line, err)
		}
		out = append(out, IndexEntry{Key: key, Name: fields[1]})
	}
	return out, nil
}

// Size reads the brush size.
func Size(fs *client.Fsys) (int, error) {
	text, err := readAll(fs, "brush")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(text))
}

// Style reads the grid's draw style.
func Style(fs *client.Fsys) (string, error) {
	text, err := readAll(fs, "style")
	return strings.TrimSpace(text), err
}
