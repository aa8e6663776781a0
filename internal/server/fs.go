package server

import (
	"errors"
	"strconv"
	"time"

	"9fans.net/go/plan9"
)

// Sentinel walk errors.
var (
	ErrNoFile = errors.New("no such file")
	ErrNotDir = errors.New("not a directory")
)

// File-type constants encoded into Qid.Path.
//
//	/ctl /index /brush /style /render
//	/<x>/<y>/{color,layers,ctl}
const (
	ftRoot       = 0
	ftCtl        = 1
	ftIndex      = 2
	ftBrush      = 3
	ftStyle      = 4
	ftRender     = 5
	ftColumnDir  = 6
	ftCellDir    = 7
	ftCellColor  = 8
	ftCellLayers = 9
	ftCellCtl    = 10
)

func isDir(ft int) bool {
	return ft == ftRoot || ft == ftColumnDir || ft == ftCellDir
}

// MaxSide is the largest grid width or height whose cells fit the 24-bit
// coordinates of a Qid path.
const MaxSide = 1 << 24

// makePath encodes (ft, x, y) into a Qid.Path: [ft:16][x:24][y:24].
func makePath(ft, x, y int) uint64 {
	return (uint64(ft) << 48) | (uint64(x) << 24) | uint64(y)
}

func (s *Server) makeQID(ft, x, y int) plan9.Qid {
	qt := uint8(plan9.QTFILE)
	if isDir(ft) {
		qt = plan9.QTDIR
	}
	return plan9.Qid{Type: qt, Path: makePath(ft, x, y)}
}

func (s *Server) makeDir(ft, x, y int) plan9.Dir {
	now := uint32(time.Now().Unix())
	var name string
	var mode plan9.Perm
	if isDir(ft) {
		mode = plan9.DMDIR | 0555
	}
	switch ft {
	case ftRoot:
		name = "/"
	case ftCtl:
		name = "ctl"
		mode = 0222
	case ftIndex:
		name = "index"
		mode = 0444
	case ftBrush:
		name = "brush"
		mode = 0444
	case ftStyle:
		name = "style"
		mode = 0444
	case ftRender:
		name = "render"
		mode = 0444
	case ftColumnDir:
		name = strconv.Itoa(x)
	case ftCellDir:
		name = strconv.Itoa(y)
	case ftCellColor:
		name = "color"
		mode = 0444
	case ftCellLayers:
		name = "layers"
		mode = 0444
	case ftCellCtl:
		name = "ctl"
		mode = 0222
	}
	return plan9.Dir{
		Qid:   s.makeQID(ft, x, y),
		Mode:  mode,
		Atime: now, Mtime: now,
		Name: name,
		Uid:  "none", Gid: "none", Muid: "none",
	}
}

// walkStep advances one path component from (ft, x, y).
func (s *Server) walkStep(ft, x, y int, name string) (int, int, int, error) {
	if name == ".." {
		switch ft {
		case ftRoot, ftColumnDir:
			return ftRoot, 0, 0, nil
		case ftCellDir:
			return ftColumnDir, x, 0, nil
		default:
			return 0, 0, 0, ErrNotDir
		}
	}
	c := s.canvas
	switch ft {
	case ftRoot:
		switch name {
		case "ctl":
			return ftCtl, 0, 0, nil
		case "index":
			return ftIndex, 0, 0, nil
		case "brush":
			return ftBrush, 0, 0, nil
		case "style":
			return ftStyle, 0, 0, nil
		case "render":
			return ftRender, 0, 0, nil
		}
		n, err := strconv.Atoi(name)
		if err != nil || n < 0 || n >= c.width {
			return 0, 0, 0, ErrNoFile
		}
		return ftColumnDir, n, 0, nil
	case ftColumnDir:
		n, err := strconv.Atoi(name)
		if err != nil || n < 0 || n >= c.height {
			return 0, 0, 0, ErrNoFile
		}
		return ftCellDir, x, n, nil
	case ftCellDir:
		switch name {
		case "color":
			return ftCellColor, x, y, nil
		case "layers":
			return ftCellLayers, x, y, nil
		case "ctl":
			return ftCellCtl, x, y, nil
		}
		return 0, 0, 0, ErrNoFile
	default:
		return 0, 0, 0, ErrNotDir
	}
}

// readDir returns marshalled plan9.Dir entries for the children of ft.
func (s *Server) readDir(ft, x, y int) []byte {
	var dirs []plan9.Dir
	switch ft {
	case ftRoot:
		for _, f := range []int{ftCtl, ftIndex, ftBrush, ftStyle, ftRender} {
			dirs = append(dirs, s.makeDir(f, 0, 0))
		}
		for i := 0; i < s.canvas.width; i++ {
			dirs = append(dirs, s.makeDir(ftColumnDir, i, 0))
		}
	case ftColumnDir:
		for j := 0; j < s.canvas.height; j++ {
			dirs = append(dirs, s.makeDir(ftCellDir, x, j))
		}
	case ftCellDir:
		dirs = append(dirs, s.makeDir(ftCellColor, x, y))
		dirs = append(dirs, s.makeDir(ftCellLayers, x, y))
		dirs = append(dirs, s.makeDir(ftCellCtl, x, y))
	}
	var buf []byte
	for _, d := range dirs {
		if b, err := d.Bytes(); err == nil {
			buf = append(buf, b...)
		}
	}
	return buf
}
