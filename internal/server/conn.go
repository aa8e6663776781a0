package server

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"9fans.net/go/plan9"
	"github.com/cptaffe/paintgrid/logger"
	"github.com/cptaffe/paintgrid/paint"
	"go.uber.org/zap"
)

type fid struct {
	ft   int
	x    int
	y    int
	open bool
	mode uint8
	buf  []byte // buffered read content (set at Topen)
	wbuf []byte // partial ctl line carried between writes
}

type conn struct {
	srv   *Server
	fids  map[uint32]*fid
	msize uint32
}

// Serve answers 9P requests read from rw until it fails or is closed.
// Requests are handled one at a time; several Serve calls may run at once.
func (s *Server) Serve(rw io.ReadWriter) {
	log := logger.L(s.ctx)
	cn := &conn{
		srv:   s,
		fids:  make(map[uint32]*fid),
		msize: 8192 + plan9.IOHDRSZ,
	}
	for {
		fc, err := plan9.ReadFcall(rw)
		if err != nil {
			if err != io.EOF {
				log.Debug("read fcall", zap.Error(err))
			}
			return
		}
		start := time.Now()
		resp := cn.dispatch(fc)
		if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
			log.Warn("slow dispatch",
				zap.String("type", fcallTypeName(fc.Type)),
				zap.Duration("elapsed", elapsed))
		}
		if err := plan9.WriteFcall(rw, resp); err != nil {
			log.Debug("write fcall", zap.Error(err))
			return
		}
	}
}

func rerr(tag uint16, msg string) *plan9.Fcall {
	return &plan9.Fcall{Type: plan9.Rerror, Tag: tag, Ename: msg}
}

func (cn *conn) dispatch(fc *plan9.Fcall) *plan9.Fcall {
	switch fc.Type {
	case plan9.Tversion:
		return cn.doVersion(fc)
	case plan9.Tauth:
		return rerr(fc.Tag, "no authentication required")
	case plan9.Tattach:
		return cn.doAttach(fc)
	case plan9.Tflush:
		return &plan9.Fcall{Type: plan9.Rflush, Tag: fc.Tag}
	case plan9.Twalk:
		return cn.doWalk(fc)
	case plan9.Topen:
		return cn.doOpen(fc)
	case plan9.Tcreate:
		return rerr(fc.Tag, "create not supported")
	case plan9.Tread:
		return cn.doRead(fc)
	case plan9.Twrite:
		return cn.doWrite(fc)
	case plan9.Tclunk:
		return cn.doClunk(fc)
	case plan9.Tremove:
		return rerr(fc.Tag, "remove not supported")
	case plan9.Tstat:
		return cn.doStat(fc)
	case plan9.Twstat:
		return rerr(fc.Tag, "wstat not supported")
	default:
		return rerr(fc.Tag, "unknown message type")
	}
}

func (cn *conn) doVersion(fc *plan9.Fcall) *plan9.Fcall {
	msize := fc.Msize
	if msize > cn.msize {
		msize = cn.msize
	}
	cn.msize = msize
	cn.fids = make(map[uint32]*fid)
	ver := "9P2000"
	if !strings.HasPrefix(fc.Version, "9P2000") {
		ver = "unknown"
	}
	return &plan9.Fcall{Type: plan9.Rversion, Tag: fc.Tag, Msize: msize, Version: ver}
}

func (cn *conn) doAttach(fc *plan9.Fcall) *plan9.Fcall {
	cn.fids[fc.Fid] = &fid{ft: ftRoot}
	return &plan9.Fcall{
		Type: plan9.Rattach,
		Tag:  fc.Tag,
		Qid:  cn.srv.makeQID(ftRoot, 0, 0),
	}
}

func (cn *conn) doWalk(fc *plan9.Fcall) *plan9.Fcall {
	f := cn.fids[fc.Fid]
	if f == nil {
		return rerr(fc.Tag, "fid unknown")
	}
	if f.open {
		return rerr(fc.Tag, "fid is open")
	}
	if fc.Newfid != fc.Fid && cn.fids[fc.Newfid] != nil {
		return rerr(fc.Tag, "fid in use")
	}

	curFt, curX, curY := f.ft, f.x, f.y
	wqids := make([]plan9.Qid, 0, len(fc.Wname))

	for i, name := range fc.Wname {
		nft, nx, ny, err := cn.srv.walkStep(curFt, curX, curY, name)
		if err != nil {
			if i == 0 {
				return rerr(fc.Tag, err.Error())
			}
			break
		}
		wqids = append(wqids, cn.srv.makeQID(nft, nx, ny))
		curFt, curX, curY = nft, nx, ny
	}

	if len(wqids) == len(fc.Wname) {
		cn.fids[fc.Newfid] = &fid{ft: curFt, x: curX, y: curY}
	}

	return &plan9.Fcall{Type: plan9.Rwalk, Tag: fc.Tag, Wqid: wqids}
}

func (cn *conn) doOpen(fc *plan9.Fcall) *plan9.Fcall {
	f := cn.fids[fc.Fid]
	if f == nil {
		return rerr(fc.Tag, "fid unknown")
	}
	if f.open {
		return rerr(fc.Tag, "already open")
	}
	s := cn.srv
	c := s.canvas
	mode := fc.Mode & 3

	var err error
	switch f.ft {
	case ftRoot, ftColumnDir, ftCellDir:
		if mode != plan9.OREAD {
			return rerr(fc.Tag, "is a directory")
		}
		f.buf = s.readDir(f.ft, f.x, f.y)

	case ftCtl, ftCellCtl:
		if mode != plan9.OWRITE {
			return rerr(fc.Tag, "permission denied")
		}

	case ftIndex, ftBrush, ftStyle, ftRender, ftCellColor, ftCellLayers:
		if mode != plan9.OREAD {
			return rerr(fc.Tag, "permission denied")
		}
		var text string
		switch f.ft {
		case ftIndex:
			text = formatIndex(s.registry)
		case ftStyle:
			text = string(c.style) + "\n"
		case ftBrush:
			var n int
			n, err = c.Brush()
			text = strconv.Itoa(n) + "\n"
		case ftRender:
			text, err = c.Render()
		case ftCellColor:
			var col paint.Color
			col, err = c.CellColor(f.x, f.y)
			text = col.String() + "\n"
		case ftCellLayers:
			var ls []*paint.Layer
			ls, err = c.CellLayers(f.x, f.y)
			text = formatNames(ls)
		}
		if err != nil {
			return rerr(fc.Tag, err.Error())
		}
		f.buf = []byte(text)
	}

	f.open = true
	f.mode = fc.Mode
	return &plan9.Fcall{
		Type:   plan9.Ropen,
		Tag:    fc.Tag,
		Qid:    s.makeQID(f.ft, f.x, f.y),
		Iounit: cn.msize - plan9.IOHDRSZ,
	}
}

func (cn *conn) doRead(fc *plan9.Fcall) *plan9.Fcall {
	f := cn.fids[fc.Fid]
	if f == nil {
		return rerr(fc.Tag, "fid unknown")
	}
	if !f.open {
		return rerr(fc.Tag, "not open")
	}
	off := fc.Offset
	n := fc.Count
	if off >= uint64(len(f.buf)) {
		return &plan9.Fcall{Type: plan9.Rread, Tag: fc.Tag, Data: nil}
	}
	end := off + uint64(n)
	if end > uint64(len(f.buf)) {
		end = uint64(len(f.buf))
	}
	return &plan9.Fcall{Type: plan9.Rread, Tag: fc.Tag, Data: f.buf[off:end]}
}

// doWrite runs each complete line written to a ctl file as it arrives; a
// trailing partial line waits for the next write or for clunk.
func (cn *conn) doWrite(fc *plan9.Fcall) *plan9.Fcall {
	f := cn.fids[fc.Fid]
	if f == nil {
		return rerr(fc.Tag, "fid unknown")
	}
	if !f.open {
		return rerr(fc.Tag, "not open")
	}
	if f.ft != ftCtl && f.ft != ftCellCtl {
		return rerr(fc.Tag, "not writable")
	}
	n := len(fc.Data)
	f.wbuf = append(f.wbuf, fc.Data...)
	for {
		nl := bytes.IndexByte(f.wbuf, '\n')
		if nl < 0 {
			break
		}
		cmd := strings.TrimSpace(string(f.wbuf[:nl]))
		f.wbuf = f.wbuf[nl+1:]
		if err := cn.exec(f, cmd); err != nil {
			// Drop the rest of a failed write.
			f.wbuf = nil
			return rerr(fc.Tag, err.Error())
		}
	}
	return &plan9.Fcall{Type: plan9.Rwrite, Tag: fc.Tag, Count: uint32(n)}
}

func (cn *conn) exec(f *fid, cmd string) error {
	if cmd == "" {
		return nil
	}
	if f.ft == ftCellCtl {
		return cn.srv.execCellCtl(f.x, f.y, cmd)
	}
	return cn.srv.execCtl(cmd)
}

func (cn *conn) doClunk(fc *plan9.Fcall) *plan9.Fcall {
	f := cn.fids[fc.Fid]
	delete(cn.fids, fc.Fid)
	if f != nil && f.open && len(f.wbuf) > 0 {
		// A final command without a trailing newline runs at clunk.
		if err := cn.exec(f, strings.TrimSpace(string(f.wbuf))); err != nil {
			logger.L(cn.srv.ctx).Warn("ctl at clunk", zap.Error(err))
		}
	}
	return &plan9.Fcall{Type: plan9.Rclunk, Tag: fc.Tag}
}

func (cn *conn) doStat(fc *plan9.Fcall) *plan9.Fcall {
	f := cn.fids[fc.Fid]
	if f == nil {
		return rerr(fc.Tag, "fid unknown")
	}
	d := cn.srv.makeDir(f.ft, f.x, f.y)
	stat, err := d.Bytes()
	if err != nil {
		return rerr(fc.Tag, err.Error())
	}
	return &plan9.Fcall{Type: plan9.Rstat, Tag: fc.Tag, Stat: stat}
}

func fcallTypeName(t uint8) string {
	switch t {
	case plan9.Tversion:
		return "Tversion"
	case plan9.Tauth:
		return "Tauth"
	case plan9.Tattach:
		return "Tattach"
	case plan9.Tflush:
		return "Tflush"
	case plan9.Twalk:
		return "Twalk"
	case plan9.Topen:
		return "Topen"
	case plan9.Tcreate:
		return "Tcreate"
	case plan9.Tread:
		return "Tread"
	case plan9.Twrite:
		return "Twrite"
	case plan9.Tclunk:
		return "Tclunk"
	case plan9.Tremove:
		return "Tremove"
	case plan9.Tstat:
		return "Tstat"
	case plan9.Twstat:
		return "Twstat"
	default:
		return fmt.Sprintf("T%d", t)
	}
}
