package server

import (
	"fmt"
	"strconv"
	"strings"
)

// execCtl runs one command written to the root ctl file:
//
//	paint NAME X Y
//	erase NAME X Y
//	special
//	brush + | brush - | brush N
//	time T
func (s *Server) execCtl(line string) error {
	c := s.canvas
	f := strings.Fields(line)
	switch f[0] {
	case "paint", "erase":
		if len(f) != 4 {
			return fmt.Errorf("usage: %s NAME X Y", f[0])
		}
		x, y, err := parseXY(f[2], f[3])
		if err != nil {
			return err
		}
		if f[0] == "paint" {
			_, err = c.Paint(f[1], x, y)
		} else {
			_, err = c.Erase(f[1], x, y)
		}
		return err
	case "special":
		if len(f) != 1 {
			return fmt.Errorf("usage: special")
		}
		return c.Special()
	case "brush":
		if len(f) != 2 {
			return fmt.Errorf("usage: brush +|-|N")
		}
		switch f[1] {
		case "+":
			_, err := c.IncreaseBrush()
			return err
		case "-":
			_, err := c.DecreaseBrush()
			return err
		}
		n, err := strconv.Atoi(f[1])
		if err != nil {
			return fmt.Errorf("bad brush size %q", f[1])
		}
		return c.SetBrush(n)
	case "time":
		if len(f) != 2 {
			return fmt.Errorf("usage: time T")
		}
		t, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			return fmt.Errorf("bad time %q", f[1])
		}
		return c.SetTime(t)
	}
	return fmt.Errorf("unknown ctl command: %s", f[0])
}

// execCellCtl runs one command written to a cell's ctl file:
//
//	add NAME
//	erase NAME
//	special
func (s *Server) execCellCtl(x, y int, line string) error {
	c := s.canvas
	f := strings.Fields(line)
	switch f[0] {
	case "add", "erase":
		if len(f) != 2 {
			return fmt.Errorf("usage: %s NAME", f[0])
		}
		var err error
		if f[0] == "add" {
			_, err = c.CellAdd(f[1], x, y)
		} else {
			_, err = c.CellErase(f[1], x, y)
		}
		return err
	case "special":
		return c.CellSpecial(x, y)
	}
	return fmt.Errorf("unknown ctl command: %s", f[0])
}

func parseXY(xs, ys string) (int, int, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return 0, 0, fmt.Errorf("bad x %q", xs)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, fmt.Errorf("bad y %q", ys)
	}
	return x, y, nil
}
