// Command paint drives a running paintgrid server.
//
//	paint paint NAME X Y
//	paint erase NAME X Y
//	paint special
//	paint brush [+|-|N]
//	paint render
//	paint cell X Y
//	paint index
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cptaffe/paintgrid/brush"
	"github.com/cptaffe/paintgrid/paint"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: paint [-v] paint|erase NAME X Y | special | brush [+|-|N] | render | cell X Y | index\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	cfg := zap.NewDevelopmentConfig()
	if !*verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer l.Sync() //nolint:errcheck

	b, err := brush.Open()
	if err != nil {
		l.Fatal("open", zap.String("service", brush.Service), zap.Error(err))
	}
	l.Debug("connected", zap.String("service", brush.Service), zap.Strings("args", args))

	if err := run(b, args); err != nil {
		l.Fatal(args[0], zap.Error(err))
	}
}

func run(b *brush.Brush, args []string) error {
	switch args[0] {
	case "paint", "erase":
		if len(args) != 4 {
			usage()
		}
		x, y, err := xy(args[2], args[3])
		if err != nil {
			return err
		}
		if args[0] == "paint" {
			return b.Paint(args[1], x, y)
		}
		return b.Erase(args[1], x, y)

	case "special":
		return b.Special()

	case "brush":
		if len(args) == 2 {
			return b.Resize(args[1])
		}
		n, err := b.Size()
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil

	case "render":
		rows, err := b.Render()
		if err != nil {
			return err
		}
		fmt.Print(paint.Format(rows))
		return nil

	case "cell":
		if len(args) != 3 {
			usage()
		}
		x, y, err := xy(args[1], args[2])
		if err != nil {
			return err
		}
		col, names, err := b.Cell(x, y)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", col, strings.Join(names, " "))
		return nil

	case "index":
		idx, err := b.Index()
		if err != nil {
			return err
		}
		for _, e := range idx {
			fmt.Printf("%d %s\n", e.Key, e.Name)
		}
		return nil
	}
	usage()
	return nil
}

func xy(xs, ys string) (int, int, error) {
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
