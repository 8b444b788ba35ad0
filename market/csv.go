package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

// dateLayout is the canonical date format for daily bar files.
const dateLayout = "2006-01-02"

// ReadCSV parses daily bar rows from r:
//
//	date,open,high,low,close,volume
//
// where date is YYYY-MM-DD. A header row ("date,...") is allowed.
// Empty and short rows are skipped; malformed fields are an error.
func ReadCSV(r io.Reader) (History, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var h History
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) < 6 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(row[0]), "date") {
			continue
		}

		b, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		h = append(h, b)
	}

	h.Sort()
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

func parseBarRow(row []string) (Bar, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(row[0]))
	if err != nil {
		return Bar{}, fmt.Errorf("bad date %q: %w", row[0], err)
	}

	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return Bar{}, fmt.Errorf("bad field %q: %w", row[i+1], err)
		}
		vals[i] = v
	}

	return Bar{
		Date:   Day(d),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

// LoadFile reads a daily bar history from a .csv or .csv.xz file.
func LoadFile(path string) (History, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xz reader %s: %w", path, err)
		}
		r = xr
	}

	h, err := ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return h, nil
}

// DirProvider serves histories from per-symbol files in a directory:
// <dir>/<SYMBOL>.csv or <dir>/<SYMBOL>.csv.xz (plain file wins when both
// exist). It satisfies Provider.
type DirProvider struct {
	Dir string
}

func NewDirProvider(dir string) *DirProvider {
	return &DirProvider{Dir: dir}
}

// History loads the symbol's file and returns bars with date >= start.
// A missing file yields an empty history, not an error: in portfolio runs
// one absent symbol must not abort the whole run.
func (p *DirProvider) History(symbol string, start time.Time) (History, error) {
	for _, name := range []string{symbol + ".csv", symbol + ".csv.xz"} {
		path := filepath.Join(p.Dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		h, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("history %s: %w", symbol, err)
		}
		return h.Since(Day(start)), nil
	}
	return nil, nil
}
