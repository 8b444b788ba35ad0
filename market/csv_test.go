package market

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ulikunitz/xz"
)

const sampleCSV = `date,open,high,low,close,volume
2024-01-03,10.2,10.6,10.1,10.5,120000
2024-01-02,10.0,10.4,9.9,10.2,100000
2024-01-04,10.5,10.9,10.4,10.8,150000
`

func TestReadCSVSortsAndParses(t *testing.T) {
	t.Parallel()

	h, err := ReadCSV(strings.NewReader(sampleCSV))
	assert.NoError(t, err)
	assert.Len(t, h, 3)

	// Rows arrive out of order, history must be ascending.
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), h[0].Date)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), h[2].Date)
	assert.InDelta(t, 10.2, h[0].Close, 1e-9)
	assert.InDelta(t, 150000.0, h[2].Volume, 1e-9)
}

func TestReadCSVRejectsBadField(t *testing.T) {
	t.Parallel()

	_, err := ReadCSV(strings.NewReader("2024-01-02,10,10,10,abc,100\n"))
	assert.Error(t, err)
}

func TestReadCSVRejectsDuplicateDates(t *testing.T) {
	t.Parallel()

	dup := "2024-01-02,10,10,10,10,100\n2024-01-02,11,11,11,11,100\n"
	_, err := ReadCSV(strings.NewReader(dup))
	assert.Error(t, err)
}

func TestHistorySince(t *testing.T) {
	t.Parallel()

	h, err := ReadCSV(strings.NewReader(sampleCSV))
	assert.NoError(t, err)

	got := h.Since(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	assert.Len(t, got, 2)
	assert.InDelta(t, 10.5, got[0].Close, 1e-9)
}

func TestDirProviderPlainAndXZ(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "600519.csv"), []byte(sampleCSV), 0644))

	xf, err := os.Create(filepath.Join(dir, "000001.csv.xz"))
	assert.NoError(t, err)
	xw, err := xz.NewWriter(xf)
	assert.NoError(t, err)
	_, err = xw.Write([]byte(sampleCSV))
	assert.NoError(t, err)
	assert.NoError(t, xw.Close())
	assert.NoError(t, xf.Close())

	p := NewDirProvider(dir)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	plain, err := p.History("600519", start)
	assert.NoError(t, err)
	assert.Len(t, plain, 3)

	compressed, err := p.History("000001", start)
	assert.NoError(t, err)
	assert.Len(t, compressed, 3)
	assert.InDelta(t, 10.8, compressed[2].Close, 1e-9)
}

func TestDirProviderMissingSymbolIsEmptyNotError(t *testing.T) {
	t.Parallel()

	p := NewDirProvider(t.TempDir())
	h, err := p.History("999999", time.Now())
	assert.NoError(t, err)
	assert.Empty(t, h)
}
