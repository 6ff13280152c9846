package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestReport_CountsAndFilters(t *testing.T) {
	r := New("L03313", "L05453")
	r.Add(Entry{Kind: Renamed, Step: StepRestructure, Path: "L03313", Target: "L05453"})
	r.Add(Entry{Kind: Collision, Step: StepRename, Path: "a.jpg", Target: "b.jpg"})
	r.Add(Entry{Kind: Renamed, Step: StepRename, Path: "c.jpg", Target: "d.jpg"})
	r.Add(Entry{Kind: Malformed, Step: StepRewrite, Path: "L05453.txt", Detail: "line 3"})

	assert.Equal(t, 4, r.Len())
	assert.Equal(t, 2, r.Count(Renamed))
	assert.Len(t, r.Entries(Collision, Malformed), 2)
	assert.Len(t, r.Entries(), 4)
	assert.NoError(t, r.Err())
	assert.NotEmpty(t, r.RunID)
}

func TestReport_IterateStopsEarly(t *testing.T) {
	r := New("a", "b")
	for range 5 {
		r.Add(Entry{Kind: Renamed})
	}
	seen := 0
	for range r.Iterate {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestReport_ErrAggregatesFailures(t *testing.T) {
	r := New("a", "b")
	errA := errors.New("permission denied")
	errB := errors.New("disk full")
	r.Fail(StepRename, "x.jpg", errA)
	r.Add(Entry{Kind: Renamed, Path: "ok.jpg"})
	r.Fail(StepRewrite, "y.txt", errB)

	err := r.Err()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestReport_Save(t *testing.T) {
	r := New("L03313", "L05453")
	r.Fail(StepRename, "x.jpg", errors.New("boom"))
	r.Finish()

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, r.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		RunID   string `json:"run_id"`
		From    string `json:"from"`
		Entries []struct {
			Kind  string `json:"kind"`
			Path  string `json:"path"`
			Error string `json:"error"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r.RunID, decoded.RunID)
	assert.Equal(t, "L03313", decoded.From)
	require.Len(t, decoded.Entries, 1)
	assert.Equal(t, "failed", decoded.Entries[0].Kind)
	assert.Equal(t, "boom", decoded.Entries[0].Error)
}
