package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dendrascience/operalote/internal/fixture"
	"github.com/dendrascience/operalote/lot"
	"github.com/dendrascience/operalote/records"
	"github.com/dendrascience/operalote/report"
	"github.com/dendrascience/operalote/tree"
)

var year2023 = records.Year{Enabled: true, Value: "2023"}

// snapshot maps every non-hidden file under root to its content.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func buildLot(t *testing.T, root string, spec fixture.Spec) fixture.Lot {
	t.Helper()
	fx, err := fixture.Build(root, spec)
	require.NoError(t, err)
	return fx
}

func TestMigrate_EndToEnd(t *testing.T) {
	root := t.TempDir()
	fx := buildLot(t, root, fixture.Spec{Lot: "L03313", Count: 8, Echo: true})
	e := New(DefaultOptions(), nil)

	rep, err := e.Migrate(root, "L03313", "L05453", year2023)
	require.NoError(t, err)
	require.NoError(t, rep.Err())
	assert.Equal(t, 0, rep.Count(report.Collision))

	snap := snapshot(t, root)
	var want []string
	for i := 1; i <= 8; i++ {
		for _, side := range []string{"a", "b"} {
			want = append(want, fmt.Sprintf("L05453/0005453/AITs/0005453%06d%s.jpg", i, side))
		}
	}
	want = append(want, "L05453/0005453/AITs/md5sum.txt", "L05453/0005453/L05453.txt")
	got := make([]string, 0, len(snap))
	for p := range snap {
		got = append(got, p)
	}
	assert.ElementsMatch(t, want, got)

	assert.Equal(t, string(fx.Manifest), snap["L05453/0005453/AITs/md5sum.txt"])

	lines := strings.Split(strings.TrimSpace(snap["L05453/0005453/L05453.txt"]), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "0005453;R08/2023;PLACA ABC0008;0005453000008a.jpg;0005453000008b.jpg;6050", lines[7])

	violations, err := e.Verify(root, "L05453")
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestMigrate_Idempotent(t *testing.T) {
	tests := []struct {
		name string
		spec fixture.Spec
		old  string
		new  string
	}{
		{"lettered lot with echo", fixture.Spec{Lot: "L03313", Echo: true}, "L03313", "L05453"},
		{"bare lot", fixture.Spec{Lot: "0003313"}, "0003313", "0005453"},
		{"format standardization", fixture.Spec{Lot: "L03889", Echo: true}, "L03889", "L03889"},
		{"placeholder record file", fixture.Spec{Lot: "L08685", Placeholder: true}, "L08685", "L08685"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			buildLot(t, root, tt.spec)
			e := New(DefaultOptions(), nil)

			_, err := e.Migrate(root, tt.old, tt.new, year2023)
			require.NoError(t, err)
			first := snapshot(t, root)

			rep, err := e.Migrate(root, tt.new, tt.new, year2023)
			require.NoError(t, err)
			if diff := cmp.Diff(first, snapshot(t, root)); diff != "" {
				t.Errorf("second migration changed the tree (-first +second):\n%s", diff)
			}
			assert.Equal(t, 0, rep.Len(), "second run reported %v", rep.Entries())

			violations, err := e.Verify(root, lot.MustParse(tt.new).FullForm())
			require.NoError(t, err)
			assert.Empty(t, violations)
		})
	}
}

func TestMigrate_RecordConsistencyRoundTrip(t *testing.T) {
	root := t.TempDir()
	buildLot(t, root, fixture.Spec{Lot: "0003313", Count: 8})

	_, err := New(DefaultOptions(), nil).Migrate(root, "0003313", "0005453", year2023)
	require.NoError(t, err)

	snap := snapshot(t, root)
	assert.Contains(t, snap["0005453/0005453/0005453.txt"], ";0005453000008a.jpg;")
	assert.Contains(t, snap, "0005453/0005453/AITs/0005453000008a.jpg")
}

func TestMigrate_ZippedLot(t *testing.T) {
	tests := []struct {
		name    string
		wrapped bool
	}{
		{"contents zipped", false},
		{"lot folder zipped", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			fx := buildLot(t, root, fixture.Spec{Lot: "L03313", Zip: true, Wrapped: tt.wrapped})
			e := New(DefaultOptions(), nil)

			rep, err := e.Migrate(root, "L03313", "L05453", year2023)
			require.NoError(t, err)
			require.NoError(t, rep.Err())
			assert.Equal(t, 1, rep.Count(report.Extracted))
			assert.DirExists(t, filepath.Join(root, "L05453", "0005453", "AITs"))
			assert.NoDirExists(t, filepath.Join(root, "L05453", "L03313"))
			assert.FileExists(t, fx.Root)

			violations, err := e.Verify(root, "L05453")
			require.NoError(t, err)
			assert.Empty(t, violations)
		})
	}
}

func TestMigrate_FatalErrors(t *testing.T) {
	t.Run("invalid identifier", func(t *testing.T) {
		_, err := New(DefaultOptions(), nil).Migrate(t.TempDir(), "L03x13", "L05453", year2023)
		assert.ErrorIs(t, err, lot.ErrInvalidIdentifier)
	})

	t.Run("lot not found", func(t *testing.T) {
		_, err := New(DefaultOptions(), nil).Migrate(t.TempDir(), "L03313", "L05453", year2023)
		assert.ErrorIs(t, err, ErrLotNotFound)
	})

	t.Run("destination exists", func(t *testing.T) {
		root := t.TempDir()
		buildLot(t, root, fixture.Spec{Lot: "L03313"})
		buildLot(t, root, fixture.Spec{Lot: "L05453"})
		before := snapshot(t, root)

		_, err := New(DefaultOptions(), nil).Migrate(root, "L03313", "L05453", year2023)
		assert.ErrorIs(t, err, tree.ErrDestinationExists)
		assert.Empty(t, cmp.Diff(before, snapshot(t, root)))
	})

	t.Run("locked", func(t *testing.T) {
		root := t.TempDir()
		buildLot(t, root, fixture.Spec{Lot: "L03313"})
		fl := flock.New(filepath.Join(root, LockName))
		locked, err := fl.TryLock()
		require.NoError(t, err)
		require.True(t, locked)
		defer fl.Unlock()

		e := New(DefaultOptions(), nil)
		_, err = e.Migrate(root, "L03313", "L05453", year2023)
		assert.ErrorIs(t, err, ErrLotLocked)
		_, _, err = e.BulkEditCodes(root, "L03313", "6050", "5673")
		assert.ErrorIs(t, err, ErrLotLocked)
		assert.DirExists(t, filepath.Join(root, "L03313"))
	})
}

func TestMigrate_YearDisabled(t *testing.T) {
	root := t.TempDir()
	buildLot(t, root, fixture.Spec{Lot: "L03313", Count: 1})

	_, err := New(DefaultOptions(), nil).Migrate(root, "L03313", "L05453", records.Year{})
	require.NoError(t, err)
	assert.Equal(t,
		"0005453;R01;PLACA ABC0001;0005453000001a.jpg;0005453000001b.jpg;5673\n",
		snapshot(t, root)["L05453/0005453/L05453.txt"])
}

func TestCompareManifests(t *testing.T) {
	rep := report.New("", "")
	before := []tree.ManifestDigest{
		{Path: "a/md5sum.txt", Name: "md5sum.txt", Hash: "h1"},
		{Path: "b/md5sum.txt", Name: "md5sum.txt", Hash: "h2"},
	}
	after := []tree.ManifestDigest{
		{Path: "c/md5sum.txt", Name: "md5sum.txt", Hash: "h1"},
	}
	New(DefaultOptions(), nil).compareManifests(before, after, rep)
	require.Equal(t, 1, rep.Count(report.Failed))
	assert.ErrorIs(t, rep.Err(), ErrManifestChanged)
	assert.Equal(t, "b/md5sum.txt", rep.Entries(report.Failed)[0].Path)
}

func TestTallyAndBulkEditCodes(t *testing.T) {
	root := t.TempDir()
	buildLot(t, root, fixture.Spec{Lot: "L03313", Count: 6})
	e := New(DefaultOptions(), nil)

	before, err := e.Tally(root, "L03313")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"5673": 2, "6050": 2, "7587": 2}, before)

	files, lines, err := e.BulkEditCodes(root, "L03313", "6050", "7587")
	require.NoError(t, err)
	assert.Equal(t, 1, files)
	assert.Equal(t, 2, lines)

	after, err := e.Tally(root, "L03313")
	require.NoError(t, err)
	assert.Equal(t, 0, after["6050"])
	assert.Equal(t, before["6050"]+before["7587"], after["7587"])

	_, err = e.Tally(root, "L09999")
	assert.ErrorIs(t, err, ErrLotNotFound)
}

func TestVerify_ReportsViolations(t *testing.T) {
	root := t.TempDir()
	lotDir := filepath.Join(root, "L05453")
	write := func(rel, content string) {
		path := filepath.Join(lotDir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("0005453/AITs/0005453000001a.jpg", "a")
	write("0005453/AITs/05453000002a.jpg", "b")
	require.NoError(t, os.MkdirAll(filepath.Join(lotDir, "003313"), 0o755))
	write("0005453/L05453.txt", "0005453;R01;0005453000001a.jpg;5673\n0003313;R02;0005453000009a.jpg;5673\n")

	e := New(DefaultOptions(), nil)
	violations, err := e.Verify(root, "L05453")
	require.NoError(t, err)

	counts := make(map[Invariant]int)
	for _, v := range violations {
		counts[v.Invariant]++
	}
	assert.Equal(t, map[Invariant]int{
		SingleRecordDir:   2,
		CanonicalAssets:   1,
		ConsistentRecords: 2,
	}, counts)

	missing, err := e.Verify(root, "L09999")
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, RootName, missing[0].Invariant)
}
