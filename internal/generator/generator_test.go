package generator

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mdxgen/internal/config"
	"github.com/example/mdxgen/internal/errors"
	"github.com/example/mdxgen/internal/model"
	"github.com/example/mdxgen/internal/nav"
	"github.com/example/mdxgen/internal/render"
)

// copySample copies testdata/sample into a temporary directory and returns
// it with the sample package configuration.
func copySample(t *testing.T) (string, config.Package) {
	t.Helper()
	src := filepath.Join("..", "..", "testdata", "sample")
	dst := t.TempDir()
	err := filepath.WalkDir(src, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if de.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dst, ".mdxgen.yml"))
	require.NoError(t, err)
	pkg, err := cfg.Package("counter-kit")
	require.NoError(t, err)
	return dst, *pkg
}

func newSampleGenerator(dir string, pkg config.Package, check bool, diff *bytes.Buffer) *Generator {
	opts := Options{BaseDir: dir, Navigation: filepath.Join(dir, "docs.json"), Check: check}
	if diff != nil {
		opts.Diff = diff
	}
	return New(pkg, opts)
}

func TestRunWritesDocumentsAndNavigation(t *testing.T) {
	dir, pkg := copySample(t)

	summary, err := newSampleGenerator(dir, pkg, false, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Files)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Invalid)
	assert.Equal(t, 1, summary.Counts[model.CategoryClasses])
	assert.Equal(t, 2, summary.Counts[model.CategoryHooks])
	assert.Equal(t, 1, summary.Counts[model.CategoryComponents])
	assert.Equal(t, 1, summary.Counts[model.CategoryInterfaces])
	assert.Equal(t, 1, summary.Counts[model.CategoryEnums])
	assert.Equal(t, 1, summary.Counts[model.CategoryConstants])
	assert.Zero(t, summary.Counts[model.CategoryFunctions])

	out := filepath.Join(dir, "docs", "api")
	for _, rel := range []string{
		"index.mdx",
		"classes/counter.mdx",
		"hooks/use-counter.mdx",
		"hooks/use-count.mdx",
		"components/badge.mdx",
		"interfaces/counter-options.mdx",
		"enums/direction.mdx",
		"constants/max-count.mdx",
	} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(rel)))
	}
	assert.NoFileExists(t, filepath.Join(out, "functions", "test-only.mdx"))
	assert.Len(t, summary.Written, 8)

	counter, err := os.ReadFile(filepath.Join(out, "classes", "counter.mdx"))
	require.NoError(t, err)
	assert.Contains(t, string(counter), "### `increment(): number`")
	assert.NotContains(t, string(counter), "notify")

	manifest, err := os.ReadFile(filepath.Join(dir, "docs.json"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), `"group": "Counter Kit"`)
	assert.Contains(t, string(manifest), `"docs/api/index"`)
	assert.Contains(t, string(manifest), `"docs/api/classes/counter"`)
	assert.Equal(t, 1, bytes.Count(manifest, []byte(`"source": "/old"`)))
	assert.Contains(t, string(manifest), `"destination": "/docs/api/classes/counter"`)
}

func TestRunIsIdempotent(t *testing.T) {
	dir, pkg := copySample(t)
	ctx := context.Background()

	_, err := newSampleGenerator(dir, pkg, false, nil).Run(ctx)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, "docs", "api", "index.mdx"))
	require.NoError(t, err)
	firstManifest, err := os.ReadFile(filepath.Join(dir, "docs.json"))
	require.NoError(t, err)

	summary, err := newSampleGenerator(dir, pkg, false, nil).Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, summary.Written)
	assert.Len(t, summary.Unchanged, 8)

	second, err := os.ReadFile(filepath.Join(dir, "docs", "api", "index.mdx"))
	require.NoError(t, err)
	secondManifest, err := os.ReadFile(filepath.Join(dir, "docs.json"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
	assert.Equal(t, string(firstManifest), string(secondManifest))
}

func TestCheckReportsDriftWithoutWriting(t *testing.T) {
	dir, pkg := copySample(t)
	ctx := context.Background()

	var diff bytes.Buffer
	summary, err := newSampleGenerator(dir, pkg, true, &diff).Run(ctx)
	require.NoError(t, err)
	assert.Len(t, summary.Drift, 9)
	assert.Empty(t, summary.Written)
	assert.NoDirExists(t, filepath.Join(dir, "docs"))
	assert.Contains(t, diff.String(), "+++ "+filepath.Join(dir, "docs", "api", "index.mdx")+" (generated)")
	assert.Contains(t, diff.String(), `+          "docs/api/index",`)

	_, err = newSampleGenerator(dir, pkg, false, nil).Run(ctx)
	require.NoError(t, err)

	diff.Reset()
	summary, err = newSampleGenerator(dir, pkg, true, &diff).Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, summary.Drift)
	assert.Empty(t, diff.String())
}

func TestRunLayoutOverride(t *testing.T) {
	dir, pkg := copySample(t)
	g := New(pkg, Options{BaseDir: dir, Layout: config.LayoutAggregate})

	summary, err := g.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, summary.Written, 7)
	assert.FileExists(t, filepath.Join(dir, "docs", "api", "classes.mdx"))
	assert.FileExists(t, filepath.Join(dir, "docs", "api", "hooks.mdx"))
}

func TestRunUnknownLayout(t *testing.T) {
	dir, pkg := copySample(t)
	_, err := New(pkg, Options{BaseDir: dir, Layout: "single"}).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.KindConfig, errors.GetKind(err))
}

func TestRunMissingManifestIsFatal(t *testing.T) {
	dir, pkg := copySample(t)
	_, err := New(pkg, Options{BaseDir: dir, Navigation: filepath.Join(dir, "missing.json")}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}

func TestRunMissingSourcesIsNotFatal(t *testing.T) {
	dir, pkg := copySample(t)
	pkg.SourcePaths = []string{"src", "does-not-exist"}

	summary, err := New(pkg, Options{BaseDir: dir}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Missing)
	assert.Equal(t, 4, summary.Files)
}

func TestNavEntry(t *testing.T) {
	pkg := config.Package{
		Name:        "kit",
		DisplayName: "Kit",
		OutputPath:  "docs/api",
		Navigation:  config.Navigation{Icon: "cube", Groups: true},
	}
	docs := []render.Document{
		{Path: render.IndexFile},
		{Path: "classes/counter.mdx"},
		{Path: "hooks/use-counter.mdx"},
		{Path: "classes/timer.mdx"},
		{Path: "constants.mdx"},
	}

	want := nav.Entry{
		Section:    "Kit",
		Icon:       "cube",
		OutputPath: "docs/api",
		Pages:      []string{"docs/api/constants"},
		Groups: []nav.Group{
			{Title: "Classes", Pages: []string{"docs/api/classes/counter", "docs/api/classes/timer"}},
			{Title: "Hooks", Pages: []string{"docs/api/hooks/use-counter"}},
		},
	}
	if diff := cmp.Diff(want, NavEntry(pkg, docs)); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}

	pkg.Navigation.Groups = false
	assert.Equal(t, nav.Entry{Section: "Kit", Icon: "cube", OutputPath: "docs/api"}, NavEntry(pkg, docs))
}

func TestSummaryString(t *testing.T) {
	s := &Summary{
		Files:   5,
		Skipped: 1,
		Counts: map[model.Category]int{
			model.CategoryClasses: 2,
			model.CategoryHooks:   3,
		},
	}
	assert.Equal(t,
		"Summary: 5 files processed, 1 skipped; classes 2, functions 0, hooks 3, components 0, interfaces 0, types 0, enums 0, constants 0",
		s.String())
	assert.Contains(t, s.Render(), "5 files processed")
}

func TestWatchRerunsOnChange(t *testing.T) {
	dir, pkg := copySample(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan *Summary, 4)
	done := make(chan error, 1)
	go func() {
		done <- New(pkg, Options{BaseDir: dir}).Watch(ctx, func(s *Summary, err error) {
			if err == nil {
				runs <- s
			}
		})
	}()

	select {
	case s := <-runs:
		assert.Equal(t, 0, s.Counts[model.CategoryFunctions])
	case <-time.After(10 * time.Second):
		t.Fatal("initial run did not happen")
	}

	src := "/** Adds two numbers. */\nexport function add(a, b) { return a + b; }\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "math.js"), []byte(src), 0o644))

	select {
	case s := <-runs:
		assert.Equal(t, 1, s.Counts[model.CategoryFunctions])
	case <-time.After(10 * time.Second):
		t.Fatal("change did not trigger a run")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
