package graph

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory returns a fresh store with an initialized schema.
type storeFactory func(t *testing.T) Store

// fixtureWrites describes this tree, in pre-order:
//
//	/r
//	├── a/            readme.txt
//	│   ├── a1/
//	│   ├── a2/
//	│   └── a3/
//	├── b/            notes.md
//	│   └── b1/       tool.exe
//	└── c/            report.txt
//	    └── d/        report.txt
func fixtureWrites() []DirectoryWrite {
	file := func(dir, name, ext string, size int64) FileNode {
		return FileNode{Path: dir + "/" + name, Name: name, Extension: ext, Size: size}
	}
	dir := func(path, parent string, files ...FileNode) DirectoryWrite {
		return DirectoryWrite{
			Directory:  DirectoryNode{Path: path, FileCount: len(files)},
			Files:      files,
			ParentPath: parent,
		}
	}
	return []DirectoryWrite{
		dir("/r", ""),
		dir("/r/a", "/r", file("/r/a", "readme.txt", ".txt", 10)),
		dir("/r/a/a1", "/r/a"),
		dir("/r/a/a2", "/r/a"),
		dir("/r/a/a3", "/r/a"),
		dir("/r/b", "/r", file("/r/b", "notes.md", ".md", 20)),
		dir("/r/b/b1", "/r/b", file("/r/b/b1", "tool.exe", ".exe", 30)),
		dir("/r/c", "/r", file("/r/c", "report.txt", ".txt", 40)),
		dir("/r/c/d", "/r/c", file("/r/c/d", "report.txt", ".txt", 50)),
	}
}

func writeAll(t *testing.T, s Store, writes []DirectoryWrite) {
	t.Helper()
	ctx := context.Background()
	for _, w := range writes {
		require.NoError(t, s.WriteDirectory(ctx, w), "write %s", w.Directory.Path)
	}
}

// runStoreContract exercises the behaviour every Store backend must share.
func runStoreContract(t *testing.T, newStore storeFactory) {
	ctx := context.Background()

	t.Run("InitSchemaIsIdempotent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InitSchema(ctx))
		require.NoError(t, s.InitSchema(ctx))
	})

	t.Run("GetMissingReturnsNil", func(t *testing.T) {
		s := newStore(t)
		d, err := s.GetDirectory(ctx, "/nope")
		require.NoError(t, err)
		assert.Nil(t, d)
		f, err := s.GetFile(ctx, "/nope/x.txt")
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("WriteDirectoryRoundTrip", func(t *testing.T) {
		s := newStore(t)
		writeAll(t, s, fixtureWrites()[:2])

		d, err := s.GetDirectory(ctx, "/r/a")
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, DirectoryNode{Path: "/r/a", FileCount: 1}, *d)

		f, err := s.GetFile(ctx, "/r/a/readme.txt")
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, FileNode{Path: "/r/a/readme.txt", Name: "readme.txt", Extension: ".txt", Size: 10}, *f)
	})

	t.Run("AttributesAreSetOnlyOnCreate", func(t *testing.T) {
		s := newStore(t)
		writeAll(t, s, fixtureWrites()[:2])

		again := DirectoryWrite{
			Directory:  DirectoryNode{Path: "/r/a", FileCount: 7},
			Files:      []FileNode{{Path: "/r/a/readme.txt", Name: "readme.txt", Extension: ".txt", Size: 999}},
			ParentPath: "/r",
		}
		require.NoError(t, s.WriteDirectory(ctx, again))

		d, err := s.GetDirectory(ctx, "/r/a")
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, 1, d.FileCount)

		f, err := s.GetFile(ctx, "/r/a/readme.txt")
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, int64(10), f.Size)
	})

	t.Run("RepeatedWritesKeepSingleEdges", func(t *testing.T) {
		s := newStore(t)
		writeAll(t, s, fixtureWrites())
		first, err := s.Stats(ctx)
		require.NoError(t, err)

		writeAll(t, s, fixtureWrites())
		second, err := s.Stats(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, &GraphStats{DirectoryCount: 9, FileCount: 5, EdgeCount: 13}, second)
	})

	t.Run("MissingParentWritesNothing", func(t *testing.T) {
		s := newStore(t)
		w := DirectoryWrite{
			Directory:  DirectoryNode{Path: "/orphan", FileCount: 1},
			Files:      []FileNode{{Path: "/orphan/x.txt", Name: "x.txt", Extension: ".txt"}},
			ParentPath: "/missing",
		}
		require.NoError(t, s.WriteDirectory(ctx, w))

		stats, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, &GraphStats{}, stats)
	})

	t.Run("Queries", func(t *testing.T) {
		s := newStore(t)
		writeAll(t, s, fixtureWrites())

		most, ok, err := s.DirectoryWithMostSubdirectories(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "/r", most, "ties between /r and /r/a break by path")

		exe, ok, err := s.DirectoryWithSubdirContainingExecutable(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "/r/b", exe)

		n, ok, err := s.CountRootDescendants(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(8), n)

		three, ok, err := s.DirectoryWithThreeEmptySubdirectories(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "/r/a", three)

		pair, err := s.FilesWithSameNameInNestedDirectories(ctx)
		require.NoError(t, err)
		require.NotNil(t, pair)
		assert.Equal(t, FilePair{First: "/r/c/report.txt", Second: "/r/c/d/report.txt"}, *pair)
	})

	t.Run("QueriesOnEmptyGraph", func(t *testing.T) {
		s := newStore(t)

		_, ok, err := s.DirectoryWithMostSubdirectories(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = s.DirectoryWithSubdirContainingExecutable(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = s.CountRootDescendants(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = s.DirectoryWithThreeEmptySubdirectories(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		pair, err := s.FilesWithSameNameInNestedDirectories(ctx)
		require.NoError(t, err)
		assert.Nil(t, pair)
	})

	t.Run("LoneRootHasZeroDescendants", func(t *testing.T) {
		s := newStore(t)
		writeAll(t, s, fixtureWrites()[:1])

		n, ok, err := s.CountRootDescendants(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Zero(t, n)

		_, ok, err = s.DirectoryWithMostSubdirectories(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("DeepChainCountsEveryDescendant", func(t *testing.T) {
		s := newStore(t)
		const depth = 40
		var writes []DirectoryWrite
		parent, dir := "", "/deep"
		for i := 0; i < depth; i++ {
			writes = append(writes, DirectoryWrite{Directory: DirectoryNode{Path: dir}, ParentPath: parent})
			parent, dir = dir, fmt.Sprintf("%s/d%02d", dir, i)
		}
		writeAll(t, s, writes)

		n, ok, err := s.CountRootDescendants(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(depth-1), n)
	})

	t.Run("ShortSameNameFilesAreIgnored", func(t *testing.T) {
		s := newStore(t)
		writeAll(t, s, []DirectoryWrite{
			{Directory: DirectoryNode{Path: "/s", FileCount: 1},
				Files: []FileNode{{Path: "/s/a.md", Name: "a.md", Extension: ".md"}}},
			{Directory: DirectoryNode{Path: "/s/t", FileCount: 1}, ParentPath: "/s",
				Files: []FileNode{{Path: "/s/t/a.md", Name: "a.md", Extension: ".md"}}},
		})

		pair, err := s.FilesWithSameNameInNestedDirectories(ctx)
		require.NoError(t, err)
		assert.Nil(t, pair)
	})

	t.Run("FourEmptySubdirectoriesDoNotMatch", func(t *testing.T) {
		s := newStore(t)
		writeAll(t, s, []DirectoryWrite{
			{Directory: DirectoryNode{Path: "/q"}},
			{Directory: DirectoryNode{Path: "/q/1"}, ParentPath: "/q"},
			{Directory: DirectoryNode{Path: "/q/2"}, ParentPath: "/q"},
			{Directory: DirectoryNode{Path: "/q/3"}, ParentPath: "/q"},
			{Directory: DirectoryNode{Path: "/q/4"}, ParentPath: "/q"},
		})

		_, ok, err := s.DirectoryWithThreeEmptySubdirectories(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("EdgesAreOrdered", func(t *testing.T) {
		s := newStore(t)
		writeAll(t, s, fixtureWrites()[:3])

		edges, err := s.Edges(ctx)
		require.NoError(t, err)
		assert.Equal(t, []Edge{
			{SourceID: "/r", TargetID: "/r/a", Kind: EdgeKindHasChild, TargetLabel: LabelDirectory},
			{SourceID: "/r/a", TargetID: "/r/a/a1", Kind: EdgeKindHasChild, TargetLabel: LabelDirectory},
			{SourceID: "/r/a", TargetID: "/r/a/readme.txt", Kind: EdgeKindHasChild, TargetLabel: LabelFile},
		}, edges)
	})

	t.Run("ResetClearsEverything", func(t *testing.T) {
		s := newStore(t)
		writeAll(t, s, fixtureWrites())
		require.NoError(t, s.Reset(ctx))

		stats, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, &GraphStats{}, stats)

		_, ok, err := s.CountRootDescendants(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		// Reset on an empty graph is not an error.
		require.NoError(t, s.Reset(ctx))
	})
}
