// Package menu is the interactive front end: a Controller that turns each menu
// action into a short status line, and a terminal UI driving it.
package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dusk-indust/dirgraph/internal/graph"
	"github.com/dusk-indust/dirgraph/internal/ingest"
	"github.com/dusk-indust/dirgraph/internal/query"
)

// Status lines shown to the user.
const (
	MsgRootSaved           = "The path: %s saved successfully"
	MsgRootEmpty           = "Please enter a non-empty path"
	MsgBuilt               = "Your graph has been built successfully"
	MsgBuiltWithUnreadable = "Your graph has been built successfully but with %d files/folders that are not readable"
	MsgBuildFailed         = "Encountered an error. Please check your path or the connection to the db and try again"
	MsgResult              = "The result is: %s"
	MsgNoDirectory         = "There is no such directory"
	MsgNoFiles             = "There are no such files"
	MsgReset               = "Reset the database successfully"
	MsgConnectionFailed    = "Encountered an error. Please check your connection to the db and try again"
	MsgUnknownChoice       = "Please choose from the presented choices"
)

// Controller holds the root path chosen by the user and runs menu actions
// against one shared store.
type Controller struct {
	root    string
	store   graph.Store
	ingest  *ingest.Engine
	queries *query.Engine
	logger  *slog.Logger
}

// NewController creates a Controller. A nil logger means slog.Default().
func NewController(store graph.Store, ing *ingest.Engine, queries *query.Engine, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{store: store, ingest: ing, queries: queries, logger: logger}
}

// Root returns the saved root path.
func (c *Controller) Root() string { return c.root }

// SetRoot saves the root path for later builds. The path is checked when the
// graph is built, not here.
func (c *Controller) SetRoot(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return MsgRootEmpty
	}
	c.root = path
	return fmt.Sprintf(MsgRootSaved, path)
}

// Build ingests the saved root path.
func (c *Controller) Build(ctx context.Context) string {
	res, err := c.ingest.Ingest(ctx, c.root)
	if err != nil {
		if errors.Is(err, ingest.ErrIngestionFailed) {
			c.logger.Warn("build failed", "root", c.root, "err", err)
		} else {
			c.logger.Error("build interrupted", "root", c.root, "err", err)
		}
		return MsgBuildFailed
	}
	if res.Unreadable > 0 {
		return fmt.Sprintf(MsgBuiltWithUnreadable, res.Unreadable)
	}
	return MsgBuilt
}

// MostSubdirectories reports the directory with the most subdirectories.
func (c *Controller) MostSubdirectories(ctx context.Context) string {
	return c.answer(c.queries.DirectoryWithMostSubdirectories(ctx))
}

// SubdirWithExecutable reports a directory whose subdirectory holds an .exe file.
func (c *Controller) SubdirWithExecutable(ctx context.Context) string {
	return c.answer(c.queries.DirectoryWithSubdirContainingExecutable(ctx))
}

// CountRootDescendants reports how many directories sit below the root.
func (c *Controller) CountRootDescendants(ctx context.Context) string {
	n, err := c.queries.CountRootDescendants(ctx)
	if err != nil {
		return MsgConnectionFailed
	}
	if !n.Found {
		return MsgNoDirectory
	}
	return fmt.Sprintf(MsgResult, n)
}

// ThreeEmptySubdirectories reports a directory with exactly three empty
// subdirectories.
func (c *Controller) ThreeEmptySubdirectories(ctx context.Context) string {
	return c.answer(c.queries.DirectoryWithThreeEmptySubdirectories(ctx))
}

// SameNameFiles reports two same-name files in nested directories.
func (c *Controller) SameNameFiles(ctx context.Context) string {
	p, err := c.queries.FilesWithSameNameInNestedDirectories(ctx)
	if err != nil {
		return MsgConnectionFailed
	}
	if !p.Found {
		return MsgNoFiles
	}
	return fmt.Sprintf(MsgResult, p)
}

// Reset wipes the graph.
func (c *Controller) Reset(ctx context.Context) string {
	if err := c.store.Reset(ctx); err != nil {
		c.logger.Error("reset failed", "err", err)
		return MsgConnectionFailed
	}
	return MsgReset
}

func (c *Controller) answer(a query.Answer, err error) string {
	if err != nil {
		return MsgConnectionFailed
	}
	if !a.Found {
		return MsgNoDirectory
	}
	return fmt.Sprintf(MsgResult, a.Path)
}
