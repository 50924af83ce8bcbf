package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize/english"

	"github.com/julianstephens/stopsmokin/internal/models"
	"github.com/julianstephens/stopsmokin/internal/tracker"
	"github.com/julianstephens/stopsmokin/internal/transfer"
)

type ExportCmd struct {
	Output string `arg:"" optional:"" help:"Destination file, or - for stdout. Defaults to stop-smokin-data-YYYY-MM-DD.json."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	now := ctx.now()
	data, err := transfer.Marshal(t.Export(), now)
	if err != nil {
		return err
	}

	if c.Output == "-" {
		ctx.println(string(data))
		return nil
	}
	path := c.Output
	if path == "" {
		path = transfer.ExportFileName(now.In(ctx.location()))
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.printf("✓ Exported %s to %s\n", english.Plural(len(t.Export().Events), "event", ""), path)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Export file to import, or - for stdin."`
	Yes  bool   `short:"y" help:"Replace current data without asking."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	var data []byte
	var err error
	if c.File == "-" {
		data, err = io.ReadAll(ctx.in())
	} else {
		data, err = os.ReadFile(c.File)
	}
	if err != nil {
		return fmt.Errorf("failed to read import: %w", err)
	}

	state, err := transfer.Parse(data)
	if err != nil {
		return err
	}
	return replaceState(ctx, state, c.Yes)
}

type CodeExportCmd struct{}

func (c *CodeExportCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	code, err := transfer.EncodeCompact(t.Export(), ctx.now())
	if err != nil {
		return err
	}
	ctx.println(code)
	return nil
}

type CodeImportCmd struct {
	Code string `arg:"" optional:"" help:"Transfer code. Read from stdin when omitted or -."`
	Yes  bool   `short:"y" help:"Replace current data without asking."`
}

func (c *CodeImportCmd) Run(ctx *Context) error {
	code := c.Code
	if code == "" || code == "-" {
		data, err := io.ReadAll(ctx.in())
		if err != nil {
			return fmt.Errorf("failed to read code: %w", err)
		}
		code = string(data)
	}
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: empty transfer code", transfer.ErrDecodeFailure)
	}

	state, err := transfer.DecodeCompact(code)
	if err != nil {
		return err
	}
	return replaceState(ctx, state, c.Yes)
}

// replaceState confirms, backs up, then hands state to the tracker.
func replaceState(ctx *Context, state models.State, yes bool) error {
	ok, err := ctx.confirm(yes,
		"Replace all current data?",
		fmt.Sprintf("The import holds %s and %s. A backup is taken first.",
			english.Plural(len(state.Events), "event", ""),
			english.Plural(len(state.Achievements), "achievement", "")))
	if err != nil {
		return err
	}

	return ctx.WithLock(func() error {
		t, err := ctx.Tracker()
		if err != nil {
			return err
		}
		if ok {
			if path := ctx.PerformAutomaticBackup(); path != "" {
				ctx.printf("Backed up current data to: %s\n", path)
			}
		}
		u, err := t.Import(state, ok)
		if errors.Is(err, tracker.ErrNotConfirmed) {
			ctx.println("Import cancelled.")
			return nil
		}
		if err != nil {
			return err
		}
		ctx.printf("✓ Imported %s.\n", english.Plural(t.Export().TotalCount, "event", ""))
		ctx.printUpdate(u)
		return nil
	})
}

type ResetCmd struct {
	Yes bool `short:"y" help:"Reset without asking."`
}

func (c *ResetCmd) Run(ctx *Context) error {
	ok, err := ctx.confirm(c.Yes,
		"Reset all data?",
		"All events and achievements are erased along with level progress. A backup is taken first.")
	if err != nil {
		return err
	}

	return ctx.WithLock(func() error {
		t, err := ctx.Tracker()
		if err != nil {
			return err
		}
		if ok {
			if path := ctx.PerformAutomaticBackup(); path != "" {
				ctx.printf("Backed up current data to: %s\n", path)
			}
		}
		if err := t.Reset(ok); err != nil {
			if errors.Is(err, tracker.ErrNotConfirmed) {
				ctx.println("Reset cancelled.")
				return nil
			}
			return err
		}
		ctx.println("✓ All data has been reset.")
		return nil
	})
}
