package cli

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/stopsmokin/internal/progression"
)

type DebugCmd struct {
	DBPath    *DebugDBPathCmd    `cmd:"" help:"Show storage location."`
	DumpState *DebugDumpStateCmd `cmd:"" help:"Dump stored state as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	output := map[string]string{
		"path":   ctx.Store.GetConfigPath(),
		"config": ctx.ConfigPath,
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(jsonBytes))
	return nil
}

type DebugDumpStateCmd struct {
	Derived bool `help:"Include derived progression alongside the stored state."`
}

func (cmd *DebugDumpStateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	state, stored, err := ctx.Store.LoadState()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	var v interface{} = state
	if cmd.Derived {
		v = struct {
			Stored   bool               `json:"stored"`
			State    interface{}        `json:"state"`
			Progress progression.Status `json:"progress"`
		}{stored, state, progression.StatusOf(state, ctx.now())}
	}

	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	ctx.println(string(jsonBytes))
	return nil
}
