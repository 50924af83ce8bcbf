package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/stopsmokin/internal/achievement"
	"github.com/julianstephens/stopsmokin/internal/backup"
	"github.com/julianstephens/stopsmokin/internal/config"
	"github.com/julianstephens/stopsmokin/internal/constants"
	"github.com/julianstephens/stopsmokin/internal/lock"
	"github.com/julianstephens/stopsmokin/internal/logger"
	"github.com/julianstephens/stopsmokin/internal/storage"
	"github.com/julianstephens/stopsmokin/internal/storage/postgres"
	"github.com/julianstephens/stopsmokin/internal/tracker"
)

// ErrNotFileBacked is returned by operations that need a data file on disk.
var ErrNotFileBacked = errors.New("this operation is only available for file-backed storage (SQLite or JSON)")

type Context struct {
	Store      storage.Provider
	Config     config.Config
	ConfigPath string
	Location   *time.Location

	// Out receives command output. Nil means os.Stdout.
	Out io.Writer
	// In is read by commands that accept piped input. Nil means os.Stdin.
	In io.Reader
	// Now replaces time.Now in tests.
	Now func() time.Time
	// Confirm asks a yes/no question. Nil means an interactive huh prompt.
	Confirm func(title, description string) (bool, error)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Context) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

// Tracker loads the store and builds a tracker over it.
func (c *Context) Tracker() (*tracker.Tracker, error) {
	if err := c.Store.Load(); err != nil {
		return nil, err
	}
	opts := []tracker.Option{
		tracker.WithLocation(c.location()),
		tracker.WithWeekWindow(c.Config.WeekWindow),
	}
	if c.Now != nil {
		opts = append(opts, tracker.WithClock(c.Now))
	}
	return tracker.New(c.Store, opts...)
}

// FileBacked reports whether the store lives in a local data file.
func (c *Context) FileBacked() bool {
	_, isPostgres := c.Store.(*postgres.Store)
	return !isPostgres
}

// WithLock runs fn while holding the data file lock. Postgres stores are
// not locked.
func (c *Context) WithLock(fn func() error) error {
	if !c.FileBacked() {
		return fn()
	}
	l, err := lock.Acquire(c.Store.GetConfigPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release lock", "path", l.Path(), "error", err)
		}
	}()
	return fn()
}

// PerformAutomaticBackup creates a backup and only logs failures.
func (c *Context) PerformAutomaticBackup() string {
	if !c.FileBacked() {
		return ""
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	path, err := mgr.CreateBackup()
	if err != nil {
		logger.Warn("Automatic backup failed", "error", err)
		return ""
	}
	return path
}

// confirm returns true immediately when yes is set, otherwise it asks.
func (c *Context) confirm(yes bool, title, description string) (bool, error) {
	if yes {
		return true, nil
	}
	if c.Confirm != nil {
		return c.Confirm(title, description)
	}
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// printUpdate announces level-ups and unlocks from a recomputation.
func (c *Context) printUpdate(u tracker.Update) {
	if u.LevelUp {
		c.printf("🎉 Level up! You reached level %d.\n", u.NewLevel)
	}
	for _, a := range u.Unlocked {
		c.printf("🏆 Achievement unlocked: %s %s - %s\n", a.Icon, a.Title, a.Description)
	}
}

func formatAchievement(st achievement.Status, loc *time.Location) string {
	if st.Unlocked {
		return fmt.Sprintf("%s %s  %s  (unlocked %s)", st.Icon, st.Title, st.Description, st.UnlockedAt.In(loc).Format(constants.DisplayTimeFormat))
	}
	return fmt.Sprintf("🔒 %s  %s", st.Title, st.Description)
}
