package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ytget/likedl/internal/download"
	"github.com/ytget/likedl/internal/fetch"
	"github.com/ytget/likedl/internal/model"
)

// Fetcher lists the playlist
type Fetcher interface {
	Fetch(ctx context.Context, source string, onProgress fetch.ProgressFunc) ([]model.Item, error)
}

// BatchRunner downloads a selection
type BatchRunner interface {
	RunBatch(ctx context.Context, items []model.Item, store download.ManifestStore, sink download.ProgressFunc) *model.BatchSummary
}

// Store is the manifest as seen by the UI
type Store interface {
	Downloaded
	download.ManifestStore
}

// Options configures an App
type Options struct {
	Source      string
	Credentials model.Credentials // shown on the loading screen only
	Interactive bool              // false runs a single batch and returns
	OnBatchDone func(*model.BatchSummary)
}

// App drives the screens: load once, then browse and download until the
// user quits or nothing is left
type App struct {
	fetcher  Fetcher
	batch    BatchRunner
	store    Store
	selector Selector
	out      io.Writer
	in       *bufio.Reader
	opts     Options
	log      *logrus.Logger
}

// NewApp wires the screens to their collaborators
func NewApp(fetcher Fetcher, batch BatchRunner, store Store, selector Selector, out io.Writer, in io.Reader, opts Options, log *logrus.Logger) *App {
	return &App{
		fetcher:  fetcher,
		batch:    batch,
		store:    store,
		selector: selector,
		out:      out,
		in:       bufio.NewReader(in),
		opts:     opts,
		log:      log,
	}
}

// Run shows the loading screen and then loops over browse and download.
// Only fetch failures are returned.
func (a *App) Run(ctx context.Context) error {
	items, err := a.load(ctx)
	if err != nil {
		return err
	}

	browse := NewBrowseScreen(a.out)
	for ctx.Err() == nil {
		pending, already := NewItems(items, a.store)
		browse.Render(pending, already)
		if len(pending) == 0 {
			return nil
		}

		selected, err := a.selector.Select(pending)
		if err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
		if len(selected) == 0 {
			return nil
		}
		browse.RenderSelection(len(selected))

		summary := a.download(ctx, selected)
		if summary != nil && a.opts.OnBatchDone != nil {
			a.opts.OnBatchDone(summary)
		}

		if !a.opts.Interactive {
			return nil
		}
		if !a.waitForEnter() {
			return nil
		}
	}
	return nil
}

type fetchOutcome struct {
	items []model.Item
	err   error
}

// load runs the fetch on a worker goroutine and renders its progress
func (a *App) load(ctx context.Context) ([]model.Item, error) {
	screen := NewLoadingScreen(a.out)
	screen.Start(a.opts.Credentials)

	progress := make(chan [2]int, 1)
	done := make(chan fetchOutcome, 1)

	go func() {
		items, err := a.fetcher.Fetch(ctx, a.opts.Source, func(current, total int) {
			select {
			case progress <- [2]int{current, total}:
			default:
			}
		})
		done <- fetchOutcome{items: items, err: err}
	}()

	for {
		select {
		case p := <-progress:
			screen.Progress(p[0], p[1])
		case result := <-done:
			skipped := 0
			var partial *fetch.PartialError
			if errors.As(result.err, &partial) {
				skipped = len(partial.Skipped)
				a.log.WithError(result.err).Warn("Some playlist entries were skipped")
			} else if result.err != nil {
				screen.Failed(result.err)
				return nil, result.err
			}
			screen.Loaded(len(result.items), skipped)
			return result.items, nil
		}
	}
}

// download runs one batch on a worker goroutine and renders its events
func (a *App) download(ctx context.Context, selected []model.Item) *model.BatchSummary {
	dispatcher := NewDispatcher(DispatcherQueueSize)
	go func() {
		defer dispatcher.Close()
		a.batch.RunBatch(ctx, selected, a.store, dispatcher.Post)
	}()

	summary := NewDownloadScreen(a.out).Run(len(selected), dispatcher.Events())
	if dropped := dispatcher.Dropped(); dropped > 0 {
		a.log.WithField("dropped", dropped).Debug("Dropped intermediate progress events")
	}
	return summary
}

// waitForEnter blocks until a line is read; false on EOF
func (a *App) waitForEnter() bool {
	fmt.Fprintln(a.out, TextPressEnter)
	_, err := a.in.ReadString('\n')
	return err == nil
}
