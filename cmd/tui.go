package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/hangxie/parquet-analyzer/analyzer"
	"github.com/hangxie/parquet-analyzer/client"
	"github.com/hangxie/parquet-analyzer/service"
)

// TUICmd is a kong command for the interactive report browser
type TUICmd struct {
	URI string `arg:"" predictor:"file" help:"URI of Parquet file."`
	AnalysisFlags
}

// serverResult contains the result of HTTP server startup
type serverResult struct {
	serverURL string
	server    *http.Server
	service   *service.AnalysisService
	err       error
}

// startHTTPServer analyzes uri and serves the report on a loopback port.
// It runs in a goroutine and sends the result (server URL and instance, or error) to resultChan.
func startHTTPServer(ctx context.Context, uri string, flags AnalysisFlags, opts analyzer.Options, resultChan chan<- serverResult) {
	send := func(res serverResult) {
		select {
		case <-ctx.Done():
			if res.service != nil {
				_ = res.service.Close()
			}
		case resultChan <- res:
		}
	}

	svc, err := service.NewAnalysisService(ctx, uri, flags.ReadOption, opts)
	if err != nil {
		send(serverResult{err: err})
		return
	}

	// Find an available port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		_ = svc.Close()
		send(serverResult{err: fmt.Errorf("failed to find available port: %w", err)})
		return
	}

	// Embedded server runs in quiet mode, log lines would corrupt the screen
	server := &http.Server{
		Handler:           service.CreateRouter(svc, true),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		_ = server.Serve(listener)
	}()

	// Wait for server to be ready
	serverURL := fmt.Sprintf("http://%s", listener.Addr().String())
	for range 50 {
		resp, err := http.Get(serverURL + "/info")
		if err == nil {
			_ = resp.Body.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-ctx.Done():
		_ = server.Shutdown(context.Background())
		_ = svc.Close()
	case resultChan <- serverResult{serverURL: serverURL, server: server, service: svc}:
	}
}

// Run starts the embedded server and the browser
func (c TUICmd) Run() error {
	// The TUI owns the terminal, only warnings are worth logging and they go to stderr
	c.Verbose = false
	opts, err := c.options()
	if err != nil {
		return err
	}
	defer func() { _ = opts.Logger.Sync() }()

	app := NewTUIApp()

	// Create a loading modal with cancellation instructions
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Analyzing file...\n%s\n\nPlease wait...\n\nPress ESC or Ctrl+C to cancel", c.URI)).
		SetTextColor(tcell.ColorYellow)

	// Context for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Track if loading was cancelled
	cancelled := false

	modal.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Key() == tcell.KeyCtrlC {
			cancelled = true
			cancel()
			app.tviewApp.Stop()
			return nil
		}
		return event
	})

	app.pages.AddPage("loading", modal, true, true)
	app.tviewApp.SetRoot(app.pages, true)

	resultChan := make(chan serverResult, 1)
	go startHTTPServer(ctx, c.URI, c.AnalysisFlags, opts, resultChan)

	var started serverResult
	go func() {
		select {
		case <-ctx.Done():
			return
		case res := <-resultChan:
			app.tviewApp.QueueUpdateDraw(func() {
				if res.err != nil {
					errorModal := tview.NewModal().
						SetText(fmt.Sprintf("Error analyzing file:\n%v\n\nPress ESC to exit", res.err)).
						SetTextColor(tcell.ColorRed).
						AddButtons([]string{"Exit"}).
						SetDoneFunc(func(buttonIndex int, buttonLabel string) {
							app.tviewApp.Stop()
						})
					app.pages.AddPage("error", errorModal, true, true)
					app.pages.SwitchToPage("error")
					return
				}

				// Kept for cleanup once the browser exits
				started = res

				app.httpClient = client.NewAnalysisClient(res.serverURL)
				app.currentFile = c.URI

				app.pages.RemovePage("loading")
				app.showMainView()
				app.pages.AddPage("main", app.mainLayout, true, true)
				app.pages.SwitchToPage("main")
			})
		}
	}()

	err = app.tviewApp.Run()

	if started.server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = started.server.Shutdown(shutdownCtx)
		_ = started.service.Close()
	}

	// If cancelled, return nil (successful cancellation)
	if cancelled {
		return nil
	}

	return err
}
