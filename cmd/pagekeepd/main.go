// Command pagekeepd serves the record API backed by SQLite.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagekeep"
	pkhttp "github.com/fwojciec/pagekeep/http"
	pkslog "github.com/fwojciec/pagekeep/slog"
	"github.com/fwojciec/pagekeep/sqlite"
	"github.com/joho/godotenv"
)

// ShutdownTimeout bounds how long in-flight requests may finish on exit.
const ShutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Addr    string `env:"PAGEKEEPD_ADDR" default:":5000" help:"Listen address"`
	DB      string `name:"db" env:"PAGEKEEPD_DB" help:"SQLite database path (default: ~/.pagekeep/records.db)"`
	Verbose bool   `short:"v" help:"Log every record operation"`
}

// Main represents the program.
type Main struct {
	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Listener, if set, is used instead of listening on Addr.
	Listener net.Listener

	// Ready, if set, receives the bound address once the server accepts connections.
	Ready chan<- string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run serves until ctx is canceled.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagekeepd"),
		kong.Description("Serve the pagekeep record API"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse(args)
		return nil
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	dbPath := cli.DB
	if dbPath == "" {
		dbPath = defaultDBPath()
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PAGEKEEPD_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	var records pagekeep.RecordService = sqlite.NewRecordService(m.DB)
	if cli.Verbose {
		records = pkslog.NewLoggingRecordService(records, logger)
	}

	ln := m.Listener
	if ln == nil {
		if ln, err = net.Listen("tcp", cli.Addr); err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cli.Addr, err)
		}
	}

	srv := &http.Server{
		Handler:           pkhttp.NewHandler(records, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	logger.Info("serving record API", "addr", ln.Addr().String(), "db", dbPath)
	if m.Ready != nil {
		m.Ready <- ln.Addr().String()
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("stopped")
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pagekeep.db"
	}
	dir := filepath.Join(home, ".pagekeep")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "records.db")
}
