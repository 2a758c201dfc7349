package cli

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"quiz-service/internal/config"
	"quiz-service/internal/infra/sqlite"
)

func TestRootRegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"start", "migrate", "seed"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Fatalf("expected %s subcommand, got %v (%v)", name, sub, err)
		}
	}
}

func TestSeedCommandPopulatesSQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "quiz.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	data := []byte("store:\n  driver: sqlite\n  sqlite_path: " + dbPath + "\nlog:\n  level: error\n")
	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := runSeed(context.Background(), cfgPath); err != nil {
			t.Fatalf("seed run %d: %v", i, err)
		}
	}

	store, err := sqlite.NewStore(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	count, err := store.CountQuestions(context.Background())
	if err != nil || count != 5 {
		t.Fatalf("count = (%d, %v), want (5, nil)", count, err)
	}
}

func TestMigrateRequiresPostgres(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("store:\n  driver: "+config.DriverMemory+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := runMigrations(context.Background(), cfgPath); err == nil {
		t.Fatalf("expected migrate to refuse non-postgres driver")
	}
}

func TestStartFailsWhenPortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("store:\n  driver: memory\nlog:\n  level: error\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- runServer(context.Background(), cfgPath, port) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected listen error")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server kept running after listen failure")
	}
}
