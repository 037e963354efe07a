// README: SQL migrations embedded into the binaries and applied statement by statement.
package migrations

import (
	"bufio"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed *.sql
var files embed.FS

// Migration is one ordered SQL file.
type Migration struct {
	Name string
	SQL  string
}

// All returns the embedded migrations sorted by file name.
func All() ([]Migration, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	out := make([]Migration, 0, len(names))
	for _, name := range names {
		b, err := files.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: name, SQL: string(b)})
	}
	return out, nil
}

// Apply runs every migration in order. Statements are idempotent, so re-running is safe.
func Apply(ctx context.Context, db *pgxpool.Pool) error {
	ms, err := All()
	if err != nil {
		return err
	}
	for _, m := range ms {
		for _, stmt := range Statements(m.SQL) {
			if _, err := db.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply %s: %w", m.Name, err)
			}
		}
	}
	return nil
}

// Statements drops comment lines and splits the script on semicolons.
func Statements(script string) []string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(script))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}

	parts := strings.Split(b.String(), ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if stmt := strings.TrimSpace(p); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
