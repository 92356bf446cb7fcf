package db

import (
	"strings"
	"testing"
)

func TestSplitSQLStatementsHandlesDollarQuotedBlocks(t *testing.T) {
	content := `
-- jobs table
CREATE TABLE t (id TEXT);

DO $$
BEGIN
    PERFORM set_config('search_path', 'jobs', false);
    PERFORM do_something();
END $$;

/* trailing; comment */
SELECT 1;
`

	statements := splitSQLStatements(content)

	if len(statements) != 3 {
		t.Fatalf("expected 3 statements, got %d: %#v", len(statements), statements)
	}

	if !strings.HasPrefix(statements[1], "DO $$") || !strings.HasSuffix(statements[1], "END $$") {
		t.Fatalf("expected DO block as second statement, got %q", statements[1])
	}

	if statements[2] != "SELECT 1" {
		t.Fatalf("unexpected tail statement: %q", statements[2])
	}
}

func TestSplitSQLStatementsIgnoresSemicolonsInQuotes(t *testing.T) {
	content := `
INSERT INTO device_jobs(job_name) VALUES('a;b'), ('it''s;fine');
SELECT "odd;column" FROM device_jobs WHERE job_id = $1;
DO $tag$
BEGIN
    PERFORM do_something('value;with;semicolons');
END $tag$;
`

	statements := splitSQLStatements(content)

	if len(statements) != 3 {
		t.Fatalf("expected 3 statements, got %d: %#v", len(statements), statements)
	}

	if !strings.HasSuffix(statements[0], "('it''s;fine')") {
		t.Fatalf("unexpected first statement: %q", statements[0])
	}

	if !strings.HasSuffix(statements[1], "job_id = $1") {
		t.Fatalf("unexpected second statement: %q", statements[1])
	}

	if !strings.HasPrefix(statements[2], "DO $tag$") || !strings.HasSuffix(statements[2], "$tag$") {
		t.Fatalf("unexpected DO statement: %q", statements[2])
	}
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	pending, err := pendingMigrations(map[string]struct{}{})
	if err != nil {
		t.Fatalf("pendingMigrations: %v", err)
	}

	if len(pending) != 2 || pending[0] != "00001_device_jobs.up.sql" {
		t.Fatalf("unexpected migrations %v", pending)
	}

	for _, name := range pending {
		content, err := cnpgMigrationsFS.ReadFile("cnpg/migrations/" + name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}

		if len(splitSQLStatements(string(content))) == 0 {
			t.Fatalf("%s has no statements", name)
		}
	}

	pending, err = pendingMigrations(map[string]struct{}{"00001": {}})
	if err != nil || len(pending) != 1 || migrationVersion(pending[0]) != "00002" {
		t.Fatalf("expected only 00002 pending, got %v (%v)", pending, err)
	}
}
