package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	sql := `-- header comment
CREATE TABLE a (x Int64);

-- second
CREATE TABLE b (
    y String
);
`
	stmts := splitStatements(sql)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (x Int64)", stmts[0])
	assert.Contains(t, stmts[1], "y String")
}

func TestValidateNoSemicolonInStrings(t *testing.T) {
	assert.NoError(t, validateNoSemicolonInStrings("SELECT 'it''s'; SELECT 1;"))
	assert.Error(t, validateNoSemicolonInStrings("SELECT 'a;b';"))
}

func TestLoad_EmbeddedMigrations(t *testing.T) {
	for _, tc := range []struct {
		fsys fs.FS
		dir  string
	}{
		{PostgresFS, "postgres"},
		{ClickhouseFS, "clickhouse"},
	} {
		files, err := load(tc.fsys, tc.dir)
		require.NoError(t, err)
		require.NotEmpty(t, files, tc.dir)
		assert.Equal(t, "001_sensor_samples.sql", files[0].name, tc.dir)
		assert.Contains(t, files[0].sql, "sensor_samples", tc.dir)
		assert.NoError(t, validateNoSemicolonInStrings(files[0].sql), tc.dir)
	}

	_, err := load(PostgresFS, "mysql")
	assert.Error(t, err)
}

func TestDatabaseFromDSN(t *testing.T) {
	db, err := databaseFromDSN("clickhouse://default@localhost:9000/plants")
	require.NoError(t, err)
	assert.Equal(t, "plants", db)

	_, err = databaseFromDSN("clickhouse://localhost:9000")
	assert.Error(t, err)
}
