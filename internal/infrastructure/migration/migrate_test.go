package migration_test

import (
	"io"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/astroselling/falabella-sdk/internal/infrastructure/migration"
	"github.com/astroselling/falabella-sdk/internal/infrastructure/persistence/models"
	"github.com/astroselling/falabella-sdk/migrations"
)

func TestListMigrations_Embedded(t *testing.T) {
	src, err := migration.NewSource(migrations.FS, ".")
	require.NoError(t, err)
	defer src.Close()

	list, err := migration.ListMigrations(src)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, "000001 create_falabella_feeds", list[0])
}

func TestListMigrations_Ordered(t *testing.T) {
	fsys := fstest.MapFS{
		"3_third.up.sql":    {Data: []byte("SELECT 3;")},
		"3_third.down.sql":  {Data: []byte("SELECT 3;")},
		"1_first.up.sql":    {Data: []byte("SELECT 1;")},
		"1_first.down.sql":  {Data: []byte("SELECT 1;")},
		"2_second.up.sql":   {Data: []byte("SELECT 2;")},
		"2_second.down.sql": {Data: []byte("SELECT 2;")},
	}
	src, err := migration.NewSource(fsys, ".")
	require.NoError(t, err)
	defer src.Close()

	list, err := migration.ListMigrations(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001 first", "000002 second", "000003 third"}, list)
}

func TestNewSource_Empty(t *testing.T) {
	_, err := migration.NewSource(fstest.MapFS{}, ".")
	assert.Error(t, err)
}

// The gorm model and the SQL schema are maintained by hand; every mapped
// column must exist in the first migration.
func TestCreateFeedsMigration_CoversModel(t *testing.T) {
	f, err := migrations.FS.Open("000001_create_falabella_feeds.up.sql")
	require.NoError(t, err)
	defer f.Close()
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	ddl := string(body)

	s, err := schema.Parse(&models.FalabellaFeedModel{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS "+s.Table)

	for _, column := range s.DBNames {
		assert.Truef(t, strings.Contains(ddl, "\n    "+column+" "), "column %s missing from migration", column)
	}
	assert.Contains(t, ddl, "CREATE UNIQUE INDEX IF NOT EXISTS idx_falabella_feeds_feed_id")
}
