package tests

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	dbadapter "github.com/vijaynvb/fullstackapp/internal/adapter/db"
	"github.com/vijaynvb/fullstackapp/internal/config"
	"github.com/vijaynvb/fullstackapp/internal/core/domain"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// IntegrationSuiteBase gives every test a freshly migrated database. SQLite is used by
// default; TEST_DB_DRIVER=mysql runs the same suites against a MySQL server.
type IntegrationSuiteBase struct {
	suite.Suite

	adminDB    *sqlx.DB
	DB         *sqlx.DB
	driver     string
	mysqlConf  *config.Config
	testDBName string
}

func (s *IntegrationSuiteBase) SetupSuite() {
	s.driver = strings.ToLower(envOrDefault("TEST_DB_DRIVER", config.DriverSQLite))
	if s.driver != config.DriverMySQL {
		return
	}

	conf := &config.Config{
		DbHost:     envOrDefault("MYSQL_HOST", "127.0.0.1"),
		DbPort:     envOrDefault("MYSQL_PORT", "3306"),
		DbUser:     envOrDefault("MYSQL_ROOT_USER", "root"),
		DbPassword: envOrDefault("MYSQL_ROOT_PASSWORD", "root"),
		DbParams:   envOrDefault("MYSQL_PARAMS", "parseTime=true&loc=UTC&clientFoundRows=true"),
	}
	database := envOrDefault("MYSQL_TEST_DATABASE", envOrDefault("MYSQL_DATABASE", "tasks")+"_test")

	adminDB, err := dbadapter.ConnectMySQL(conf)
	if err != nil {
		s.T().Skipf("skipping integration suite: could not connect to mysql: %v", err)
	}
	s.adminDB = adminDB

	_, err = s.adminDB.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", database))
	s.Require().NoError(err)

	conf.DbName = database
	s.mysqlConf = conf
	s.testDBName = database
}

func (s *IntegrationSuiteBase) TearDownSuite() {
	// Drop test database to keep local environment clean after integration runs.
	if s.adminDB != nil && s.testDBName != "" && strings.HasSuffix(s.testDBName, "_test") {
		_, err := s.adminDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", s.testDBName))
		s.Require().NoError(err)
	}

	if s.adminDB != nil {
		s.Require().NoError(s.adminDB.Close())
	}
}

func (s *IntegrationSuiteBase) TearDownTest() {
	if s.DB != nil {
		s.Require().NoError(s.DB.Close())
		s.DB = nil
	}
}

// ResetDatabase opens an empty, fully migrated database for the current test.
func (s *IntegrationSuiteBase) ResetDatabase() {
	t := s.T()

	if s.driver == config.DriverMySQL {
		db, err := dbadapter.ConnectMySQL(s.mysqlConf)
		require.NoError(t, err)
		dropTables(t, db)
		s.DB = db
	} else {
		db, err := dbadapter.ConnectSQLite(filepath.Join(t.TempDir(), "integration.db"))
		require.NoError(t, err)
		s.DB = db
	}

	require.NoError(t, dbadapter.Migrate(context.Background(), s.DB))
}

func dropTables(t *testing.T, db *sqlx.DB) {
	t.Helper()

	// Children first so foreign keys never block a drop.
	for _, table := range []string{
		"comments",
		"task_tags",
		"task_history",
		"tasks",
		"password_reset_tokens",
		"sessions",
		"users",
		"schema_migrations",
	} {
		_, err := db.Exec("DROP TABLE IF EXISTS " + table)
		require.NoError(t, err)
	}
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

// recordingNotifier stands in for the asynchronous dispatcher so tests can read what
// would have been delivered.
type recordingNotifier struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, notification domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
}

func (n *recordingNotifier) ofKind(kind domain.NotificationKind) []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []domain.Notification
	for _, notification := range n.notifications {
		if notification.Kind == kind {
			out = append(out, notification)
		}
	}
	return out
}
