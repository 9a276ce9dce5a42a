package testutil

import (
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/restviews/restviews/log"
	"go.uber.org/zap"
)

var session *sqlx.DB

// IntegrationDsn is the PostgreSQL data source of the integration tests, empty
// when they should be skipped.
func IntegrationDsn() string {
	return os.Getenv("RESTVIEWS_TEST_DSN")
}

func IntegrationTestsEnabled() bool {
	return IntegrationDsn() != ""
}

func SetupIntegrationTestFixture(queries ...string) *sqlx.DB {
	var err error
	if session, err = sqlx.Connect("postgres", IntegrationDsn()); err != nil {
		panic(err)
	}

	for _, query := range queries {
		if _, err := session.Exec(query); err != nil {
			panic(err)
		}
	}

	return session
}

func TearDownIntegrationTestFixture(queries ...string) {
	if session == nil {
		return
	}
	for _, query := range queries {
		_, _ = session.Exec(query)
	}
	_ = session.Close()
	session = nil
}

func PanicIfError(err error) {
	if err != nil {
		panic(err)
	}
}

func TestLogger() log.Logger {
	if strings.ToUpper(os.Getenv("TEST_TRACE")) == "ON" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return log.NewZapLogger(logger)
	}

	return log.NewZapLogger(zap.NewNop())
}

type Owner struct {
	Name string `json:"name"`
}

type User struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Age       int       `json:"age" db:"age"`
	Email     *string   `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Owner     *Owner    `json:"owner" db:"-"`
}

// Users returns John (25), Jane (30) and Alice (35) in that order
func Users() []User {
	john := "john@example.com"
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []User{
		{ID: 1, Name: "John", Age: 25, Email: &john, CreatedAt: created, Owner: &Owner{Name: "acme"}},
		{ID: 2, Name: "Jane", Age: 30, CreatedAt: created.AddDate(0, 1, 0), Owner: &Owner{Name: "globex"}},
		{ID: 3, Name: "Alice", Age: 35, CreatedAt: created.AddDate(0, 2, 0)},
	}
}

func Names(users []User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Name)
	}
	return names
}
