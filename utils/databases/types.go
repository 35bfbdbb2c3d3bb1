package databases

import (
	"errors"

	"gorm.io/gorm"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

var ErrUnknownDriver = errors.New("unknown database driver")

type SqlConnection interface {
	GetDB() *gorm.DB
	IsConnected() bool
	Run() error
	Shutdown()
}

// New returns an unopened connection for driver; call Run before use.
func New(driver, dsn string) (SqlConnection, error) {
	switch driver {
	case DriverSqlite, "":
		return NewSqlite(dsn), nil
	case DriverPostgres:
		return NewPostgres(dsn), nil
	default:
		return nil, ErrUnknownDriver
	}
}
