package databases

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type postgresConnection struct {
	dsn string
	db  *gorm.DB
}

func NewPostgres(dsn string) SqlConnection {
	return &postgresConnection{dsn: dsn}
}

func (c *postgresConnection) GetDB() *gorm.DB {
	return c.db
}

func (c *postgresConnection) IsConnected() bool {
	return ping(c.db)
}

func (c *postgresConnection) Run() error {
	db, err := gorm.Open(postgres.Open(c.dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Error)})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	dbSQL, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database: %w", err)
	}
	dbSQL.SetMaxOpenConns(25)
	dbSQL.SetMaxIdleConns(5)
	dbSQL.SetConnMaxLifetime(5 * time.Minute)

	if err := dbSQL.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	c.db = db
	log.Info().Msg("Connected to Postgres")
	return nil
}

func (c *postgresConnection) Shutdown() {
	log.Info().Msg("Shutdown the connection to Postgres")
	closeDB(c.db)
}
