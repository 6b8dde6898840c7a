package storage

import (
	"math/rand/v2"
	"sync"
	"time"

	"pocketprc/internal/config"
	"pocketprc/internal/util/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
	connMaxIdleTime = 5 * time.Minute
)

var (
	db   *gorm.DB
	once sync.Once
)

func GetDb() *gorm.DB {
	once.Do(func() {
		log := logger.GetLogger()

		conn, err := gorm.Open(postgres.Open(config.GetEnv().DatabaseDsn), &gorm.Config{
			Logger:         gorm_logger.Default.LogMode(gorm_logger.Silent),
			TranslateError: true,
			NowFunc:        func() time.Time { return time.Now().UTC() },
		})
		if err != nil {
			log.Error("Failed to connect to database", "error", err)
			panic(err)
		}

		sqlDb, err := conn.DB()
		if err != nil {
			log.Error("Failed to get database handle", "error", err)
			panic(err)
		}

		sqlDb.SetMaxOpenConns(maxOpenConns)
		sqlDb.SetMaxIdleConns(maxIdleConns)
		sqlDb.SetConnMaxLifetime(jitteredDuration(connMaxLifetime))
		sqlDb.SetConnMaxIdleTime(connMaxIdleTime)

		db = conn
	})

	return db
}

// GetDbOr returns tx when the caller runs inside a transaction.
func GetDbOr(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}

	return GetDb()
}

// jitteredDuration spreads connection recycling so the pool does not
// reconnect all at once.
func jitteredDuration(base time.Duration) time.Duration {
	jitter := time.Duration(rand.Int64N(int64(base / 10)))
	return base + jitter
}
