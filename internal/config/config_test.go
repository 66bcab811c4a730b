package config

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"library-lending/internal/adapters/persistence/models"
)

func Test_Load_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DEV_DB_DRIVER", "")
	t.Setenv("LOAN_PERIOD_DAYS", "")
	t.Setenv("FINE_PER_DAY", "")
	t.Setenv("NATS_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, 14, cfg.Lending.LoanPeriodDays)
	assert.Equal(t, 5.0, cfg.Lending.FinePerDay)
	assert.Equal(t, "5 0 * * *", cfg.Lending.OverdueSweepCron)
	assert.Empty(t, cfg.Events.NATSURL)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func Test_Load_ProdPostgres(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("PROD_DB_DRIVER", "Postgres")
	t.Setenv("PROD_DB_PORT", "")
	t.Setenv("LOAN_PERIOD_DAYS", "21")
	t.Setenv("FINE_PER_DAY", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, 21, cfg.Lending.LoanPeriodDays)
	assert.Equal(t, 2.5, cfg.Lending.FinePerDay)
}

func Test_Load_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"app mode", map[string]string{"APP_MODE": "staging"}},
		{"driver", map[string]string{"APP_MODE": "dev", "DEV_DB_DRIVER": "oracle"}},
		{"loan period", map[string]string{"APP_MODE": "dev", "LOAN_PERIOD_DAYS": "two weeks"}},
		{"negative fine", map[string]string{"APP_MODE": "dev", "FINE_PER_DAY": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func Test_BuildDSN(t *testing.T) {
	d := DatabaseConfig{User: "u", Password: "p", Host: "db", Port: "3306", DBName: "library"}

	assert.Equal(t, "u:p@tcp(db:3306)/library?charset=utf8mb4&parseTime=True&loc=UTC", buildMySQLDSN(d))
	assert.Contains(t, buildPostgresDSN(d), "TimeZone=UTC")

	_, err := buildDialector(DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func Test_Seeder_RunsOnce(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))

	seeder := NewSeeder(db)
	require.NoError(t, seeder.Run())
	require.NoError(t, seeder.Run())

	var books, members int64
	require.NoError(t, db.Model(&models.Book{}).Count(&books).Error)
	require.NoError(t, db.Model(&models.Member{}).Count(&members).Error)
	assert.Equal(t, int64(3), books)
	assert.Equal(t, int64(2), members)
}
